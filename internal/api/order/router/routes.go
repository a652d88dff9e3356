// Package router đăng ký các route thuộc domain đơn hàng: tạo đơn, nhận đơn sáng, phân phối lại, danh sách đơn.
package router

import (
	"github.com/gofiber/fiber/v3"

	orderhdl "shop_ops/internal/api/order/handler"
	apirouter "shop_ops/internal/api/router"
)

// Register trả về hàm đăng ký route đơn hàng lên v1.
// Route công khai đăng ký trước group có middleware cùng tiền tố.
func Register(h *orderhdl.OrderHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		// POST /new-order: landing page gửi đơn, giao ngay theo round robin
		apirouter.RegisterRouteWithMiddleware(v1, "/new-order", "POST", "", r.Public(), h.HandleCreateNewOrder)

		protected := r.Protected()

		// POST /new-orders/claim-morning, body: staffID, userId
		apirouter.RegisterRouteWithMiddleware(v1, "/new-orders", "POST", "/claim-morning", protected, h.HandleClaimMorning)
		// POST /new-orders/redistribute, body: staffID?, userId?
		apirouter.RegisterRouteWithMiddleware(v1, "/new-orders", "POST", "/redistribute", protected, h.HandleRedistribute)
		// GET /new-orders/manager-stats
		apirouter.RegisterRouteWithMiddleware(v1, "/new-orders", "GET", "/manager-stats", protected, h.HandleManagerStats)
		// GET /new-orders?page&limit
		apirouter.RegisterRouteWithMiddleware(v1, "/new-orders", "GET", "", protected, h.HandleListPending)

		// GET /top-closer/:month
		apirouter.RegisterRouteWithMiddleware(v1, "/top-closer", "GET", "/:month", protected, h.HandleTopCloser)

		// GET /shop-orders?staffID&page&limit
		apirouter.RegisterRouteWithMiddleware(v1, "/shop-orders", "GET", "", protected, h.HandleListAssigned)
		// PUT /shop-orders/:id/status, body: status, confirmed, deliveryStatus
		apirouter.RegisterRouteWithMiddleware(v1, "/shop-orders", "PUT", "/:id/status", protected, h.HandleUpdateStatus)

		return nil
	}
}
