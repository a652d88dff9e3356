// Package router đăng ký các route domain nhân viên.
package router

import (
	"github.com/gofiber/fiber/v3"

	apirouter "shop_ops/internal/api/router"
	staffhdl "shop_ops/internal/api/staff/handler"
)

// Register trả về hàm đăng ký route nhân viên lên v1.
func Register(h *staffhdl.StaffHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		// Đăng ký trước group /staff để không đi qua middleware xác thực
		apirouter.RegisterRouteWithMiddleware(v1, "/staff-status", "GET", "", r.Public(), h.HandleStatus)

		protected := r.Protected()
		apirouter.RegisterRouteWithMiddleware(v1, "/staff", "POST", "/add", protected, h.HandleCreate)
		apirouter.RegisterRouteWithMiddleware(v1, "/staff", "POST", "/update-salary", protected, h.HandleUpdateSalary)
		apirouter.RegisterRouteWithMiddleware(v1, "/staff", "GET", "", protected, h.HandleList)
		apirouter.RegisterRouteWithMiddleware(v1, "/staff", "GET", "/:staffID", protected, h.HandleFindOne)
		apirouter.RegisterRouteWithMiddleware(v1, "/staff", "PUT", "/:staffID", protected, h.HandleUpdate)
		apirouter.RegisterRouteWithMiddleware(v1, "/staff", "DELETE", "/:id", protected, h.HandleDelete)

		apirouter.RegisterRouteWithMiddleware(v1, "/ping", "POST", "", protected, h.HandlePing)
		return nil
	}
}
