// Package orderhdl - Handler đơn hàng: tạo đơn, nhận đơn sáng, phân phối lại, thống kê, danh sách đơn.
package orderhdl

import (
	"fmt"
	"strconv"

	"shop_ops/internal/api/middleware"
	basehdl "shop_ops/internal/api/base/handler"
	orderdto "shop_ops/internal/api/order/dto"
	ordersvc "shop_ops/internal/api/order/service"
	"shop_ops/internal/clock"
	"shop_ops/internal/common"
	"shop_ops/internal/distribution"
	"shop_ops/internal/global"
	"shop_ops/internal/utility"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderHandler xử lý các route phân phối đơn
type OrderHandler struct {
	Engine  *distribution.Engine
	Store   *ordersvc.OrderStore
	Counter *ordersvc.CounterService
}

// NewOrderHandler tạo OrderHandler mới
func NewOrderHandler(engine *distribution.Engine, store *ordersvc.OrderStore, counter *ordersvc.CounterService) (*OrderHandler, error) {
	if engine == nil || store == nil || counter == nil {
		return nil, fmt.Errorf("thiếu engine hoặc service đơn hàng: %w", common.ErrInvalidInput)
	}
	return &OrderHandler{Engine: engine, Store: store, Counter: counter}, nil
}

// HandleCreateNewOrder xử lý POST /new-order: tạo đơn và giao ngay nếu có nhân viên online.
func (h *OrderHandler) HandleCreateNewOrder(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input orderdto.NewOrderInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleErrorResponse(c, err)
		}
		if input.BuyerIP == "" {
			input.BuyerIP = c.IP()
		}

		order, err := ordersvc.PrepareNewOrder(c.Context(), h.Counter, input)
		if err != nil {
			return basehdl.HandleErrorResponse(c, common.NewPersistenceError("cấp mã đơn", err))
		}
		result, err := h.Engine.AssignOrder(c.Context(), order)
		return basehdl.HandleResponse(c, result, err)
	})
}

// HandleClaimMorning xử lý POST /new-orders/claim-morning.
func (h *OrderHandler) HandleClaimMorning(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input orderdto.ClaimMorningInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleErrorResponse(c, err)
		}

		req := distribution.ClaimRequest{StaffID: input.StaffID}
		if input.UserID != "" {
			id, err := utility.ParseObjectID(input.UserID)
			if err != nil {
				return basehdl.HandleErrorResponse(c, common.NewError(common.ErrCodeValidationFormat,
					"userId không hợp lệ", common.StatusBadRequest, nil))
			}
			req.UserID = id
		} else if id, ok := middleware.UserID(c); ok {
			req.UserID = id
		}

		result, err := h.Engine.ClaimMorning(c.Context(), req)
		return basehdl.HandleResponse(c, result, err)
	})
}

// HandleRedistribute xử lý POST /new-orders/redistribute. Body không bắt buộc.
func (h *OrderHandler) HandleRedistribute(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input orderdto.RedistributeInput
		if len(c.Body()) > 0 {
			if err := basehdl.ParseRequestBody(c, &input); err != nil {
				return basehdl.HandleErrorResponse(c, err)
			}
		}
		triggeredBy := input.StaffID
		if triggeredBy == "" {
			triggeredBy = middleware.Username(c)
		}

		result, err := h.Engine.Redistribute(c.Context(), distribution.RedistributeRequest{TriggeredBy: triggeredBy})
		return basehdl.HandleResponse(c, result, err)
	})
}

// HandleManagerStats xử lý GET /new-orders/manager-stats.
func (h *OrderHandler) HandleManagerStats(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		stats, err := h.Engine.ManagerStats(c.Context())
		return basehdl.HandleResponse(c, stats, err)
	})
}

// HandleTopCloser xử lý GET /top-closer/:month (YYYY-MM).
func (h *OrderHandler) HandleTopCloser(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		month := c.Params("month")
		if !global.IsMonthKey(month) {
			return basehdl.HandleErrorResponse(c, common.NewError(common.ErrCodeValidationFormat,
				"Tháng phải có dạng YYYY-MM", common.StatusBadRequest, nil))
		}
		result, err := h.Engine.TopCloser(c.Context(), clock.MonthKey(month))
		return basehdl.HandleResponse(c, result, err)
	})
}

// HandleListPending xử lý GET /new-orders?page&limit.
func (h *OrderHandler) HandleListPending(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		page, limit := pageQuery(c)
		result, err := h.Store.ListPending(c.Context(), page, limit)
		return basehdl.HandleResponse(c, result, err)
	})
}

// HandleListAssigned xử lý GET /shop-orders?staffID&page&limit. Không phải admin chỉ thấy đơn của mình.
func (h *OrderHandler) HandleListAssigned(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		owner, err := ownerOf(c)
		if err != nil {
			return basehdl.HandleErrorResponse(c, err)
		}
		page, limit := pageQuery(c)
		result, err := h.Store.Shop.ListAssigned(c.Context(), c.Query("staffID"), owner, page, limit)
		return basehdl.HandleResponse(c, result, err)
	})
}

// HandleUpdateStatus xử lý PUT /shop-orders/:id/status.
func (h *OrderHandler) HandleUpdateStatus(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := utility.ParseObjectID(c.Params("id"))
		if err != nil {
			return basehdl.HandleErrorResponse(c, common.NewError(common.ErrCodeValidationFormat,
				"id đơn không hợp lệ", common.StatusBadRequest, nil))
		}
		owner, err := ownerOf(c)
		if err != nil {
			return basehdl.HandleErrorResponse(c, err)
		}
		var input orderdto.UpdateStatusInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleErrorResponse(c, err)
		}

		changedBy := middleware.Username(c)
		if changedBy == "" {
			changedBy = c.IP()
		}
		updated, err := h.Store.Shop.UpdateStatus(c.Context(), id, owner, changedBy, input)
		return basehdl.HandleResponse(c, updated, err)
	})
}

// ownerOf userId dùng để giới hạn dữ liệu, NilObjectID với admin
func ownerOf(c fiber.Ctx) (primitive.ObjectID, error) {
	if middleware.IsAdmin(c) {
		return primitive.NilObjectID, nil
	}
	id, ok := middleware.UserID(c)
	if !ok {
		return primitive.NilObjectID, common.ErrTokenInvalid
	}
	return id, nil
}

func pageQuery(c fiber.Ctx) (int64, int64) {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)
	return page, limit
}
