// Package staffhdl - Handler danh bạ nhân viên, lương tháng và trạng thái online.
package staffhdl

import (
	"fmt"

	"shop_ops/internal/api/middleware"
	basehdl "shop_ops/internal/api/base/handler"
	staffdto "shop_ops/internal/api/staff/dto"
	staffsvc "shop_ops/internal/api/staff/service"
	"shop_ops/internal/common"
	"shop_ops/internal/utility"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StaffHandler xử lý các route nhân viên
type StaffHandler struct {
	StaffService *staffsvc.StaffService
}

// NewStaffHandler tạo StaffHandler mới
func NewStaffHandler(svc *staffsvc.StaffService) (*StaffHandler, error) {
	if svc == nil {
		return nil, fmt.Errorf("thiếu staff service: %w", common.ErrInvalidInput)
	}
	return &StaffHandler{StaffService: svc}, nil
}

// caller lấy userId và quyền admin từ token
func caller(c fiber.Ctx) (primitive.ObjectID, bool, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return primitive.NilObjectID, false, common.ErrTokenInvalid
	}
	return id, middleware.IsAdmin(c), nil
}

// HandleCreate xử lý POST /staff/add
func (h *StaffHandler) HandleCreate(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, _, err := caller(c)
		if err != nil {
			return basehdl.HandleErrorResponse(c, err)
		}
		var input staffdto.StaffCreateInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleErrorResponse(c, err)
		}
		staff, err := h.StaffService.Create(c.Context(), input, userID)
		if err != nil {
			return basehdl.HandleErrorResponse(c, err)
		}
		return basehdl.HandleCreated(c, staff)
	})
}

// HandleList xử lý GET /staff
func (h *StaffHandler) HandleList(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, isAdmin, err := caller(c)
		if err != nil {
			return basehdl.HandleErrorResponse(c, err)
		}
		list, err := h.StaffService.List(c.Context(), userID, isAdmin)
		return basehdl.HandleResponse(c, list, err)
	})
}

// HandleFindOne xử lý GET /staff/:staffID
func (h *StaffHandler) HandleFindOne(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, isAdmin, err := caller(c)
		if err != nil {
			return basehdl.HandleErrorResponse(c, err)
		}
		staff, err := h.StaffService.FindByStaffID(c.Context(), c.Params("staffID"))
		if err != nil {
			return basehdl.HandleErrorResponse(c, err)
		}
		if !isAdmin && staff.UserID != userID {
			return basehdl.HandleErrorResponse(c, common.ErrForbidden)
		}
		return basehdl.HandleResponse(c, staff, nil)
	})
}

// HandleUpdate xử lý PUT /staff/:staffID
func (h *StaffHandler) HandleUpdate(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, isAdmin, err := caller(c)
		if err != nil {
			return basehdl.HandleErrorResponse(c, err)
		}
		var input staffdto.StaffUpdateInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleErrorResponse(c, err)
		}
		staff, err := h.StaffService.Update(c.Context(), c.Params("staffID"), userID, isAdmin, input)
		return basehdl.HandleResponse(c, staff, err)
	})
}

// HandleDelete xử lý DELETE /staff/:id
func (h *StaffHandler) HandleDelete(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, isAdmin, err := caller(c)
		if err != nil {
			return basehdl.HandleErrorResponse(c, err)
		}
		id, err := utility.ParseObjectID(c.Params("id"))
		if err != nil {
			return basehdl.HandleErrorResponse(c, common.NewError(common.ErrCodeValidationFormat,
				"id nhân viên không hợp lệ", common.StatusBadRequest, nil))
		}
		if err := h.StaffService.Delete(c.Context(), id, userID, isAdmin); err != nil {
			return basehdl.HandleErrorResponse(c, err)
		}
		return basehdl.HandleResponse(c, fiber.Map{"id": id.Hex()}, nil)
	})
}

// HandleUpdateSalary xử lý POST /staff/update-salary. Chỉ admin.
func (h *StaffHandler) HandleUpdateSalary(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		if !middleware.IsAdmin(c) {
			return basehdl.HandleErrorResponse(c, common.ErrForbidden)
		}
		var input staffdto.SalaryUpdateInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleErrorResponse(c, err)
		}
		staff, err := h.StaffService.ReplaceSalary(c.Context(), input)
		return basehdl.HandleResponse(c, staff, err)
	})
}

// HandlePing xử lý POST /ping: ghi lastSeen cho nhân viên của token
func (h *StaffHandler) HandlePing(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, _, err := caller(c)
		if err != nil {
			return basehdl.HandleErrorResponse(c, err)
		}
		if err := h.StaffService.Ping(c.Context(), userID); err != nil {
			return basehdl.HandleErrorResponse(c, err)
		}
		return basehdl.HandleResponse(c, fiber.Map{"message": "Ping received"}, nil)
	})
}

// HandleStatus xử lý GET /staff-status
func (h *StaffHandler) HandleStatus(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		list, err := h.StaffService.StatusList(c.Context())
		return basehdl.HandleResponse(c, list, err)
	})
}
