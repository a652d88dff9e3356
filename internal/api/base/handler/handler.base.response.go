package basehdl

import (
	"errors"
	"fmt"

	"shop_ops/internal/common"
	"shop_ops/internal/global"
	"shop_ops/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// JSONResponse trả về JSON response với Content-Type: application/json; charset=utf-8
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// SafeHandlerWrapper bọc handler với recover, panic được trả về như lỗi hệ thống
func SafeHandlerWrapper(c fiber.Ctx, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithRequest(c).WithField("panic", r).Error("Handler panic")
			err = HandleErrorResponse(c, common.NewError(
				common.ErrCodeInternalServer,
				fmt.Sprintf("Lỗi hệ thống không mong muốn: %v", r),
				common.StatusInternalServerError,
				nil,
			))
		}
	}()
	return fn()
}

// HandleResponse chuẩn hóa response: lỗi thì trả envelope lỗi, không thì 200 với data
func HandleResponse(c fiber.Ctx, data interface{}, err error) error {
	if err != nil {
		return HandleErrorResponse(c, err)
	}
	return JSONResponse(c, common.StatusOK, fiber.Map{
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    data,
		"status":  "success",
	})
}

// HandleCreated trả về 201 với data
func HandleCreated(c fiber.Ctx, data interface{}) error {
	return JSONResponse(c, common.StatusCreated, fiber.Map{
		"code":    common.StatusCreated,
		"message": common.MsgCreated,
		"data":    data,
		"status":  "success",
	})
}

// HandleErrorResponse trả envelope lỗi. Lỗi không phải *common.Error được coi là lỗi hệ thống.
func HandleErrorResponse(c fiber.Ctx, err error) error {
	var customErr *common.Error
	if errors.As(err, &customErr) {
		if customErr.StatusCode >= common.StatusInternalServerError {
			logger.WithRequest(c).WithError(err).Error("Request thất bại")
		}
		return JSONResponse(c, customErr.StatusCode, fiber.Map{
			"code":    customErr.Code.Code,
			"message": customErr.Message,
			"details": detailsOf(customErr),
			"status":  "error",
		})
	}
	logger.WithRequest(c).WithError(err).Error("Request thất bại")
	return JSONResponse(c, common.StatusInternalServerError, fiber.Map{
		"code":    common.ErrCodeInternalServer.Code,
		"message": common.MsgInternalError,
		"status":  "error",
	})
}

// detailsOf không để lộ lỗi driver ra client
func detailsOf(e *common.Error) interface{} {
	if _, isErr := e.Details.(error); isErr {
		return nil
	}
	return e.Details
}

// ParseRequestBody bind body vào input rồi validate bằng global.Validate
func ParseRequestBody(c fiber.Ctx, input interface{}) error {
	if err := c.Bind().Body(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat,
			"Dữ liệu gửi lên không đúng định dạng JSON", common.StatusBadRequest, nil)
	}
	if global.Validate != nil {
		if err := global.Validate.Struct(input); err != nil {
			return common.NewError(common.ErrCodeValidationInput,
				fmt.Sprintf("Dữ liệu không hợp lệ: %v", err), common.StatusBadRequest, nil)
		}
	}
	return nil
}
