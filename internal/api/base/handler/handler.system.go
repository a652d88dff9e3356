// Package basehdl chứa các helper response dùng chung và handler hệ thống.
package basehdl

import (
	"context"
	"time"

	"shop_ops/internal/common"
	"shop_ops/internal/global"

	"github.com/gofiber/fiber/v3"
)

// Pinger kiểm tra kết nối tới một dịch vụ phụ thuộc
type Pinger func(ctx context.Context) error

// SystemHandler xử lý các route liên quan đến system operations
type SystemHandler struct {
	checks map[string]Pinger
}

// NewSystemHandler tạo SystemHandler. MongoDB luôn được kiểm tra, extra là các dịch vụ bổ sung (redis, ...).
func NewSystemHandler(extra map[string]Pinger) *SystemHandler {
	checks := map[string]Pinger{
		"database": func(ctx context.Context) error {
			if global.MongoDB_Session == nil {
				return common.ErrConnection
			}
			return global.MongoDB_Session.Ping(ctx, nil)
		},
	}
	for name, p := range extra {
		checks[name] = p
	}
	return &SystemHandler{checks: checks}
}

// HandleHealth kiểm tra tình trạng hệ thống
// @Summary Kiểm tra tình trạng hệ thống
// @Router /system/health [get]
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	services := fiber.Map{"api": "ok"}
	healthData := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"services":  services,
	}

	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			services[name] = "error"
			healthData["status"] = "degraded"
			continue
		}
		services[name] = "ok"
	}

	if healthData["status"] != "healthy" {
		return JSONResponse(c, common.StatusServiceUnavailable, fiber.Map{
			"code":    common.StatusServiceUnavailable,
			"message": "Hệ thống đang gặp sự cố",
			"data":    healthData,
			"status":  "error",
		})
	}
	return JSONResponse(c, common.StatusOK, fiber.Map{
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    healthData,
		"status":  "success",
	})
}
