package logger

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// ContextKey là type cho context keys
type ContextKey string

const (
	// RequestIDKey là key cho request ID trong context
	RequestIDKey ContextKey = "requestID"
	// StaffIDKey là key cho staffID trong context
	StaffIDKey ContextKey = "staffID"
)

// WithContext trả về logger entry với các field lấy từ context
func WithContext(ctx context.Context) *logrus.Entry {
	return ContextFields(GetAppLogger().WithContext(ctx), ctx)
}

// ContextFields gắn request_id và staff_id trong ctx (nếu có) vào entry sẵn có
func ContextFields(entry *logrus.Entry, ctx context.Context) *logrus.Entry {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		entry = entry.WithField("request_id", requestID)
	}
	if staffID, ok := ctx.Value(StaffIDKey).(string); ok && staffID != "" {
		entry = entry.WithField("staff_id", staffID)
	}
	return entry
}

// ContextWithIdentity gắn request ID và staffID vào ctx để log ở tầng service
func ContextWithIdentity(ctx context.Context, requestID, staffID string) context.Context {
	if requestID != "" {
		ctx = context.WithValue(ctx, RequestIDKey, requestID)
	}
	if staffID != "" {
		ctx = context.WithValue(ctx, StaffIDKey, staffID)
	}
	return ctx
}

// WithRequest trả về logger entry với request context từ Fiber
func WithRequest(c fiber.Ctx) *logrus.Entry {
	entry := GetAppLogger().WithContext(context.Background())

	// requestid middleware set vào Locals, fallback sang header
	var requestID string
	if rid, ok := c.Locals("requestid").(string); ok {
		requestID = rid
	}
	if requestID == "" {
		requestID = c.Get("X-Request-ID")
	}
	if requestID == "" {
		requestID = c.GetRespHeader("X-Request-ID")
	}
	if requestID != "" {
		entry = entry.WithField("request_id", requestID)
	}

	return entry.WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	})
}

// WithFields trả về logger entry với các fields bổ sung
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return GetAppLogger().WithFields(logrus.Fields(fields))
}

// WithError trả về logger entry với error
func WithError(err error) *logrus.Entry {
	return GetAppLogger().WithError(err)
}

// WithModule trả về logger entry với module name (ví dụ: "distribution", "relay", "worker")
func WithModule(module string) *logrus.Entry {
	return GetAppLogger().WithField("module", module)
}

// WithModuleAndCollection trả về logger entry với module và collection
func WithModuleAndCollection(module, collection string) *logrus.Entry {
	return GetAppLogger().WithFields(logrus.Fields{
		"module":     module,
		"collection": collection,
	})
}
