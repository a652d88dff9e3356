// Package router - Router dùng chung: prefix API, đăng ký route kèm middleware, ghép router của từng domain.
package router

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

// ============================================================================
// ⚠️ Fiber v3: middleware truyền trực tiếp vào router.Get(path, mw, handler)
// không được gọi. Luôn đăng ký qua RegisterRouteWithMiddleware (dùng .Use()).
// ============================================================================

// Router giữ app và middleware xác thực dùng chung cho các domain
type Router struct {
	app  *fiber.App
	auth fiber.Handler
}

// RoutePrefix chứa các prefix cơ bản cho API
type RoutePrefix struct {
	Base string // /api
	V1   string // /api/v1
}

// NewRoutePrefix tạo RoutePrefix với giá trị mặc định
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

// NewRouter tạo Router. auth là middleware JWT, nil thì route được bảo vệ vẫn mở (dùng trong test).
func NewRouter(app *fiber.App, auth fiber.Handler) *Router {
	return &Router{
		app:  app,
		auth: auth,
	}
}

// Protected middleware cho route cần đăng nhập
func (r *Router) Protected() []fiber.Handler {
	if r.auth == nil {
		return nil
	}
	return []fiber.Handler{r.auth}
}

// Public không có middleware
func (r *Router) Public() []fiber.Handler {
	return nil
}

// RegisterRouteWithMiddleware đăng ký route với middleware (cách đúng theo Fiber v3). Dùng từ domain router.
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	// Group theo prefix, middleware chỉ áp dụng cho route trong group
	routeGroup := router.Group(prefix)
	for _, mw := range middlewares {
		routeGroup.Use(mw)
	}

	switch strings.ToUpper(method) {
	case "GET":
		routeGroup.Get(path, handler)
	case "POST":
		routeGroup.Post(path, handler)
	case "PUT":
		routeGroup.Put(path, handler)
	case "DELETE":
		routeGroup.Delete(path, handler)
	}
}

// RegisterFunc là hàm đăng ký route của một domain (do domain/router export).
type RegisterFunc func(v1 fiber.Router, r *Router) error

// SetupRoutes thiết lập tất cả các route cho ứng dụng. Caller truyền lần lượt Register của từng domain để tránh import cycle.
func SetupRoutes(app *fiber.App, auth fiber.Handler, regs ...RegisterFunc) error {
	prefix := NewRoutePrefix()
	v1 := app.Group(prefix.V1)
	r := NewRouter(app, auth)
	for _, reg := range regs {
		if err := reg(v1, r); err != nil {
			return err
		}
	}
	return nil
}
