// Package middleware - Middleware xác thực JWT cho các route của nhân viên.
package middleware

import (
	"errors"
	"strings"

	basehdl "shop_ops/internal/api/base/handler"
	"shop_ops/internal/common"
	"shop_ops/internal/logger"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Khóa lưu trong c.Locals
const (
	LocalUserID    = "user_id"
	LocalStaffRole = "staff_role"
	LocalClaims    = "claims"
)

// RoleAdmin role trong token được xem toàn bộ dữ liệu
const RoleAdmin = "admin"

var (
	errTokenNotFound = common.NewError(common.ErrCodeAuthToken, "Không có token người dùng tìm thấy", common.StatusUnauthorized, nil)
	errTokenRetry    = common.NewError(common.ErrCodeAuthToken, "Hãy thử đăng nhập lại", common.StatusUnauthorized, nil)
)

// Claims dữ liệu trong JWT do hệ thống đăng nhập cấp
type Claims struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	StaffRole string `json:"staffRole"`
	jwt.StandardClaims
}

// AuthMiddleware kiểm tra header Authorization: Bearer <token> ký HS256 bằng secret
func AuthMiddleware(secret string) fiber.Handler {
	key := []byte(secret)

	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Missing Authorization header")
			return basehdl.HandleErrorResponse(c, errTokenNotFound)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return basehdl.HandleErrorResponse(c, errTokenRetry)
		}

		claims, err := ParseToken(parts[1], key)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Token không hợp lệ")
			return basehdl.HandleErrorResponse(c, errTokenRetry)
		}

		c.Locals(LocalUserID, claims.ID)
		c.Locals(LocalStaffRole, claims.StaffRole)
		c.Locals(LocalClaims, claims)
		c.SetContext(logger.ContextWithIdentity(c.Context(), c.GetRespHeader("X-Request-ID"), claims.Username))
		return c.Next()
	}
}

// ParseToken xác thực chữ ký và hạn của token
func ParseToken(tokenString string, key []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("thuật toán ký không được hỗ trợ")
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.ID == "" {
		return nil, errors.New("token thiếu thông tin người dùng")
	}
	return claims, nil
}

// UserID userId trong token, false nếu không phải ObjectID hợp lệ
func UserID(c fiber.Ctx) (primitive.ObjectID, bool) {
	raw, _ := c.Locals(LocalUserID).(string)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// IsAdmin true khi token mang role admin
func IsAdmin(c fiber.Ctx) bool {
	role, _ := c.Locals(LocalStaffRole).(string)
	return role == RoleAdmin
}

// Username tên đăng nhập trong token, rỗng nếu route không qua AuthMiddleware
func Username(c fiber.Ctx) string {
	if claims, ok := c.Locals(LocalClaims).(*Claims); ok {
		return claims.Username
	}
	return ""
}
