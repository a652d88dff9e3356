package global

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Các role nhân viên hợp lệ
var StaffRoles = []string{"Director", "Manager", "Sale-Staff", "Security", "Packer"}

var monthKeyPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// InitValidator khởi tạo và đăng ký các custom validator
func InitValidator() {
	Validate = validator.New()

	_ = Validate.RegisterValidation("no_xss", validateNoXSS)
	_ = Validate.RegisterValidation("month_key", validateMonthKey)
	_ = Validate.RegisterValidation("staff_role", validateStaffRole)
}

// validateNoXSS kiểm tra XSS
func validateNoXSS(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())
	dangerousPatterns := []string{
		"<script",
		"javascript:",
		"onerror=",
		"onload=",
		"onclick=",
		"eval(",
		"document.cookie",
		"<iframe",
		"<object",
		"<embed",
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return false
		}
	}
	return true
}

// validateMonthKey kiểm tra định dạng tháng YYYY-MM
func validateMonthKey(fl validator.FieldLevel) bool {
	return IsMonthKey(fl.Field().String())
}

// IsMonthKey trả về true nếu s có dạng YYYY-MM
func IsMonthKey(s string) bool {
	return monthKeyPattern.MatchString(s)
}

// validateStaffRole kiểm tra role nằm trong danh sách cho phép
func validateStaffRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, role := range StaffRoles {
		if value == role {
			return true
		}
	}
	return false
}
