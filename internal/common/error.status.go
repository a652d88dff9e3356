package common

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP Status Code Constants
const (
	StatusOK        = 200 // Thành công
	StatusCreated   = 201 // Tạo mới thành công
	StatusNoContent = 204

	StatusBadRequest      = 400 // Yêu cầu không hợp lệ
	StatusUnauthorized    = 401 // Chưa xác thực
	StatusForbidden       = 403 // Không có quyền truy cập
	StatusNotFound        = 404 // Không tìm thấy tài nguyên
	StatusConflict        = 409 // Xung đột dữ liệu
	StatusTooManyRequests = 429

	StatusInternalServerError = 500 // Lỗi server
	StatusServiceUnavailable  = 503 // Dịch vụ không khả dụng
)

// Response Messages
const (
	MsgSuccess = "Thao tác thành công"
	MsgCreated = "Tạo mới thành công"

	MsgBadRequest      = "Yêu cầu không hợp lệ"
	MsgUnauthorized    = "Vui lòng đăng nhập"
	MsgForbidden       = "Không có quyền truy cập"
	MsgNotFound        = "Không tìm thấy tài nguyên"
	MsgInternalError   = "Lỗi hệ thống"
	MsgValidationError = "Dữ liệu không hợp lệ"
	MsgDatabaseError   = "Lỗi tương tác với cơ sở dữ liệu"
	MsgInvalidFormat   = "Định dạng dữ liệu không hợp lệ"
)

// ErrorCode định nghĩa mã lỗi chi tiết
type ErrorCode struct {
	Code        string // Mã lỗi (ví dụ: DIST_001)
	Category    string // Phân loại lỗi
	SubCategory string // Phân loại con
	Description string // Mô tả chi tiết
}

var (
	// System Errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{Code: "SYS_001", Category: "System", SubCategory: "Internal", Description: "Lỗi hệ thống nội bộ"}

	// Authentication Errors (AUTH_xxx)
	ErrCodeAuthToken = ErrorCode{Code: "AUTH_001", Category: "Authentication", SubCategory: "Token", Description: "Lỗi liên quan đến token"}
	ErrCodeAuthRole  = ErrorCode{Code: "AUTH_003", Category: "Authentication", SubCategory: "Role", Description: "Lỗi liên quan đến vai trò nhân viên"}

	// Validation Errors (VAL_xxx)
	ErrCodeValidationInput  = ErrorCode{Code: "VAL_001", Category: "Validation", SubCategory: "Input", Description: "Lỗi dữ liệu đầu vào"}
	ErrCodeValidationFormat = ErrorCode{Code: "VAL_002", Category: "Validation", SubCategory: "Format", Description: "Lỗi định dạng dữ liệu"}

	// Database Errors (DB_xxx)
	ErrCodeDatabase           = ErrorCode{Code: "DB", Category: "Database", SubCategory: "General", Description: "Lỗi cơ sở dữ liệu chung"}
	ErrCodeDatabaseConnection = ErrorCode{Code: "DB_001", Category: "Database", SubCategory: "Connection", Description: "Lỗi kết nối cơ sở dữ liệu"}
	ErrCodeDatabaseQuery      = ErrorCode{Code: "DB_002", Category: "Database", SubCategory: "Query", Description: "Lỗi truy vấn dữ liệu"}

	// Business Logic Errors (BIZ_xxx)
	ErrCodeBusinessState     = ErrorCode{Code: "BIZ_001", Category: "Business", SubCategory: "State", Description: "Lỗi trạng thái nghiệp vụ"}
	ErrCodeBusinessOperation = ErrorCode{Code: "BIZ_002", Category: "Business", SubCategory: "Operation", Description: "Lỗi thao tác nghiệp vụ"}

	// Distribution Errors (DIST_xxx) - phân phối đơn hàng
	ErrCodeDistPastCutoff = ErrorCode{
		Code:        "DIST_001",
		Category:    "Distribution",
		SubCategory: "Cutoff",
		Description: "Thao tác không hợp lệ so với giờ chốt trong ngày",
	}
	ErrCodeDistAlreadyClaimed = ErrorCode{
		Code:        "DIST_002",
		Category:    "Distribution",
		SubCategory: "Claim",
		Description: "Nhân viên đã nhận đơn trong ngày",
	}
	ErrCodeDistNoStaff = ErrorCode{
		Code:        "DIST_003",
		Category:    "Distribution",
		SubCategory: "Staff",
		Description: "Không có nhân viên sale phù hợp",
	}
	ErrCodeDistNothingToClaim = ErrorCode{
		Code:        "DIST_004",
		Category:    "Distribution",
		SubCategory: "Pool",
		Description: "Kho đơn chờ không còn đơn",
	}
	ErrCodeDistAlreadyRedistributed = ErrorCode{
		Code:        "DIST_005",
		Category:    "Distribution",
		SubCategory: "Lock",
		Description: "Đã phân phối lại trong ngày",
	}
	ErrCodeDistPersistence = ErrorCode{
		Code:        "DIST_006",
		Category:    "Distribution",
		SubCategory: "Persistence",
		Description: "Lỗi lưu trữ khi phân phối đơn",
	}
)

// Error định nghĩa cấu trúc lỗi chi tiết
type Error struct {
	Code       ErrorCode // Mã lỗi chi tiết
	Message    string    // Thông báo lỗi
	StatusCode int       // HTTP status code
	Details    any       // Thông tin chi tiết thêm về lỗi
}

// Error trả về message của lỗi
func (e *Error) Error() string {
	return e.Message
}

// Is so khớp theo mã lỗi và message (hỗ trợ errors.Is)
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if !errors.As(target, &targetErr) {
		return false
	}
	return e.Code.Code == targetErr.Code.Code && e.Message == targetErr.Message
}

// Unwrap trả về lỗi gốc nếu Details là một error
func (e *Error) Unwrap() error {
	if inner, ok := e.Details.(error); ok {
		return inner
	}
	return nil
}

// HasCode kiểm tra err (hoặc lỗi được bọc bên trong) có mang mã lỗi code không
func HasCode(err error, code ErrorCode) bool {
	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Code.Code == code.Code
	}
	return false
}

// NewError tạo một error mới với đầy đủ thông tin
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Custom errors
var (
	ErrTokenExpired = NewError(ErrCodeAuthToken, "Phiên đăng nhập đã hết hạn", StatusUnauthorized, nil)
	ErrTokenInvalid = NewError(ErrCodeAuthToken, "Token không hợp lệ", StatusUnauthorized, nil)
	ErrTokenMissing = NewError(ErrCodeAuthToken, "Thiếu token xác thực", StatusUnauthorized, nil)
	ErrForbidden    = NewError(ErrCodeAuthRole, "Bạn không có quyền thực hiện thao tác này", StatusForbidden, nil)

	ErrInvalidInput  = NewError(ErrCodeValidationInput, "Dữ liệu đầu vào không hợp lệ", StatusBadRequest, nil)
	ErrInvalidFormat = NewError(ErrCodeValidationFormat, "Định dạng dữ liệu không hợp lệ", StatusBadRequest, nil)
	ErrRequiredField = NewError(ErrCodeValidationInput, "Thiếu thông tin bắt buộc", StatusBadRequest, nil)

	ErrNotFound   = NewError(ErrCodeDatabaseQuery, "Không tìm thấy dữ liệu", StatusNotFound, nil)
	ErrDuplicate  = NewError(ErrCodeDatabaseQuery, "Dữ liệu đã tồn tại", StatusConflict, nil)
	ErrConnection = NewError(ErrCodeDatabaseConnection, "Lỗi kết nối cơ sở dữ liệu", StatusServiceUnavailable, nil)

	ErrInvalidState = NewError(ErrCodeBusinessState, "Trạng thái không hợp lệ", StatusBadRequest, nil)

	// Distribution errors. Message giữ nguyên câu hiển thị cho nhân viên.
	ErrClaimPastCutoff     = NewError(ErrCodeDistPastCutoff, "Đơn ngày hôm qua chỉ cập nhật trước 8:30 AM", StatusBadRequest, nil)
	ErrRedistBeforeCutoff  = NewError(ErrCodeDistPastCutoff, "Phân phối lại chỉ được thực hiện sau 8:30", StatusBadRequest, nil)
	ErrAlreadyClaimed      = NewError(ErrCodeDistAlreadyClaimed, "Bạn đã nhận đơn rồi", StatusBadRequest, nil)
	ErrNoSalesStaff        = NewError(ErrCodeDistNoStaff, "Không có nhân viên sale nào được tìm thấy", StatusBadRequest, nil)
	ErrNoActiveStaff       = NewError(ErrCodeDistNoStaff, "Không có nhân viên online để phân phối lại", StatusBadRequest, nil)
	ErrNothingToClaim      = NewError(ErrCodeDistNothingToClaim, "Không có đơn mới nào trong ngày hôm qua", StatusOK, nil)
	ErrNothingUnclaimed    = NewError(ErrCodeDistNothingToClaim, "Không còn đơn nào để nhận", StatusOK, nil)
	ErrAlreadyRedistribute = NewError(ErrCodeDistAlreadyRedistributed, "Đã phân phối lại trong ngày", StatusOK, nil)
)

// NewPersistenceError bọc lỗi lưu trữ phát sinh trong quá trình phân phối đơn
func NewPersistenceError(op string, err error) error {
	return NewError(ErrCodeDistPersistence, "Lỗi lưu trữ khi "+op, StatusInternalServerError, err)
}

// MongoDB Error Messages
const (
	MsgMongoConnection = "Lỗi kết nối MongoDB"
	MsgMongoNetwork    = "Lỗi mạng khi kết nối MongoDB"
	MsgMongoTimeout    = "Kết nối MongoDB bị timeout"
	MsgMongoQuery      = "Lỗi truy vấn MongoDB"
	MsgMongoWrite      = "Lỗi ghi dữ liệu MongoDB"
	MsgMongoDuplicate  = "Dữ liệu trùng lặp trong MongoDB"
	MsgMongoSystem     = "Lỗi hệ thống MongoDB"
)

var (
	ErrMongoConnection = NewError(ErrCodeDatabaseConnection, MsgMongoConnection, StatusServiceUnavailable, nil)
	ErrMongoNetwork    = NewError(ErrCodeDatabaseConnection, MsgMongoNetwork, StatusServiceUnavailable, nil)
	ErrMongoTimeout    = NewError(ErrCodeDatabaseConnection, MsgMongoTimeout, StatusServiceUnavailable, nil)
	ErrMongoQuery      = NewError(ErrCodeDatabaseQuery, MsgMongoQuery, StatusInternalServerError, nil)
	ErrMongoWrite      = NewError(ErrCodeDatabaseQuery, MsgMongoWrite, StatusInternalServerError, nil)
	ErrMongoDuplicate  = NewError(ErrCodeDatabaseQuery, MsgMongoDuplicate, StatusConflict, nil)
	ErrMongoSystem     = NewError(ErrCodeDatabase, MsgMongoSystem, StatusInternalServerError, nil)
)

// ConvertMongoError chuyển đổi lỗi MongoDB sang lỗi hệ thống
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	// Không convert lỗi đã là lỗi hệ thống
	var customErr *Error
	if errors.As(err, &customErr) {
		return err
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch {
		case cmdErr.Code >= 100 && cmdErr.Code < 200:
			return ErrMongoConnection
		case cmdErr.Code >= 300 && cmdErr.Code < 400:
			return ErrMongoQuery
		case cmdErr.Code >= 400 && cmdErr.Code < 500:
			return ErrMongoWrite
		case cmdErr.Code >= 500:
			return ErrMongoSystem
		}
	}

	if mongo.IsDuplicateKeyError(err) {
		return ErrMongoDuplicate
	}
	if mongo.IsNetworkError(err) {
		return ErrMongoNetwork
	}
	if mongo.IsTimeout(err) {
		return ErrMongoTimeout
	}

	return NewError(ErrCodeDatabase, MsgDatabaseError, StatusInternalServerError, err)
}
