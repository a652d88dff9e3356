// Package models - Model nhân viên: hồ sơ, trạng thái online, lịch sử lương theo tháng.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các vai trò nhân viên
const (
	RoleDirector  = "Director"
	RoleManager   = "Manager"
	RoleSaleStaff = "Sale-Staff"
	RoleSecurity  = "Security"
	RolePacker    = "Packer"
)

// StaffInfo thông tin cá nhân
type StaffInfo struct {
	Name               string `json:"name" bson:"name" validate:"required,no_xss"`
	Birthday           string `json:"birthday" bson:"birthday"`
	Address            string `json:"address" bson:"address" validate:"omitempty,no_xss"`
	Phone              string `json:"phone" bson:"phone"`
	RelationshipStatus string `json:"relationshipStatus" bson:"relationshipStatus"`
	Religion           string `json:"religion" bson:"religion"`
	Description        string `json:"description" bson:"description" validate:"omitempty,no_xss"`
	IdentityID         string `json:"identityId" bson:"identityId"`
	AccountLogin       string `json:"accountLogin" bson:"accountLogin"`
}

// BankInfo tài khoản nhận lương
type BankInfo struct {
	BankAccountNumber string `json:"bankAccountNumber" bson:"bankAccountNumber"`
	BankOwnerName     string `json:"bankOwnerName" bson:"bankOwnerName"`
	BankName          string `json:"bankName" bson:"bankName"`
	BankShortName     string `json:"bankShortName" bson:"bankShortName"`
	BankCode          string `json:"bankCode" bson:"bankCode"`
}

// Adjustment khoản phạt hoặc thưởng
type Adjustment struct {
	Note  string  `json:"note" bson:"note"`
	Value float64 `json:"value" bson:"value"`
}

// Overtime giờ làm thêm
type Overtime struct {
	TotalTime float64 `json:"totalTime" bson:"totalTime"`
	Value     float64 `json:"value" bson:"value"`
	Note      string  `json:"note" bson:"note"`
}

// SalaryRecord kết quả làm việc trong một tháng
type SalaryRecord struct {
	Time                   string     `json:"time" bson:"time" validate:"required,month_key"` // YYYY-MM
	BaseSalary             float64    `json:"baseSalary" bson:"baseSalary"`
	TotalCloseOrder        int        `json:"totalCloseOrder" bson:"totalCloseOrder" validate:"gte=0"`
	TotalDistributionOrder int        `json:"totalDistributionOrder" bson:"totalDistributionOrder" validate:"gte=0"`
	TotalDeliverySuccess   int        `json:"totalDeliverySuccess" bson:"totalDeliverySuccess"`
	TotalDeliveryReturned  int        `json:"totalDeliveryReturned" bson:"totalDeliveryReturned"`
	TotalRevenue           float64    `json:"totalRevenue" bson:"totalRevenue"`
	IsPaid                 bool       `json:"isPaid" bson:"isPaid"`
	Fine                   Adjustment `json:"fine" bson:"fine"`
	Bonus                  Adjustment `json:"bonus" bson:"bonus"`
	Overtime               Overtime   `json:"overtime" bson:"overtime"`
}

// Staff nhân viên (collection staffs)
type Staff struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID         primitive.ObjectID `json:"userId" bson:"userId" index:"single:1"`
	Role           string             `json:"role" bson:"role" index:"single:1,compound:role_online"`
	StaffID        string             `json:"staffID" bson:"staffID" index:"unique"`
	Salary         float64            `json:"salary" bson:"salary"`
	JoinedDate     string             `json:"joinedDate" bson:"joinedDate"`
	QuitDate       string             `json:"quitDate,omitempty" bson:"quitDate,omitempty"`
	IsOnline       bool               `json:"isOnline" bson:"isOnline" index:"compound:role_online"`
	LastSeen       int64              `json:"lastSeen" bson:"lastSeen"`
	ClaimedAt      int64              `json:"claimedAt" bson:"claimedAt"`
	IsMorningBatch bool               `json:"isMorningBatch" bson:"isMorningBatch"`
	StaffInfo      StaffInfo          `json:"staffInfo" bson:"staffInfo"`
	DiligenceCount int                `json:"diligenceCount" bson:"diligenceCount"`
	BankInfos      BankInfo           `json:"bankInfos" bson:"bankInfos"`
	SalaryHistory  []SalaryRecord     `json:"salaryHistory" bson:"salaryHistory"`
	CreatedAt      int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64              `json:"updatedAt" bson:"updatedAt"`
}

// Name tên hiển thị, dùng khi ghi vào đơn
func (s Staff) Name() string {
	return s.StaffInfo.Name
}

// SalaryFor trả về bản ghi lương của tháng month
func (s Staff) SalaryFor(month string) (SalaryRecord, bool) {
	for _, r := range s.SalaryHistory {
		if r.Time == month {
			return r, true
		}
	}
	return SalaryRecord{}, false
}
