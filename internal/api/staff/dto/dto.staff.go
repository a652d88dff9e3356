// Package dto - DTO cho domain nhân viên.
package dto

import (
	staffmodels "shop_ops/internal/api/staff/models"
)

// StaffCreateInput dữ liệu tạo nhân viên. userId lấy từ token.
type StaffCreateInput struct {
	StaffID    string                `json:"staffID" validate:"required,no_xss,max=64"`
	Role       string                `json:"role" validate:"required,staff_role"`
	Salary     float64               `json:"salary" validate:"gte=0"`
	JoinedDate string                `json:"joinedDate"`
	StaffInfo  staffmodels.StaffInfo `json:"staffInfo" validate:"required"`
	BankInfos  staffmodels.BankInfo  `json:"bankInfos"`
}

// StaffUpdateInput cập nhật hồ sơ, field rỗng giữ nguyên
type StaffUpdateInput struct {
	Role       string                 `json:"role" bson:"role,omitempty" validate:"omitempty,staff_role"`
	Salary     *float64               `json:"salary" bson:"salary,omitempty" validate:"omitempty,gte=0"`
	JoinedDate string                 `json:"joinedDate" bson:"joinedDate,omitempty"`
	QuitDate   string                 `json:"quitDate" bson:"quitDate,omitempty"`
	StaffInfo  *staffmodels.StaffInfo `json:"staffInfo" bson:"staffInfo,omitempty"`
	BankInfos  *staffmodels.BankInfo  `json:"bankInfos" bson:"bankInfos,omitempty"`
}

// SalaryUpdateInput thay bản ghi lương của một tháng
type SalaryUpdateInput struct {
	StaffID string                   `json:"staffID" validate:"required"`
	Record  staffmodels.SalaryRecord `json:"record" validate:"required"`
}

// StaffStatus trạng thái online tính theo lần ping gần nhất
type StaffStatus struct {
	StaffID  string `json:"staffID"`
	Name     string `json:"name"`
	IsOnline bool   `json:"isOnline"`
	LastSeen int64  `json:"lastSeen"`
}
