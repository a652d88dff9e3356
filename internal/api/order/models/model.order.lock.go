package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Loại khóa phân phối
const (
	LockTypeMorningClaim = "morning-claim"
)

// RedistributionLock bản ghi khóa theo ngày nghiệp vụ.
// PerStaff và Leftover chỉ tính một lần khi tạo, không tính lại trong ngày.
type RedistributionLock struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Date           string             `json:"date" bson:"date" index:"unique"` // YYYY-MM-DD theo giờ nghiệp vụ
	Type           string             `json:"type" bson:"type"`
	PerStaff       int                `json:"perStaff" bson:"perStaff"`
	Leftover       int                `json:"leftover" bson:"leftover"`
	IsRedistribute bool               `json:"isRedistribute" bson:"isRedistribute"`
	TriggeredBy    string             `json:"triggeredBy,omitempty" bson:"triggeredBy,omitempty"`
	TriggeredAt    int64              `json:"triggeredAt,omitempty" bson:"triggeredAt,omitempty"`
	CreatedAt      int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64              `json:"updatedAt" bson:"updatedAt"`
}
