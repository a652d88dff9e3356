package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewOrder đơn trong kho chờ (collection new_orders).
// StaffID rỗng khi đơn chưa có người nhận.
type NewOrder struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ProductID       string             `json:"productId" bson:"productId" index:"single:1"`
	OrderCode       string             `json:"orderCode" bson:"orderCode" index:"unique"`
	StaffID         string             `json:"staffID" bson:"staffID" index:"single:1,compound:staff_created"`
	ClaimedAt       int64              `json:"claimedAt" bson:"claimedAt"`
	IsMorningBatch  bool               `json:"isMorningBatch" bson:"isMorningBatch"`
	Original        OrderSnapshot      `json:"original" bson:"original"`
	Final           OrderSnapshot      `json:"final" bson:"final"`
	DeliveryDetails DeliveryDetails    `json:"deliveryDetails" bson:"deliveryDetails"`
	StockAdjusted   bool               `json:"stockAdjusted" bson:"stockAdjusted"`
	CreatedAt       int64              `json:"createdAt" bson:"createdAt" index:"single:1,compound:staff_created"`
	UpdatedAt       int64              `json:"updatedAt" bson:"updatedAt"`
}

// ToShopOrder tạo bản đơn đã giao cho nhân viên từ đơn trong kho.
// Bản mới không mang _id cũ, thời điểm tạo giữ nguyên để thứ tự cũ-trước vẫn đúng.
func (o NewOrder) ToShopOrder(staffID string, userID primitive.ObjectID, staffName string, claimedAt int64, morning bool) ShopOrder {
	final := o.Final
	final.Staff = staffName
	return ShopOrder{
		ProductID:       o.ProductID,
		OrderCode:       o.OrderCode,
		StaffID:         staffID,
		UserID:          userID,
		ClaimedAt:       claimedAt,
		IsMorningBatch:  morning,
		Original:        o.Original,
		Final:           final,
		DeliveryDetails: o.DeliveryDetails,
		StockAdjusted:   o.StockAdjusted,
		PoolCreatedAt:   o.CreatedAt,
	}
}
