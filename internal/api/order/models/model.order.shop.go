package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShopOrder đơn đã giao cho một nhân viên (collection shop_orders)
type ShopOrder struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ProductID       string             `json:"productId" bson:"productId"`
	OrderCode       string             `json:"orderCode" bson:"orderCode" index:"unique"`
	StaffID         string             `json:"staffID" bson:"staffID" index:"single:1,compound:staff_morning_created"`
	UserID          primitive.ObjectID `json:"userId" bson:"userId" index:"single:1"`
	ClaimedAt       int64              `json:"claimedAt" bson:"claimedAt"`
	IsMorningBatch  bool               `json:"isMorningBatch" bson:"isMorningBatch" index:"compound:staff_morning_created"`
	Original        OrderSnapshot      `json:"original" bson:"original"`
	Final           OrderSnapshot      `json:"final" bson:"final"`
	DeliveryDetails DeliveryDetails    `json:"deliveryDetails" bson:"deliveryDetails"`
	StockAdjusted   bool               `json:"stockAdjusted" bson:"stockAdjusted"`
	HistoryChanged  []HistoryChange    `json:"historyChanged,omitempty" bson:"historyChanged,omitempty"`
	PoolCreatedAt   int64              `json:"poolCreatedAt,omitempty" bson:"poolCreatedAt,omitempty"` // Thời điểm đơn vào kho, 0 nếu giao ngay
	CreatedAt       int64              `json:"createdAt" bson:"createdAt" index:"single:-1,compound:staff_morning_created"`
	UpdatedAt       int64              `json:"updatedAt" bson:"updatedAt"`
}
