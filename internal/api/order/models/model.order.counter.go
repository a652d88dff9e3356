package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Các khóa bộ đếm tách theo namespace để mã sản phẩm không trùng khóa round robin
const (
	RoundRobinPrefix = "round-robin:new-order"
	orderCodeSpace   = "order-code:"
)

// OrderCodePrefix khóa bộ đếm sinh mã đơn của một sản phẩm
func OrderCodePrefix(productID string) string {
	return orderCodeSpace + productID
}

// Counter bộ đếm tuần tự theo prefix
type Counter struct {
	ID     primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Prefix string             `json:"prefix" bson:"prefix" index:"unique"`
	Seq    int64              `json:"seq" bson:"seq"`
}
