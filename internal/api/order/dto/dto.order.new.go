// Package dto - DTO cho domain đơn hàng (tạo đơn, nhận đơn sáng, phân phối lại, cập nhật trạng thái).
package dto

import (
	ordermodels "shop_ops/internal/api/order/models"
)

// NewOrderInput dữ liệu đơn gửi từ landing page / kênh bán.
// total, totalProduct, totalWeight bằng 0 thì tự tính từ orderInfo.
type NewOrderInput struct {
	ProductID      string                  `json:"productId" validate:"required,no_xss,max=64"`
	Time           int64                   `json:"time"`
	CustomerName   string                  `json:"customerName" validate:"required,no_xss"`
	Phone          string                  `json:"phone" validate:"required,max=20"`
	Address        string                  `json:"address" validate:"no_xss"`
	OrderInfo      []ordermodels.OrderItem `json:"orderInfo" validate:"required,min=1,dive"`
	Total          float64                 `json:"total" validate:"gte=0"`
	TotalProduct   int                     `json:"totalProduct" validate:"gte=0"`
	TotalWeight    float64                 `json:"totalWeight" validate:"gte=0"`
	Note           string                  `json:"note" validate:"no_xss"`
	Status         string                  `json:"status"`
	BuyerIP        string                  `json:"buyerIP"`
	Website        string                  `json:"website"`
	DeliveryStatus string                  `json:"deliveryStatus"`
	DeliveryCode   string                  `json:"deliveryCode"`
	FacebookLink   string                  `json:"facebookLink"`
	TiktokLink     string                  `json:"tiktokLink"`
	Promotions     []string                `json:"promotions"`
}

// ClaimMorningInput body của POST /new-orders/claim-morning
type ClaimMorningInput struct {
	StaffID string `json:"staffID" validate:"required"`
	UserID  string `json:"userId"`
}

// RedistributeInput body của POST /new-orders/redistribute, đều không bắt buộc
type RedistributeInput struct {
	StaffID string `json:"staffID"`
	UserID  string `json:"userId"`
}

// UpdateStatusInput body của PUT /shop-orders/:id/status
type UpdateStatusInput struct {
	Status         string `json:"status" validate:"required,no_xss,max=64"`
	Confirmed      bool   `json:"confirmed"`
	DeliveryStatus string `json:"deliveryStatus" validate:"no_xss"`
}
