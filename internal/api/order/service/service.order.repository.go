package ordersvc

import (
	"context"
	"time"

	ordermodels "shop_ops/internal/api/order/models"
)

// OrderStore gộp kho đơn chờ và đơn đã giao thành một repository cho engine phân phối
type OrderStore struct {
	*NewOrderService
	Shop *ShopOrderService
}

// NewOrderStore tạo OrderStore trên hai collection new_orders và shop_orders
func NewOrderStore(loc *time.Location) (*OrderStore, error) {
	pool, err := NewNewOrderService()
	if err != nil {
		return nil, err
	}
	shop, err := NewShopOrderService(loc)
	if err != nil {
		return nil, err
	}
	return &OrderStore{NewOrderService: pool, Shop: shop}, nil
}

// InsertAssigned ghi đơn đã giao
func (s *OrderStore) InsertAssigned(ctx context.Context, orders []ordermodels.ShopOrder) ([]ordermodels.ShopOrder, error) {
	return s.Shop.InsertAssigned(ctx, orders)
}

// CountMorningAssigned đếm đơn sáng theo nhân viên
func (s *OrderStore) CountMorningAssigned(ctx context.Context, start, end time.Time) (map[string]int64, error) {
	return s.Shop.CountMorningAssigned(ctx, start, end)
}
