// Package ordersvc - Service kho đơn chờ (new_orders), đơn đã giao (shop_orders), bộ đếm và khóa phân phối.
package ordersvc

import (
	"context"
	"time"

	basemodels "shop_ops/internal/api/base/models"
	basesvc "shop_ops/internal/api/base/service"
	ordermodels "shop_ops/internal/api/order/models"
	"shop_ops/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
)

// filterUnassigned đơn trong kho chưa có người nhận
var filterUnassigned = bson.M{"staffID": ""}

// sortOldestFirst thứ tự cũ trước, _id phá hòa khi cùng createdAt
var sortOldestFirst = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}

// NewOrderService thao tác kho đơn chờ
type NewOrderService struct {
	*basesvc.BaseServiceMongoImpl[ordermodels.NewOrder]
}

// NewNewOrderService tạo NewOrderService mới
func NewNewOrderService() (*NewOrderService, error) {
	coll, err := global.RegistryCollections.MustGet(global.MongoDB_ColNames.NewOrders)
	if err != nil {
		return nil, err
	}
	return &NewOrderService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[ordermodels.NewOrder](coll),
	}, nil
}

// InsertPending ghi đơn vào kho với staffID rỗng
func (s *NewOrderService) InsertPending(ctx context.Context, order ordermodels.NewOrder) (ordermodels.NewOrder, error) {
	order.StaffID = ""
	order.ClaimedAt = 0
	order.IsMorningBatch = false
	return s.InsertOne(ctx, order)
}

// CountUnassigned đếm đơn chưa có người nhận
func (s *NewOrderService) CountUnassigned(ctx context.Context) (int64, error) {
	return s.CountDocuments(ctx, filterUnassigned)
}

// FindUnassigned đơn chưa có người nhận, cũ trước. limit <= 0 lấy hết.
func (s *NewOrderService) FindUnassigned(ctx context.Context, limit int) ([]ordermodels.NewOrder, error) {
	opts := mongoopts.Find().SetSort(sortOldestFirst)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return s.Find(ctx, filterUnassigned, opts)
}

// ResetPendingStaff xóa staffID còn sót trên đơn trong kho, trả về tổng số đơn trong kho
func (s *NewOrderService) ResetPendingStaff(ctx context.Context) (int64, error) {
	_, err := s.UpdateMany(ctx,
		bson.M{"staffID": bson.M{"$ne": ""}},
		bson.M{"$set": bson.M{"staffID": ""}},
		nil)
	if err != nil {
		return 0, err
	}
	return s.CountDocuments(ctx, bson.M{})
}

// MarkClaimed ghi người nhận lên các đơn trước khi chuyển sang shop_orders
func (s *NewOrderService) MarkClaimed(ctx context.Context, ids []primitive.ObjectID, staffID string, at time.Time, morning bool) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{
			"staffID":        staffID,
			"claimedAt":      at.UnixMilli(),
			"isMorningBatch": morning,
		}},
		nil)
	return err
}

// DeletePending xóa các đơn đã chuyển khỏi kho
func (s *NewOrderService) DeletePending(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

// ListPending liệt kê kho đơn theo trang, cũ trước
func (s *NewOrderService) ListPending(ctx context.Context, page, limit int64) (*basemodels.PaginateResult[ordermodels.NewOrder], error) {
	opts := mongoopts.Find().SetSort(sortOldestFirst)
	return s.FindWithPagination(ctx, bson.M{}, page, limit, opts)
}
