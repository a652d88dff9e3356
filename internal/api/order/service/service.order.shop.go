package ordersvc

import (
	"context"
	"time"

	basemodels "shop_ops/internal/api/base/models"
	basesvc "shop_ops/internal/api/base/service"
	orderdto "shop_ops/internal/api/order/dto"
	ordermodels "shop_ops/internal/api/order/models"
	"shop_ops/internal/global"
	"shop_ops/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
)

// Trạng thái giao hàng khiến shippedTime được ghi lần đầu
const DeliveryStatusShipped = "Đã gửi hàng"

// ShopOrderService thao tác đơn đã giao cho nhân viên
type ShopOrderService struct {
	*basesvc.BaseServiceMongoImpl[ordermodels.ShopOrder]
	location *time.Location
}

// NewShopOrderService tạo ShopOrderService mới. loc dùng để ghi shippedTime theo giờ nghiệp vụ.
func NewShopOrderService(loc *time.Location) (*ShopOrderService, error) {
	coll, err := global.RegistryCollections.MustGet(global.MongoDB_ColNames.ShopOrders)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ShopOrderService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[ordermodels.ShopOrder](coll),
		location:             loc,
	}, nil
}

// InsertAssigned ghi các đơn đã giao theo đúng thứ tự truyền vào
func (s *ShopOrderService) InsertAssigned(ctx context.Context, orders []ordermodels.ShopOrder) ([]ordermodels.ShopOrder, error) {
	if len(orders) == 0 {
		return []ordermodels.ShopOrder{}, nil
	}
	if len(orders) == 1 {
		saved, err := s.InsertOne(ctx, orders[0])
		if err != nil {
			return nil, err
		}
		return []ordermodels.ShopOrder{saved}, nil
	}
	return s.InsertMany(ctx, orders)
}

type morningCount struct {
	StaffID string `bson:"_id"`
	Count   int64  `bson:"count"`
}

// CountMorningAssigned đếm đơn sáng theo staffID, tạo trong [start, end)
func (s *ShopOrderService) CountMorningAssigned(ctx context.Context, start, end time.Time) (map[string]int64, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"isMorningBatch": true,
			"createdAt":      bson.M{"$gte": start.UnixMilli(), "$lt": end.UnixMilli()},
		}},
		{"$group": bson.M{"_id": "$staffID", "count": bson.M{"$sum": 1}}},
	}
	var rows []morningCount
	if err := s.Aggregate(ctx, pipeline, &rows); err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.StaffID] = r.Count
	}
	return counts, nil
}

// ListAssigned liệt kê đơn đã giao, mới trước. staffID rỗng hoặc owner là NilObjectID thì không lọc theo trường đó.
func (s *ShopOrderService) ListAssigned(ctx context.Context, staffID string, owner primitive.ObjectID, page, limit int64) (*basemodels.PaginateResult[ordermodels.ShopOrder], error) {
	filter := ownerFilter(bson.M{}, owner)
	if staffID != "" {
		filter["staffID"] = staffID
	}
	opts := mongoopts.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return s.FindWithPagination(ctx, filter, page, limit, opts)
}

// UpdateStatus đổi trạng thái chốt đơn và ghi một dòng lịch sử.
// owner khác NilObjectID thì chỉ cập nhật được đơn thuộc người dùng đó.
func (s *ShopOrderService) UpdateStatus(ctx context.Context, id, owner primitive.ObjectID, changedBy string, input orderdto.UpdateStatusInput) (ordermodels.ShopOrder, error) {
	filter := ownerFilter(bson.M{"_id": id}, owner)
	current, err := s.FindOne(ctx, filter, nil)
	if err != nil {
		return ordermodels.ShopOrder{}, err
	}

	now := time.Now()
	set := bson.M{
		"final.status":    input.Status,
		"final.confirmed": input.Confirmed,
	}
	if input.DeliveryStatus != "" {
		set["final.deliveryStatus"] = input.DeliveryStatus
		if input.DeliveryStatus == DeliveryStatusShipped && current.DeliveryDetails.ShippedTime == "" {
			set["deliveryDetails.shippedTime"] = now.In(s.location).Format("2006-01-02 15:04")
		}
	}
	update := bson.M{
		"$set": set,
		"$push": bson.M{"historyChanged": ordermodels.HistoryChange{
			Status:    input.Status,
			Confirmed: input.Confirmed,
			ChangedBy: changedBy,
			ChangedAt: now.UnixMilli(),
		}},
	}
	updated, err := s.FindOneAndUpdate(ctx, filter, update, mongoopts.FindOneAndUpdate().SetReturnDocument(mongoopts.After))
	if err != nil {
		return ordermodels.ShopOrder{}, err
	}
	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"orderCode": updated.OrderCode,
		"status":    input.Status,
		"changedBy": changedBy,
	}).Info("📦 [ORDER] Cập nhật trạng thái đơn")
	return updated, nil
}

func ownerFilter(filter bson.M, owner primitive.ObjectID) bson.M {
	if !owner.IsZero() {
		filter["userId"] = owner
	}
	return filter
}
