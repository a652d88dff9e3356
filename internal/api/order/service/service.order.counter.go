package ordersvc

import (
	"context"
	"fmt"

	basesvc "shop_ops/internal/api/base/service"
	ordermodels "shop_ops/internal/api/order/models"
	"shop_ops/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
)

// CounterService cấp số tuần tự theo prefix (mã đơn theo sản phẩm, lượt round robin)
type CounterService struct {
	*basesvc.BaseServiceMongoImpl[ordermodels.Counter]
}

// NewCounterService tạo CounterService mới
func NewCounterService() (*CounterService, error) {
	coll, err := global.RegistryCollections.MustGet(global.MongoDB_ColNames.Counters)
	if err != nil {
		return nil, err
	}
	return &CounterService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[ordermodels.Counter](coll),
	}, nil
}

// Next tăng bộ đếm của prefix và trả về giá trị mới. Prefix mới bắt đầu từ 1.
func (s *CounterService) Next(ctx context.Context, prefix string) (int64, error) {
	opts := mongoopts.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(mongoopts.After)
	counter, err := s.FindOneAndUpdate(ctx,
		bson.M{"prefix": prefix},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts)
	if err != nil {
		return 0, fmt.Errorf("tăng bộ đếm %s: %w", prefix, err)
	}
	return counter.Seq, nil
}
