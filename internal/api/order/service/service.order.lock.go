package ordersvc

import (
	"context"
	"errors"
	"time"

	basesvc "shop_ops/internal/api/base/service"
	ordermodels "shop_ops/internal/api/order/models"
	"shop_ops/internal/clock"
	"shop_ops/internal/common"
	"shop_ops/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
)

// LockService lưu khóa phân phối theo ngày (redistribution_locks)
type LockService struct {
	*basesvc.BaseServiceMongoImpl[ordermodels.RedistributionLock]
}

// NewLockService tạo LockService mới
func NewLockService() (*LockService, error) {
	coll, err := global.RegistryCollections.MustGet(global.MongoDB_ColNames.RedistributionLocks)
	if err != nil {
		return nil, err
	}
	return &LockService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[ordermodels.RedistributionLock](coll),
	}, nil
}

// FindByDate trả nil, nil khi ngày chưa có khóa
func (s *LockService) FindByDate(ctx context.Context, date clock.DateKey) (*ordermodels.RedistributionLock, error) {
	lock, err := s.FindOne(ctx, bson.M{"date": string(date)}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &lock, nil
}

// Create ghi khóa mới. Trùng ngày trả về common.ErrMongoDuplicate (index unique trên date).
func (s *LockService) Create(ctx context.Context, lock ordermodels.RedistributionLock) (ordermodels.RedistributionLock, error) {
	return s.InsertOne(ctx, lock)
}

// MarkRedistributed bật cờ đã phân phối lại, chưa có khóa của ngày thì tạo mới
func (s *LockService) MarkRedistributed(ctx context.Context, date clock.DateKey, triggeredBy string, at time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"isRedistribute": true,
			"triggeredBy":    triggeredBy,
			"triggeredAt":    at.UnixMilli(),
		},
		"$setOnInsert": bson.M{
			"type":      ordermodels.LockTypeMorningClaim,
			"perStaff":  0,
			"leftover":  0,
			"createdAt": time.Now().UnixMilli(),
		},
	}
	_, err := s.UpdateOne(ctx, bson.M{"date": string(date)}, update, mongoopts.Update().SetUpsert(true))
	return err
}
