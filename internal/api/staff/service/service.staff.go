// Package staffsvc - Service danh bạ nhân viên: hồ sơ, online/offline, lịch sử lương.
package staffsvc

import (
	"context"
	"time"

	basesvc "shop_ops/internal/api/base/service"
	staffdto "shop_ops/internal/api/staff/dto"
	staffmodels "shop_ops/internal/api/staff/models"
	"shop_ops/internal/clock"
	"shop_ops/internal/global"
	"shop_ops/internal/logger"
	"shop_ops/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
)

// Sau khoảng này không ping thì coi là offline
const OnlineThreshold = 2 * time.Minute

// Thứ tự liệt kê ổn định cho round robin và chia đơn
var sortByInsertion = bson.D{{Key: "_id", Value: 1}}

// StaffService thao tác collection staffs
type StaffService struct {
	*basesvc.BaseServiceMongoImpl[staffmodels.Staff]
	salesRole string
	now       func() time.Time
}

// NewStaffService tạo StaffService mới. salesRole rỗng thì dùng Sale-Staff.
func NewStaffService(salesRole string) (*StaffService, error) {
	coll, err := global.RegistryCollections.MustGet(global.MongoDB_ColNames.Staffs)
	if err != nil {
		return nil, err
	}
	if salesRole == "" {
		salesRole = staffmodels.RoleSaleStaff
	}
	return &StaffService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[staffmodels.Staff](coll),
		salesRole:            salesRole,
		now:                  time.Now,
	}, nil
}

func (s *StaffService) findSorted(ctx context.Context, filter bson.M) ([]staffmodels.Staff, error) {
	return s.Find(ctx, filter, mongoopts.Find().SetSort(sortByInsertion))
}

// ====================================
// Góc nhìn của engine phân phối
// ====================================

// FindOnlineSales nhân viên sale đang online
func (s *StaffService) FindOnlineSales(ctx context.Context) ([]staffmodels.Staff, error) {
	return s.findSorted(ctx, bson.M{"role": s.salesRole, "isOnline": true})
}

// FindSales toàn bộ nhân viên sale
func (s *StaffService) FindSales(ctx context.Context) ([]staffmodels.Staff, error) {
	return s.findSorted(ctx, bson.M{"role": s.salesRole})
}

// FindByStaffID tìm theo mã nhân viên, không có trả common.ErrNotFound
func (s *StaffService) FindByStaffID(ctx context.Context, staffID string) (staffmodels.Staff, error) {
	return s.FindOne(ctx, bson.M{"staffID": staffID}, nil)
}

// FindMorningClaimedBetween nhân viên sale đã nhận đơn sáng trong [start, end]
func (s *StaffService) FindMorningClaimedBetween(ctx context.Context, start, end time.Time) ([]staffmodels.Staff, error) {
	return s.findSorted(ctx, bson.M{
		"role":           s.salesRole,
		"isMorningBatch": true,
		"claimedAt":      bson.M{"$gte": start.UnixMilli(), "$lte": end.UnixMilli()},
	})
}

// FindBySalaryMonth nhân viên có bản ghi lương của tháng month
func (s *StaffService) FindBySalaryMonth(ctx context.Context, month clock.MonthKey) ([]staffmodels.Staff, error) {
	return s.findSorted(ctx, bson.M{"salaryHistory.time": string(month)})
}

// MarkMorningClaimed đánh dấu nhân viên đã nhận đơn sáng
func (s *StaffService) MarkMorningClaimed(ctx context.Context, staffID string, at time.Time) error {
	_, err := s.UpdateOne(ctx,
		bson.M{"staffID": staffID},
		bson.M{"$set": bson.M{"isMorningBatch": true, "claimedAt": at.UnixMilli()}},
		nil)
	return err
}

// ====================================
// Online / offline
// ====================================

// SetOnline cập nhật isOnline khi kết nối realtime mở hoặc đóng
func (s *StaffService) SetOnline(ctx context.Context, staffID string, online bool) error {
	_, err := s.UpdateOne(ctx,
		bson.M{"staffID": staffID},
		bson.M{"$set": bson.M{"isOnline": online, "lastSeen": s.now().UnixMilli()}},
		nil)
	return err
}

// Ping ghi lastSeen cho nhân viên gắn với userID
func (s *StaffService) Ping(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.UpdateMany(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"lastSeen": s.now().UnixMilli()}},
		nil)
	return err
}

// StatusList trạng thái online của mọi nhân viên theo lần ping gần nhất
func (s *StaffService) StatusList(ctx context.Context) ([]staffdto.StaffStatus, error) {
	all, err := s.findSorted(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	return statusOf(all, s.now()), nil
}

func statusOf(staff []staffmodels.Staff, now time.Time) []staffdto.StaffStatus {
	out := make([]staffdto.StaffStatus, 0, len(staff))
	for _, st := range staff {
		online := st.LastSeen > 0 && now.Sub(time.UnixMilli(st.LastSeen)) < OnlineThreshold
		out = append(out, staffdto.StaffStatus{
			StaffID:  st.StaffID,
			Name:     st.Name(),
			IsOnline: online,
			LastSeen: st.LastSeen,
		})
	}
	return out
}

// ====================================
// Hồ sơ nhân viên
// ====================================

// Create thêm nhân viên gắn với userID
func (s *StaffService) Create(ctx context.Context, input staffdto.StaffCreateInput, userID primitive.ObjectID) (staffmodels.Staff, error) {
	staff := staffmodels.Staff{
		UserID:        userID,
		Role:          input.Role,
		StaffID:       input.StaffID,
		Salary:        input.Salary,
		JoinedDate:    input.JoinedDate,
		StaffInfo:     input.StaffInfo,
		BankInfos:     input.BankInfos,
		SalaryHistory: []staffmodels.SalaryRecord{},
	}
	return s.InsertOne(ctx, staff)
}

// List admin thấy tất cả, người khác chỉ thấy hồ sơ gắn với userID của mình
func (s *StaffService) List(ctx context.Context, userID primitive.ObjectID, isAdmin bool) ([]staffmodels.Staff, error) {
	filter := bson.M{}
	if !isAdmin {
		filter["userId"] = userID
	}
	return s.findSorted(ctx, filter)
}

// Update sửa hồ sơ. Không phải admin thì chỉ sửa được hồ sơ của mình.
func (s *StaffService) Update(ctx context.Context, staffID string, userID primitive.ObjectID, isAdmin bool, input staffdto.StaffUpdateInput) (staffmodels.Staff, error) {
	filter := bson.M{"staffID": staffID}
	if !isAdmin {
		filter["userId"] = userID
	}

	update, changed, err := updateDocument(input)
	if err != nil {
		return staffmodels.Staff{}, err
	}
	if !changed {
		return s.FindOne(ctx, filter, nil)
	}
	staff, err := s.UpdateOne(ctx, filter, update, nil)
	if err != nil {
		return staffmodels.Staff{}, err
	}
	logger.WithContext(ctx).WithField("staffID", staffID).Info("👤 [STAFF] Cập nhật hồ sơ nhân viên")
	return staff, nil
}

// updateDocument dựng {$set} từ các field có giá trị, changed=false khi không có gì để sửa
func updateDocument(input staffdto.StaffUpdateInput) (map[string]interface{}, bool, error) {
	update, err := utility.SetUpdate(input)
	if err != nil {
		return nil, false, err
	}
	set, _ := update["$set"].(map[string]interface{})
	return update, len(set) > 0, nil
}

// Delete xóa nhân viên theo _id
func (s *StaffService) Delete(ctx context.Context, id, userID primitive.ObjectID, isAdmin bool) error {
	filter := bson.M{"_id": id}
	if !isAdmin {
		filter["userId"] = userID
	}
	return s.DeleteOne(ctx, filter)
}

// ReplaceSalary thay bản ghi lương cùng tháng: gỡ bản cũ rồi thêm bản mới
func (s *StaffService) ReplaceSalary(ctx context.Context, input staffdto.SalaryUpdateInput) (staffmodels.Staff, error) {
	filter := bson.M{"staffID": input.StaffID}
	if _, err := s.UpdateOne(ctx, filter,
		utility.BsonWrapper{Pull: bson.M{"salaryHistory": bson.M{"time": input.Record.Time}}}, nil); err != nil {
		return staffmodels.Staff{}, err
	}
	staff, err := s.UpdateOne(ctx, filter,
		utility.BsonWrapper{Push: bson.M{"salaryHistory": input.Record}}, nil)
	if err != nil {
		return staffmodels.Staff{}, err
	}
	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"staffID": input.StaffID,
		"month":   input.Record.Time,
	}).Info("👤 [STAFF] Thay bản ghi lương")
	return staff, nil
}
