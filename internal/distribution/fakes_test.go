package distribution

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"shop_ops/internal/clock"
	"shop_ops/internal/common"
	"shop_ops/internal/dlock"

	ordermodels "shop_ops/internal/api/order/models"
	staffmodels "shop_ops/internal/api/staff/models"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var businessZone = time.FixedZone("UTC+7", 7*3600)

// at trả về thời điểm giờ:phút ngày 2025-05-10 theo giờ nghiệp vụ
func at(hour, minute int) time.Time {
	return time.Date(2025, 5, 10, hour, minute, 0, 0, businessZone)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// ---- orders ----

type fakeOrders struct {
	mu       sync.Mutex
	now      func() time.Time
	pool     []ordermodels.NewOrder
	assigned []ordermodels.ShopOrder
	tick     int64

	failInsertAssigned error
}

func (f *fakeOrders) seed(codes ...string) []ordermodels.NewOrder {
	var out []ordermodels.NewOrder
	for _, code := range codes {
		saved, _ := f.InsertPending(context.Background(), ordermodels.NewOrder{OrderCode: code})
		out = append(out, saved)
	}
	return out
}

func (f *fakeOrders) InsertPending(_ context.Context, o ordermodels.NewOrder) (ordermodels.NewOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tick++
	o.ID = primitive.NewObjectID()
	if o.CreatedAt == 0 {
		o.CreatedAt = f.tick
	}
	f.pool = append(f.pool, o)
	return o, nil
}

func (f *fakeOrders) CountUnassigned(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, o := range f.pool {
		if o.StaffID == "" {
			n++
		}
	}
	return n, nil
}

func (f *fakeOrders) FindUnassigned(_ context.Context, limit int) ([]ordermodels.NewOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ordermodels.NewOrder
	for _, o := range f.pool {
		if o.StaffID == "" {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeOrders) ResetPendingStaff(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.pool {
		f.pool[i].StaffID = ""
	}
	return int64(len(f.pool)), nil
}

func (f *fakeOrders) MarkClaimed(_ context.Context, ids []primitive.ObjectID, staffID string, at time.Time, morning bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	set := idSet(ids)
	for i := range f.pool {
		if set[f.pool[i].ID] {
			f.pool[i].StaffID = staffID
			f.pool[i].ClaimedAt = at.UnixMilli()
			f.pool[i].IsMorningBatch = morning
		}
	}
	return nil
}

func (f *fakeOrders) InsertAssigned(_ context.Context, orders []ordermodels.ShopOrder) ([]ordermodels.ShopOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsertAssigned != nil {
		return nil, f.failInsertAssigned
	}
	out := make([]ordermodels.ShopOrder, len(orders))
	for i, o := range orders {
		o.ID = primitive.NewObjectID()
		o.CreatedAt = f.now().UnixMilli()
		out[i] = o
	}
	f.assigned = append(f.assigned, out...)
	return out, nil
}

func (f *fakeOrders) DeletePending(_ context.Context, ids []primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	set := idSet(ids)
	kept := f.pool[:0]
	for _, o := range f.pool {
		if !set[o.ID] {
			kept = append(kept, o)
		}
	}
	f.pool = kept
	return nil
}

func (f *fakeOrders) CountMorningAssigned(_ context.Context, start, end time.Time) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]int64{}
	for _, o := range f.assigned {
		if o.IsMorningBatch && o.CreatedAt >= start.UnixMilli() && o.CreatedAt < end.UnixMilli() {
			out[o.StaffID]++
		}
	}
	return out, nil
}

func (f *fakeOrders) poolSize() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pool)
}

func (f *fakeOrders) assignedTo(staffID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var codes []string
	for _, o := range f.assigned {
		if o.StaffID == staffID {
			codes = append(codes, o.OrderCode)
		}
	}
	return codes
}

func idSet(ids []primitive.ObjectID) map[primitive.ObjectID]bool {
	set := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// ---- staff ----

type fakeStaff struct {
	mu    sync.Mutex
	staff []staffmodels.Staff
	err   error
}

func newSales(staffID string, online bool) staffmodels.Staff {
	return staffmodels.Staff{
		ID:        primitive.NewObjectID(),
		UserID:    primitive.NewObjectID(),
		StaffID:   staffID,
		Role:      staffmodels.RoleSaleStaff,
		IsOnline:  online,
		StaffInfo: staffmodels.StaffInfo{Name: "Nhân viên " + staffID},
	}
}

func withRate(s staffmodels.Staff, month string, closed, distributed int) staffmodels.Staff {
	s.SalaryHistory = append(s.SalaryHistory, staffmodels.SalaryRecord{
		Time:                   month,
		TotalCloseOrder:        closed,
		TotalDistributionOrder: distributed,
	})
	return s
}

func (f *fakeStaff) filter(keep func(staffmodels.Staff) bool) ([]staffmodels.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []staffmodels.Staff{}
	for _, s := range f.staff {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStaff) FindOnlineSales(context.Context) ([]staffmodels.Staff, error) {
	return f.filter(func(s staffmodels.Staff) bool { return s.Role == staffmodels.RoleSaleStaff && s.IsOnline })
}

func (f *fakeStaff) FindSales(context.Context) ([]staffmodels.Staff, error) {
	return f.filter(func(s staffmodels.Staff) bool { return s.Role == staffmodels.RoleSaleStaff })
}

func (f *fakeStaff) FindByStaffID(_ context.Context, staffID string) (staffmodels.Staff, error) {
	list, err := f.filter(func(s staffmodels.Staff) bool { return s.StaffID == staffID })
	if err != nil {
		return staffmodels.Staff{}, err
	}
	if len(list) == 0 {
		return staffmodels.Staff{}, common.ErrNotFound
	}
	return list[0], nil
}

func (f *fakeStaff) FindMorningClaimedBetween(_ context.Context, start, end time.Time) ([]staffmodels.Staff, error) {
	return f.filter(func(s staffmodels.Staff) bool {
		return s.Role == staffmodels.RoleSaleStaff && s.IsMorningBatch &&
			s.ClaimedAt >= start.UnixMilli() && s.ClaimedAt <= end.UnixMilli()
	})
}

func (f *fakeStaff) FindBySalaryMonth(_ context.Context, month clock.MonthKey) ([]staffmodels.Staff, error) {
	return f.filter(func(s staffmodels.Staff) bool {
		_, ok := s.SalaryFor(string(month))
		return ok
	})
}

func (f *fakeStaff) MarkMorningClaimed(_ context.Context, staffID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.staff {
		if f.staff[i].StaffID == staffID {
			f.staff[i].IsMorningBatch = true
			f.staff[i].ClaimedAt = at.UnixMilli()
			return nil
		}
	}
	return common.ErrNotFound
}

// ---- locks, sequence, notifier ----

type fakeLocks struct {
	mu    sync.Mutex
	locks map[clock.DateKey]ordermodels.RedistributionLock
}

func (f *fakeLocks) FindByDate(_ context.Context, date clock.DateKey) (*ordermodels.RedistributionLock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.locks[date]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (f *fakeLocks) Create(_ context.Context, l ordermodels.RedistributionLock) (ordermodels.RedistributionLock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.locks[clock.DateKey(l.Date)]; ok {
		return ordermodels.RedistributionLock{}, common.ErrMongoDuplicate
	}
	l.ID = primitive.NewObjectID()
	f.locks[clock.DateKey(l.Date)] = l
	return l, nil
}

func (f *fakeLocks) MarkRedistributed(_ context.Context, date clock.DateKey, by string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l := f.locks[date]
	l.Date = string(date)
	l.IsRedistribute = true
	l.TriggeredBy = by
	l.TriggeredAt = at.UnixMilli()
	f.locks[date] = l
	return nil
}

type fakeSequence struct {
	mu       sync.Mutex
	counters map[string]int64
	err      error
}

func (f *fakeSequence) Next(_ context.Context, prefix string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.counters[prefix]++
	return f.counters[prefix], nil
}

type sentEvent struct {
	staffID   string
	eventType string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentEvent
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, staffID, eventType string, _ interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEvent{staffID: staffID, eventType: eventType})
	return f.err
}

// ---- harness ----

type harness struct {
	clock    *testClock
	orders   *fakeOrders
	staff    *fakeStaff
	locks    *fakeLocks
	seq      *fakeSequence
	notifier *fakeNotifier
	engine   *Engine
}

func newHarness(t *testing.T, now time.Time, staff ...staffmodels.Staff) *harness {
	t.Helper()
	tc := &testClock{now: now}
	h := &harness{
		clock:    tc,
		orders:   &fakeOrders{now: tc.Now},
		staff:    &fakeStaff{staff: staff},
		locks:    &fakeLocks{locks: map[clock.DateKey]ordermodels.RedistributionLock{}},
		seq:      &fakeSequence{counters: map[string]int64{}},
		notifier: &fakeNotifier{},
	}
	engine, err := NewEngine(Deps{
		Orders:   h.orders,
		Staff:    h.staff,
		Locks:    h.locks,
		Sequence: h.seq,
		Notifier: h.notifier,
		Locker:   dlock.NewLocalLocker(),
		Clock:    clock.NewBusinessClock(7, clock.Cutoff{Hour: 8, Minute: 30}, clock.WithNow(tc.Now)),
	}, WithLockTiming(time.Second, time.Second))
	require.NoError(t, err)
	h.engine = engine
	return h
}

var errStoreDown = errors.New("store unavailable")
