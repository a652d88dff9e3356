package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shop_ops/config"
	ordersvc "shop_ops/internal/api/order/service"
	staffsvc "shop_ops/internal/api/staff/service"
	"shop_ops/internal/clock"
	"shop_ops/internal/distribution"
	"shop_ops/internal/dlock"
	"shop_ops/internal/logger"
	"shop_ops/internal/metrics"
	"shop_ops/internal/notification"
	"shop_ops/internal/worker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// application gom các thành phần đã khởi tạo, dùng cho router và vòng đời process
type application struct {
	clock    *clock.BusinessClock
	registry *prometheus.Registry
	metrics  *metrics.Distribution
	redis    *redis.Client
	hub      *notification.Hub
	engine   *distribution.Engine
	worker   *worker.RedistributeWorker

	staff   *staffsvc.StaffService
	store   *ordersvc.OrderStore
	counter *ordersvc.CounterService
}

// InitDistribution dựng engine phân phối đơn và các phụ thuộc của nó
func InitDistribution(ctx context.Context, cfg *config.Configuration) (*application, error) {
	log := logger.GetAppLogger()

	cutoff, err := clock.ParseCutoff(cfg.ClaimCutoff)
	if err != nil {
		return nil, err
	}
	app := &application{
		clock:    clock.NewBusinessClock(cfg.BusinessUTCOffsetHours, cutoff),
		registry: prometheus.NewRegistry(),
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = metrics.NewDistribution(app.registry)

	if app.staff, err = staffsvc.NewStaffService(cfg.SalesRole); err != nil {
		return nil, err
	}
	if app.store, err = ordersvc.NewOrderStore(app.clock.Location()); err != nil {
		return nil, err
	}
	if app.counter, err = ordersvc.NewCounterService(); err != nil {
		return nil, err
	}
	locks, err := ordersvc.NewLockService()
	if err != nil {
		return nil, err
	}

	// Khóa ngày: Redis khi có cấu hình, không thì khóa trong process
	var locker dlock.Locker
	redisCfg := dlock.RedisConfig{
		URL:      cfg.RedisURL,
		Address:  cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	if redisCfg.Enabled() {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		app.redis, err = dlock.NewRedisClient(pingCtx, redisCfg)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("kết nối redis: %w", err)
		}
		if locker, err = dlock.NewRedisLocker(app.redis); err != nil {
			return nil, err
		}
		log.Info("🔒 [LOCK] Dùng khóa Redis cho phân phối đơn")
	} else {
		locker = dlock.NewLocalLocker()
		log.Warn("🔒 [LOCK] Chưa cấu hình Redis, dùng khóa trong process (chỉ an toàn khi chạy một instance)")
	}

	app.hub = notification.NewHub(
		notification.WithPresence(app.staff.SetOnline),
		notification.WithMetrics(app.metrics),
		notification.WithCheckOrigin(originChecker(cfg.CORS_Origins)),
	)

	app.engine, err = distribution.NewEngine(distribution.Deps{
		Orders:   app.store,
		Staff:    app.staff,
		Locks:    locks,
		Sequence: app.counter,
		Notifier: app.hub,
		Locker:   locker,
		Clock:    app.clock,
	},
		distribution.WithLockTiming(cfg.LockTTL(), cfg.LockWait()),
		distribution.WithMetrics(app.metrics),
	)
	if err != nil {
		return nil, err
	}

	if cfg.RedistributeWorkerEnabled {
		app.worker, err = worker.NewRedistributeWorker(app.engine, app.clock, cfg.RedistributeAt, cfg.WorkerInterval())
		if err != nil {
			return nil, err
		}
	}

	log.WithFields(map[string]interface{}{
		"utcOffset": cfg.BusinessUTCOffsetHours,
		"cutoff":    cutoff.String(),
		"salesRole": cfg.SalesRole,
	}).Info("🔀 [DISTRIBUTION] Engine initialized")
	return app, nil
}

// Close giải phóng kết nối Redis nếu có
func (a *application) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

// originChecker cho phép websocket theo cùng danh sách origin với CORS
func originChecker(origins string) func(r *http.Request) bool {
	if origins == "" || origins == "*" {
		return func(*http.Request) bool { return true }
	}
	allowed := make(map[string]bool)
	for _, o := range strings.Split(origins, ",") {
		allowed[strings.TrimSpace(o)] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}
