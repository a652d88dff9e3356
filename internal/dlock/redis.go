package dlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL   = 30 * time.Second
	defaultRetry = 100 * time.Millisecond
	keyPrefix    = "shop_ops:lock:"
)

// Chỉ xóa key khi giá trị vẫn là token của người giữ khóa
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`

// cmdable là tập lệnh Redis mà RedisLocker dùng
type cmdable interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
}

// RedisLocker khóa bằng SET NX PX với token ngẫu nhiên
type RedisLocker struct {
	client cmdable
	retry  time.Duration
}

// RedisConfig thông tin kết nối Redis
type RedisConfig struct {
	URL      string
	Address  string
	Password string
	DB       int
}

// Enabled true khi có cấu hình URL hoặc địa chỉ
func (c RedisConfig) Enabled() bool {
	return c.URL != "" || c.Address != ""
}

// NewRedisClient tạo client và kiểm tra kết nối
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func optionsFromConfig(cfg RedisConfig) (*redis.Options, error) {
	if !cfg.Enabled() {
		return nil, errors.New("cần REDIS_URL hoặc REDIS_ADDRESS")
	}
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		if opts.DB == 0 {
			opts.DB = cfg.DB
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}, nil
}

// NewRedisLocker tạo RedisLocker từ client go-redis
func NewRedisLocker(client redis.Cmdable) (*RedisLocker, error) {
	if client == nil {
		return nil, errors.New("redis client required for lock")
	}
	return &RedisLocker{client: client, retry: defaultRetry}, nil
}

// Obtain thử SET NX lặp lại mỗi retry cho tới khi được hoặc ctx hết hạn
func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error) {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	fullKey := keyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("setnx %s: %w", fullKey, err)
		}
		if ok {
			return &redisLock{client: l.client, key: fullKey, token: token}, nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w %s: %v", ErrNotAcquired, key, ctx.Err())
		}
	}
}

type redisLock struct {
	client cmdable
	key    string
	token  string
}

// Release xóa key nếu token còn khớp; khóa đã hết hạn thì bỏ qua
func (k *redisLock) Release(ctx context.Context) error {
	err := k.client.Eval(ctx, releaseScript, []string{k.key}, k.token).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release %s: %w", k.key, err)
	}
	return nil
}
