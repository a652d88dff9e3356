package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:"8080"`                 // Cổng server HTTP
	JwtSecret             string `env:"JWT_SECRET,required"`                       // Bí mật JWT
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`           // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME" envDefault:"shop_ops"`      // Tên cơ sở dữ liệu
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window (0 = disable rate limit)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting
	// TLS/HTTPS Configuration
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"` // Bật HTTPS
	TLSCertFile string `env:"TLS_CERT_FILE"`                 // Đường dẫn đến file certificate
	TLSKeyFile  string `env:"TLS_KEY_FILE"`                  // Đường dẫn đến file private key
	// WebSocket (kênh thông báo realtime cho nhân viên)
	WebSocketAddress string `env:"WEBSOCKET_ADDRESS" envDefault:":3005"`
	// Redis - khóa phân tán theo ngày. Để trống thì dùng khóa trong process.
	RedisURL      string `env:"REDIS_URL"`
	RedisAddress  string `env:"REDIS_ADDRESS"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	// Phân phối đơn
	BusinessUTCOffsetHours int    `env:"BUSINESS_UTC_OFFSET_HOURS" envDefault:"7"` // Múi giờ nghiệp vụ cố định (UTC+7)
	ClaimCutoff            string `env:"CLAIM_CUTOFF" envDefault:"08:30"`          // Giờ chốt nhận đơn buổi sáng
	SalesRole              string `env:"SALES_ROLE" envDefault:"Sale-Staff"`       // Role nhân viên sale
	DistributionLockTTL    int    `env:"DISTRIBUTION_LOCK_TTL" envDefault:"30"`    // TTL khóa ngày (giây)
	DistributionLockWait   int    `env:"DISTRIBUTION_LOCK_WAIT" envDefault:"10"`   // Thời gian chờ lấy khóa (giây)
	// Worker phân phối lại tự động
	RedistributeWorkerEnabled  bool   `env:"REDISTRIBUTE_WORKER_ENABLED" envDefault:"true"`
	RedistributeAt             string `env:"REDISTRIBUTE_AT" envDefault:"09:00"`           // Giờ chạy phân phối lại (giờ nghiệp vụ)
	RedistributeWorkerInterval int    `env:"REDISTRIBUTE_WORKER_INTERVAL" envDefault:"60"` // Chu kỳ kiểm tra (giây)
}

// LockTTL trả về TTL khóa ngày dạng time.Duration
func (c *Configuration) LockTTL() time.Duration {
	return time.Duration(c.DistributionLockTTL) * time.Second
}

// LockWait trả về thời gian chờ lấy khóa dạng time.Duration
func (c *Configuration) LockWait() time.Duration {
	return time.Duration(c.DistributionLockWait) * time.Second
}

// WorkerInterval trả về chu kỳ của worker phân phối lại
func (c *Configuration) WorkerInterval() time.Duration {
	if c.RedistributeWorkerInterval <= 0 {
		return time.Minute
	}
	return time.Duration(c.RedistributeWorkerInterval) * time.Second
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env, đi ngược lên thư mục cha
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", env))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig đọc cấu hình từ file env (nếu có) rồi từ biến môi trường.
// Thiếu file env vẫn chạy được khi deploy chỉ dùng biến môi trường.
func NewConfig() *Configuration {
	if envPath := getEnvPath(); envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		}
	} else {
		fmt.Printf("Không tìm thấy thư mục config/env, chỉ dùng biến môi trường\n")
	}

	cfg, err := Parse()
	if err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}
	return cfg
}

// Parse đọc Configuration từ biến môi trường hiện tại
func Parse() (*Configuration, error) {
	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
