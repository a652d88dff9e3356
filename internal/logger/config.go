package logger

import (
	"os"
	"strconv"
	"strings"
)

// LogConfig chứa cấu hình cho hệ thống logging
type LogConfig struct {
	// Log Level: trace, debug, info, warn, error, fatal
	Level string
	// Log Format: json, text
	Format string
	// Log Output: file, stdout, both
	Output string

	// Log Rotation
	MaxSize    int  // MB
	MaxBackups int  // Số file cũ giữ lại
	MaxAge     int  // Số ngày giữ lại
	Compress   bool // Nén file cũ

	// Log Paths
	LogPath string
	AppFile string
	// BufferSize là số entry tối đa chờ ghi trong async hook
	BufferSize int
}

// DefaultConfig trả về cấu hình mặc định, override bằng biến môi trường LOG_*
func DefaultConfig() *LogConfig {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	cfg := &LogConfig{
		Level:      "info",
		Format:     "json",
		Output:     "both",
		MaxSize:    100,
		MaxBackups: 7,
		MaxAge:     7,
		Compress:   true,
		LogPath:    "./logs",
		AppFile:    "app.log",
		BufferSize: 1000,
	}
	if env == "development" {
		cfg.Level = "debug"
		cfg.Format = "text"
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Level = strings.ToLower(level)
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Format = strings.ToLower(format)
	}
	if output := os.Getenv("LOG_OUTPUT"); output != "" {
		cfg.Output = strings.ToLower(output)
	}
	if logPath := os.Getenv("LOG_PATH"); logPath != "" {
		cfg.LogPath = logPath
	}
	if appFile := os.Getenv("LOG_APP_FILE"); appFile != "" {
		cfg.AppFile = appFile
	}

	cfg.MaxSize = envInt("LOG_MAX_SIZE", cfg.MaxSize, 1)
	cfg.MaxBackups = envInt("LOG_MAX_BACKUPS", cfg.MaxBackups, 0)
	cfg.MaxAge = envInt("LOG_MAX_AGE", cfg.MaxAge, 1)
	cfg.BufferSize = envInt("LOG_BUFFER_SIZE", cfg.BufferSize, 1)
	if compressStr := os.Getenv("LOG_COMPRESS"); compressStr != "" {
		if compress, err := strconv.ParseBool(compressStr); err == nil {
			cfg.Compress = compress
		}
	}

	return cfg
}

// envInt đọc số nguyên từ biến môi trường, bỏ qua giá trị nhỏ hơn min
func envInt(key string, fallback, min int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min {
		return fallback
	}
	return v
}
