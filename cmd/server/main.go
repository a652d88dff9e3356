package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop_ops/internal/database"
	"shop_ops/internal/global"
	"shop_ops/internal/logger"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/sync/errgroup"
)

// initLogger khởi tạo và cấu hình logger cho toàn bộ ứng dụng
func initLogger() {
	// Logger tự đọc biến môi trường LOG_* để cấu hình
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// listen chạy Fiber server, HTTPS khi bật TLS
func listen(app *fiber.App) error {
	cfg := global.MongoDB_ServerConfig
	address := ":" + cfg.Address
	log := logger.GetAppLogger()
	listenConfig := fiber.ListenConfig{DisableStartupMessage: true}

	if cfg.EnableTLS && cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return fmt.Errorf("load TLS certificate: %w", err)
		}
		ln, err := net.Listen("tcp", address)
		if err != nil {
			return fmt.Errorf("create listener: %w", err)
		}
		tlsListener := tls.NewListener(ln, &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		})

		log.WithFields(map[string]interface{}{
			"address": address,
			"cert":    cfg.TLSCertFile,
		}).Info("Starting server with HTTPS/TLS")
		return app.Listener(tlsListener, listenConfig)
	}

	log.WithFields(map[string]interface{}{
		"address":  address,
		"protocol": "HTTP",
	}).Info("Starting server with HTTP")
	return app.Listen(address, listenConfig)
}

// Hàm main
func main() {
	initLogger()
	defer logger.Shutdown()

	// Khởi tạo các biến toàn cục
	InitGlobal()

	// Khởi tạo registry
	InitRegistry()

	log := logger.GetAppLogger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := global.MongoDB_ServerConfig
	a, err := InitDistribution(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize distribution engine: %v", err)
	}
	defer a.Close()

	app, err := InitFiberApp(a)
	if err != nil {
		log.Fatalf("Failed to initialize routes: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return listen(app)
	})

	// Kênh thông báo realtime cho nhân viên
	g.Go(func() error {
		return a.hub.ListenAndServe(gctx, cfg.WebSocketAddress)
	})

	if a.worker != nil {
		g.Go(func() error {
			a.worker.Start(gctx)
			return nil
		})
	} else {
		log.Info("🔀 [REDISTRIBUTE_WORKER] Worker disabled")
	}

	// Dừng HTTP khi nhận tín hiệu hoặc một thành phần khác lỗi
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Server stopped with error")
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = database.CloseInstance(closeCtx, global.MongoDB_Session)
	log.Info("Server stopped")
}
