package main

import (
	"context"
	"time"

	"shop_ops/config"
	ordermodels "shop_ops/internal/api/order/models"
	staffmodels "shop_ops/internal/api/staff/models"
	"shop_ops/internal/database"
	"shop_ops/internal/global"

	"github.com/sirupsen/logrus"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.MongoDB_ColNames.Staffs = "staffs"
	global.MongoDB_ColNames.NewOrders = "new_orders"
	global.MongoDB_ColNames.ShopOrders = "shop_orders"
	global.MongoDB_ColNames.Counters = "counters"
	global.MongoDB_ColNames.RedistributionLocks = "redistribution_locks"

	logrus.Info("Initialized collection names")
}

// Hàm khởi tạo validator (no_xss, month_key, staff_role)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbName := global.MongoDB_ServerConfig.MongoDB_DBName
	if err := database.EnsureDatabaseAndCollections(ctx, global.MongoDB_Session, dbName); err != nil {
		logrus.Fatalf("Failed to ensure collections: %v", err)
	}
	logrus.Info("Ensured database and collections")

	// Khởi tạo các index theo tag `index` trên model
	db := global.MongoDB_Session.Database(dbName)
	indexed := []struct {
		name  string
		model interface{}
	}{
		{global.MongoDB_ColNames.Staffs, staffmodels.Staff{}},
		{global.MongoDB_ColNames.NewOrders, ordermodels.NewOrder{}},
		{global.MongoDB_ColNames.ShopOrders, ordermodels.ShopOrder{}},
		{global.MongoDB_ColNames.Counters, ordermodels.Counter{}},
		{global.MongoDB_ColNames.RedistributionLocks, ordermodels.RedistributionLock{}},
	}
	for _, it := range indexed {
		if err := database.CreateIndexes(ctx, db.Collection(it.name), it.model); err != nil {
			logrus.Fatalf("Failed to create indexes for %s: %v", it.name, err)
		}
	}
	logrus.Info("Created indexes")
}
