package global

import (
	"shop_ops/config"
	"shop_ops/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName chứa tên các collection trong MongoDB
type MongoDB_CollectionName struct {
	Staffs              string // Nhân viên
	NewOrders           string // Kho đơn chờ (chưa có nhân viên)
	ShopOrders          string // Đơn đã giao cho nhân viên
	Counters            string // Bộ đếm tuần tự (mã đơn, round robin)
	RedistributionLocks string // Khóa phân phối theo ngày
}

// Các biến toàn cục
var Validate *validator.Validate                                                // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                                               // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration                                  // Cấu hình của server
var MongoDB_ColNames MongoDB_CollectionName = *new(MongoDB_CollectionName)      // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
