// Package models - Các model của domain đơn hàng: kho đơn chờ, đơn đã giao, bộ đếm và khóa phân phối.
package models

// Giá trị hiển thị cố định cho đơn tạo từ landing page
const (
	SourceLandingWeb = "Landing web"
)

// OrderItem một dòng sản phẩm trong đơn
type OrderItem struct {
	Name     string  `json:"name" bson:"name" validate:"required,no_xss"`
	Color    string  `json:"color" bson:"color"`
	Size     string  `json:"size" bson:"size"`
	Quantity int     `json:"quantity" bson:"quantity" validate:"gte=1"`
	Price    float64 `json:"price" bson:"price" validate:"gte=0"`
	Weight   float64 `json:"weight" bson:"weight" validate:"gte=0"`
}

// OrderSnapshot ảnh chụp thông tin đơn.
// Bản "original" giữ nguyên dữ liệu khách gửi, bản "final" là bản nhân viên chốt.
type OrderSnapshot struct {
	OrderCode      string      `json:"orderCode,omitempty" bson:"orderCode,omitempty"`
	Time           int64       `json:"time" bson:"time"`
	CustomerName   string      `json:"customerName" bson:"customerName"`
	Phone          string      `json:"phone" bson:"phone"`
	Address        string      `json:"address" bson:"address"`
	OrderInfo      []OrderItem `json:"orderInfo" bson:"orderInfo"`
	Total          float64     `json:"total" bson:"total"`
	TotalProduct   int         `json:"totalProduct" bson:"totalProduct"`
	TotalWeight    float64     `json:"totalWeight" bson:"totalWeight"`
	Note           string      `json:"note" bson:"note"`
	Status         string      `json:"status" bson:"status"`
	Confirmed      bool        `json:"confirmed" bson:"confirmed"`
	Staff          string      `json:"staff" bson:"staff"` // Tên hiển thị của nhân viên phụ trách
	BuyerIP        string      `json:"buyerIP" bson:"buyerIP"`
	Website        string      `json:"website" bson:"website"`
	DeliveryStatus string      `json:"deliveryStatus" bson:"deliveryStatus"`
	DeliveryCode   string      `json:"deliveryCode" bson:"deliveryCode"`
	FacebookLink   string      `json:"facebookLink" bson:"facebookLink"`
	TiktokLink     string      `json:"tiktokLink" bson:"tiktokLink"`
	Promotions     []string    `json:"promotions" bson:"promotions"`
}

// DeliveryDetails thông tin giao vận
type DeliveryDetails struct {
	ShippedTime string `json:"shippedTime" bson:"shippedTime"`
}

// HistoryChange ghi lại một lần đổi trạng thái đơn
type HistoryChange struct {
	Status    string `json:"status" bson:"status"`
	Confirmed bool   `json:"confirmed" bson:"confirmed"`
	ChangedBy string `json:"changedBy" bson:"changedBy"`
	ChangedAt int64  `json:"changedAt" bson:"changedAt"`
}
