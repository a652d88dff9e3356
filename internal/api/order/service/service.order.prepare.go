package ordersvc

import (
	"context"
	"fmt"

	orderdto "shop_ops/internal/api/order/dto"
	ordermodels "shop_ops/internal/api/order/models"
	"shop_ops/internal/utility"

	"github.com/shopspring/decimal"
)

// Độ dài phần số trong mã đơn: <productId>-000001
const orderCodeDigits = 6

// Sequencer nguồn số thứ tự cho mã đơn, CounterService đáp ứng
type Sequencer interface {
	Next(ctx context.Context, prefix string) (int64, error)
}

// Totals tổng tiền, tổng số lượng và tổng cân nặng của một đơn
type Totals struct {
	Total        float64
	TotalProduct int
	TotalWeight  float64
}

// ComputeTotals cộng dồn từ danh sách sản phẩm. Tiền làm tròn 2 chữ số, cân nặng 3 chữ số.
func ComputeTotals(items []ordermodels.OrderItem) Totals {
	total := decimal.Zero
	weight := decimal.Zero
	quantity := 0
	for _, it := range items {
		q := decimal.NewFromInt(int64(it.Quantity))
		total = total.Add(decimal.NewFromFloat(it.Price).Mul(q))
		weight = weight.Add(decimal.NewFromFloat(it.Weight).Mul(q))
		quantity += it.Quantity
	}
	t, _ := total.Round(2).Float64()
	w, _ := weight.Round(3).Float64()
	return Totals{Total: t, TotalProduct: quantity, TotalWeight: w}
}

// OrderCode ghép mã đơn từ productId và số thứ tự
func OrderCode(productID string, seq int64) string {
	return fmt.Sprintf("%s-%s", productID, utility.PadSequence(seq, orderCodeDigits))
}

// BuildNewOrder dựng đơn kho từ dữ liệu khách gửi. Bản original ghi nguồn landing web,
// bản final chưa có nhân viên và chưa chốt.
func BuildNewOrder(input orderdto.NewOrderInput, orderCode string) ordermodels.NewOrder {
	totals := Totals{Total: input.Total, TotalProduct: input.TotalProduct, TotalWeight: input.TotalWeight}
	computed := ComputeTotals(input.OrderInfo)
	if totals.Total == 0 {
		totals.Total = computed.Total
	}
	if totals.TotalProduct == 0 {
		totals.TotalProduct = computed.TotalProduct
	}
	if totals.TotalWeight == 0 {
		totals.TotalWeight = computed.TotalWeight
	}

	original := ordermodels.OrderSnapshot{
		Time:         input.Time,
		CustomerName: input.CustomerName,
		Phone:        input.Phone,
		Address:      input.Address,
		OrderInfo:    input.OrderInfo,
		Total:        totals.Total,
		TotalProduct: totals.TotalProduct,
		TotalWeight:  totals.TotalWeight,
		Note:         input.Note,
		Staff:        ordermodels.SourceLandingWeb,
		BuyerIP:      input.BuyerIP,
		Website:      input.Website,
		FacebookLink: input.FacebookLink,
		TiktokLink:   input.TiktokLink,
	}
	final := original
	final.OrderCode = orderCode
	final.Staff = ""
	final.Status = input.Status
	final.Confirmed = false
	final.DeliveryStatus = input.DeliveryStatus
	final.DeliveryCode = input.DeliveryCode
	final.Promotions = input.Promotions

	return ordermodels.NewOrder{
		ProductID: input.ProductID,
		OrderCode: orderCode,
		Original:  original,
		Final:     final,
	}
}

// PrepareNewOrder cấp mã đơn từ bộ đếm theo productId rồi dựng đơn kho
func PrepareNewOrder(ctx context.Context, counter Sequencer, input orderdto.NewOrderInput) (ordermodels.NewOrder, error) {
	seq, err := counter.Next(ctx, ordermodels.OrderCodePrefix(input.ProductID))
	if err != nil {
		return ordermodels.NewOrder{}, err
	}
	return BuildNewOrder(input, OrderCode(input.ProductID, seq)), nil
}
