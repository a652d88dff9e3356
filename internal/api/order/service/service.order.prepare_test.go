package ordersvc

import (
	"context"
	"errors"
	"testing"

	orderdto "shop_ops/internal/api/order/dto"
	ordermodels "shop_ops/internal/api/order/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCounter struct {
	seq map[string]int64
	err error
}

func (s *stubCounter) Next(_ context.Context, prefix string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.seq[prefix]++
	return s.seq[prefix], nil
}

func sampleInput() orderdto.NewOrderInput {
	return orderdto.NewOrderInput{
		ProductID:    "AO01",
		CustomerName: "Nguyễn Văn A",
		Phone:        "0900000000",
		Address:      "Hà Nội",
		OrderInfo: []ordermodels.OrderItem{
			{Name: "Áo thun", Color: "Đen", Size: "M", Quantity: 2, Price: 149000.5, Weight: 0.25},
			{Name: "Áo thun", Color: "Trắng", Size: "L", Quantity: 1, Price: 0.1, Weight: 0.2},
		},
		Status:     "Mới",
		Promotions: []string{"FREESHIP"},
	}
}

func TestComputeTotals(t *testing.T) {
	totals := ComputeTotals(sampleInput().OrderInfo)
	assert.Equal(t, 298001.1, totals.Total)
	assert.Equal(t, 3, totals.TotalProduct)
	assert.Equal(t, 0.7, totals.TotalWeight)

	assert.Equal(t, Totals{}, ComputeTotals(nil))
}

func TestOrderCode(t *testing.T) {
	assert.Equal(t, "AO01-000001", OrderCode("AO01", 1))
	assert.Equal(t, "AO01-123456", OrderCode("AO01", 123456))
	assert.Equal(t, "AO01-1234567", OrderCode("AO01", 1234567))
}

func TestBuildNewOrder(t *testing.T) {
	input := sampleInput()
	input.Total = 500000

	order := BuildNewOrder(input, "AO01-000007")
	assert.Equal(t, "AO01-000007", order.OrderCode)
	assert.Equal(t, "", order.StaffID)
	assert.Equal(t, ordermodels.SourceLandingWeb, order.Original.Staff)
	assert.Empty(t, order.Original.OrderCode)
	assert.Equal(t, "AO01-000007", order.Final.OrderCode)
	assert.Equal(t, "", order.Final.Staff)
	assert.False(t, order.Final.Confirmed)
	assert.Equal(t, "Mới", order.Final.Status)
	assert.Equal(t, []string{"FREESHIP"}, order.Final.Promotions)

	// total gửi lên được giữ, phần còn thiếu thì tự tính
	assert.Equal(t, 500000.0, order.Final.Total)
	assert.Equal(t, 3, order.Final.TotalProduct)
	assert.Equal(t, 0.7, order.Original.TotalWeight)
}

func TestPrepareNewOrder(t *testing.T) {
	counter := &stubCounter{seq: map[string]int64{}}
	ctx := context.Background()

	first, err := PrepareNewOrder(ctx, counter, sampleInput())
	require.NoError(t, err)
	second, err := PrepareNewOrder(ctx, counter, sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "AO01-000001", first.OrderCode)
	assert.Equal(t, "AO01-000002", second.OrderCode)

	counter.err = errors.New("counter down")
	_, err = PrepareNewOrder(ctx, counter, sampleInput())
	assert.Error(t, err)
}

func TestPrepareNewOrder_CounterKeptApartFromRoundRobin(t *testing.T) {
	counter := &stubCounter{seq: map[string]int64{}}
	input := sampleInput()
	input.ProductID = "new-order"

	for i := 0; i < 3; i++ {
		_, err := PrepareNewOrder(context.Background(), counter, input)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(3), counter.seq[ordermodels.OrderCodePrefix("new-order")])
	assert.Zero(t, counter.seq[ordermodels.RoundRobinPrefix])

	input.ProductID = ordermodels.RoundRobinPrefix
	_, err := PrepareNewOrder(context.Background(), counter, input)
	require.NoError(t, err)
	assert.Zero(t, counter.seq[ordermodels.RoundRobinPrefix])
}
