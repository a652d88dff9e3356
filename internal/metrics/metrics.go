// Package metrics khai báo các collector Prometheus cho bộ phân phối đơn và kênh thông báo.
// Mọi method an toàn khi receiver nil để test và worker không cần registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shop_ops"

// Distribution gom các collector của engine phân phối
type Distribution struct {
	assignments     *prometheus.CounterVec
	claims          *prometheus.CounterVec
	claimedOrders   prometheus.Counter
	redistributions *prometheus.CounterVec
	movedOrders     *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	relayClients    prometheus.Gauge
	relayEvents     *prometheus.CounterVec
}

// NewDistribution đăng ký collector lên reg. reg nil trả về bộ metrics rỗng.
func NewDistribution(reg prometheus.Registerer) *Distribution {
	if reg == nil {
		return &Distribution{}
	}
	d := &Distribution{
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_assignments_total",
			Help:      "Đơn mới theo kết quả: giao ngay hoặc vào kho.",
		}, []string{"result"}),
		claims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "morning_claims_total",
			Help:      "Lượt nhận đơn buổi sáng theo kết quả.",
		}, []string{"outcome"}),
		claimedOrders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "morning_claimed_orders_total",
			Help:      "Số đơn đã được nhận qua luồng buổi sáng.",
		}),
		redistributions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redistributions_total",
			Help:      "Lượt phân phối lại theo kết quả.",
		}, []string{"outcome"}),
		movedOrders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redistributed_orders_total",
			Help:      "Số đơn đã chia lại, tách phần chia đều và phần dư.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "distribution_operation_duration_seconds",
			Help:      "Thời gian xử lý các thao tác phân phối.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		relayClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "relay_connections",
			Help:      "Số kết nối websocket đang mở.",
		}),
		relayEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_events_total",
			Help:      "Sự kiện đẩy tới nhân viên theo loại và kết quả.",
		}, []string{"type", "result"}),
	}
	reg.MustRegister(d.assignments, d.claims, d.claimedOrders, d.redistributions,
		d.movedOrders, d.duration, d.relayClients, d.relayEvents)
	return d
}

// IncAssignment đếm một đơn mới, result là "assigned" hoặc "pool"
func (d *Distribution) IncAssignment(result string) {
	if d == nil || d.assignments == nil {
		return
	}
	d.assignments.WithLabelValues(normalizeLabel(result)).Inc()
}

// ObserveClaim đếm lượt nhận đơn và số đơn nhận được
func (d *Distribution) ObserveClaim(outcome string, orders int) {
	if d == nil || d.claims == nil {
		return
	}
	d.claims.WithLabelValues(normalizeLabel(outcome)).Inc()
	if orders > 0 {
		d.claimedOrders.Add(float64(orders))
	}
}

// ObserveRedistribution đếm lượt phân phối lại cùng số đơn chia đều và số đơn dư
func (d *Distribution) ObserveRedistribution(outcome string, even, leftover int) {
	if d == nil || d.redistributions == nil {
		return
	}
	d.redistributions.WithLabelValues(normalizeLabel(outcome)).Inc()
	if even > 0 {
		d.movedOrders.WithLabelValues("even").Add(float64(even))
	}
	if leftover > 0 {
		d.movedOrders.WithLabelValues("leftover").Add(float64(leftover))
	}
}

// ObserveDuration ghi thời gian xử lý tính từ start
func (d *Distribution) ObserveDuration(operation string, start time.Time) {
	if d == nil || d.duration == nil {
		return
	}
	d.duration.WithLabelValues(normalizeLabel(operation)).Observe(time.Since(start).Seconds())
}

// SetRelayConnections cập nhật số kết nối đang mở
func (d *Distribution) SetRelayConnections(n int) {
	if d == nil || d.relayClients == nil {
		return
	}
	d.relayClients.Set(float64(n))
}

// IncRelayEvent đếm sự kiện đẩy đi, result là "delivered", "offline" hoặc "dropped"
func (d *Distribution) IncRelayEvent(eventType, result string) {
	if d == nil || d.relayEvents == nil {
		return
	}
	d.relayEvents.WithLabelValues(normalizeLabel(eventType), normalizeLabel(result)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
