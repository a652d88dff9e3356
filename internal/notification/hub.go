// Package notification đẩy sự kiện realtime tới nhân viên qua websocket.
// Mỗi nhân viên có thể mở nhiều kết nối (nhiều tab), sự kiện gửi tới tất cả.
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"shop_ops/internal/logger"
	"shop_ops/internal/metrics"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Các loại sự kiện gửi tới nhân viên
const (
	EventNewOrder            = "new-order"
	EventOrdersRedistributed = "orders-redistributed"
	// EventStatus gửi cho chính kết nối vừa mở
	EventStatus = "status"
	// EventStaffStatusChanged gửi cho các nhân viên khác khi một người online/offline
	EventStaffStatusChanged = "staff-status-changed"
)

// StatusPayload nội dung của sự kiện trạng thái
type StatusPayload struct {
	StaffID string `json:"staffID"`
	Status  string `json:"status"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 32
	maxMessageSize = 4096
)

// Event là gói tin JSON gửi xuống client
type Event struct {
	ID      string      `json:"id"`
	Type    string      `json:"type"`
	StaffID string      `json:"staffID"`
	Payload interface{} `json:"payload"`
	SentAt  int64       `json:"sentAt"`
}

// PresenceFunc được gọi khi nhân viên có kết nối đầu tiên (online=true) hoặc đóng kết nối cuối cùng
type PresenceFunc func(ctx context.Context, staffID string, online bool) error

// Hub giữ các kết nối đang mở theo staffID
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]map[*client]struct{}
	upgrader   websocket.Upgrader
	onPresence PresenceFunc
	metrics    *metrics.Distribution
	log        *logrus.Entry
	closed     bool
}

// Option cấu hình Hub
type Option func(*Hub)

// WithPresence đăng ký callback cập nhật trạng thái online
func WithPresence(fn PresenceFunc) Option {
	return func(h *Hub) { h.onPresence = fn }
}

// WithMetrics gắn bộ metrics
func WithMetrics(m *metrics.Distribution) Option {
	return func(h *Hub) { h.metrics = m }
}

// WithCheckOrigin thay hàm kiểm tra Origin của request nâng cấp
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(h *Hub) { h.upgrader.CheckOrigin = fn }
}

// NewHub tạo Hub
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		clients: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: logger.WithModule("relay"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP nâng cấp request /ws?staffID=<id> thành websocket
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	staffID := r.URL.Query().Get("staffID")
	if staffID == "" {
		http.Error(w, "staffID is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("📡 [RELAY] Upgrade websocket thất bại")
		return
	}

	c := &client{hub: h, conn: conn, staffID: staffID, send: make(chan []byte, sendBufferSize)}
	if !h.register(c) {
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	set, ok := h.clients[c.staffID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.staffID] = set
	}
	set[c] = struct{}{}
	first := len(set) == 1
	total := h.countLocked()
	h.mu.Unlock()

	h.metrics.SetRelayConnections(total)
	h.log.WithField("staffID", c.staffID).Info("📡 [RELAY] Nhân viên kết nối")
	h.sendTo(c, EventStatus, StatusPayload{StaffID: c.staffID, Status: "online"})
	if first {
		h.presence(c.staffID, true)
		h.broadcastStatus(c.staffID, "online")
	}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	set, ok := h.clients[c.staffID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, exists := set[c]; !exists {
		h.mu.Unlock()
		return
	}
	delete(set, c)
	close(c.send)
	last := len(set) == 0
	if last {
		delete(h.clients, c.staffID)
	}
	total := h.countLocked()
	h.mu.Unlock()

	h.metrics.SetRelayConnections(total)
	h.log.WithField("staffID", c.staffID).Info("📡 [RELAY] Nhân viên ngắt kết nối")
	if last {
		h.presence(c.staffID, false)
		h.broadcastStatus(c.staffID, "offline")
	}
}

func (h *Hub) countLocked() int {
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

func (h *Hub) presence(staffID string, online bool) {
	if h.onPresence == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.onPresence(ctx, staffID, online); err != nil {
		h.log.WithError(err).WithFields(logrus.Fields{
			"staffID": staffID,
			"online":  online,
		}).Warn("📡 [RELAY] Cập nhật trạng thái online thất bại")
	}
}

func encodeEvent(staffID, eventType string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(Event{
		ID:      uuid.NewString(),
		Type:    eventType,
		StaffID: staffID,
		Payload: payload,
		SentAt:  time.Now().UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", eventType, err)
	}
	return data, nil
}

// enqueue phải được gọi khi đang giữ h.mu
func (h *Hub) enqueue(c *client, eventType string, data []byte) {
	select {
	case c.send <- data:
		h.metrics.IncRelayEvent(eventType, "delivered")
	default:
		h.metrics.IncRelayEvent(eventType, "dropped")
		h.log.WithField("staffID", c.staffID).Warn("📡 [RELAY] Hàng đợi đầy, bỏ sự kiện")
	}
}

func (h *Hub) sendTo(c *client, eventType string, payload interface{}) {
	data, err := encodeEvent(c.staffID, eventType, payload)
	if err != nil {
		h.log.WithError(err).Warn("📡 [RELAY] Không mã hóa được sự kiện")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c.staffID][c]; ok {
		h.enqueue(c, eventType, data)
	}
}

// broadcastStatus báo trạng thái của staffID cho mọi kết nối của nhân viên khác
func (h *Hub) broadcastStatus(staffID, status string) {
	data, err := encodeEvent(staffID, EventStaffStatusChanged, StatusPayload{StaffID: staffID, Status: status})
	if err != nil {
		h.log.WithError(err).Warn("📡 [RELAY] Không mã hóa được sự kiện")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, set := range h.clients {
		if id == staffID {
			continue
		}
		for c := range set {
			h.enqueue(c, EventStaffStatusChanged, data)
		}
	}
}

// Notify gửi sự kiện tới mọi kết nối của staffID.
// Không có kết nối thì bỏ qua; hàng đợi của một kết nối đầy thì sự kiện bị bỏ cho kết nối đó.
func (h *Hub) Notify(_ context.Context, staffID, eventType string, payload interface{}) error {
	data, err := encodeEvent(staffID, eventType, payload)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	set := h.clients[staffID]
	if len(set) == 0 {
		h.metrics.IncRelayEvent(eventType, "offline")
		return nil
	}
	for c := range set {
		h.enqueue(c, eventType, data)
	}
	return nil
}

// Connected trả về số kết nối đang mở của staffID
func (h *Hub) Connected(staffID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[staffID])
}

// Close đóng mọi kết nối, không nhận kết nối mới
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	var all []*client
	for _, set := range h.clients {
		for c := range set {
			all = append(all, c)
		}
	}
	h.mu.Unlock()

	for _, c := range all {
		_ = c.conn.Close()
	}
}

// ListenAndServe chạy server websocket trên addr cho tới khi ctx bị hủy
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		h.log.WithField("addr", addr).Info("📡 [RELAY] Websocket server đang lắng nghe")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type client struct {
	hub     *Hub
	conn    *websocket.Conn
	staffID string
	send    chan []byte
}

// readPump chỉ đọc để nhận pong và phát hiện đóng kết nối
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
