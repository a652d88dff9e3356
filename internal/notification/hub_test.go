package notification

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type presenceLog struct {
	mu     sync.Mutex
	events []string
}

func (p *presenceLog) record(_ context.Context, staffID string, online bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	state := "off"
	if online {
		state = "on"
	}
	p.events = append(p.events, staffID+":"+state)
	return nil
}

func (p *presenceLog) snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func dial(t *testing.T, srv *httptest.Server, staffID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?staffID=" + staffID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

// drain đọc mọi gói tin tới trong khoảng wait; kết nối không dùng lại được sau đó
func drain(t *testing.T, conn *websocket.Conn, wait time.Duration) []Event {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(wait))
	var events []Event
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return events
		}
		var ev Event
		require.NoError(t, json.Unmarshal(msg, &ev))
		events = append(events, ev)
	}
}

func nextOfType(t *testing.T, conn *websocket.Conn, eventType string) Event {
	t.Helper()
	for {
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		var ev Event
		require.NoError(t, json.Unmarshal(msg, &ev))
		if ev.Type == eventType {
			return ev
		}
	}
}

func typesOf(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Type)
	}
	return out
}

func TestHub_NotifyDeliversToStaffConnections(t *testing.T) {
	presence := &presenceLog{}
	hub := NewHub(WithPresence(presence.record))
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	a1 := dial(t, srv, "NV01")
	defer a1.Close()
	a2 := dial(t, srv, "NV01")
	defer a2.Close()
	b := dial(t, srv, "NV02")
	defer b.Close()

	require.Eventually(t, func() bool { return hub.Connected("NV01") == 2 && hub.Connected("NV02") == 1 },
		time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Notify(context.Background(), "NV01", EventNewOrder, map[string]string{"orderCode": "SP1-000001"}))

	for _, conn := range []*websocket.Conn{a1, a2} {
		ev := nextOfType(t, conn, EventNewOrder)
		assert.Equal(t, "NV01", ev.StaffID)
		assert.NotEmpty(t, ev.ID)
	}

	// NV02 không nhận sự kiện của NV01
	got := typesOf(drain(t, b, 200*time.Millisecond))
	assert.Contains(t, got, EventStatus)
	assert.NotContains(t, got, EventNewOrder)

	require.Eventually(t, func() bool { return len(presence.snapshot()) == 2 }, time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []string{"NV01:on", "NV02:on"}, presence.snapshot())
}

func TestHub_BroadcastsStatusChanges(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	observer := dial(t, srv, "NV10")
	defer observer.Close()
	own := nextOfType(t, observer, EventStatus)
	assert.Equal(t, map[string]interface{}{"staffID": "NV10", "status": "online"}, own.Payload)

	c := dial(t, srv, "NV11")
	assert.Equal(t, "online", nextOfType(t, c, EventStatus).Payload.(map[string]interface{})["status"])

	online := nextOfType(t, observer, EventStaffStatusChanged)
	assert.Equal(t, "NV11", online.StaffID)
	assert.Equal(t, map[string]interface{}{"staffID": "NV11", "status": "online"}, online.Payload)

	_ = c.Close()
	offline := nextOfType(t, observer, EventStaffStatusChanged)
	assert.Equal(t, map[string]interface{}{"staffID": "NV11", "status": "offline"}, offline.Payload)
}

func TestHub_NotifyOfflineIsNoop(t *testing.T) {
	hub := NewHub()
	assert.NoError(t, hub.Notify(context.Background(), "ghost", EventNewOrder, nil))
}

func TestHub_PresenceOffAfterLastConnectionCloses(t *testing.T) {
	presence := &presenceLog{}
	hub := NewHub(WithPresence(presence.record))
	srv := httptest.NewServer(hub)
	defer srv.Close()

	c1 := dial(t, srv, "NV03")
	c2 := dial(t, srv, "NV03")
	require.Eventually(t, func() bool { return hub.Connected("NV03") == 2 }, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return len(presence.snapshot()) == 1 }, time.Second, 10*time.Millisecond)

	_ = c1.Close()
	require.Eventually(t, func() bool { return hub.Connected("NV03") == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"NV03:on"}, presence.snapshot())

	_ = c2.Close()
	require.Eventually(t, func() bool { return hub.Connected("NV03") == 0 }, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return len(presence.snapshot()) == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"NV03:on", "NV03:off"}, presence.snapshot())
}

func TestHub_RejectsMissingStaffID(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 400, resp.StatusCode)
}
