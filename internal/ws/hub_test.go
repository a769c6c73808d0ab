package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tableside/tableside/internal/order"
)

func testOrder() *order.Order {
	return &order.Order{
		ID: 1700000000001,
		Client: order.Client{
			ID:        "abc123",
			Name:      "Ana",
			Phone:     "999",
			UpdatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		Lines: []order.Line{
			{
				ItemID:    1,
				Name:      "Tacos al pastor",
				Price:     decimal.RequireFromString("9.9"),
				Image:     "/img/tacos_pastor.jpg",
				Category:  "Platos",
				Available: true,
				Quantity:  2,
			},
		},
		Status: order.StatusPending,
		Total:  decimal.RequireFromString("19.8"),
	}
}

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub(zaptest.NewLogger(t), Config{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.Run(ctx)
	}()

	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
	})
	return hub, srv
}

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitConnected(t *testing.T, hub *Hub, want int64) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Connected() != want {
		if time.Now().After(deadline) {
			t.Fatalf("hub never reached %d observers, have %d", want, hub.Connected())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_BroadcastReachesAllObservers(t *testing.T) {
	hub, srv := startHub(t)

	c1 := dialHub(t, srv)
	c2 := dialHub(t, srv)
	waitConnected(t, hub, 2)

	hub.NotifyNewOrder(testOrder())

	for _, conn := range []*websocket.Conn{c1, c2} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, frame, err := conn.ReadMessage()
		require.NoError(t, err)

		var payload struct {
			Event string `json:"event"`
			Data  struct {
				ID      int64 `json:"id"`
				Cliente struct {
					ID    string `json:"id"`
					Name  string `json:"name"`
					Phone string `json:"phone"`
					Date  string `json:"date"`
				} `json:"cliente"`
				Productos []struct {
					ID       int     `json:"id"`
					Name     string  `json:"name"`
					Price    float64 `json:"price"`
					State    bool    `json:"state"`
					Quantity int     `json:"quantity"`
				} `json:"productos"`
				Estado string  `json:"estado"`
				Total  float64 `json:"total"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(frame, &payload))

		assert.Equal(t, "new-order", payload.Event)
		assert.Equal(t, int64(1700000000001), payload.Data.ID)
		assert.Equal(t, "abc123", payload.Data.Cliente.ID)
		assert.Equal(t, "Ana", payload.Data.Cliente.Name)
		assert.Equal(t, "2025-03-01T12:00:00Z", payload.Data.Cliente.Date)
		require.Len(t, payload.Data.Productos, 1)
		assert.Equal(t, 2, payload.Data.Productos[0].Quantity)
		assert.InDelta(t, 9.9, payload.Data.Productos[0].Price, 1e-9)
		assert.Equal(t, "Pendiente", payload.Data.Estado)
		assert.InDelta(t, 19.8, payload.Data.Total, 1e-9)
	}
}

func TestHub_LateObserverGetsNoReplay(t *testing.T) {
	hub, srv := startHub(t)

	early := dialHub(t, srv)
	waitConnected(t, hub, 1)

	hub.NotifyNewOrder(testOrder())

	early.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := early.ReadMessage()
	require.NoError(t, err)

	late := dialHub(t, srv)
	waitConnected(t, hub, 2)

	late.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = late.ReadMessage()
	assert.Error(t, err, "late observer must not receive a replayed event")
}

func TestHub_DisconnectedObserverIsForgotten(t *testing.T) {
	hub, srv := startHub(t)

	conn := dialHub(t, srv)
	waitConnected(t, hub, 1)

	conn.Close()
	waitConnected(t, hub, 0)

	// Broadcasting with nobody listening must not block or panic.
	hub.NotifyNewOrder(testOrder())
}

func TestHub_NotifyWithoutRunDoesNotBlock(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t), Config{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 100 {
			hub.NotifyNewOrder(testOrder())
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("NotifyNewOrder blocked with no running hub")
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://dashboard.local"})

	req := httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, check(req))

	req.Header.Del("Origin")
	assert.True(t, check(req), "non-browser clients without Origin pass")

	allowAll := originChecker(nil)
	req.Header.Set("Origin", "http://anywhere.example")
	assert.True(t, allowAll(req))
}
