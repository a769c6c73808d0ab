// Package ws implements the real-time push channel: a WebSocket hub that
// fans new-order events out to every connected dashboard.
//
// Delivery is fire-and-forget. There is no acknowledgment, no replay for
// observers that connect after an event fired, and a slow or disconnected
// observer is dropped rather than ever blocking the submitter.
package ws

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tableside/tableside/internal/order"
)

// Config holds hub settings.
type Config struct {
	// AllowedOrigins restricts the Origin header on upgrade requests.
	// Empty or "*" allows all origins.
	AllowedOrigins []string
}

// Hub owns the set of connected observers and serializes all membership
// changes and broadcasts through its Run loop.
type Hub struct {
	lg       *zap.Logger
	upgrader websocket.Upgrader

	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}

	connected atomic.Int64
	running   atomic.Bool
}

// NewHub creates a hub. Call Run before serving upgrade requests.
func NewHub(lg *zap.Logger, cfg Config) *Hub {
	h := &Hub{
		lg:         lg,
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(cfg.AllowedOrigins),
	}
	return h
}

// originChecker builds the upgrade-time origin check. Browsers send Origin
// on every WebSocket handshake; non-browser observers (no Origin) pass.
func originChecker(allowed []string) func(*http.Request) bool {
	allowAll := len(allowed) == 0
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			allowAll = true
		}
		set[strings.ToLower(o)] = struct{}{}
	}
	return func(r *http.Request) bool {
		if allowAll {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.ToLower(origin)]
		return ok
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// closes every remaining connection.
func (h *Hub) Run(ctx context.Context) error {
	h.running.Store(true)
	clients := make(map[*client]struct{})
	defer func() {
		h.running.Store(false)
		// Wake any pump goroutine still trying to register or unregister.
		close(h.done)
		for c := range clients {
			c.close()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-h.register:
			clients[c] = struct{}{}
			h.connected.Store(int64(len(clients)))
			h.lg.Info("observer connected", zap.String("remote", c.remoteAddr))
		case c := <-h.unregister:
			if _, ok := clients[c]; ok {
				delete(clients, c)
				c.close()
				h.connected.Store(int64(len(clients)))
				h.lg.Info("observer disconnected", zap.String("remote", c.remoteAddr))
			}
		case frame := <-h.broadcast:
			for c := range clients {
				select {
				case c.send <- frame:
				default:
					// Observer can't keep up; drop it rather than stall the loop.
					delete(clients, c)
					c.close()
					h.connected.Store(int64(len(clients)))
					h.lg.Warn("observer dropped, send buffer full", zap.String("remote", c.remoteAddr))
				}
			}
		}
	}
}

// Running reports whether the Run loop is active. Used as a readiness check.
func (h *Hub) Running() bool {
	return h.running.Load()
}

// Connected returns the current observer count.
func (h *Hub) Connected() int64 {
	return h.connected.Load()
}

var _ order.Notifier = (*Hub)(nil)

// NotifyNewOrder queues a new-order event for broadcast. It never blocks:
// if the hub is saturated or not running, the event is dropped and logged.
func (h *Hub) NotifyNewOrder(o *order.Order) {
	frame := newOrderFrame(o)
	select {
	case h.broadcast <- frame:
	default:
		h.lg.Warn("broadcast queue full, event dropped", zap.Int64("order_id", o.ID))
	}
}

// ServeHTTP upgrades the request to a WebSocket connection and registers the
// observer with the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.lg.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	c := newClient(conn, r.RemoteAddr)
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump(func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	})
}
