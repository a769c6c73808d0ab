// Package api exposes the order workflow over HTTP: session creation, order
// submission, reservation lookup, order listing, the menu catalog, and the
// WebSocket upgrade endpoint for dashboards.
package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/metric"

	"github.com/tableside/tableside/internal/catalog"
	"github.com/tableside/tableside/internal/order"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in menu responses.
	// When empty, image paths are returned as stored in the catalog.
	ImageBaseURL string
}

// Handler implements the HTTP API, delegating business logic to the ledger
// and the catalog repository.
type Handler struct {
	catalog      catalog.Repository
	ledger       *order.Ledger
	observers    http.Handler
	imageBaseURL string

	sessionsCreated metric.Int64Counter
	ordersSubmitted metric.Int64Counter
}

// NewHandler constructs a Handler. observers serves WebSocket upgrade
// requests for dashboard connections.
func NewHandler(
	cfg Config,
	cat catalog.Repository,
	ledger *order.Ledger,
	observers http.Handler,
	meter metric.Meter,
) (*Handler, error) {
	sessionsCreated, err := meter.Int64Counter("tableside.sessions.created",
		metric.WithDescription("Number of client sessions created"))
	if err != nil {
		return nil, errors.Wrap(err, "create sessions counter")
	}
	ordersSubmitted, err := meter.Int64Counter("tableside.orders.submitted",
		metric.WithDescription("Number of accepted order submissions"))
	if err != nil {
		return nil, errors.Wrap(err, "create orders counter")
	}

	return &Handler{
		catalog:         cat,
		ledger:          ledger,
		observers:       observers,
		imageBaseURL:    cfg.ImageBaseURL,
		sessionsCreated: sessionsCreated,
		ordersSubmitted: ordersSubmitted,
	}, nil
}

// Routes returns the API mux. All routes live under /api.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/sessions", h.newSession)
	mux.HandleFunc("GET /api/orders", h.listOrders)
	mux.HandleFunc("POST /api/orders/{clientId}", h.submitOrder)
	mux.HandleFunc("GET /api/reservations/{clientId}", h.lookupReservation)
	mux.HandleFunc("GET /api/menu", h.listMenu)
	if h.observers != nil {
		mux.Handle("GET /api/ws", h.observers)
	}
	return mux
}
