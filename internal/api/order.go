package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/tableside/tableside/internal/order"
)

type sessionResponse struct {
	ID string `json:"id"`
}

// newSession creates a fresh client identity with an empty pending order and
// returns its id. The id is the only credential a table session ever holds.
func (h *Handler) newSession(w http.ResponseWriter, r *http.Request) {
	id := h.ledger.CreateSession()
	h.sessionsCreated.Add(r.Context(), 1)

	zctx.From(r.Context()).Info("session created", zap.String("client_id", id))
	writeJSON(w, r, http.StatusOK, sessionResponse{ID: id})
}

// listOrders returns every order in insertion order, for dashboard use.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	all := h.ledger.ListAll()
	out := make([]orderWire, len(all))
	for i, o := range all {
		out[i] = toWireOrder(o)
	}
	writeJSON(w, r, http.StatusOK, out)
}

type submitResponse struct {
	Message     string `json:"message"`
	Reservation string `json:"reservation"`
}

// submitOrder merges the submitted cart into the client's order. The ledger
// enforces validation, merge and at-most-once emission; this handler only
// translates wire to domain and errors to status codes.
func (h *Handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("clientId")
	lg := zctx.From(r.Context())

	var req submitWire
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, msgBodyInvalid)
		return
	}

	o, err := h.ledger.Submit(order.SubmitRequest{
		ClientID: clientID,
		Name:     req.Cliente.Name,
		Phone:    req.Cliente.Phone,
		Lines:    toDomainLines(req.Productos),
		Status:   order.Status(req.Estado),
	})
	if err != nil {
		h.writeSubmitError(w, r, err)
		return
	}

	h.ordersSubmitted.Add(r.Context(), 1)
	lg.Info("order submitted",
		zap.String("client_id", clientID),
		zap.Int64("order_id", o.ID),
		zap.Int("lines", len(o.Lines)),
		zap.String("total", o.Total.String()),
	)

	writeJSON(w, r, http.StatusCreated, submitResponse{
		Message:     msgReservationOK,
		Reservation: clientID,
	})
}

// writeSubmitError maps ledger errors to the §7 taxonomy: validation → 400,
// unknown client → 404, anything else → logged 500 with a generic message.
func (h *Handler) writeSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrClientRequired):
		writeError(w, r, http.StatusBadRequest, msgClientRequired)
	case errors.Is(err, order.ErrLinesRequired):
		writeError(w, r, http.StatusBadRequest, msgLinesRequired)
	case errors.Is(err, order.ErrStatusRequired):
		writeError(w, r, http.StatusBadRequest, msgStatusRequired)
	case errors.Is(err, order.ErrInvalidStatus):
		writeError(w, r, http.StatusBadRequest, msgStatusInvalid)
	case errors.Is(err, order.ErrNotFound):
		writeError(w, r, http.StatusNotFound, msgClientNotFound)
	default:
		var iqErr *order.InvalidQuantityError
		if errors.As(err, &iqErr) {
			writeError(w, r, http.StatusBadRequest,
				fmt.Sprintf("La cantidad debe ser mayor a 0 para el producto %d.", iqErr.ItemID))
			return
		}
		zctx.From(r.Context()).Error("submit order", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, msgInternal)
	}
}

type reservationResponse struct {
	Message string    `json:"message"`
	Pedido  orderWire `json:"pedido"`
}

// lookupReservation returns the full order detail for an existing client id.
// Safe to call repeatedly; used for the post-submit confirmation/QR view and
// for re-validating a code from a fresh session.
func (h *Handler) lookupReservation(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("clientId")

	o, err := h.ledger.FindByClientID(clientID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, msgReservationNotFound)
			return
		}
		zctx.From(r.Context()).Error("lookup reservation", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, msgInternal)
		return
	}

	writeJSON(w, r, http.StatusOK, reservationResponse{
		Message: msgReservationFound,
		Pedido:  toWireOrder(o),
	})
}
