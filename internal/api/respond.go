package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// User-facing messages, kept verbatim from the deployed API.
const (
	msgClientRequired      = "El nombre y teléfono son requeridos."
	msgLinesRequired       = "La orden debe contener al menos un producto."
	msgStatusRequired      = "El estado del pedido es requerido."
	msgStatusInvalid       = "El estado del pedido es inválido."
	msgBodyInvalid         = "El cuerpo de la solicitud es inválido."
	msgClientNotFound      = "Cliente no encontrado."
	msgInternal            = "Hubo un problema procesando tu pedido. Intenta más tarde."
	msgReservationOK       = "Reserva confirmada."
	msgReservationFound    = "Reserva encontrada."
	msgReservationNotFound = "No se encontró una reserva asociada a este cliente."
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zctx.From(r.Context()).Error("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}
