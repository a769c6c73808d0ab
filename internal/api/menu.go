package api

import (
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// listMenu returns the full menu catalog with image paths prefixed by the
// configured base URL.
func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("list menu", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, msgInternal)
		return
	}

	out := make([]menuItemWire, len(items))
	for i, m := range items {
		out[i] = h.toWireMenuItem(m)
	}
	writeJSON(w, r, http.StatusOK, out)
}
