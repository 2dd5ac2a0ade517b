package response

import (
	"encoding/json"
	"net/http"

	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

type SuccessEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

func (h *responseHandler) WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	h.writeJSON(w, r, status, SuccessEnvelope{Success: true, Data: data})
}

// writeJSON commits status before encoding, so an encode failure can only be
// logged against the request.
func (h *responseHandler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log := h.Log
		if r != nil {
			log = logger.FromContext(r.Context())
		}
		log.Error("failed to encode response", "error", err, "status", status)
	}
}
