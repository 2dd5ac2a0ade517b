package response

import (
	"log/slog"
	"net/http"
)

// ResponseHandler writes the JSON envelope for every route and maps domain
// errors to HTTP statuses.
type ResponseHandler interface {
	WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any)
	WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string)
	HandleError(w http.ResponseWriter, r *http.Request, err error)
}

type responseHandler struct {
	// Log is used when a request carries no logger of its own.
	Log *slog.Logger
}

func New(log *slog.Logger) *responseHandler {
	if log == nil {
		log = slog.Default()
	}
	return &responseHandler{Log: log}
}
