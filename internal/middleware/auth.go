package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/response"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

type tokenVerifier interface {
	Verify(token string) (string, error)
}

type Middleware struct {
	Verifier        tokenVerifier
	ResponseHandler response.ResponseHandler
}

func NewMiddleware(verifier tokenVerifier, rh response.ResponseHandler) *Middleware {
	return &Middleware{Verifier: verifier, ResponseHandler: rh}
}

// context key
type contextKey string

const UIDKey contextKey = "uid"

// BearerAuth rejects requests without a valid bearer token before any
// handler runs, and puts the token's user id into the context.
func (m *Middleware) BearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			m.ResponseHandler.HandleError(w, r, errs.NewUnauthorizedError("missing Authorization header"))
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.ResponseHandler.HandleError(w, r, errs.NewUnauthorizedError("invalid Authorization header"))
			return
		}

		uid, err := m.Verifier.Verify(parts[1])
		if err != nil {
			m.ResponseHandler.HandleError(w, r, errs.NewUnauthorizedError("invalid or expired token"))
			return
		}

		ctx := context.WithValue(r.Context(), UIDKey, uid)
		_, ctx = logger.With(ctx, "uid", uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Helper to extract UID
func UID(ctx context.Context) string {
	uid, _ := ctx.Value(UIDKey).(string)
	return uid
}
