package helpers

import (
	"context"

	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

// TestCtx returns a background context carrying a discarding logger.
func TestCtx() context.Context {
	return logger.ToContext(context.Background(), logger.Discard())
}

// TestCtxWith is TestCtx with extra logger attributes, e.g. a uid.
func TestCtxWith(args ...any) context.Context {
	_, ctx := logger.With(TestCtx(), args...)
	return ctx
}
