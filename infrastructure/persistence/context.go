package persistence

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

type requestIDKey struct{}

// TxFromContext retrieves the GORM transaction from context
// Returns nil if no transaction is present
func TxFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// ContextWithTx returns a new context with the GORM transaction attached
func ContextWithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// RequestIDFromContext returns the request id set by the caller, or ""
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// ContextWithRequestID attaches a request id used to correlate SQL and dispatch logs
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}
