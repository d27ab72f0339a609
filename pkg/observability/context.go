package observability

import (
	"context"

	"github.com/google/uuid"
)

// Attribute keys shared by log records and request metadata.
const (
	CorrelationIDKey = "correlation_id"
	RequestIDKey     = "request_id"
	UserIDKey        = "user_id"
	OperationKey     = "operation"
	DurationKey      = "duration_ms"
	StatusKey        = "status"
)

type ctxKey int

const (
	correlationIDCtx ctxKey = iota
	requestIDCtx
	userIDCtx
	operationCtx
)

// loggedFields are copied from the context onto every log record, in order.
var loggedFields = []struct {
	key  ctxKey
	attr string
}{
	{correlationIDCtx, CorrelationIDKey},
	{requestIDCtx, RequestIDKey},
	{userIDCtx, UserIDKey},
	{operationCtx, OperationKey},
}

func stringFromContext(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

// NewRequestContext starts a request scope with a fresh request ID. The
// caller's correlation ID is kept; an empty one is replaced by a new ID.
func NewRequestContext(ctx context.Context, correlationID string) context.Context {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	ctx = context.WithValue(ctx, requestIDCtx, uuid.NewString())
	return context.WithValue(ctx, correlationIDCtx, correlationID)
}

func CorrelationIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, correlationIDCtx)
}

func RequestIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, requestIDCtx)
}

// WithUserID records the caller acting in this request.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDCtx, userID)
}

func UserIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, userIDCtx)
}

// WithOperation names the use case being served, such as "log_entry".
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, operationCtx, operation)
}

func OperationFromContext(ctx context.Context) string {
	return stringFromContext(ctx, operationCtx)
}
