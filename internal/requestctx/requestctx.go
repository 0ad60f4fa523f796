package requestctx

import "context"

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	employeeKey  ctxKey = "employee"
)

// Identity is the pre-validated caller identity supplied by the auth layer.
type Identity struct {
	EmployeeID string
	Role       string
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, employeeKey, identity)
}

func GetIdentity(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(employeeKey).(Identity)
	return identity, ok
}
