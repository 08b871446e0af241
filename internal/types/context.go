package types

import (
	"context"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID ContextKey = "ctx_request_id"
	CtxStage     ContextKey = "ctx_stage"
)

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

func GetStage(ctx context.Context) Stage {
	if stage, ok := ctx.Value(CtxStage).(Stage); ok {
		return stage
	}
	return ""
}

// WithRequestID sets a fresh request id unless one is already present
func WithRequestID(ctx context.Context) context.Context {
	if GetRequestID(ctx) != "" {
		return ctx
	}
	return context.WithValue(ctx, CtxRequestID, GenerateUUIDWithPrefix(UUID_PREFIX_REQUEST))
}
