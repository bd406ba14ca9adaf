package util

import (
	"context"

	"github.com/google/uuid"
)

type key string

const (
	requestIDKey = key("x-request-id")
	requestorKey = key("x-requestor")
)

// WithRequestID returns a context with a request id. A new id is generated
// when the provided one is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the request id from ctx, or "" when absent.
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithRequestor returns a context carrying the identity of the process that
// originated a mutation.
func WithRequestor(ctx context.Context, requestor string) context.Context {
	return context.WithValue(ctx, requestorKey, requestor)
}

// GetRequestor returns the requestor stored in ctx, or "" when absent.
func GetRequestor(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	requestor, _ := ctx.Value(requestorKey).(string)
	return requestor
}
