package challongectx

import (
	"context"
)

// Key name to look for Correlation Id in context
// using custom type to prevent key collision
type contextKey int

const (
	CorrelationIdContextKey contextKey = iota
	RequestIdContextKey
	RequestIdCallbackKey
)

type IdCallbackFunc func(string)

// NewContextWithCorrelationId creates a new context with correlationId value. Used by Logger to populate field corrId.
func NewContextWithCorrelationId(ctx context.Context, correlationId string) context.Context {
	return context.WithValue(ctx, CorrelationIdContextKey, correlationId)
}

// CorrelationIdFromContext retrieves the correlationId stored in context.
func CorrelationIdFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	corrId, ok := ctx.Value(CorrelationIdContextKey).(string)
	if !ok {
		return ""
	}
	return corrId
}

// NewContextWithRequestId creates a new context with requestId value.
// The client assigns one id per API call; it is displayed in log messages and carried by errors.
func NewContextWithRequestId(ctx context.Context, requestId string) context.Context {
	if callback, ok := ctx.Value(RequestIdCallbackKey).(IdCallbackFunc); ok {
		callback(requestId)
	}
	return context.WithValue(ctx, RequestIdContextKey, requestId)
}

// RequestIdFromContext retrieves the requestId stored in context.
func RequestIdFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	requestId, ok := ctx.Value(RequestIdContextKey).(string)
	if !ok {
		return ""
	}
	return requestId
}

// NewContextWithRequestIdCallback registers a function that receives the request id
// assigned to the next API call made with the returned context.
func NewContextWithRequestIdCallback(ctx context.Context, callback IdCallbackFunc) context.Context {
	return context.WithValue(ctx, RequestIdCallbackKey, callback)
}
