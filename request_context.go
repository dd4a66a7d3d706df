package tpos

import (
	"context"
)

// RequestContext exposes the header of the request being handled.
type RequestContext struct {
	// Correlation token of the request.
	//
	// Example: 0f8fad5b-d9cb-469f-a165-70867728950e
	RequestID string
	// Tillhub account the request is made for.
	ClientID string
	// Whether to stage the cart or also check out.
	ActionPath  ActionPath
	PayloadType PayloadType
	// Name of the calling application.
	//
	// Example: Bookings
	CallerDisplayName string
	AutoReturn        bool
	// SDK version of the caller.
	//
	// Example: 1.4.0
	SDKVersion string
}

func requestContextFromHeader(h RequestHeader) *RequestContext {
	return &RequestContext{
		RequestID:         h.RequestID,
		ClientID:          h.ClientID,
		ActionPath:        h.ActionPath,
		PayloadType:       h.PayloadType,
		CallerDisplayName: h.CallerDisplayName,
		AutoReturn:        h.AutoReturn,
		SDKVersion:        h.SDKVersion,
	}
}

type requestContextKey struct{}

func contextWithRequestContext(ctx context.Context, requestCtx *RequestContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if requestCtx == nil {
		return ctx
	}
	return context.WithValue(ctx, requestContextKey{}, requestCtx)
}

// RequestContextFromContext extracts the request metadata stored by the
// Receiver before it calls the RequestHandler.
func RequestContextFromContext(ctx context.Context) *RequestContext {
	if ctx == nil {
		return nil
	}
	if requestCtx, ok := ctx.Value(requestContextKey{}).(*RequestContext); ok {
		return requestCtx
	}
	return nil
}
