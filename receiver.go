package tpos

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

// RequestHandler is implemented by the point of sale that fulfils requests.
// A returned error becomes a failure response whose localized description is
// the error text, so it should be fit for display.
type RequestHandler interface {
	HandleCart(ctx context.Context, req Request[Cart]) (*Transaction, error)
	HandleCartReference(ctx context.Context, req Request[CartReference]) (*Transaction, error)
}

// HandleFunc handles a decoded request of either payload kind.
type HandleFunc func(ctx context.Context, req IncomingRequest) (*Transaction, error)

// Receiver turns incoming request URLs into RequestHandler calls and their
// results into responses for the caller.
type Receiver struct {
	handler    RequestHandler
	dispatcher *Dispatcher
	handle     HandleFunc
	cfg        config
}

// NewReceiver builds a Receiver that answers through dispatcher.
func NewReceiver(handler RequestHandler, dispatcher *Dispatcher, opts ...Option) *Receiver {
	if handler == nil {
		panic("tpos: request handler is required")
	}
	if dispatcher == nil {
		panic("tpos: dispatcher is required")
	}
	cfg := newConfig(opts)
	r := &Receiver{
		handler:    handler,
		dispatcher: dispatcher,
		cfg:        cfg,
	}
	middleware := cfg.middleware
	if cfg.clientVerifier != nil {
		middleware = append(middleware, clientVerification(cfg.clientVerifier))
	}
	r.handle = applyMiddleware(r.route, middleware...)
	return r
}

// HandleURL decodes u, runs the handler and returns the response. Decoding
// errors are returned without a response since there is no trustworthy
// callback to answer. When the request asks for autoReturn the response is
// delivered before HandleURL returns; otherwise call Respond.
func (r *Receiver) HandleURL(ctx context.Context, u *url.URL) (*Response, error) {
	codec := r.dispatcher.Codec()
	req, err := codec.ParseRequest(u)
	if err != nil {
		r.cfg.logger.Warn("rejecting request url", zap.Error(err))
		return nil, err
	}
	logger := r.cfg.logger.With(
		zap.String("request_id", req.Header.RequestID),
		zap.String("action", string(req.Header.ActionPath)),
		zap.String("payload_type", string(req.Header.PayloadType)),
	)
	ctx = contextWithRequestContext(ctx, requestContextFromHeader(req.Header))

	txn, handleErr := r.handle(ctx, req)
	if handleErr != nil {
		logger.Info("request failed", zap.Error(handleErr))
		txn = nil
	}
	resp, err := r.respondWith(codec, req.Header, txn, handleErr)
	if err != nil {
		return nil, err
	}

	if req.Header.AutoReturn {
		if _, err := r.dispatcher.DeliverResponse(ctx, resp); err != nil {
			return &resp, err
		}
	}
	return &resp, nil
}

// Respond delivers a response produced by HandleURL back to the caller.
func (r *Receiver) Respond(ctx context.Context, resp Response) (*Delivery, error) {
	return r.dispatcher.DeliverResponse(ctx, resp)
}

func (r *Receiver) respondWith(codec *Codec, h RequestHeader, txn *Transaction, failure error) (Response, error) {
	header, err := codec.NewResponseHeader(h, failure, "")
	if err != nil {
		return Response{}, err
	}
	resp, err := NewResponse(header, txn)
	if err == nil {
		return resp, nil
	}
	if failure != nil {
		return Response{}, err
	}
	// The handler produced an invalid transaction; report it to the caller.
	return r.respondWith(codec, h, nil, fmt.Errorf("invalid transaction: %w", err))
}

func (r *Receiver) route(ctx context.Context, req IncomingRequest) (*Transaction, error) {
	switch req.Header.PayloadType {
	case PayloadTypeCart:
		typed, err := req.Cart()
		if err != nil {
			return nil, err
		}
		return r.handler.HandleCart(ctx, typed)
	case PayloadTypeCartReference:
		typed, err := req.CartReference()
		if err != nil {
			return nil, err
		}
		return r.handler.HandleCartReference(ctx, typed)
	default:
		return nil, newError(PayloadTypeDecoding, fmt.Sprintf("unknown payload type %q", req.Header.PayloadType))
	}
}
