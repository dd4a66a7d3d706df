package tpos

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// InteractionState is a step of a single request/response exchange, seen
// from the initiating application.
type InteractionState string

const (
	StateBuilt             InteractionState = "built"
	StateCanDeliverChecked InteractionState = "can_deliver_checked"
	StateDelivered         InteractionState = "delivered"
	StateDeliveryFailed    InteractionState = "delivery_failed"
	StateResponseSucceeded InteractionState = "response_success"
	StateResponseFailed    InteractionState = "response_failure"
)

// Terminal reports whether no further transition can happen.
func (s InteractionState) Terminal() bool {
	switch s {
	case StateDeliveryFailed, StateResponseSucceeded, StateResponseFailed:
		return true
	}
	return false
}

// Interaction tracks one request until its response arrives or delivery
// fails. Receive and Wait are safe for concurrent use.
type Interaction struct {
	requestID string
	metrics   *Metrics
	logger    *zap.Logger
	clock     func() time.Time

	mu          sync.Mutex
	state       InteractionState
	delivery    *Delivery
	response    *Response
	err         error
	done        chan struct{}
	deliveredAt time.Time
}

func newInteraction(requestID string, cfg config) *Interaction {
	return &Interaction{
		requestID: requestID,
		metrics:   cfg.metrics,
		logger:    cfg.logger.With(zap.String("request_id", requestID)),
		clock:     cfg.clock,
		state:     StateBuilt,
		done:      make(chan struct{}),
	}
}

// Send checks deliverability of req to target, delivers it and returns the
// interaction awaiting its response. Delivery problems leave the interaction
// in StateDeliveryFailed with Err set.
func (d *Dispatcher) Send(ctx context.Context, req Deliverable, target string) *Interaction {
	in := newInteraction(req.RequestID(), d.cfg)

	ok, err := d.CanDeliver(target, req)
	if err == nil && !ok {
		err = newError(CantOpenURL, fmt.Sprintf("no application handles scheme %q", target))
	}
	if err != nil {
		d.cfg.metrics.delivered(directionRequest, err)
		in.fail(err)
		return in
	}
	in.transition(StateCanDeliverChecked)

	delivery, err := d.DeliverRequest(ctx, req, target)
	if err != nil {
		in.fail(err)
		return in
	}
	in.delivered(delivery)
	return in
}

// RequestID is the correlation token responses must echo.
func (in *Interaction) RequestID() string {
	return in.requestID
}

// State returns the current state.
func (in *Interaction) State() InteractionState {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state
}

// Delivery returns the acknowledgment of the request delivery, if any.
func (in *Interaction) Delivery() *Delivery {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.delivery
}

// Err returns the terminal error: the delivery failure or TransactionFailed
// for a failure response. It is nil while the interaction is in flight and
// after a successful response.
func (in *Interaction) Err() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.err
}

// Receive completes a delivered interaction with resp. A response for a
// different request id is rejected with ResponseMismatch and leaves the
// interaction untouched; a response in any state other than StateDelivered
// is an UnexpectedResponse.
func (in *Interaction) Receive(resp Response) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.state != StateDelivered {
		return newError(UnexpectedResponse, fmt.Sprintf("interaction is %s", in.state))
	}
	if resp.RequestID() != in.requestID {
		return newError(ResponseMismatch,
			fmt.Sprintf("response for request %s does not answer %s", resp.RequestID(), in.requestID))
	}
	in.response = &resp
	if resp.Header.Succeeded() {
		in.state = StateResponseSucceeded
	} else {
		in.state = StateResponseFailed
		in.err = newError(TransactionFailed, resp.Header.LocalizedErrorDescription)
	}
	in.metrics.responded(resp.Header.Status, in.clock().Sub(in.deliveredAt).Seconds())
	in.logger.Debug("response received", zap.String("status", string(resp.Header.Status)))
	close(in.done)
	return nil
}

// Wait blocks until the interaction is terminal or ctx ends. A failure
// response is returned together with a TransactionFailed error; a delivery
// failure returns no response.
func (in *Interaction) Wait(ctx context.Context) (*Response, error) {
	select {
	case <-in.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.response, in.err
}

// Done is closed once the interaction is terminal.
func (in *Interaction) Done() <-chan struct{} {
	return in.done
}

func (in *Interaction) transition(next InteractionState) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.state = next
}

func (in *Interaction) delivered(delivery *Delivery) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.state = StateDelivered
	in.delivery = delivery
	in.deliveredAt = delivery.DeliveredAt
}

func (in *Interaction) fail(err error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.state = StateDeliveryFailed
	in.err = err
	close(in.done)
}
