package tpos

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"
)

func testResponseFor(t *testing.T, req Request[Cart], failure error) Response {
	t.Helper()
	header, err := testCodec(t).NewResponseHeader(req.Header, failure, "")
	if err != nil {
		t.Fatalf("NewResponseHeader: %v", err)
	}
	var txn *Transaction
	if failure == nil {
		txn = testTransaction(t)
	}
	resp, err := NewResponse(header, txn)
	if err != nil {
		t.Fatalf("NewResponse: %v", err)
	}
	return resp
}

func TestInteractionSuccess(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(t, []string{"tillhub"}, &stubOpener{})
	req := testCartRequest(t)

	in := d.Send(context.Background(), req, "tillhub")
	if in.State() != StateDelivered {
		t.Fatalf("expected %s, got %s (err %v)", StateDelivered, in.State(), in.Err())
	}
	if in.Delivery() == nil || in.RequestID() != req.RequestID() {
		t.Fatalf("unexpected interaction %+v", in)
	}

	other := testCartRequest(t)
	err := in.Receive(testResponseFor(t, other, nil))
	assertKind(t, err, ResponseMismatch)
	if in.State() != StateDelivered {
		t.Fatalf("mismatched response must not complete the interaction, got %s", in.State())
	}

	want := testResponseFor(t, req, nil)
	var wg sync.WaitGroup
	wg.Add(1)
	var (
		got     *Response
		waitErr error
	)
	go func() {
		defer wg.Done()
		got, waitErr = in.Wait(context.Background())
	}()
	if err := in.Receive(want); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	wg.Wait()

	if waitErr != nil {
		t.Fatalf("Wait: %v", waitErr)
	}
	assertSameJSON(t, want, got)
	if in.State() != StateResponseSucceeded || !in.State().Terminal() {
		t.Fatalf("unexpected state %s", in.State())
	}
	assertKind(t, in.Receive(want), UnexpectedResponse)
}

func TestInteractionFailureResponse(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(t, []string{"tillhub"}, &stubOpener{})
	req := testCartRequest(t)
	in := d.Send(context.Background(), req, "tillhub")

	if err := in.Receive(testResponseFor(t, req, errCardDeclined)); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	resp, err := in.Wait(context.Background())
	assertKind(t, err, TransactionFailed)
	if resp == nil || resp.Header.LocalizedErrorDescription != errCardDeclined.Error() {
		t.Fatalf("expected failure response, got %+v", resp)
	}
	if in.State() != StateResponseFailed {
		t.Fatalf("unexpected state %s", in.State())
	}
}

func TestInteractionDeliveryFailed(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		schemes  []string
		opener   *stubOpener
		wantKind ErrorKind
	}{
		"scheme not declared": {
			opener:   &stubOpener{},
			wantKind: SchemeNotDeclared,
		},
		"not installed": {
			schemes:  []string{"tillhub"},
			opener:   &stubOpener{canOpen: func(*url.URL) bool { return false }},
			wantKind: CantOpenURL,
		},
		"open failed": {
			schemes:  []string{"tillhub"},
			opener:   &stubOpener{open: func(context.Context, *url.URL) bool { return false }},
			wantKind: URLNotOpened,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			d := newTestDispatcher(t, tt.schemes, tt.opener)
			req := testCartRequest(t)
			in := d.Send(context.Background(), req, "tillhub")

			if in.State() != StateDeliveryFailed {
				t.Fatalf("expected %s, got %s", StateDeliveryFailed, in.State())
			}
			assertKind(t, in.Err(), tt.wantKind)
			resp, err := in.Wait(context.Background())
			assertKind(t, err, tt.wantKind)
			if resp != nil {
				t.Fatalf("expected no response, got %+v", resp)
			}
			assertKind(t, in.Receive(testResponseFor(t, req, nil)), UnexpectedResponse)
		})
	}
}

func TestInteractionWaitHonoursContext(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(t, []string{"tillhub"}, &stubOpener{})
	in := d.Send(context.Background(), testCartRequest(t), "tillhub")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := in.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if in.State() != StateDelivered {
		t.Fatalf("a missing response leaves the interaction delivered, got %s", in.State())
	}
}
