package tpos

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

const (
	testProductID = "84f82be1-29f7-4372-9f58-944966743991"
	testCartID    = "3a5d9c1e-7b0f-4f2e-9d1c-2b6a8e4f0c17"
	testBranchID  = "c56a4180-65aa-42ec-a945-5fd21dec0538"
	testRequestID = "0f8fad5b-d9cb-469f-a165-70867728950e"
	testClientID  = "acme-coffee"
	testToken     = "TillhubPointOfSaleSDK_1_4"
)

var errCardDeclined = errors.New("card declined")

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func testCart(t *testing.T) Cart {
	t.Helper()
	item, err := NewCartItem(CartItem{
		ProductID:    testProductID,
		Currency:     "EUR",
		PricePerUnit: dec(t, "99.95"),
		VatRate:      dec(t, "0.19"),
		Title:        "Espresso machine",
	})
	if err != nil {
		t.Fatalf("NewCartItem: %v", err)
	}
	cart, err := NewCart(Cart{Currency: "EUR", Items: []CartItem{item}})
	if err != nil {
		t.Fatalf("NewCart: %v", err)
	}
	return cart
}

func testCartRequest(t *testing.T, opts ...HeaderOption) Request[Cart] {
	t.Helper()
	header, err := NewRequestHeader(testClientID, ActionPathCheckout, PayloadTypeCart, "myapp", opts...)
	if err != nil {
		t.Fatalf("NewRequestHeader: %v", err)
	}
	req, err := NewRequest(header, testCart(t))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return req
}

func testTransaction(t *testing.T) *Transaction {
	t.Helper()
	payment, err := NewPayment(PaymentTypeCash, "EUR", dec(t, "100.00"), nil)
	if err != nil {
		t.Fatalf("NewPayment: %v", err)
	}
	txn, err := NewTransaction(Transaction{
		ClientTransactionID: "pos-1001",
		Currency:            "EUR",
		Items:               testCart(t).Items,
		Payments:            []Payment{payment},
		Summary: &TransactionSummary{
			AmountTotalGross:   dec(t, "99.95"),
			AmountTotalNet:     dec(t, "83.99"),
			SubTotal:           dec(t, "99.95"),
			TaxAmountTotal:     dec(t, "15.96"),
			PaymentAmountTotal: dec(t, "100.00"),
			ChangeAmountTotal:  dec(t, "0.05"),
		},
	})
	if err != nil {
		t.Fatalf("NewTransaction: %v", err)
	}
	return &txn
}

func testCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec("")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url %q: %v", raw, err)
	}
	return u
}

func assertKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if !IsKind(err, kind) {
		t.Fatalf("expected %s error, got %v", kind, err)
	}
}

func assertSameJSON(t *testing.T, want, got any) {
	t.Helper()
	if err := compareCanonical(want, got); err != nil {
		a, _ := marshalCanonical(want)
		b, _ := marshalCanonical(got)
		t.Fatalf("envelopes differ:\nwant %s\ngot  %s", a, b)
	}
}

type stubOpener struct {
	canOpen func(*url.URL) bool
	open    func(context.Context, *url.URL) bool

	mu     sync.Mutex
	opened []*url.URL
}

func (s *stubOpener) CanOpen(u *url.URL) bool {
	if s.canOpen == nil {
		return true
	}
	return s.canOpen(u)
}

func (s *stubOpener) Open(ctx context.Context, u *url.URL) bool {
	s.mu.Lock()
	s.opened = append(s.opened, u)
	s.mu.Unlock()
	if s.open == nil {
		return true
	}
	return s.open(ctx, u)
}

func (s *stubOpener) openedURLs() []*url.URL {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*url.URL(nil), s.opened...)
}

func newTestDispatcher(t *testing.T, schemes []string, opener URLOpener, opts ...Option) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(DeclaredSchemes(schemes), opener, opts...)
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	return d
}
