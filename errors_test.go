package tpos

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMatching(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := fmt.Errorf("decode: %w", newError(JSONDecoding, "invalid request", withCause(
		newError(InvalidCartID, "must be a UUID", withField("payload.cartId")),
	)))

	if !errors.Is(err, &Error{Kind: JSONDecoding}) {
		t.Fatalf("expected errors.Is to match the outer kind")
	}
	if !IsKind(err, InvalidCartID) {
		t.Fatalf("expected IsKind to find the wrapped validation kind")
	}
	if IsKind(err, VersionMismatch) {
		t.Fatalf("unexpected match for %s", VersionMismatch)
	}
	if kind, ok := KindOf(err); !ok || kind != JSONDecoding {
		t.Fatalf("expected outer kind %s, got %s", JSONDecoding, kind)
	}

	wrapped := newError(URLNotOpened, "", withCause(cause))
	if !errors.Is(wrapped, cause) {
		t.Fatalf("expected cause to unwrap")
	}
	if wrapped.Error() != "url_not_opened: boom" {
		t.Fatalf("unexpected message %q", wrapped.Error())
	}
}

func TestErrorClass(t *testing.T) {
	t.Parallel()

	tests := map[ErrorKind]ErrorClass{
		PriceNegative:       ValidationClass,
		PayloadTypeMismatch: ValidationClass,
		VersionMismatch:     CodecClass,
		PayloadTypeDecoding: CodecClass,
		JSONEncoding:        CodecClass,
		SchemeNotDeclared:   DeliveryClass,
		TransactionFailed:   DeliveryClass,
	}
	for kind, want := range tests {
		if got := kind.Class(); got != want {
			t.Errorf("%s.Class() = %s, want %s", kind, got, want)
		}
	}
}

func TestPrefixField(t *testing.T) {
	t.Parallel()

	base := newError(VatRateOutOfRange, "must be within [0, 1]", withField("vatRate"))
	err := prefixField(prefixField(base, "items[2]"), "payload")

	var tposErr *Error
	if !errors.As(err, &tposErr) {
		t.Fatalf("expected *Error")
	}
	if tposErr.Field != "payload.items[2].vatRate" {
		t.Fatalf("unexpected field %q", tposErr.Field)
	}
	if base.Field != "vatRate" {
		t.Fatalf("prefixField must not modify its input")
	}
	if err.Error() != "payload.items[2].vatRate: must be within [0, 1]" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
