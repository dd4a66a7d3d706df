package tpos

import (
	"errors"
	"fmt"
)

// ErrorKind is a machine-readable identifier for the failed rule or stage.
type ErrorKind string

// Validation kinds are returned by constructors and Validate methods.
const (
	InvalidProductID            ErrorKind = "invalid_product_id"
	InvalidCurrencyCode         ErrorKind = "invalid_currency_code"
	CurrencyCodeLengthViolation ErrorKind = "currency_code_length_violation"
	PriceNegative               ErrorKind = "price_negative"
	VatRateOutOfRange           ErrorKind = "vat_rate_out_of_range"
	DiscountValueNegative       ErrorKind = "discount_value_negative"
	DiscountRateOutOfRange      ErrorKind = "discount_rate_out_of_range"
	InvalidCartID               ErrorKind = "invalid_cart_id"
	InvalidBranchID             ErrorKind = "invalid_branch_id"
	InvalidField                ErrorKind = "invalid_field"         // Missing, malformed or unknown enum value.
	PayloadTypeMismatch         ErrorKind = "payload_type_mismatch" // Payload kind differs from header.payloadType.
)

// Codec kinds name the encode or decode stage that failed.
const (
	JSONEncoding        ErrorKind = "json_encoding"
	DataEncoding        ErrorKind = "data_encoding"
	URLEncoding         ErrorKind = "url_encoding"
	VersionMismatch     ErrorKind = "version_mismatch"
	URLDecoding         ErrorKind = "url_decoding"
	DataDecoding        ErrorKind = "data_decoding"
	JSONDecoding        ErrorKind = "json_decoding"
	ActionPathDecoding  ErrorKind = "action_path_decoding"
	PayloadTypeDecoding ErrorKind = "payload_type_decoding"
)

// Delivery kinds separate configuration problems from runtime refusals.
const (
	SchemeNotDeclared  ErrorKind = "scheme_not_declared" // Target scheme missing from the host's declared schemes.
	CantOpenURL        ErrorKind = "cant_open_url"       // Platform reports it cannot open the URL.
	URLNotOpened       ErrorKind = "url_not_opened"      // Platform tried and failed to open the URL.
	UnexpectedResponse ErrorKind = "unexpected_response" // Response arrived for an interaction that was not delivered.
	ResponseMismatch   ErrorKind = "response_mismatch"   // Response request id differs from the interaction.
	TransactionFailed  ErrorKind = "transaction_failed"  // Receiving application reported failure.
)

// ErrorClass groups kinds by the operation that produces them.
type ErrorClass string

const (
	ValidationClass ErrorClass = "validation"
	CodecClass      ErrorClass = "codec"
	DeliveryClass   ErrorClass = "delivery"
)

// Class reports which stage of the protocol a kind belongs to.
func (k ErrorKind) Class() ErrorClass {
	switch k {
	case JSONEncoding, DataEncoding, URLEncoding, VersionMismatch, URLDecoding,
		DataDecoding, JSONDecoding, ActionPathDecoding, PayloadTypeDecoding:
		return CodecClass
	case SchemeNotDeclared, CantOpenURL, URLNotOpened, UnexpectedResponse,
		ResponseMismatch, TransactionFailed:
		return DeliveryClass
	default:
		return ValidationClass
	}
}

// Error is the single error type surfaced by the SDK.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	// Field is the JSON path of the offending value, when one exists.
	Field string `json:"field,omitempty"`

	cause error `json:"-"`
}

// Error makes *Error satisfy the stdlib error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches any *Error of the same kind so callers can test against a
// template such as &Error{Kind: VersionMismatch}.
func (e *Error) Is(target error) bool {
	var t *Error
	if e == nil || !errors.As(target, &t) || t == nil {
		return false
	}
	return t.Kind == e.Kind
}

// IsKind reports whether err, or any error it wraps, is an *Error of kind.
func IsKind(err error, kind ErrorKind) bool {
	return errors.Is(err, &Error{Kind: kind})
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

type errorOption func(*Error)

// withField sets the JSON path for the field that triggered the error.
func withField(jsonPath string) errorOption {
	return func(er *Error) {
		er.Field = jsonPath
	}
}

// withCause records the error that caused this one.
func withCause(err error) errorOption {
	return func(er *Error) {
		er.cause = err
	}
}

func newError(kind ErrorKind, message string, opts ...errorOption) *Error {
	err := &Error{
		Kind:    kind,
		Message: message,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(err)
	}
	return err
}

// prefixField nests a validation error under parent, e.g. items[2].
func prefixField(err error, parent string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	out := *e
	if out.Field == "" {
		out.Field = parent
	} else {
		out.Field = parent + "." + out.Field
	}
	return &out
}
