package tpos

import (
	"encoding/json"

	"github.com/oapi-codegen/runtime"
)

// RequestPayload holds a request payload whose kind is only known at run
// time, discriminated by RequestHeader.PayloadType.
type RequestPayload struct {
	union json.RawMessage
}

// AsCart returns the union data inside the RequestPayload as a Cart
func (t RequestPayload) AsCart() (Cart, error) {
	var body Cart
	err := json.Unmarshal(t.union, &body)
	return body, err
}

// FromCart overwrites any union data inside the RequestPayload as the provided Cart
func (t *RequestPayload) FromCart(v Cart) error {
	b, err := json.Marshal(v)
	t.union = b
	return err
}

// MergeCart performs a merge with any union data inside the RequestPayload, using the provided Cart
func (t *RequestPayload) MergeCart(v Cart) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	merged, err := runtime.JSONMerge(t.union, b)
	t.union = merged
	return err
}

// AsCartReference returns the union data inside the RequestPayload as a CartReference
func (t RequestPayload) AsCartReference() (CartReference, error) {
	var body CartReference
	err := json.Unmarshal(t.union, &body)
	return body, err
}

// FromCartReference overwrites any union data inside the RequestPayload as the provided CartReference
func (t *RequestPayload) FromCartReference(v CartReference) error {
	b, err := json.Marshal(v)
	t.union = b
	return err
}

// MergeCartReference performs a merge with any union data inside the RequestPayload, using the provided CartReference
func (t *RequestPayload) MergeCartReference(v CartReference) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	merged, err := runtime.JSONMerge(t.union, b)
	t.union = merged
	return err
}

// MarshalJSON serializes the underlying union for RequestPayload.
func (t RequestPayload) MarshalJSON() ([]byte, error) {
	if len(t.union) == 0 {
		return []byte("null"), nil
	}
	b, err := t.union.MarshalJSON()
	return b, err
}

// UnmarshalJSON loads union data for RequestPayload.
func (t *RequestPayload) UnmarshalJSON(b []byte) error {
	err := t.union.UnmarshalJSON(b)
	return err
}

// IncomingRequest is a decoded request of either payload kind.
type IncomingRequest struct {
	Header  RequestHeader  `json:"header"`
	Payload RequestPayload `json:"payload"`
}

// Cart returns the request as Request[Cart]. It fails with
// PayloadTypeMismatch when the header announces a cart reference.
func (r IncomingRequest) Cart() (Request[Cart], error) {
	return requestAs(r, RequestPayload.AsCart)
}

// CartReference returns the request as Request[CartReference]. It fails with
// PayloadTypeMismatch when the header announces a cart.
func (r IncomingRequest) CartReference() (Request[CartReference], error) {
	return requestAs(r, RequestPayload.AsCartReference)
}

// Validate checks the header and the payload of the announced kind.
func (r IncomingRequest) Validate() error {
	switch r.Header.PayloadType {
	case PayloadTypeCartReference:
		_, err := r.CartReference()
		return err
	default:
		_, err := r.Cart()
		return err
	}
}

func requestAs[P Payload](r IncomingRequest, as func(RequestPayload) (P, error)) (Request[P], error) {
	var zero P
	if r.Header.PayloadType != zero.PayloadType() {
		return Request[P]{}, newError(PayloadTypeMismatch,
			"header announces "+string(r.Header.PayloadType)+", not "+string(zero.PayloadType()),
			withField("header.payloadType"))
	}
	payload, err := as(r.Payload)
	if err != nil {
		return Request[P]{}, newError(JSONDecoding, "decode payload", withField("payload"), withCause(err))
	}
	return NewRequest(r.Header, payload)
}
