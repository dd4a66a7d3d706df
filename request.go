package tpos

import (
	"net/url"

	"github.com/google/uuid"
)

// RequestHeader carries the routing and correlation metadata of a request.
type RequestHeader struct {
	// Version of the SDK that built the request.
	SDKVersion string `json:"sdkVersion" validate:"required"`
	// Correlation token echoed by the response.
	RequestID string `json:"requestId" validate:"required,uuid_string"`
	// Tillhub account the request is made for.
	ClientID    string      `json:"clientId" validate:"required"`
	ActionPath  ActionPath  `json:"actionPath" validate:"required,oneof=load checkout"`
	PayloadType PayloadType `json:"payloadType" validate:"required,oneof=cart cart_reference"`
	// Scheme the receiving application opens to return the response.
	CallbackURLScheme string `json:"callbackUrlScheme" validate:"required,url_scheme"`
	// Name shown to the cashier, e.g. on the return button.
	CallerDisplayName string `json:"callerDisplayName,omitempty"`
	// Return to the caller as soon as the transaction completes.
	AutoReturn bool   `json:"autoReturn,omitempty"`
	Comment    string `json:"comment,omitempty"`
}

// HeaderOption customizes a RequestHeader built by NewRequestHeader.
type HeaderOption func(*RequestHeader)

// WithCallerDisplayName sets the caller name displayed by the receiver.
func WithCallerDisplayName(name string) HeaderOption {
	return func(h *RequestHeader) {
		h.CallerDisplayName = name
	}
}

// WithAutoReturn asks the receiver to return without cashier interaction.
func WithAutoReturn() HeaderOption {
	return func(h *RequestHeader) {
		h.AutoReturn = true
	}
}

// WithHeaderComment attaches a free-form comment.
func WithHeaderComment(comment string) HeaderOption {
	return func(h *RequestHeader) {
		h.Comment = comment
	}
}

// WithSDKVersion overrides the sdkVersion field, which defaults to Version.
func WithSDKVersion(version string) HeaderOption {
	return func(h *RequestHeader) {
		h.SDKVersion = version
	}
}

// WithRequestID overrides the generated request id.
func WithRequestID(id string) HeaderOption {
	return func(h *RequestHeader) {
		h.RequestID = id
	}
}

// NewRequestHeader builds a validated header with a fresh request id.
func NewRequestHeader(clientID string, action ActionPath, payloadType PayloadType, callbackScheme string, opts ...HeaderOption) (RequestHeader, error) {
	h := RequestHeader{
		SDKVersion:        Version,
		RequestID:         uuid.NewString(),
		ClientID:          clientID,
		ActionPath:        action,
		PayloadType:       payloadType,
		CallbackURLScheme: callbackScheme,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&h)
	}
	if err := h.Validate(); err != nil {
		return RequestHeader{}, err
	}
	return h, nil
}

// Validate checks mandatory fields, enum values and the callback scheme.
func (h RequestHeader) Validate() error {
	return validateStruct(h, nil)
}

// Payload is the set of request payload kinds.
type Payload interface {
	Cart | CartReference
	PayloadType() PayloadType
	Validate() error
}

// Request is the envelope sent to the point of sale.
type Request[P Payload] struct {
	Header  RequestHeader `json:"header"`
	Payload P             `json:"payload"`
}

// NewRequest pairs a header with a payload of the kind it announces.
func NewRequest[P Payload](header RequestHeader, payload P) (Request[P], error) {
	req := Request[P]{Header: header, Payload: payload}
	if err := req.Validate(); err != nil {
		return Request[P]{}, err
	}
	return req, nil
}

// Validate checks header, payload and that both agree on the payload type.
func (r Request[P]) Validate() error {
	if err := r.Header.Validate(); err != nil {
		return prefixField(err, "header")
	}
	if got := r.Payload.PayloadType(); got != r.Header.PayloadType {
		return newError(PayloadTypeMismatch,
			"payload is "+string(got)+" but header announces "+string(r.Header.PayloadType),
			withField("header.payloadType"))
	}
	if err := r.Payload.Validate(); err != nil {
		return prefixField(err, "payload")
	}
	return nil
}

// RequestID returns the correlation token of the request.
func (r Request[P]) RequestID() string {
	return r.Header.RequestID
}

func (r Request[P]) encodeURL(c *Codec, scheme string) (*url.URL, error) {
	return EncodeRequest(c, r, scheme)
}

func (r Request[P]) verifyURL(c *Codec, u *url.URL) error {
	decoded, err := DecodeRequest[P](c, u)
	if err != nil {
		return err
	}
	return compareCanonical(r, decoded)
}

// Deliverable is implemented by Request[Cart] and Request[CartReference].
type Deliverable interface {
	RequestID() string
	encodeURL(c *Codec, scheme string) (*url.URL, error)
	verifyURL(c *Codec, u *url.URL) error
}

var (
	_ Deliverable = Request[Cart]{}
	_ Deliverable = Request[CartReference]{}
)
