package tpos

import (
	"net/url"
)

// ResponseHeader carries the outcome and correlation of a response.
type ResponseHeader struct {
	SDKVersion string `json:"sdkVersion" validate:"required"`
	// Request id of the originating request.
	RequestID string `json:"requestId" validate:"required,uuid_string"`
	// Callback URL the response is appended to.
	URL    string         `json:"url" validate:"required,url"`
	Status ResponseStatus `json:"status" validate:"required,oneof=success failure"`
	// Human-readable failure reason, in the receiver's locale.
	LocalizedErrorDescription string `json:"localizedErrorDescription,omitempty"`
	Comment                   string `json:"comment,omitempty"`
}

// NewResponseHeader builds a validated header for the request identified by
// requestID. A nil failure yields a success header; otherwise the failure
// text becomes the localized error description.
func NewResponseHeader(requestID string, callback *url.URL, failure error, comment string) (ResponseHeader, error) {
	h := ResponseHeader{
		SDKVersion: Version,
		RequestID:  requestID,
		Status:     ResponseStatusSuccess,
		Comment:    comment,
	}
	if callback != nil {
		h.URL = callback.String()
	}
	if failure != nil {
		h.Status = ResponseStatusFailure
		h.LocalizedErrorDescription = failure.Error()
	}
	if err := h.Validate(); err != nil {
		return ResponseHeader{}, err
	}
	return h, nil
}

// Validate checks mandatory fields and the callback URL.
func (h ResponseHeader) Validate() error {
	return validateStruct(h, nil)
}

// Succeeded reports whether the receiver completed the request.
func (h ResponseHeader) Succeeded() bool {
	return h.Status == ResponseStatusSuccess
}

// Response is the envelope returned to the caller.
type Response struct {
	Header ResponseHeader `json:"header"`
	// Completed transaction; nil on failure.
	Payload *Transaction `json:"payload"`
}

// NewResponse pairs a header with its transaction. Failure responses must
// not carry a payload.
func NewResponse(header ResponseHeader, payload *Transaction) (Response, error) {
	resp := Response{Header: header, Payload: payload}
	if err := resp.Validate(); err != nil {
		return Response{}, err
	}
	return resp, nil
}

// Validate checks the header and, when present, the transaction.
func (r Response) Validate() error {
	if err := r.Header.Validate(); err != nil {
		return prefixField(err, "header")
	}
	if r.Payload == nil {
		return nil
	}
	if !r.Header.Succeeded() {
		return newError(InvalidField, "failure responses carry no payload", withField("payload"))
	}
	if err := r.Payload.Validate(); err != nil {
		return prefixField(err, "payload")
	}
	return nil
}

// RequestID returns the correlation token echoed from the request.
func (r Response) RequestID() string {
	return r.Header.RequestID
}
