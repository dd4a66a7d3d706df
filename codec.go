package tpos

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	canonicaljson "github.com/gibson042/canonicaljson-go"
)

// Query item names carrying the envelopes.
const (
	RequestQueryKey  = "request"
	ResponseQueryKey = "response"
)

// Codec maps envelopes to deep-link URLs and back for one protocol version.
type Codec struct {
	token      string
	sdkVersion string
}

// NewCodec returns a codec whose protocol-version token is derived from
// sdkVersion. An empty sdkVersion selects Version.
func NewCodec(sdkVersion string) (*Codec, error) {
	if sdkVersion == "" {
		sdkVersion = Version
	}
	token, err := ProtocolToken(sdkVersion)
	if err != nil {
		return nil, err
	}
	return &Codec{token: token, sdkVersion: sdkVersion}, nil
}

// Token is the URL host written and expected by the codec.
func (c *Codec) Token() string {
	return c.token
}

// SDKVersion is the version the token was derived from.
func (c *Codec) SDKVersion() string {
	return c.sdkVersion
}

// EncodeRequest validates req and serializes it into
//
//	<scheme>://<token>/<actionPath>/<payloadType>?request=<escaped JSON>
func EncodeRequest[P Payload](c *Codec, req Request[P], scheme string) (*url.URL, error) {
	if !schemePattern.MatchString(scheme) {
		return nil, newError(URLEncoding, fmt.Sprintf("invalid target scheme %q", scheme))
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	data, err := marshalCanonical(req)
	if err != nil {
		return nil, err
	}
	u := &url.URL{
		Scheme:   scheme,
		Host:     c.token,
		Path:     routePath(req.Header.ActionPath, req.Header.PayloadType),
		RawQuery: RequestQueryKey + "=" + escapeQueryValue(string(data)),
	}
	return reparse(u)
}

// DecodeRequest parses a request URL whose payload kind is known in advance.
// When the request query item repeats, the last one is decoded.
func DecodeRequest[P Payload](c *Codec, u *url.URL) (Request[P], error) {
	data, err := c.extract(u, RequestQueryKey)
	if err != nil {
		return Request[P]{}, err
	}
	var req Request[P]
	if err := json.Unmarshal(data, &req); err != nil {
		return Request[P]{}, newError(JSONDecoding, "decode request", withCause(err))
	}
	if err := req.Validate(); err != nil {
		return Request[P]{}, newError(JSONDecoding, "invalid request", withCause(err))
	}
	if err := checkRoute(u, req.Header); err != nil {
		return Request[P]{}, err
	}
	return req, nil
}

// ParseRequest parses a request URL of either payload kind.
func (c *Codec) ParseRequest(u *url.URL) (IncomingRequest, error) {
	data, err := c.extract(u, RequestQueryKey)
	if err != nil {
		return IncomingRequest{}, err
	}
	var req IncomingRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return IncomingRequest{}, newError(JSONDecoding, "decode request", withCause(err))
	}
	if err := req.Validate(); err != nil {
		if IsKind(err, JSONDecoding) {
			return IncomingRequest{}, err
		}
		return IncomingRequest{}, newError(JSONDecoding, "invalid request", withCause(err))
	}
	if err := checkRoute(u, req.Header); err != nil {
		return IncomingRequest{}, err
	}
	return req, nil
}

// RequestRoute reads the action path and payload type from a request URL
// without decoding its query.
func (c *Codec) RequestRoute(u *url.URL) (ActionPath, PayloadType, error) {
	if err := c.checkHost(u); err != nil {
		return "", "", err
	}
	return parseRoute(u)
}

// CallbackURL is the URL the receiver appends its response to.
func (c *Codec) CallbackURL(h RequestHeader) (*url.URL, error) {
	if !schemePattern.MatchString(h.CallbackURLScheme) {
		return nil, newError(URLEncoding, fmt.Sprintf("invalid callback scheme %q", h.CallbackURLScheme),
			withField("header.callbackUrlScheme"))
	}
	return reparse(&url.URL{
		Scheme: h.CallbackURLScheme,
		Host:   c.token,
		Path:   routePath(h.ActionPath, h.PayloadType),
	})
}

// NewResponseHeader builds the response header for the request described by
// h, addressed to its callback URL.
func (c *Codec) NewResponseHeader(h RequestHeader, failure error, comment string) (ResponseHeader, error) {
	callback, err := c.CallbackURL(h)
	if err != nil {
		return ResponseHeader{}, err
	}
	header, err := NewResponseHeader(h.RequestID, callback, failure, comment)
	if err != nil {
		return ResponseHeader{}, err
	}
	header.SDKVersion = c.sdkVersion
	return header, nil
}

// EncodeResponse appends resp to the callback URL in its header. Query items
// already present on the callback URL are kept in order.
func (c *Codec) EncodeResponse(resp Response) (*url.URL, error) {
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	data, err := marshalCanonical(resp)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(resp.Header.URL)
	if err != nil {
		return nil, newError(URLEncoding, "parse callback url", withField("header.url"), withCause(err))
	}
	item := ResponseQueryKey + "=" + escapeQueryValue(string(data))
	if u.RawQuery == "" {
		u.RawQuery = item
	} else {
		u.RawQuery += "&" + item
	}
	u.ForceQuery = false
	return reparse(u)
}

// DecodeResponse parses the last response query item of a callback URL.
func (c *Codec) DecodeResponse(u *url.URL) (Response, error) {
	data, err := c.extract(u, ResponseQueryKey)
	if err != nil {
		return Response{}, err
	}
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return Response{}, newError(JSONDecoding, "decode response", withCause(err))
	}
	if err := resp.Validate(); err != nil {
		return Response{}, newError(JSONDecoding, "invalid response", withCause(err))
	}
	return resp, nil
}

// ParseURL parses a raw deep link. Failures are URLDecoding errors.
func ParseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, newError(URLDecoding, "parse url", withCause(err))
	}
	if u.Scheme == "" {
		return nil, newError(URLDecoding, fmt.Sprintf("url %q has no scheme", raw))
	}
	return u, nil
}

// QueryItem is one name/value pair of a URL query, in wire order.
type QueryItem struct {
	Name  string
	Value string
}

// QueryItems lists the query items of u in order, unescaped. Unlike
// url.Values it keeps repeated names and their relative order.
func QueryItems(u *url.URL) []QueryItem {
	if u == nil || u.RawQuery == "" {
		return nil
	}
	var items []QueryItem
	for _, part := range strings.Split(u.RawQuery, "&") {
		if part == "" {
			continue
		}
		rawName, rawValue, _ := strings.Cut(part, "=")
		name, err := url.QueryUnescape(rawName)
		if err != nil {
			name = rawName
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			value = rawValue
		}
		items = append(items, QueryItem{Name: name, Value: value})
	}
	return items
}

func (c *Codec) checkHost(u *url.URL) error {
	if u == nil {
		return newError(URLDecoding, "nil url")
	}
	if !strings.EqualFold(u.Host, c.token) {
		return newError(VersionMismatch, fmt.Sprintf("host %q does not match protocol token %q", u.Host, c.token))
	}
	return nil
}

// extract returns the unescaped value of the last query item named key.
func (c *Codec) extract(u *url.URL, key string) ([]byte, error) {
	if err := c.checkHost(u); err != nil {
		return nil, err
	}
	raw, ok := lastRawQueryValue(u.RawQuery, key)
	if !ok {
		return nil, newError(URLDecoding, fmt.Sprintf("url has no %q query item", key))
	}
	value, err := url.QueryUnescape(raw)
	if err != nil {
		return nil, newError(DataDecoding, "unescape query value", withCause(err))
	}
	if !utf8.ValidString(value) {
		return nil, newError(DataDecoding, "query value is not valid UTF-8")
	}
	return []byte(value), nil
}

// escapeQueryValue percent-encodes s for use as a query value. Spaces become
// %20 rather than "+", which peers outside Go read as a literal plus.
func escapeQueryValue(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func lastRawQueryValue(rawQuery, key string) (string, bool) {
	var (
		value string
		found bool
	)
	for _, part := range strings.Split(rawQuery, "&") {
		rawName, rawValue, _ := strings.Cut(part, "=")
		name, err := url.QueryUnescape(rawName)
		if err != nil || name != key {
			continue
		}
		value, found = rawValue, true
	}
	return value, found
}

func routePath(action ActionPath, payloadType PayloadType) string {
	return "/" + string(action) + "/" + string(payloadType)
}

func parseRoute(u *url.URL) (ActionPath, PayloadType, error) {
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) != 2 {
		return "", "", newError(ActionPathDecoding, fmt.Sprintf("path %q is not /<action>/<payloadType>", u.Path))
	}
	action, ok := parseActionPath(segments[0])
	if !ok {
		return "", "", newError(ActionPathDecoding, fmt.Sprintf("unknown action path %q", segments[0]))
	}
	payloadType, ok := parsePayloadType(segments[1])
	if !ok {
		return "", "", newError(PayloadTypeDecoding, fmt.Sprintf("unknown payload type %q", segments[1]))
	}
	return action, payloadType, nil
}

// checkRoute requires the URL path to agree with the decoded header.
func checkRoute(u *url.URL, h RequestHeader) error {
	action, payloadType, err := parseRoute(u)
	if err != nil {
		return err
	}
	if action != h.ActionPath {
		return newError(ActionPathDecoding, fmt.Sprintf("path action %q differs from header %q", action, h.ActionPath))
	}
	if payloadType != h.PayloadType {
		return newError(PayloadTypeDecoding, fmt.Sprintf("path payload type %q differs from header %q", payloadType, h.PayloadType))
	}
	return nil
}

// marshalCanonical encodes v as compact JSON with sorted keys so equal
// envelopes always produce equal URLs.
func marshalCanonical(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, newError(JSONEncoding, "encode envelope", withCause(err))
	}
	data, err := canonicalize(raw)
	if err != nil {
		return nil, newError(DataEncoding, "canonicalize envelope", withCause(err))
	}
	if !utf8.Valid(data) {
		return nil, newError(DataEncoding, "envelope is not valid UTF-8")
	}
	return data, nil
}

func canonicalize(raw []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	return canonicaljson.Marshal(payload)
}

// compareCanonical fails when want and got do not encode identically.
func compareCanonical(want, got any) error {
	a, err := marshalCanonical(want)
	if err != nil {
		return err
	}
	b, err := marshalCanonical(got)
	if err != nil {
		return err
	}
	if !bytes.Equal(a, b) {
		return newError(DataEncoding, "decoded envelope differs from the encoded one")
	}
	return nil
}

// reparse round-trips u through its string form so only URLs that a receiver
// can parse leave the codec.
func reparse(u *url.URL) (*url.URL, error) {
	out, err := url.Parse(u.String())
	if err != nil {
		return nil, newError(URLEncoding, "build url", withCause(err))
	}
	return out, nil
}
