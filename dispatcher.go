package tpos

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SchemeRegistry reports which URL schemes the host application declared as
// invokable, e.g. LSApplicationQueriesSchemes or an Android <queries> block.
type SchemeRegistry interface {
	IsSchemeDeclared(scheme string) bool
}

// DeclaredSchemes is a static SchemeRegistry. Matching ignores case.
type DeclaredSchemes []string

// IsSchemeDeclared implements SchemeRegistry.
func (s DeclaredSchemes) IsSchemeDeclared(scheme string) bool {
	for _, declared := range s {
		if strings.EqualFold(declared, scheme) {
			return true
		}
	}
	return false
}

// URLOpener is the platform's URL dispatch primitive.
type URLOpener interface {
	// CanOpen reports whether some installed application handles u.
	CanOpen(u *url.URL) bool
	// Open hands u to the platform and reports whether it was opened.
	Open(ctx context.Context, u *url.URL) bool
}

// AppMetadata describes the host application.
type AppMetadata interface {
	SDKVersion() string
	AppDisplayName() string
}

// StaticMetadata is a fixed AppMetadata.
type StaticMetadata struct {
	Version     string
	DisplayName string
}

// SDKVersion implements AppMetadata.
func (m StaticMetadata) SDKVersion() string { return m.Version }

// AppDisplayName implements AppMetadata.
func (m StaticMetadata) AppDisplayName() string { return m.DisplayName }

// Delivery acknowledges that a URL was handed to the platform. It says
// nothing about the outcome of the transaction.
type Delivery struct {
	RequestID   string
	URL         *url.URL
	DeliveredAt time.Time
}

// Dispatcher gates outbound deep links on scheme declaration and platform
// capability, then opens them.
type Dispatcher struct {
	schemes SchemeRegistry
	opener  URLOpener
	codec   *Codec
	cfg     config
}

// NewDispatcher wires a dispatcher to the host's scheme registry and URL
// opener. The codec uses the SDK version from WithAppMetadata, or Version.
func NewDispatcher(schemes SchemeRegistry, opener URLOpener, opts ...Option) (*Dispatcher, error) {
	if schemes == nil {
		panic("tpos: scheme registry is required")
	}
	if opener == nil {
		panic("tpos: url opener is required")
	}
	cfg := newConfig(opts)
	sdkVersion := Version
	if cfg.metadata != nil && cfg.metadata.SDKVersion() != "" {
		sdkVersion = cfg.metadata.SDKVersion()
	}
	codec, err := NewCodec(sdkVersion)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		schemes: schemes,
		opener:  opener,
		codec:   codec,
		cfg:     cfg,
	}, nil
}

// Codec returns the codec used for every URL the dispatcher builds.
func (d *Dispatcher) Codec() *Codec {
	return d.codec
}

// NewRequestHeader is NewRequestHeader with sdkVersion and callerDisplayName
// taken from the host's AppMetadata. Explicit opts win.
func (d *Dispatcher) NewRequestHeader(clientID string, action ActionPath, payloadType PayloadType, callbackScheme string, opts ...HeaderOption) (RequestHeader, error) {
	defaults := []HeaderOption{WithSDKVersion(d.codec.SDKVersion())}
	if d.cfg.metadata != nil && d.cfg.metadata.AppDisplayName() != "" {
		defaults = append(defaults, WithCallerDisplayName(d.cfg.metadata.AppDisplayName()))
	}
	return NewRequestHeader(clientID, action, payloadType, callbackScheme, append(defaults, opts...)...)
}

// CanDeliver reports whether req can be opened in the application behind
// target. An undeclared target is a SchemeNotDeclared error regardless of
// what the platform would report; a declared target the platform cannot open
// yields false.
func (d *Dispatcher) CanDeliver(target string, req Deliverable) (bool, error) {
	if !d.schemes.IsSchemeDeclared(target) {
		return false, schemeNotDeclared(target)
	}
	u, err := req.encodeURL(d.codec, target)
	if err != nil {
		return false, err
	}
	return d.opener.CanOpen(u), nil
}

// DeliverRequest encodes req for target and opens it. The returned Delivery
// only acknowledges the hand-off; the transaction result arrives later as a
// response URL.
func (d *Dispatcher) DeliverRequest(ctx context.Context, req Deliverable, target string) (*Delivery, error) {
	delivery, err := d.deliverRequest(ctx, req, target)
	d.cfg.metrics.delivered(directionRequest, err)
	logger := d.cfg.logger.With(zap.String("request_id", req.RequestID()), zap.String("target", target))
	if err != nil {
		logger.Warn("request delivery failed", zap.Error(err))
		return nil, err
	}
	logger.Debug("request delivered", zap.Stringer("url", delivery.URL))
	return delivery, nil
}

func (d *Dispatcher) deliverRequest(ctx context.Context, req Deliverable, target string) (*Delivery, error) {
	if !d.schemes.IsSchemeDeclared(target) {
		return nil, schemeNotDeclared(target)
	}
	u, err := req.encodeURL(d.codec, target)
	if err != nil {
		return nil, err
	}
	if d.cfg.selfCheck {
		if err := req.verifyURL(d.codec, u); err != nil {
			return nil, fmt.Errorf("tpos: self-check of %s: %w", u.Redacted(), err)
		}
	}
	if err := d.open(ctx, u); err != nil {
		return nil, err
	}
	return &Delivery{RequestID: req.RequestID(), URL: u, DeliveredAt: d.cfg.clock()}, nil
}

// DeliverResponse encodes resp onto its callback URL and opens it. The
// callback scheme must be declared like any request target and is checked
// before anything is encoded.
func (d *Dispatcher) DeliverResponse(ctx context.Context, resp Response) (*Delivery, error) {
	delivery, err := d.deliverResponse(ctx, resp)
	d.cfg.metrics.delivered(directionResponse, err)
	logger := d.cfg.logger.With(zap.String("request_id", resp.RequestID()), zap.String("status", string(resp.Header.Status)))
	if err != nil {
		logger.Warn("response delivery failed", zap.Error(err))
		return nil, err
	}
	logger.Debug("response delivered", zap.Stringer("url", delivery.URL))
	return delivery, nil
}

func (d *Dispatcher) deliverResponse(ctx context.Context, resp Response) (*Delivery, error) {
	callback, err := url.Parse(resp.Header.URL)
	if err != nil {
		return nil, newError(URLEncoding, "parse callback url", withField("header.url"), withCause(err))
	}
	if !d.schemes.IsSchemeDeclared(callback.Scheme) {
		return nil, schemeNotDeclared(callback.Scheme)
	}
	u, err := d.codec.EncodeResponse(resp)
	if err != nil {
		return nil, err
	}
	if d.cfg.selfCheck {
		decoded, err := d.codec.DecodeResponse(u)
		if err == nil {
			err = compareCanonical(resp, decoded)
		}
		if err != nil {
			return nil, fmt.Errorf("tpos: self-check of %s: %w", u.Redacted(), err)
		}
	}
	if err := d.open(ctx, u); err != nil {
		return nil, err
	}
	return &Delivery{RequestID: resp.RequestID(), URL: u, DeliveredAt: d.cfg.clock()}, nil
}

// ParseResponse decodes a response URL received by the initiating
// application.
func (d *Dispatcher) ParseResponse(u *url.URL) (Response, error) {
	return d.codec.DecodeResponse(u)
}

func (d *Dispatcher) open(ctx context.Context, u *url.URL) error {
	if !d.opener.CanOpen(u) {
		return newError(CantOpenURL, fmt.Sprintf("no application handles scheme %q", u.Scheme))
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !d.opener.Open(ctx, u) {
		return newError(URLNotOpened, fmt.Sprintf("platform did not open %s://%s", u.Scheme, u.Host))
	}
	return nil
}

func schemeNotDeclared(scheme string) error {
	return newError(SchemeNotDeclared, fmt.Sprintf("scheme %q is not declared by the host application", scheme))
}
