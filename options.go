package tpos

import (
	"time"

	"go.uber.org/zap"
)

type config struct {
	logger         *zap.Logger
	metrics        *Metrics
	metadata       AppMetadata
	selfCheck      bool
	clientVerifier ClientVerifier
	middleware     []Middleware
	clock          func() time.Time
}

// Middleware wraps the handling of an incoming request.
type Middleware func(HandleFunc) HandleFunc

func applyMiddleware(h HandleFunc, middleware ...Middleware) HandleFunc {
	for _, m := range middleware {
		h = m(h)
	}
	return h
}

func newConfig(opts []Option) config {
	cfg := config{
		logger: zap.NewNop(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// Option customizes a Dispatcher or Receiver.
type Option func(*config)

// WithLogger sets the logger used for delivery outcomes. Defaults to a no-op
// logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithMetrics records delivery counters.
func WithMetrics(m *Metrics) Option {
	return func(cfg *config) {
		cfg.metrics = m
	}
}

// WithAppMetadata supplies the host application's version and display name
// for headers built by Dispatcher.NewRequestHeader.
func WithAppMetadata(md AppMetadata) Option {
	return func(cfg *config) {
		cfg.metadata = md
	}
}

// WithSelfCheck decodes every encoded request URL again before opening it and
// fails delivery when the result differs. Meant for tests and development
// builds.
func WithSelfCheck() Option {
	return func(cfg *config) {
		cfg.selfCheck = true
	}
}

// WithClientVerifier makes the Receiver check the clientId of every request.
func WithClientVerifier(verifier ClientVerifier) Option {
	return func(cfg *config) {
		cfg.clientVerifier = verifier
	}
}

// WithMiddleware appends custom Receiver middleware in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(cfg *config) {
		for _, m := range mw {
			if m == nil {
				continue
			}
			cfg.middleware = append(cfg.middleware, m)
		}
	}
}

// withClock provides deterministic time in tests.
func withClock(fn func() time.Time) Option {
	return func(cfg *config) {
		cfg.clock = fn
	}
}
