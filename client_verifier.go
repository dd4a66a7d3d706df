package tpos

import (
	"context"
	"fmt"
	"strings"
)

// ClientVerifier checks the clientId of an incoming request before the
// request reaches the RequestHandler.
type ClientVerifier interface {
	VerifyClient(ctx context.Context, clientID string) error
}

// ClientVerifierFunc lifts bare functions into [ClientVerifier].
type ClientVerifierFunc func(ctx context.Context, clientID string) error

// VerifyClient validates the client id using the wrapped function.
func (f ClientVerifierFunc) VerifyClient(ctx context.Context, clientID string) error {
	return f(ctx, clientID)
}

// AllowedClients is a ClientVerifier accepting a fixed set of client ids.
type AllowedClients []string

// VerifyClient implements ClientVerifier.
func (a AllowedClients) VerifyClient(_ context.Context, clientID string) error {
	for _, allowed := range a {
		if allowed == clientID {
			return nil
		}
	}
	return fmt.Errorf("client %q is not allowed", clientID)
}

func clientVerification(verifier ClientVerifier) Middleware {
	return func(next HandleFunc) HandleFunc {
		return func(ctx context.Context, req IncomingRequest) (*Transaction, error) {
			clientID := strings.TrimSpace(req.Header.ClientID)
			if err := verifier.VerifyClient(ctx, clientID); err != nil {
				return nil, fmt.Errorf("client verification failed: %w", err)
			}
			return next(ctx, req)
		}
	}
}
