package repository

import (
	"context"
	"time"
)

// Transport says where a proof travels on the wire.
type Transport int

const (
	TransportBearer Transport = iota
	TransportCookie
)

// Proof is an issued identity proof.
type Proof struct {
	Value     string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IdentityProvider issues and verifies identity proofs. Exactly one
// implementation is active per deployment.
//
// Verify returns apperr.ErrUnauthenticated for an empty or garbled value and
// apperr.ErrUnauthorized for a well-formed proof that is expired, invalidated
// or signed with another key.
type IdentityProvider interface {
	Issue(ctx context.Context, userID string) (Proof, error)
	Verify(ctx context.Context, value string) (string, error)
	Invalidate(ctx context.Context, value string) error
	// InvalidateAll drops every proof of userID except keep. Providers that
	// cannot revoke return nil.
	InvalidateAll(ctx context.Context, userID, keep string) error
	Transport() Transport
}
