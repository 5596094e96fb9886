package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/social-feed/internal/domain/apperr"
	"github.com/oksasatya/social-feed/internal/domain/repository"
	"github.com/oksasatya/social-feed/pkg/helpers"
)

// TokenProvider issues stateless JWT bearer proofs. Verification is local:
// signature and expiry only, no store lookup.
//
// Tokens cannot be revoked before they expire; Invalidate and InvalidateAll
// are no-ops.
type TokenProvider struct {
	jwt *helpers.JWTManager
}

func NewTokenProvider(jwt *helpers.JWTManager) *TokenProvider {
	return &TokenProvider{jwt: jwt}
}

func (p *TokenProvider) Issue(_ context.Context, userID string) (repository.Proof, error) {
	tok, iat, exp, err := p.jwt.GenerateAccessToken(userID)
	if err != nil {
		return repository.Proof{}, fmt.Errorf("sign token: %w", err)
	}
	return repository.Proof{Value: tok, UserID: userID, IssuedAt: iat, ExpiresAt: exp}, nil
}

func (p *TokenProvider) Verify(_ context.Context, value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("%w: missing bearer token", apperr.ErrUnauthenticated)
	}
	claims, err := p.jwt.ParseAccessToken(value)
	switch {
	case errors.Is(err, helpers.ErrTokenMalformed):
		return "", fmt.Errorf("%w: malformed token", apperr.ErrUnauthenticated)
	case errors.Is(err, helpers.ErrTokenExpired):
		return "", fmt.Errorf("%w: token expired", apperr.ErrUnauthorized)
	case err != nil:
		return "", fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}
	return claims.UserID, nil
}

func (p *TokenProvider) Invalidate(context.Context, string) error { return nil }

func (p *TokenProvider) InvalidateAll(context.Context, string, string) error { return nil }

func (p *TokenProvider) Transport() repository.Transport { return repository.TransportBearer }

var _ repository.IdentityProvider = (*TokenProvider)(nil)
