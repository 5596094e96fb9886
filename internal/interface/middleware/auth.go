package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/social-feed/internal/domain/apperr"
	repo "github.com/oksasatya/social-feed/internal/domain/repository"
	"github.com/oksasatya/social-feed/internal/interface/httperr"
	"github.com/oksasatya/social-feed/pkg/helpers"
)

const (
	CtxUserIDKey = "userID"
	CtxProofKey  = "proof"
)

// ProofFromRequest extracts the raw proof from where the provider expects
// it: the Authorization header for bearer tokens, the session cookie
// otherwise. Proofs carried the other way are ignored.
func ProofFromRequest(c *gin.Context, transport repo.Transport, cookie *helpers.Manager) (string, error) {
	if transport == repo.TransportCookie {
		return cookie.Read(c), nil
	}
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if h == "" {
		return "", nil
	}
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: malformed authorization header", apperr.ErrUnauthenticated)
	}
	return strings.TrimSpace(token), nil
}

// Auth resolves the principal from the request's proof and stores its user
// id under CtxUserIDKey. Requests without a valid proof are rejected before
// any handler runs.
func Auth(provider repo.IdentityProvider, cookie *helpers.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		proof, err := ProofFromRequest(c, provider.Transport(), cookie)
		if err != nil {
			httperr.Abort(c, err)
			return
		}
		userID, err := provider.Verify(c.Request.Context(), proof)
		if err != nil {
			if provider.Transport() == repo.TransportCookie && proof != "" {
				cookie.Clear(c)
			}
			httperr.Abort(c, err)
			return
		}
		c.Set(CtxUserIDKey, userID)
		c.Set(CtxProofKey, proof)
		c.Next()
	}
}

// UserID returns the principal resolved by Auth.
func UserID(c *gin.Context) string { return c.GetString(CtxUserIDKey) }

// Proof returns the raw proof that authenticated the request.
func Proof(c *gin.Context) string { return c.GetString(CtxProofKey) }
