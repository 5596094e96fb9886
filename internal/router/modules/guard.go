package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	repo "github.com/oksasatya/social-feed/internal/domain/repository"
	"github.com/oksasatya/social-feed/internal/interface/middleware"
	"github.com/oksasatya/social-feed/pkg/helpers"
)

// Guard carries what modules need to protect their routes. A nil Redis
// turns every limiter into a pass-through.
type Guard struct {
	Provider repo.IdentityProvider
	Cookies  *helpers.Manager
	Redis    *redis.Client
}

// Authenticated resolves the principal on every route of the group.
func (g Guard) Authenticated(rg *gin.RouterGroup) *gin.RouterGroup {
	grp := rg.Group("/")
	grp.Use(middleware.Auth(g.Provider, g.Cookies))
	return grp
}

// PerIP limits by client IP and route.
func (g Guard) PerIP(max int) gin.HandlerFunc {
	return middleware.RateLimit(g.Redis, max, time.Minute, middleware.KeyByIPAndPath(), nil)
}

// PerUser limits by the resolved principal; must run after Auth.
func (g Guard) PerUser(max int) gin.HandlerFunc {
	return middleware.RateLimit(g.Redis, max, time.Minute, middleware.KeyByUserID(), nil)
}
