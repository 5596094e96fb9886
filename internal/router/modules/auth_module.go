package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/social-feed/internal/interface/http"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	Guard   Guard
}

func NewAuthModule(h *handlers.AuthHandler, g Guard) *AuthModule {
	return &AuthModule{Handler: h, Guard: g}
}

// Register mounts:
// Public: POST /register (5/min per IP), POST /login (10/min per IP)
// Protected: POST /logout
func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/register", m.Guard.PerIP(5), m.Handler.Register)
	rg.POST("/login", m.Guard.PerIP(10), m.Handler.Login)

	auth := m.Guard.Authenticated(rg)
	auth.POST("/logout", m.Handler.Logout)
}
