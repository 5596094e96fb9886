package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/social-feed/internal/interface/http"
)

// UserModule wires profile and directory routes.
// Public: GET /users, GET /search-users
// Protected: GET /me, GET|PUT|DELETE /users/:id, PUT /users/:id/password
type UserModule struct {
	Handler *handlers.UserHandler
	Guard   Guard
}

func NewUserModule(h *handlers.UserHandler, g Guard) *UserModule {
	return &UserModule{Handler: h, Guard: g}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.GET("/users", m.Handler.ListUsers)
	rg.GET("/search-users", m.Guard.PerIP(60), m.Handler.SearchUsers)

	auth := m.Guard.Authenticated(rg)
	auth.Use(m.Guard.PerUser(120))
	{
		auth.GET("/me", m.Handler.Me)
		auth.GET("/users/:id", m.Handler.GetProfile)
		auth.PUT("/users/:id", m.Handler.UpdateProfile)
		auth.DELETE("/users/:id", m.Handler.DeleteProfile)
		auth.PUT("/users/:id/password", m.Guard.PerIP(10), m.Handler.ChangePassword)
	}
}
