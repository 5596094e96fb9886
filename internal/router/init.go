package router

import (
	"github.com/oksasatya/social-feed/internal/container"
	handlers "github.com/oksasatya/social-feed/internal/interface/http"
	"github.com/oksasatya/social-feed/internal/router/modules"
)

// InitModules builds the handlers from the container and adds every feature
// module to the registry.
func InitModules(r *Registry, c *container.Container) {
	rdb := c.Redis
	if !c.Config.RateLimitEnabled {
		rdb = nil
	}
	auth := modules.Guard{Provider: c.Identity, Cookies: c.Cookies, Redis: rdb}

	r.Add(modules.NewHealthModule())
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(c.Auth, c.Cookies), auth))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(c.User), auth))
	r.Add(modules.NewPostModule(handlers.NewPostHandler(c.Post, c.Feed), auth))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
