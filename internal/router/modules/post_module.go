package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/social-feed/internal/interface/http"
)

// PostModule wires the feed and content routes.
// Public: GET /posts
// Protected: POST /posts, DELETE /posts/:id, POST /posts/:id/like,
// POST /posts/:id/comment, DELETE /posts/:id/comments/:commentId, POST /uploads/images
type PostModule struct {
	Handler *handlers.PostHandler
	Guard   Guard
}

func NewPostModule(h *handlers.PostHandler, g Guard) *PostModule {
	return &PostModule{Handler: h, Guard: g}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	rg.GET("/posts", m.Handler.ListPosts)

	auth := m.Guard.Authenticated(rg)
	auth.Use(m.Guard.PerUser(120))
	{
		auth.POST("/posts", m.Handler.CreatePost)
		auth.DELETE("/posts/:id", m.Handler.DeletePost)
		auth.POST("/posts/:id/like", m.Handler.Like)
		auth.POST("/posts/:id/comment", m.Handler.AddComment)
		// gin needs the same wildcard name at a given segment, so the post id stays :id here.
		auth.DELETE("/posts/:id/comments/:commentId", m.Handler.DeleteComment)
		auth.POST("/uploads/images", m.Handler.UploadImage)
	}
}
