package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/social-feed/internal/interface/middleware"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

// Register mounts the expvar counters, reachable from private networks only.
func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/debug/vars", middleware.PrivateIPOnly(), gin.WrapH(expvar.Handler()))
}
