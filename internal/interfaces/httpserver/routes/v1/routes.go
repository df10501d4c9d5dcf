package v1

import (
	"github.com/gin-gonic/gin"

	"tubely/upload-api/internal/config"
	"tubely/upload-api/internal/infrastructure/auth"
	"tubely/upload-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates API route registration.
type Routes struct {
	cfg      *config.Config
	handlers *handlers.Provider
	auth     *auth.Validator
}

func NewRoutes(provider *handlers.Provider, cfg *config.Config, validator *auth.Validator) *Routes {
	return &Routes{cfg: cfg, handlers: provider, auth: validator}
}

// Register attaches the video and thumbnail routes.
func (r *Routes) Register(router gin.IRouter) {
	authed := router.Group("/", r.auth.Middleware())

	authed.POST("/videos", r.handlers.Videos.Create)
	authed.GET("/videos", r.handlers.Videos.List)
	authed.GET("/videos/:id", r.handlers.Videos.Get)
	authed.GET("/videos/:id/assets", r.handlers.Videos.ListAssets)
	authed.POST("/videos/:id/upload", r.handlers.Videos.Upload)
	authed.POST("/thumbnails/:id/upload", r.handlers.Thumbnails.Upload)

	if r.cfg.UsesThumbnailRegistry() {
		router.GET("/thumbnails/:id", r.handlers.Thumbnails.Get)
	}
}
