package v2

import (
	"github.com/gin-gonic/gin"

	v2handler "github.com/grimorio-eterno/grimorio-backend/internal/handler/v2"
	"github.com/grimorio-eterno/grimorio-backend/internal/middleware"
)

// Setup configures the generic v2 content API routes. Listing is open;
// creation is development-mode only, like the rest of the admin surface.
func Setup(router *gin.Engine, h *v2handler.ContentHandler, devMode bool) {
	content := router.Group("/api/v2/content")
	content.GET("/:type", h.List)
	content.POST("/:type", middleware.RequireDevMode(devMode), h.Create)
}
