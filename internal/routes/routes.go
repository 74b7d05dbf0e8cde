package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/grimorio-eterno/grimorio-backend/internal/handler"
	"github.com/grimorio-eterno/grimorio-backend/internal/middleware"
)

// Setup registers the listing, admin and image routes. devMode gates
// every mutating admin surface.
func Setup(router *gin.Engine, content *handler.ContentHandler, admin *handler.AdminHandler, images *handler.ImageHandler, devMode bool) {
	api := router.Group("/api")

	// Read-only compendium listings
	characters := api.Group("/characters")
	characters.GET("/players", content.ListPlayers)
	characters.GET("/npcs", content.ListNPCs)
	characters.GET("/monsters", content.ListMonsters)

	api.GET("/items", content.ListItems)
	api.GET("/sessions", content.ListSessions)
	api.GET("/notes", content.ListNotes)

	// Admin CRUD, development mode only
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.RequireDevMode(devMode))
	adminGroup.GET("/get-content", admin.GetContent)
	adminGroup.POST("/validate-name", admin.ValidateName)
	adminGroup.DELETE("/delete", admin.Delete)

	// Image lifecycle, development mode only; the hourly sweep covers
	// production cleanup.
	api.POST("/upload-image", middleware.RequireDevMode(devMode), images.Upload)
	api.POST("/move-temp-image", middleware.RequireDevMode(devMode), images.MoveTempImage)
	api.DELETE("/delete-image", middleware.RequireDevMode(devMode), images.DeleteImage)
	api.POST("/cleanup-temp-images", middleware.RequireDevMode(devMode), images.CleanupTempImages)
}
