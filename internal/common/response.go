package common

import "github.com/gin-gonic/gin"

// LegacyError writes the flat {"error": message} body used by the
// original admin UI endpoints.
func LegacyError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
