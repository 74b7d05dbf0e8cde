package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/grimorio-eterno/grimorio-backend/internal/campaign"
)

const campaignKey = "campaign_id"

// CampaignContext resolves the active campaign from the request cookie
// once per request and stores it in the gin context. Handlers read it
// with GetCampaignID; no process-wide campaign state exists.
func CampaignContext(resolver *campaign.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(campaignKey, resolver.Resolve(c))
		c.Next()
	}
}

// GetCampaignID returns the campaign resolved for this request, empty
// when no active campaign exists.
func GetCampaignID(c *gin.Context) string {
	return c.GetString(campaignKey)
}
