// Package campaign resolves the active campaign for a request from the
// current-campaign cookie against the configured campaign list.
package campaign

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grimorio-eterno/grimorio-backend/internal/domain"
)

// CookieName is the cookie carrying the selected campaign ID.
const CookieName = "current-campaign"

// Resolver picks the active campaign for a request.
type Resolver struct {
	campaigns []domain.Campaign
}

// NewResolver creates a Resolver over the configured campaign list.
func NewResolver(campaigns []domain.Campaign) *Resolver {
	return &Resolver{campaigns: campaigns}
}

// Resolve reads the campaign cookie from a gin request context.
// Falls back to the first active campaign; empty when none is active.
func (r *Resolver) Resolve(c *gin.Context) string {
	value, _ := c.Cookie(CookieName)
	return r.pick(value)
}

// ResolveFromHeader parses a raw Cookie header (as forwarded to API
// routes) and resolves the campaign the same way Resolve does.
func (r *Resolver) ResolveFromHeader(cookieHeader string) string {
	req := http.Request{Header: http.Header{"Cookie": []string{cookieHeader}}}
	var value string
	if cookie, err := req.Cookie(CookieName); err == nil {
		value = cookie.Value
	}
	return r.pick(value)
}

// pick returns the cookie's campaign when it exists and is active,
// otherwise the first active campaign in list order.
func (r *Resolver) pick(cookieValue string) string {
	if cookieValue != "" {
		for _, c := range r.campaigns {
			if c.ID == cookieValue && c.Active {
				return c.ID
			}
		}
	}
	for _, c := range r.campaigns {
		if c.Active {
			return c.ID
		}
	}
	return ""
}

// Get returns the campaign with the given ID.
func (r *Resolver) Get(id string) (domain.Campaign, bool) {
	for _, c := range r.campaigns {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Campaign{}, false
}

// List returns every configured campaign.
func (r *Resolver) List() []domain.Campaign {
	return r.campaigns
}
