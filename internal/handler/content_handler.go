package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grimorio-eterno/grimorio-backend/internal/domain"
	"github.com/grimorio-eterno/grimorio-backend/internal/middleware"
	"github.com/grimorio-eterno/grimorio-backend/internal/repository"
	"github.com/grimorio-eterno/grimorio-backend/pkg/logger"
)

// ContentHandler serves the read-only listing endpoints consumed by the
// compendium pages. The campaign comes from the request cookie.
type ContentHandler struct {
	repo repository.ContentRepository
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(repo repository.ContentRepository) *ContentHandler {
	return &ContentHandler{repo: repo}
}

// ListPlayers handles GET /api/characters/players
// @Summary Lista personagens dos jogadores
// @Tags characters
// @Produce json
// @Success 200 {array} object
// @Failure 500 {object} object
// @Router /characters/players [get]
func (h *ContentHandler) ListPlayers(c *gin.Context) {
	h.list(c, domain.TypePlayer)
}

// ListNPCs handles GET /api/characters/npcs
// @Summary Lista NPCs
// @Tags characters
// @Produce json
// @Success 200 {array} object
// @Router /characters/npcs [get]
func (h *ContentHandler) ListNPCs(c *gin.Context) {
	h.list(c, domain.TypeNPC)
}

// ListMonsters handles GET /api/characters/monsters
// @Summary Lista monstros
// @Tags characters
// @Produce json
// @Success 200 {array} object
// @Router /characters/monsters [get]
func (h *ContentHandler) ListMonsters(c *gin.Context) {
	h.list(c, domain.TypeMonster)
}

// ListItems handles GET /api/items
// @Summary Lista itens
// @Tags items
// @Produce json
// @Success 200 {array} object
// @Router /items [get]
func (h *ContentHandler) ListItems(c *gin.Context) {
	h.list(c, domain.TypeItem)
}

// ListSessions handles GET /api/sessions
// @Summary Lista sessões
// @Tags sessions
// @Produce json
// @Success 200 {array} object
// @Router /sessions [get]
func (h *ContentHandler) ListSessions(c *gin.Context) {
	h.list(c, domain.TypeSession)
}

// ListNotes handles GET /api/notes
// @Summary Lista anotações
// @Tags notes
// @Produce json
// @Success 200 {array} object
// @Router /notes [get]
func (h *ContentHandler) ListNotes(c *gin.Context) {
	h.list(c, domain.TypeNote)
}

// list returns every record of one type in the cookie's campaign as a
// flat array. Without an active campaign the listing is empty rather
// than an error, so pages render instead of crashing.
func (h *ContentHandler) list(c *gin.Context, t domain.ContentType) {
	campaignID := middleware.GetCampaignID(c)
	if campaignID == "" {
		c.JSON(http.StatusOK, []any{})
		return
	}

	records, err := h.repo.List(t, campaignID)
	if err != nil {
		logger.GetLogger().Error().Err(err).
			Str("type", string(t)).
			Str("campaign", campaignID).
			Msg("listing content")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar conteúdo"})
		return
	}

	views := make([]map[string]any, 0, len(records))
	for _, record := range records {
		views = append(views, record.View())
	}
	c.JSON(http.StatusOK, views)
}
