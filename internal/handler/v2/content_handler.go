package v2

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/grimorio-eterno/grimorio-backend/internal/common"
	"github.com/grimorio-eterno/grimorio-backend/internal/domain"
	"github.com/grimorio-eterno/grimorio-backend/internal/middleware"
	"github.com/grimorio-eterno/grimorio-backend/internal/service"
	"github.com/grimorio-eterno/grimorio-backend/pkg/logger"
)

// ContentHandler serves the generic v2 content API: one listing and one
// creation endpoint parameterized by content type.
type ContentHandler struct {
	content service.ContentService
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(content service.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// List handles GET /api/v2/content/:type
// @Summary Lista conteúdo com filtros, ordenação e paginação
// @Tags v2
// @Produce json
// @Param type path string true "Tipo de conteúdo"
// @Param campaign query string false "ID da campanha (padrão: cookie)"
// @Param status query string false "Filtro de status"
// @Param tags query string false "Tags separadas por vírgula (qualquer uma)"
// @Param search query string false "Busca por nome/descrição"
// @Param limit query int false "Tamanho da página (padrão 50)"
// @Param offset query int false "Deslocamento"
// @Param sortBy query string false "updated|created|name|date"
// @Param sortOrder query string false "asc|desc"
// @Success 200 {object} common.V2Response
// @Failure 400 {object} common.V2Response
// @Router /content/{type} [get]
func (h *ContentHandler) List(c *gin.Context) {
	contentType := domain.ContentType(c.Param("type"))
	if !domain.ValidType(contentType) {
		common.V2ErrorResponse(c, http.StatusBadRequest, "Tipo de conteúdo inválido", nil)
		return
	}

	campaignID := c.Query("campaign")
	if campaignID == "" {
		campaignID = middleware.GetCampaignID(c)
	}

	params := service.FindContentParams{
		Type:      contentType,
		Campaign:  campaignID,
		Status:    c.Query("status"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	if tags := c.Query("tags"); tags != "" {
		params.Tags = strings.Split(tags, ",")
	}
	if include := c.Query("include"); include != "" {
		params.Include = strings.Split(include, ",")
	}
	params.Limit = service.DefaultLimit
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		params.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset > 0 {
		params.Offset = offset
	}

	result, err := h.content.FindContent(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCampaign) {
			common.V2ErrorResponse(c, http.StatusBadRequest, "Campanha inválida", err)
			return
		}
		logger.GetLogger().Error().Err(err).Msg("finding content")
		common.V2ErrorResponse(c, http.StatusInternalServerError, "Erro ao listar conteúdo", nil)
		return
	}

	views := make([]map[string]any, 0, len(result.Records))
	for _, record := range result.Records {
		views = append(views, record.View())
	}
	common.V2SuccessWithMeta(c, views, &common.V2Meta{
		Limit:  params.Limit,
		Offset: params.Offset,
		Total:  result.Total,
	})
}

// createContentRequest is the body of POST /api/v2/content/:type
type createContentRequest struct {
	Data    map[string]any `json:"data" binding:"required"`
	Options struct {
		SkipValidation bool `json:"skipValidation"`
		SkipHooks      bool `json:"skipHooks"`
	} `json:"options"`
}

// Create handles POST /api/v2/content/:type
// @Summary Cria um registro de conteúdo
// @Tags v2
// @Accept json
// @Produce json
// @Param type path string true "Tipo de conteúdo"
// @Param request body createContentRequest true "Campos do registro"
// @Success 201 {object} common.V2Response
// @Failure 400 {object} common.V2Response
// @Failure 409 {object} common.V2Response
// @Router /content/{type} [post]
func (h *ContentHandler) Create(c *gin.Context) {
	contentType := domain.ContentType(c.Param("type"))
	if !domain.ValidType(contentType) {
		common.V2ErrorResponse(c, http.StatusBadRequest, "Tipo de conteúdo inválido", nil)
		return
	}

	var req createContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.V2ErrorResponse(c, http.StatusBadRequest, "Corpo da requisição inválido", err)
		return
	}

	campaignID := c.Query("campaign")
	if campaignID == "" {
		campaignID = middleware.GetCampaignID(c)
	}

	record, err := h.content.CreateContent(c.Request.Context(), contentType, campaignID, req.Data, service.CreateContentOptions{
		SkipValidation: req.Options.SkipValidation,
		SkipHooks:      req.Options.SkipHooks,
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrContentExists):
			common.V2ErrorResponse(c, http.StatusConflict, "Já existe conteúdo com este nome", err)
		case errors.Is(err, common.ErrMissingRequiredField):
			common.V2ErrorResponse(c, http.StatusBadRequest, "Campo obrigatório ausente", err)
		case errors.Is(err, common.ErrInvalidSlug), errors.Is(err, common.ErrInvalidCampaign):
			common.V2ErrorResponse(c, http.StatusBadRequest, "Parâmetros inválidos", err)
		default:
			logger.GetLogger().Error().Err(err).Msg("creating content")
			common.V2ErrorResponse(c, http.StatusInternalServerError, "Erro ao criar conteúdo", nil)
		}
		return
	}

	common.V2Created(c, record.View())
}
