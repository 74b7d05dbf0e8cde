package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grimorio-eterno/grimorio-backend/internal/common"
	"github.com/grimorio-eterno/grimorio-backend/internal/domain"
	"github.com/grimorio-eterno/grimorio-backend/internal/middleware"
	"github.com/grimorio-eterno/grimorio-backend/internal/repository"
	"github.com/grimorio-eterno/grimorio-backend/internal/service"
	"github.com/grimorio-eterno/grimorio-backend/pkg/logger"
)

// AdminHandler serves the development-mode CRUD endpoints behind the
// admin UI. Routes are mounted behind the dev-mode gate.
type AdminHandler struct {
	repo    repository.ContentRepository
	content service.ContentService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(repo repository.ContentRepository, content service.ContentService) *AdminHandler {
	return &AdminHandler{repo: repo, content: content}
}

// GetContent handles GET /api/admin/get-content?type=&slug=
// @Summary Busca um registro para edição
// @Tags admin
// @Produce json
// @Param type query string true "Tipo de conteúdo"
// @Param slug query string true "Slug do registro"
// @Success 200 {object} object
// @Failure 400 {object} object
// @Failure 404 {object} object
// @Router /admin/get-content [get]
func (h *AdminHandler) GetContent(c *gin.Context) {
	contentType := domain.ContentType(c.Query("type"))
	slug := c.Query("slug")
	if contentType == "" || slug == "" {
		common.LegacyError(c, http.StatusBadRequest, "Parâmetros type e slug são obrigatórios")
		return
	}

	campaignID := middleware.GetCampaignID(c)
	record, err := h.repo.Get(contentType, campaignID, slug)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			common.LegacyError(c, http.StatusNotFound, "Arquivo não encontrado")
		case errors.Is(err, common.ErrInvalidContentType), errors.Is(err, common.ErrInvalidSlug),
			errors.Is(err, common.ErrInvalidCampaign):
			common.LegacyError(c, http.StatusBadRequest, "Parâmetros inválidos")
		default:
			logger.GetLogger().Error().Err(err).Msg("fetching content for editing")
			common.LegacyError(c, http.StatusInternalServerError, "Erro ao carregar conteúdo")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": record.View()})
}

// validateNameRequest is the body of POST /api/admin/validate-name
type validateNameRequest struct {
	Type        string `json:"type" binding:"required"`
	Name        string `json:"name" binding:"required"`
	ExcludeSlug string `json:"excludeSlug"`
}

// ValidateName handles POST /api/admin/validate-name
// @Summary Verifica unicidade de nome
// @Tags admin
// @Accept json
// @Produce json
// @Param request body validateNameRequest true "Nome a validar"
// @Success 200 {object} object
// @Failure 400 {object} object
// @Router /admin/validate-name [post]
func (h *AdminHandler) ValidateName(c *gin.Context) {
	var req validateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LegacyError(c, http.StatusBadRequest, "Parâmetros type e name são obrigatórios")
		return
	}

	campaignID := middleware.GetCampaignID(c)
	exists, err := h.repo.NameExists(domain.ContentType(req.Type), campaignID, req.Name, req.ExcludeSlug)
	if err != nil {
		if errors.Is(err, common.ErrInvalidContentType) {
			common.LegacyError(c, http.StatusBadRequest, "Tipo de conteúdo inválido")
			return
		}
		logger.GetLogger().Error().Err(err).Msg("validating name uniqueness")
		common.LegacyError(c, http.StatusInternalServerError, "Erro ao validar nome")
		return
	}

	message := ""
	if exists {
		message = "Já existe um registro com este nome"
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists, "message": message})
}

// Delete handles DELETE /api/admin/delete?type=&slug=&campaignId=
// Removes the record first, then its associated images best-effort;
// a cleanup hiccup shows up as a warning, not a failure.
// @Summary Remove um registro e suas imagens
// @Tags admin
// @Produce json
// @Param type query string true "Tipo de conteúdo"
// @Param slug query string true "Slug do registro"
// @Param campaignId query string true "ID da campanha"
// @Success 200 {object} object
// @Failure 400 {object} object
// @Failure 404 {object} object
// @Router /admin/delete [delete]
func (h *AdminHandler) Delete(c *gin.Context) {
	contentType := domain.ContentType(c.Query("type"))
	slug := c.Query("slug")
	campaignID := c.Query("campaignId")
	if campaignID == "" {
		campaignID = middleware.GetCampaignID(c)
	}
	if contentType == "" || slug == "" || campaignID == "" {
		common.LegacyError(c, http.StatusBadRequest, "Parâmetros type, slug e campaignId são obrigatórios")
		return
	}

	result, err := h.content.DeleteContent(c.Request.Context(), contentType, campaignID, slug)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			common.LegacyError(c, http.StatusNotFound, "Arquivo não encontrado")
		case errors.Is(err, common.ErrInvalidContentType), errors.Is(err, common.ErrInvalidSlug),
			errors.Is(err, common.ErrInvalidCampaign):
			common.LegacyError(c, http.StatusBadRequest, "Parâmetros inválidos")
		default:
			logger.GetLogger().Error().Err(err).Msg("deleting content")
			common.LegacyError(c, http.StatusInternalServerError, "Erro ao excluir conteúdo")
		}
		return
	}

	resp := gin.H{
		"message":       "Conteúdo excluído com sucesso",
		"removedImages": result.RemovedImages,
	}
	if result.Warning != "" {
		resp["warning"] = result.Warning
	}
	c.JSON(http.StatusOK, resp)
}
