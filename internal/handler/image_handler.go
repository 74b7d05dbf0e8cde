package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grimorio-eterno/grimorio-backend/internal/common"
	"github.com/grimorio-eterno/grimorio-backend/internal/domain"
	"github.com/grimorio-eterno/grimorio-backend/internal/middleware"
	"github.com/grimorio-eterno/grimorio-backend/internal/service"
	"github.com/grimorio-eterno/grimorio-backend/pkg/logger"
)

// ImageHandler serves the image upload and lifecycle endpoints.
type ImageHandler struct {
	images service.ImageService
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(images service.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// Upload handles POST /api/upload-image
// @Summary Upload de imagem (temporária ou definitiva)
// @Tags images
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Arquivo de imagem"
// @Param type formData string true "Tipo de conteúdo"
// @Param slug formData string true "Slug do registro"
// @Param temporary formData bool false "Armazenar em staging temporário"
// @Success 200 {object} domain.StoredImage
// @Failure 400 {object} object
// @Router /upload-image [post]
func (h *ImageHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		common.LegacyError(c, http.StatusBadRequest, "Selecione um arquivo de imagem")
		return
	}

	contentType := domain.ContentType(c.PostForm("type"))
	slug := c.PostForm("slug")
	if contentType == "" || slug == "" {
		common.LegacyError(c, http.StatusBadRequest, "Campos type e slug são obrigatórios")
		return
	}
	temporary := c.PostForm("temporary") == "true"

	campaignID := middleware.GetCampaignID(c)
	image, err := h.images.Upload(file, contentType, slug, campaignID, temporary)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUnsupportedMediaType):
			common.LegacyError(c, http.StatusBadRequest, "Formato de imagem não suportado (use jpeg, jpg, png ou webp)")
		case errors.Is(err, common.ErrPayloadTooLarge):
			common.LegacyError(c, http.StatusBadRequest, "Imagem excede o limite de 5MB")
		case errors.Is(err, common.ErrInvalidContentType):
			common.LegacyError(c, http.StatusBadRequest, "Tipo de conteúdo inválido")
		case errors.Is(err, common.ErrInvalidSlug), errors.Is(err, common.ErrInvalidCampaign):
			common.LegacyError(c, http.StatusBadRequest, "Parâmetros inválidos")
		default:
			logger.GetLogger().Error().Err(err).Msg("saving uploaded image")
			common.LegacyError(c, http.StatusInternalServerError, "Erro ao salvar imagem")
		}
		return
	}

	c.JSON(http.StatusOK, image)
}

// moveTempImageRequest is the body of POST /api/move-temp-image
type moveTempImageRequest struct {
	TempURL string `json:"tempUrl" binding:"required"`
}

// MoveTempImage handles POST /api/move-temp-image
// @Summary Promove imagem temporária para armazenamento definitivo
// @Tags images
// @Accept json
// @Produce json
// @Param request body moveTempImageRequest true "URL temporária"
// @Success 200 {object} domain.StoredImage
// @Failure 400 {object} object
// @Failure 404 {object} object
// @Router /move-temp-image [post]
func (h *ImageHandler) MoveTempImage(c *gin.Context) {
	var req moveTempImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LegacyError(c, http.StatusBadRequest, "Campo tempUrl é obrigatório")
		return
	}

	image, err := h.images.Promote(req.TempURL)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidReference):
			common.LegacyError(c, http.StatusBadRequest, "URL fora do diretório de imagens temporárias")
		case errors.Is(err, common.ErrNotFound):
			common.LegacyError(c, http.StatusNotFound, "Imagem temporária não encontrada")
		default:
			logger.GetLogger().Error().Err(err).Msg("promoting temp image")
			common.LegacyError(c, http.StatusInternalServerError, "Erro ao mover imagem")
		}
		return
	}

	c.JSON(http.StatusOK, image)
}

// deleteImageRequest is the body of DELETE /api/delete-image
type deleteImageRequest struct {
	Filename string `json:"filename" binding:"required"`
}

// DeleteImage handles DELETE /api/delete-image
// @Summary Remove uma imagem definitiva
// @Tags images
// @Accept json
// @Produce json
// @Param request body deleteImageRequest true "URL da imagem salva"
// @Success 200 {object} object
// @Failure 400 {object} object
// @Failure 404 {object} object
// @Router /delete-image [delete]
func (h *ImageHandler) DeleteImage(c *gin.Context) {
	var req deleteImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LegacyError(c, http.StatusBadRequest, "Campo filename é obrigatório")
		return
	}

	if err := h.images.Delete(req.Filename); err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidReference):
			common.LegacyError(c, http.StatusBadRequest, "Apenas arquivos em /saved-images/ podem ser removidos")
		case errors.Is(err, common.ErrNotFound):
			common.LegacyError(c, http.StatusNotFound, "Imagem não encontrada")
		default:
			logger.GetLogger().Error().Err(err).Msg("deleting saved image")
			common.LegacyError(c, http.StatusInternalServerError, "Erro ao excluir imagem")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Imagem removida com sucesso"})
}

// CleanupTempImages handles POST /api/cleanup-temp-images
// @Summary Remove imagens temporárias expiradas
// @Tags images
// @Produce json
// @Success 200 {object} object
// @Failure 500 {object} object
// @Router /cleanup-temp-images [post]
func (h *ImageHandler) CleanupTempImages(c *gin.Context) {
	removed, err := h.images.SweepExpiredTemp(service.DefaultTempMaxAge)
	if err != nil {
		logger.GetLogger().Error().Err(err).Msg("sweeping temp images")
		common.LegacyError(c, http.StatusInternalServerError, "Erro ao limpar imagens temporárias")
		return
	}

	middleware.AddTempImagesSwept(removed)
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%d imagens temporárias removidas", removed),
	})
}
