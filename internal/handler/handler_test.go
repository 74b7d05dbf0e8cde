package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/grimorio-eterno/grimorio-backend/internal/campaign"
	"github.com/grimorio-eterno/grimorio-backend/internal/domain"
	"github.com/grimorio-eterno/grimorio-backend/internal/handler"
	"github.com/grimorio-eterno/grimorio-backend/internal/middleware"
	"github.com/grimorio-eterno/grimorio-backend/internal/repository"
	"github.com/grimorio-eterno/grimorio-backend/internal/routes"
	"github.com/grimorio-eterno/grimorio-backend/internal/service"
	"github.com/grimorio-eterno/grimorio-backend/pkg/cache"
)

type testEnv struct {
	router *gin.Engine
	repo   repository.ContentRepository
	images service.ImageService
	root   string
}

func newTestEnv(t *testing.T, devMode bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root := t.TempDir()
	repo := repository.NewContentRepository(repository.NewPaths(filepath.Join(root, "content")))
	images := service.NewImageService(filepath.Join(root, "public"), 5*1024*1024)
	content := service.NewContentService(repo, images, cache.NewService(nil))
	resolver := campaign.NewResolver([]domain.Campaign{
		{ID: "camp1", Name: "A Ordem da Penumbra", DMName: "Rafael", Active: true},
		{ID: "camp2", Name: "Sombras de Valdric", DMName: "Ana", Active: true},
	})

	router := gin.New()
	router.Use(middleware.CampaignContext(resolver))
	routes.Setup(router,
		handler.NewContentHandler(repo),
		handler.NewAdminHandler(repo, content),
		handler.NewImageHandler(images),
		devMode)

	return &testEnv{router: router, repo: repo, images: images, root: root}
}

func (e *testEnv) do(t *testing.T, method, target string, body *bytes.Buffer, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

func TestListMonsters_WithCampaignCookie(t *testing.T) {
	env := newTestEnv(t, true)

	_, err := env.repo.Create(domain.TypeMonster, "camp1", map[string]any{
		"name": "Goblin Chief", "type": "Goblin", "challenge": "2",
	})
	assert.NoError(t, err)
	_, err = env.repo.Create(domain.TypeMonster, "camp2", map[string]any{
		"name": "Dragão Vermelho",
	})
	assert.NoError(t, err)

	w := env.do(t, "GET", "/api/characters/monsters", nil,
		map[string]string{"Cookie": "current-campaign=camp1"})
	assert.Equal(t, http.StatusOK, w.Code)

	var monsters []map[string]any
	decode(t, w, &monsters)
	assert.Len(t, monsters, 1)
	assert.Equal(t, "Goblin Chief", monsters[0]["name"])
	assert.Equal(t, "2", monsters[0]["challenge"])
}

func TestListMonsters_FallsBackToFirstActiveCampaign(t *testing.T) {
	env := newTestEnv(t, true)

	_, err := env.repo.Create(domain.TypeMonster, "camp1", map[string]any{"name": "Goblin"})
	assert.NoError(t, err)

	w := env.do(t, "GET", "/api/characters/monsters", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var monsters []map[string]any
	decode(t, w, &monsters)
	assert.Len(t, monsters, 1)
}

func TestListItems_EmptyCampaignIsEmptyArray(t *testing.T) {
	env := newTestEnv(t, true)

	w := env.do(t, "GET", "/api/items", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestAdminGetContent(t *testing.T) {
	env := newTestEnv(t, true)

	_, err := env.repo.Create(domain.TypeItem, "camp1", map[string]any{
		"name": "Anel de Fogo", "rarity": "Raro", "content": "Um anel flamejante.",
	})
	assert.NoError(t, err)

	w := env.do(t, "GET", "/api/admin/get-content?type=item&slug=anel-de-fogo", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data map[string]any `json:"data"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "Anel de Fogo", resp.Data["name"])
	assert.Equal(t, "Um anel flamejante.", resp.Data["content"])
}

func TestAdminGetContent_NotFound(t *testing.T) {
	env := newTestEnv(t, true)

	w := env.do(t, "GET", "/api/admin/get-content?type=item&slug=nada", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminGetContent_MissingParams(t *testing.T) {
	env := newTestEnv(t, true)

	w := env.do(t, "GET", "/api/admin/get-content?type=item", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutes_ForbiddenOutsideDevMode(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.do(t, "GET", "/api/admin/get-content?type=item&slug=x", nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, "DELETE", "/api/admin/delete?type=item&slug=x&campaignId=camp1", nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminValidateName(t *testing.T) {
	env := newTestEnv(t, true)

	_, err := env.repo.Create(domain.TypeMonster, "camp1", map[string]any{"name": "Goblin Chief"})
	assert.NoError(t, err)

	body := bytes.NewBufferString(`{"type":"monster","name":"goblin CHIEF"}`)
	w := env.do(t, "POST", "/api/admin/validate-name", body,
		map[string]string{"Content-Type": "application/json", "Cookie": "current-campaign=camp1"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Exists  bool   `json:"exists"`
		Message string `json:"message"`
	}
	decode(t, w, &resp)
	assert.True(t, resp.Exists)
	assert.NotEmpty(t, resp.Message)

	// Editing the same record does not collide with itself.
	body = bytes.NewBufferString(`{"type":"monster","name":"Goblin Chief","excludeSlug":"goblin-chief"}`)
	w = env.do(t, "POST", "/api/admin/validate-name", body,
		map[string]string{"Content-Type": "application/json", "Cookie": "current-campaign=camp1"})
	assert.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.False(t, resp.Exists)
}

func TestAdminDelete_RemovesRecordAndImages(t *testing.T) {
	env := newTestEnv(t, true)

	_, err := env.repo.Create(domain.TypeItem, "camp1", map[string]any{"name": "Anel de Fogo"})
	assert.NoError(t, err)

	savedDir := filepath.Join(env.root, "public", "saved-images")
	assert.NoError(t, os.MkdirAll(savedDir, 0o755))
	assert.NoError(t, os.WriteFile(
		filepath.Join(savedDir, "camp1_item_anel-de-fogo_1000.png"), []byte("img"), 0o644))

	w := env.do(t, "DELETE", "/api/admin/delete?type=item&slug=anel-de-fogo&campaignId=camp1", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		RemovedImages int `json:"removedImages"`
	}
	decode(t, w, &resp)
	assert.Equal(t, 1, resp.RemovedImages)

	_, err = env.repo.Get(domain.TypeItem, "camp1", "anel-de-fogo")
	assert.Error(t, err)
}

func TestAdminDelete_MissingFile(t *testing.T) {
	env := newTestEnv(t, true)

	w := env.do(t, "DELETE", "/api/admin/delete?type=item&slug=ring-of-fire&campaignId=camp1", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp struct {
		Error string `json:"error"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "Arquivo não encontrado", resp.Error)
}

// multipartUpload builds the multipart body for /api/upload-image.
func multipartUpload(t *testing.T, filename string, size int, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	assert.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte{0xCD}, size))
	assert.NoError(t, err)
	for k, v := range fields {
		assert.NoError(t, w.WriteField(k, v))
	}
	assert.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadThenPromote(t *testing.T) {
	env := newTestEnv(t, true)

	body, contentType := multipartUpload(t, "goblin.png", 128, map[string]string{
		"type": "monster", "slug": "goblin-chief", "temporary": "true",
	})
	w := env.do(t, "POST", "/api/upload-image", body, map[string]string{
		"Content-Type": contentType, "Cookie": "current-campaign=camp1",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var uploaded struct {
		ImageURL string `json:"imageUrl"`
		Filename string `json:"filename"`
	}
	decode(t, w, &uploaded)
	assert.True(t, strings.HasPrefix(uploaded.ImageURL, "/temp-images/"))

	moveBody := bytes.NewBufferString(fmt.Sprintf(`{"tempUrl":%q}`, uploaded.ImageURL))
	w = env.do(t, "POST", "/api/move-temp-image", moveBody,
		map[string]string{"Content-Type": "application/json"})
	assert.Equal(t, http.StatusOK, w.Code)

	var promoted struct {
		ImageURL string `json:"imageUrl"`
	}
	decode(t, w, &promoted)
	assert.Equal(t, "/saved-images/"+uploaded.Filename, promoted.ImageURL)

	// Temp original is gone.
	_, statErr := os.Stat(filepath.Join(env.root, "public", "temp-images", uploaded.Filename))
	assert.True(t, os.IsNotExist(statErr))
}

func TestUpload_RejectsTraversalSlug(t *testing.T) {
	env := newTestEnv(t, true)

	body, contentType := multipartUpload(t, "a.png", 64, map[string]string{
		"type": "monster", "slug": "../../../../fora", "temporary": "true",
	})
	w := env.do(t, "POST", "/api/upload-image", body,
		map[string]string{"Content-Type": contentType, "Cookie": "current-campaign=camp1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Nothing may have been written under the public root.
	_, statErr := os.Stat(filepath.Join(env.root, "public", "temp-images"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestUpload_RejectsGif(t *testing.T) {
	env := newTestEnv(t, true)

	body, contentType := multipartUpload(t, "anim.gif", 64, map[string]string{
		"type": "monster", "slug": "goblin", "temporary": "true",
	})
	w := env.do(t, "POST", "/api/upload-image", body,
		map[string]string{"Content-Type": contentType})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteImage_NamespaceBoundary(t *testing.T) {
	env := newTestEnv(t, true)

	body := bytes.NewBufferString(`{"filename":"/temp-images/x.png"}`)
	w := env.do(t, "DELETE", "/api/delete-image", body,
		map[string]string{"Content-Type": "application/json"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = bytes.NewBufferString(`{"filename":"/saved-images/nada.png"}`)
	w = env.do(t, "DELETE", "/api/delete-image", body,
		map[string]string{"Content-Type": "application/json"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCleanupTempImages(t *testing.T) {
	env := newTestEnv(t, true)

	w := env.do(t, "POST", "/api/cleanup-temp-images", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string `json:"message"`
	}
	decode(t, w, &resp)
	assert.Contains(t, resp.Message, "0 imagens")
}

func TestCleanupTempImages_ForbiddenOutsideDevMode(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.do(t, "POST", "/api/cleanup-temp-images", nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
