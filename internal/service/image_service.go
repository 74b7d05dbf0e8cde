package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/grimorio-eterno/grimorio-backend/internal/common"
	"github.com/grimorio-eterno/grimorio-backend/internal/domain"
	"github.com/grimorio-eterno/grimorio-backend/internal/repository"
	"github.com/grimorio-eterno/grimorio-backend/pkg/logger"
)

const (
	tempURLPrefix  = "/temp-images/"
	savedURLPrefix = "/saved-images/"

	// DefaultTempMaxAge is how long a staged upload survives before the
	// sweep removes it.
	DefaultTempMaxAge = 24 * time.Hour
)

// allowedImageExts is the upload allow-list.
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ImageService manages the lifecycle of uploaded images: temporary
// staging, promotion to permanent storage, deletion and expiry sweeps.
type ImageService interface {
	Upload(file *multipart.FileHeader, t domain.ContentType, slug, campaignID string, temporary bool) (*domain.StoredImage, error)
	Promote(tempURL string) (*domain.StoredImage, error)
	Delete(savedURL string) error
	DeleteAssociated(campaignID string, t domain.ContentType, slug string) int
	SweepExpiredTemp(maxAge time.Duration) (int, error)
}

type imageService struct {
	tempDir  string
	savedDir string
	maxSize  int64
}

// NewImageService creates an ImageService storing files under the
// public root (temp-images and saved-images directories).
func NewImageService(publicRoot string, maxSize int64) ImageService {
	return &imageService{
		tempDir:  filepath.Join(publicRoot, "temp-images"),
		savedDir: filepath.Join(publicRoot, "saved-images"),
		maxSize:  maxSize,
	}
}

// imagePrefix is the composite filename prefix tying an image to its
// owning record. Upload naming and associated-delete matching both go
// through here so the two can never drift apart.
func imagePrefix(campaignID string, t domain.ContentType, slug string) string {
	return fmt.Sprintf("%s_%s_%s_", campaignID, t, slug)
}

// Upload validates and stores an uploaded image, staged under the temp
// directory when temporary is set.
func (s *imageService) Upload(file *multipart.FileHeader, t domain.ContentType, slug, campaignID string, temporary bool) (*domain.StoredImage, error) {
	if !domain.ValidType(t) {
		return nil, fmt.Errorf("%w: %s", common.ErrInvalidContentType, t)
	}
	// slug and campaignID become part of the on-disk filename; they must
	// never carry separators or traversal out of the image directories.
	if err := repository.ValidateSegment(slug); err != nil {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidSlug, slug)
	}
	if err := repository.ValidateSegment(campaignID); err != nil {
		return nil, fmt.Errorf("%w: campaign %q", common.ErrInvalidCampaign, campaignID)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedMediaType, ext)
	}
	if file.Size > s.maxSize {
		return nil, fmt.Errorf("%w: %d bytes (limite %d)", common.ErrPayloadTooLarge, file.Size, s.maxSize)
	}

	dir := s.savedDir
	urlPrefix := savedURLPrefix
	if temporary {
		dir = s.tempDir
		urlPrefix = tempURLPrefix
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}

	filename := fmt.Sprintf("%s%d%s", imagePrefix(campaignID, t, slug), time.Now().UnixMilli(), ext)
	savePath := filepath.Join(dir, filename)

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(savePath)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", savePath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(savePath)
		return nil, fmt.Errorf("write %s: %w", savePath, err)
	}

	return &domain.StoredImage{URL: urlPrefix + filename, Filename: filename}, nil
}

// Promote moves a staged image into permanent storage. The URL must be
// rooted under the temp namespace.
func (s *imageService) Promote(tempURL string) (*domain.StoredImage, error) {
	filename, err := filenameFromURL(tempURL, tempURLPrefix)
	if err != nil {
		return nil, err
	}

	src := filepath.Join(s.tempDir, filename)
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", common.ErrNotFound, tempURL)
		}
		return nil, fmt.Errorf("stat %s: %w", src, err)
	}

	if err := os.MkdirAll(s.savedDir, 0o755); err != nil {
		return nil, fmt.Errorf("create saved dir: %w", err)
	}

	dst := filepath.Join(s.savedDir, filename)
	if err := os.Rename(src, dst); err != nil {
		return nil, fmt.Errorf("promote %s: %w", filename, err)
	}

	return &domain.StoredImage{URL: savedURLPrefix + filename, Filename: filename}, nil
}

// Delete removes a permanent image. Only URLs under the saved-images
// namespace are accepted; anything else is rejected so this endpoint
// can never unlink arbitrary files.
func (s *imageService) Delete(savedURL string) error {
	filename, err := filenameFromURL(savedURL, savedURLPrefix)
	if err != nil {
		return err
	}

	target := filepath.Join(s.savedDir, filename)
	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", common.ErrNotFound, savedURL)
		}
		return fmt.Errorf("delete %s: %w", target, err)
	}
	return nil
}

// DeleteAssociated removes every saved image whose filename carries the
// record's composite prefix. Best-effort: failures are logged and the
// count of removed files is returned; the caller's primary deletion
// must never fail because of this.
func (s *imageService) DeleteAssociated(campaignID string, t domain.ContentType, slug string) int {
	prefix := imagePrefix(campaignID, t, slug)

	entries, err := os.ReadDir(s.savedDir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.GetLogger().Warn().Err(err).Msg("listing saved images for cascade delete")
		}
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		if err := os.Remove(filepath.Join(s.savedDir, entry.Name())); err != nil {
			logger.GetLogger().Warn().Err(err).Str("file", entry.Name()).Msg("removing associated image")
			continue
		}
		removed++
	}
	return removed
}

// SweepExpiredTemp removes staged images older than maxAge. Per-file
// failures are logged and skipped; the sweep always runs to the end.
func (s *imageService) SweepExpiredTemp(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		maxAge = DefaultTempMaxAge
	}
	cutoff := time.Now().Add(-maxAge)

	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("list temp images: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			logger.GetLogger().Warn().Err(err).Str("file", entry.Name()).Msg("stat temp image")
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.tempDir, entry.Name())); err != nil {
			logger.GetLogger().Warn().Err(err).Str("file", entry.Name()).Msg("removing expired temp image")
			continue
		}
		removed++
	}
	return removed, nil
}

// filenameFromURL extracts the bare filename from an image URL after
// checking it sits under the expected namespace.
func filenameFromURL(url, prefix string) (string, error) {
	if !strings.HasPrefix(url, prefix) {
		return "", fmt.Errorf("%w: %s", common.ErrInvalidReference, url)
	}
	filename := strings.TrimPrefix(url, prefix)
	if filename == "" || filename != path.Base(filename) || filename == "." || filename == ".." {
		return "", fmt.Errorf("%w: %s", common.ErrInvalidReference, url)
	}
	return filename, nil
}
