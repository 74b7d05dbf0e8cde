package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grimorio-eterno/grimorio-backend/internal/common"
	"github.com/grimorio-eterno/grimorio-backend/internal/domain"
	"github.com/grimorio-eterno/grimorio-backend/pkg/frontmatter"
	"github.com/grimorio-eterno/grimorio-backend/pkg/logger"
)

// ContentRepository handles markdown-backed content records, scoped per
// call to a (content type, campaign) pair.
type ContentRepository interface {
	List(t domain.ContentType, campaignID string) ([]*domain.ContentRecord, error)
	Get(t domain.ContentType, campaignID, slug string) (*domain.ContentRecord, error)
	Create(t domain.ContentType, campaignID string, data map[string]any) (*domain.ContentRecord, error)
	Delete(t domain.ContentType, campaignID, slug string) error
	NameExists(t domain.ContentType, campaignID, name, excludeSlug string) (bool, error)
}

type fsContentRepository struct {
	paths *Paths
}

// NewContentRepository creates a filesystem-backed ContentRepository
// rooted at the content directory.
func NewContentRepository(paths *Paths) ContentRepository {
	return &fsContentRepository{paths: paths}
}

// List reads every markdown record of the given type in a campaign.
// A missing directory yields an empty list; unreadable files are
// logged and skipped so one bad record does not break a listing.
func (r *fsContentRepository) List(t domain.ContentType, campaignID string) ([]*domain.ContentRecord, error) {
	dir, err := r.paths.Dir(t, campaignID)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.ContentRecord{}, nil
		}
		return nil, fmt.Errorf("list %s/%s: %w", campaignID, t, err)
	}

	records := make([]*domain.ContentRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		slug := strings.TrimSuffix(entry.Name(), ".md")
		record, err := r.Get(t, campaignID, slug)
		if err != nil {
			logger.GetLogger().Warn().
				Err(err).
				Str("type", string(t)).
				Str("campaign", campaignID).
				Str("slug", slug).
				Msg("skipping unreadable record")
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// Get reads and parses one record.
func (r *fsContentRepository) Get(t domain.ContentType, campaignID, slug string) (*domain.ContentRecord, error) {
	path, err := r.paths.File(t, campaignID, slug)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s/%s", common.ErrNotFound, campaignID, t, slug)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	record := &domain.ContentRecord{
		Slug:        slug,
		Type:        t,
		Campaign:    campaignID,
		Frontmatter: doc.Metadata,
		Body:        doc.Body,
	}
	applyDefaults(t, record)

	if info, err := os.Stat(path); err == nil {
		record.UpdatedAt = info.ModTime()
	}
	return record, nil
}

// Create writes a new record. The file is created with O_EXCL so two
// concurrent creates for the same slug cannot clobber each other; the
// loser gets ErrContentExists.
func (r *fsContentRepository) Create(t domain.ContentType, campaignID string, data map[string]any) (*domain.ContentRecord, error) {
	spec, ok := domain.Spec(t)
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrInvalidContentType, t)
	}

	metadata := make(map[string]any, len(data))
	for k, v := range data {
		metadata[k] = v
	}

	var body string
	for _, key := range []string{"content", "body"} {
		if v, ok := metadata[key].(string); ok {
			body = v
			delete(metadata, key)
			break
		}
	}

	slug, _ := metadata["slug"].(string)
	delete(metadata, "slug")
	if slug == "" {
		name, _ := metadata[spec.NameField].(string)
		if name == "" {
			return nil, fmt.Errorf("%w: %s", common.ErrMissingRequiredField, spec.NameField)
		}
		slug = Slugify(name)
	}

	path, err := r.paths.File(t, campaignID, slug)
	if err != nil {
		return nil, err
	}

	raw, err := frontmatter.Serialize(metadata, body)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create dir for %s: %w", path, err)
	}

	// Reserve the final path exclusively, then write through a temp
	// file and rename so readers never observe a partial record.
	reserved, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w: %s/%s/%s", common.ErrContentExists, campaignID, t, slug)
		}
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	reserved.Close()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+slug+"-*")
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("create temp for %s: %w", path, err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		os.Remove(path)
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		os.Remove(path)
		return nil, fmt.Errorf("close temp for %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		os.Remove(path)
		return nil, fmt.Errorf("rename into %s: %w", path, err)
	}

	return r.Get(t, campaignID, slug)
}

// Delete removes a record's file.
func (r *fsContentRepository) Delete(t domain.ContentType, campaignID, slug string) error {
	path, err := r.paths.File(t, campaignID, slug)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s/%s/%s", common.ErrNotFound, campaignID, t, slug)
		}
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// NameExists reports whether any record of the type in the campaign
// already uses the given display name, case-insensitively. The record
// with excludeSlug is skipped so edits don't collide with themselves.
// For the campaign type the comparison runs against the directory
// names under the content root.
func (r *fsContentRepository) NameExists(t domain.ContentType, campaignID, name, excludeSlug string) (bool, error) {
	if !domain.ValidType(t) {
		return false, fmt.Errorf("%w: %s", common.ErrInvalidContentType, t)
	}

	if t == domain.TypeCampaign {
		entries, err := os.ReadDir(r.paths.Root())
		if err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, fmt.Errorf("list campaigns: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() && strings.EqualFold(entry.Name(), name) && entry.Name() != excludeSlug {
				return true, nil
			}
		}
		return false, nil
	}

	records, err := r.List(t, campaignID)
	if err != nil {
		return false, err
	}
	for _, record := range records {
		if excludeSlug != "" && record.Slug == excludeSlug {
			continue
		}
		if strings.EqualFold(record.DisplayName(), name) {
			return true, nil
		}
	}
	return false, nil
}

// applyDefaults fills type-specific defaults for absent optional fields
// at the read layer, per the type registry.
func applyDefaults(t domain.ContentType, record *domain.ContentRecord) {
	spec, ok := domain.Spec(t)
	if !ok {
		return
	}
	for key, value := range spec.Defaults {
		if _, present := record.Frontmatter[key]; !present {
			record.Frontmatter[key] = value
		}
	}
}
