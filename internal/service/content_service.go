package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/grimorio-eterno/grimorio-backend/internal/common"
	"github.com/grimorio-eterno/grimorio-backend/internal/domain"
	"github.com/grimorio-eterno/grimorio-backend/internal/repository"
	"github.com/grimorio-eterno/grimorio-backend/pkg/cache"
	"github.com/grimorio-eterno/grimorio-backend/pkg/logger"
)

// Find defaults per the v2 content API contract.
const (
	DefaultLimit     = 50
	DefaultSortBy    = "updated"
	DefaultSortOrder = "desc"
)

// FindContentParams filters and pages a content listing.
type FindContentParams struct {
	Type     domain.ContentType
	Campaign string
	// Status filters on the status frontmatter field; records without
	// one count as "published".
	Status string
	// Tags matches records carrying at least one of the given tags.
	Tags []string
	// Search is a case-insensitive substring match on name/title and
	// description.
	Search    string
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
	// Include is accepted for forward compatibility and currently
	// expands nothing: file-backed records have no relations.
	Include []string
}

// FindContentResult is a page of records plus the pre-slice total.
type FindContentResult struct {
	Records []*domain.ContentRecord `json:"records"`
	Total   int                     `json:"total"`
}

// CreateContentOptions are explicit opt-outs for programmatic imports.
type CreateContentOptions struct {
	// SkipValidation bypasses required-field and name-uniqueness checks.
	SkipValidation bool
	// SkipHooks bypasses post-create side effects (cache invalidation).
	SkipHooks bool
}

// DeleteContentResult reports a record deletion plus its best-effort
// image cleanup outcome.
type DeleteContentResult struct {
	RemovedImages int    `json:"removedImages"`
	Warning       string `json:"warning,omitempty"`
}

// ContentService implements the content manager operations: filtered,
// sorted, paginated listings plus validated creation and deletion with
// image cleanup.
type ContentService interface {
	FindContent(ctx context.Context, params FindContentParams) (*FindContentResult, error)
	CreateContent(ctx context.Context, t domain.ContentType, campaignID string, data map[string]any, opts CreateContentOptions) (*domain.ContentRecord, error)
	DeleteContent(ctx context.Context, t domain.ContentType, campaignID, slug string) (*DeleteContentResult, error)
}

type contentService struct {
	repo   repository.ContentRepository
	images ImageService
	cache  cache.Service
}

// NewContentService creates a ContentService.
func NewContentService(repo repository.ContentRepository, images ImageService, cacheSvc cache.Service) ContentService {
	return &contentService{repo: repo, images: images, cache: cacheSvc}
}

// FindContent lists records matching the params. Results are cached
// briefly per query when redis is configured; staleness is bounded by
// the listing TTL and creates/deletes invalidate eagerly.
func (s *contentService) FindContent(ctx context.Context, params FindContentParams) (*FindContentResult, error) {
	applyFindDefaults(&params)

	key := listingCacheKey(params)
	if s.cache.IsAvailable() {
		var cached FindContentResult
		if err := s.cache.GetListing(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	records, err := s.repo.List(params.Type, params.Campaign)
	if err != nil {
		return nil, err
	}

	filtered := make([]*domain.ContentRecord, 0, len(records))
	for _, record := range records {
		if matches(record, params) {
			filtered = append(filtered, record)
		}
	}

	sortRecords(filtered, params.SortBy, params.SortOrder)

	total := len(filtered)
	page := paginate(filtered, params.Offset, params.Limit)

	result := &FindContentResult{Records: page, Total: total}
	if s.cache.IsAvailable() {
		if err := s.cache.SetListing(ctx, key, result); err != nil {
			logger.GetLogger().Warn().Err(err).Msg("caching listing")
		}
	}
	return result, nil
}

// CreateContent validates and creates a record.
func (s *contentService) CreateContent(ctx context.Context, t domain.ContentType, campaignID string, data map[string]any, opts CreateContentOptions) (*domain.ContentRecord, error) {
	spec, ok := domain.Spec(t)
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrInvalidContentType, t)
	}

	if !opts.SkipValidation {
		for _, field := range spec.Required {
			if v, _ := data[field].(string); strings.TrimSpace(v) == "" {
				return nil, fmt.Errorf("%w: %s", common.ErrMissingRequiredField, field)
			}
		}
		if name, _ := data[spec.NameField].(string); name != "" {
			exists, err := s.repo.NameExists(t, campaignID, name, "")
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, fmt.Errorf("%w: nome %q já em uso", common.ErrContentExists, name)
			}
		}
	}

	record, err := s.repo.Create(t, campaignID, data)
	if err != nil {
		return nil, err
	}

	if !opts.SkipHooks {
		s.invalidateListings(ctx, t, campaignID)
	}
	return record, nil
}

// DeleteContent removes a record and then, best-effort, its associated
// images. Image cleanup failure surfaces as a warning, never an error:
// the primary deletion has already committed.
func (s *contentService) DeleteContent(ctx context.Context, t domain.ContentType, campaignID, slug string) (*DeleteContentResult, error) {
	if err := s.repo.Delete(t, campaignID, slug); err != nil {
		return nil, err
	}

	result := &DeleteContentResult{}
	result.RemovedImages = s.images.DeleteAssociated(campaignID, t, slug)

	s.invalidateListings(ctx, t, campaignID)
	return result, nil
}

func (s *contentService) invalidateListings(ctx context.Context, t domain.ContentType, campaignID string) {
	if !s.cache.IsAvailable() {
		return
	}
	if err := s.cache.InvalidateListings(ctx, string(t), campaignID); err != nil {
		logger.GetLogger().Warn().Err(err).Msg("invalidating listing cache")
	}
}

func applyFindDefaults(params *FindContentParams) {
	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	if params.SortBy == "" {
		params.SortBy = DefaultSortBy
	}
	if params.SortOrder == "" {
		params.SortOrder = DefaultSortOrder
	}
}

func listingCacheKey(params FindContentParams) string {
	return fmt.Sprintf("%s:%s:%s|%s|%s|%d|%d|%s|%s",
		params.Type, params.Campaign,
		params.Status, strings.Join(params.Tags, ","), strings.ToLower(params.Search),
		params.Limit, params.Offset, params.SortBy, params.SortOrder)
}

// matches applies status, tag (any-of) and search filters.
func matches(record *domain.ContentRecord, params FindContentParams) bool {
	if params.Status != "" && record.Status() != params.Status {
		return false
	}

	if len(params.Tags) > 0 {
		recordTags := record.Tags()
		found := false
		for _, want := range params.Tags {
			for _, have := range recordTags {
				if strings.EqualFold(want, have) {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return false
		}
	}

	if params.Search != "" {
		needle := strings.ToLower(params.Search)
		name := strings.ToLower(record.DisplayName())
		description, _ := record.Frontmatter["description"].(string)
		if !strings.Contains(name, needle) &&
			!strings.Contains(strings.ToLower(description), needle) {
			return false
		}
	}
	return true
}

func sortRecords(records []*domain.ContentRecord, sortBy, sortOrder string) {
	less := func(a, b *domain.ContentRecord) bool {
		switch sortBy {
		case "name", "title":
			return strings.ToLower(a.DisplayName()) < strings.ToLower(b.DisplayName())
		case "date":
			return frontmatterDate(a).Before(frontmatterDate(b))
		case "created":
			// Creation time is not tracked separately for file-backed
			// records; the created frontmatter field wins when present.
			at, aok := a.Frontmatter["created"].(string)
			bt, bok := b.Frontmatter["created"].(string)
			if aok && bok {
				return at < bt
			}
			return a.UpdatedAt.Before(b.UpdatedAt)
		default: // updated
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if sortOrder == "desc" {
			return less(records[j], records[i])
		}
		return less(records[i], records[j])
	})
}

func frontmatterDate(record *domain.ContentRecord) time.Time {
	if v, ok := record.Frontmatter["date"].(string); ok {
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed
			}
		}
	}
	if v, ok := record.Frontmatter["date"].(time.Time); ok {
		return v
	}
	return record.UpdatedAt
}

func paginate(records []*domain.ContentRecord, offset, limit int) []*domain.ContentRecord {
	if offset >= len(records) {
		return []*domain.ContentRecord{}
	}
	end := offset + limit
	if end > len(records) {
		end = len(records)
	}
	return records[offset:end]
}
