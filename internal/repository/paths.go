package repository

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/grimorio-eterno/grimorio-backend/internal/common"
	"github.com/grimorio-eterno/grimorio-backend/internal/domain"
)

// Paths resolves content types and slugs to locations on disk. Every
// resolved path stays confined under the content root; user-supplied
// segments are rejected when they could escape it.
type Paths struct {
	root string
}

// NewPaths creates a resolver rooted at the content directory.
func NewPaths(root string) *Paths {
	return &Paths{root: root}
}

// Root returns the content root directory.
func (p *Paths) Root() string {
	return p.root
}

// Dir resolves the directory holding records of the given type within a
// campaign. The campaign type resolves to the campaign's own root.
func (p *Paths) Dir(t domain.ContentType, campaignID string) (string, error) {
	spec, ok := domain.Spec(t)
	if !ok {
		return "", fmt.Errorf("%w: %s", common.ErrInvalidContentType, t)
	}
	if err := ValidateSegment(campaignID); err != nil {
		return "", fmt.Errorf("%w: campaign %q", common.ErrInvalidCampaign, campaignID)
	}
	if t == domain.TypeCampaign {
		return filepath.Join(p.root, campaignID), nil
	}
	return filepath.Join(p.root, campaignID, spec.Dir), nil
}

// File resolves the markdown file for a single record.
func (p *Paths) File(t domain.ContentType, campaignID, slug string) (string, error) {
	dir, err := p.Dir(t, campaignID)
	if err != nil {
		return "", err
	}
	if err := ValidateSegment(slug); err != nil {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidSlug, slug)
	}
	return filepath.Join(dir, slug+".md"), nil
}

// ValidateSegment rejects path segments that are empty or could
// traverse outside the tree they are joined under. Shared by every
// place a user-supplied slug or campaign ID becomes part of a path.
func ValidateSegment(s string) error {
	if s == "" || s == "." || s == ".." {
		return fmt.Errorf("empty or reserved segment")
	}
	if strings.ContainsAny(s, `/\`) || strings.Contains(s, "..") {
		return fmt.Errorf("path separator or traversal in segment")
	}
	return nil
}
