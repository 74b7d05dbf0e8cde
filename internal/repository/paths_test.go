package repository

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grimorio-eterno/grimorio-backend/internal/common"
	"github.com/grimorio-eterno/grimorio-backend/internal/domain"
)

func TestPaths_Dir(t *testing.T) {
	p := NewPaths("content")

	cases := map[domain.ContentType]string{
		domain.TypePlayer:   filepath.Join("content", "camp1", "characters/player"),
		domain.TypeNPC:      filepath.Join("content", "camp1", "characters/npc"),
		domain.TypeMonster:  filepath.Join("content", "camp1", "characters/monster"),
		domain.TypeItem:     filepath.Join("content", "camp1", "items"),
		domain.TypeSession:  filepath.Join("content", "camp1", "sessions"),
		domain.TypeNote:     filepath.Join("content", "camp1", "notes"),
		domain.TypeCampaign: filepath.Join("content", "camp1"),
	}
	for contentType, want := range cases {
		dir, err := p.Dir(contentType, "camp1")
		assert.NoError(t, err)
		assert.Equal(t, want, dir, "type %s", contentType)
	}
}

func TestPaths_File(t *testing.T) {
	p := NewPaths("content")

	path, err := p.File(domain.TypeMonster, "camp1", "goblin-chief")
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join("content", "camp1", "characters/monster", "goblin-chief.md"), path)
}

func TestPaths_InvalidType(t *testing.T) {
	p := NewPaths("content")

	_, err := p.Dir(domain.ContentType("spell"), "camp1")
	assert.True(t, errors.Is(err, common.ErrInvalidContentType))
}

func TestPaths_InvalidCampaign(t *testing.T) {
	p := NewPaths("content")

	for _, id := range []string{"", "..", "a/b", `a\b`, "a..b"} {
		_, err := p.Dir(domain.TypeItem, id)
		assert.True(t, errors.Is(err, common.ErrInvalidCampaign), "campaign %q", id)
	}
}

func TestPaths_InvalidSlug(t *testing.T) {
	p := NewPaths("content")

	for _, slug := range []string{"", "..", "../x", "a/b", "x..y"} {
		_, err := p.File(domain.TypeItem, "camp1", slug)
		assert.True(t, errors.Is(err, common.ErrInvalidSlug), "slug %q", slug)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Goblin Chief":           "goblin-chief",
		"Cajado da Visão Épica":  "cajado-da-visao-epica",
		"Sessão 12 - A Torre":    "sessao-12-a-torre",
		"  espaços   extras  ":   "espacos-extras",
		"Coração de Dragão":      "coracao-de-dragao",
		"UPPER lower 123":        "upper-lower-123",
		"!!!":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}
