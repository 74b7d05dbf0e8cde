package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_FullDocument(t *testing.T) {
	raw := []byte(`---
name: Goblin Chief
challenge: "2"
level: 3
tags:
  - goblin
  - chefe
hidden: false
---

O líder da tribo goblin das Colinas Partidas.
`)

	doc, err := Parse(raw)
	assert.NoError(t, err)
	assert.Equal(t, "Goblin Chief", doc.Metadata["name"])
	assert.Equal(t, "2", doc.Metadata["challenge"])
	assert.Equal(t, 3, doc.Metadata["level"])
	assert.Equal(t, []any{"goblin", "chefe"}, doc.Metadata["tags"])
	assert.Equal(t, false, doc.Metadata["hidden"])
	assert.Equal(t, "O líder da tribo goblin das Colinas Partidas.\n", doc.Body)
}

func TestParse_NoFrontmatter(t *testing.T) {
	doc, err := Parse([]byte("apenas texto livre\n"))
	assert.NoError(t, err)
	assert.Empty(t, doc.Metadata)
	assert.Equal(t, "apenas texto livre\n", doc.Body)
}

func TestParse_ByteOrderMark(t *testing.T) {
	doc, err := Parse([]byte("\uFEFF---\nname: Nota\n---\ncorpo\n"))
	assert.NoError(t, err)
	assert.Equal(t, "Nota", doc.Metadata["name"])
	assert.Equal(t, "corpo\n", doc.Body)
}

func TestParse_UnclosedBlock(t *testing.T) {
	raw := []byte("---\nname: Meio Documento\n")
	doc, err := Parse(raw)
	assert.NoError(t, err)
	assert.Empty(t, doc.Metadata)
	assert.Equal(t, string(raw), doc.Body)
}

func TestParse_EmptyBlock(t *testing.T) {
	doc, err := Parse([]byte("---\n---\ncorpo\n"))
	assert.NoError(t, err)
	assert.Empty(t, doc.Metadata)
	assert.Equal(t, "corpo\n", doc.Body)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("---\nname: [unclosed\n---\nbody"))
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	metadata := map[string]any{
		"name":      "Anel de Fogo",
		"type":      "Anel",
		"rarity":    "Raro",
		"tags":      []any{"fogo", "mágico"},
		"level":     5,
		"cursed":    true,
		"challenge": "1/2",
	}
	body := "# Anel de Fogo\n\nForjado nas profundezas.\n"

	raw, err := Serialize(metadata, body)
	assert.NoError(t, err)

	doc, err := Parse(raw)
	assert.NoError(t, err)
	assert.Equal(t, body, doc.Body)
	assert.Equal(t, metadata["name"], doc.Metadata["name"])
	assert.Equal(t, metadata["rarity"], doc.Metadata["rarity"])
	assert.Equal(t, metadata["tags"], doc.Metadata["tags"])
	assert.Equal(t, metadata["level"], doc.Metadata["level"])
	assert.Equal(t, metadata["cursed"], doc.Metadata["cursed"])
	assert.Equal(t, metadata["challenge"], doc.Metadata["challenge"])
}

func TestSerialize_Deterministic(t *testing.T) {
	metadata := map[string]any{"b": 2, "a": 1, "c": 3}

	first, err := Serialize(metadata, "x")
	assert.NoError(t, err)
	second, err := Serialize(metadata, "x")
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSerialize_EmptyBody(t *testing.T) {
	raw, err := Serialize(map[string]any{"name": "Nota"}, "")
	assert.NoError(t, err)

	doc, err := Parse(raw)
	assert.NoError(t, err)
	assert.Equal(t, "Nota", doc.Metadata["name"])
	assert.Equal(t, "", doc.Body)
}
