package domain

// TypeSpec describes how a content type is stored and validated.
type TypeSpec struct {
	// Dir is the directory for this type relative to the campaign root.
	// Empty for TypeCampaign, which lives at the content root itself.
	Dir string
	// NameField is the frontmatter field holding the display name.
	NameField string
	// Required lists frontmatter fields that must be present on create.
	Required []string
	// Defaults are applied at read time for absent optional fields.
	Defaults map[string]any
}

// registry maps every content type to its storage and validation rules.
// Handlers, repository and listing service all consult this table instead
// of switching on the type inline.
var registry = map[ContentType]TypeSpec{
	TypePlayer: {
		Dir:       "characters/player",
		NameField: "name",
		Required:  []string{"name"},
	},
	TypeNPC: {
		Dir:       "characters/npc",
		NameField: "name",
		Required:  []string{"name"},
		Defaults:  map[string]any{"type": "NPC"},
	},
	TypeMonster: {
		Dir:       "characters/monster",
		NameField: "name",
		Required:  []string{"name"},
		Defaults:  map[string]any{"type": "Monstro", "challenge": "1"},
	},
	TypeItem: {
		Dir:       "items",
		NameField: "name",
		Required:  []string{"name"},
		Defaults:  map[string]any{"type": "Item", "rarity": "Comum"},
	},
	TypeSession: {
		Dir:       "sessions",
		NameField: "title",
		Required:  []string{"title"},
	},
	TypeNote: {
		Dir:       "notes",
		NameField: "name",
		Required:  []string{"name"},
	},
	TypeCampaign: {
		NameField: "name",
		Required:  []string{"name"},
	},
}

// Spec returns the storage rules for a content type.
func Spec(t ContentType) (TypeSpec, bool) {
	spec, ok := registry[t]
	return spec, ok
}

// ValidType reports whether t is a known content type.
func ValidType(t ContentType) bool {
	_, ok := registry[t]
	return ok
}

// ContentTypes lists every registered type in a stable order.
func ContentTypes() []ContentType {
	return []ContentType{
		TypePlayer, TypeNPC, TypeMonster,
		TypeItem, TypeSession, TypeNote, TypeCampaign,
	}
}
