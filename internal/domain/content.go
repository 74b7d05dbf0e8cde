package domain

import "time"

// ContentType identifies one of the compendium record kinds.
type ContentType string

const (
	TypePlayer   ContentType = "player"
	TypeNPC      ContentType = "npc"
	TypeMonster  ContentType = "monster"
	TypeItem     ContentType = "item"
	TypeSession  ContentType = "session"
	TypeNote     ContentType = "note"
	TypeCampaign ContentType = "campaign"
)

// ContentRecord is a single compendium entry backed by a Markdown file.
type ContentRecord struct {
	Slug        string         `json:"slug"`
	Type        ContentType    `json:"type"`
	Campaign    string         `json:"campaign"`
	Frontmatter map[string]any `json:"frontmatter"`
	Body        string         `json:"body"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// DisplayName returns the record's name or title frontmatter value.
func (r *ContentRecord) DisplayName() string {
	if v, ok := r.Frontmatter["name"].(string); ok && v != "" {
		return v
	}
	if v, ok := r.Frontmatter["title"].(string); ok && v != "" {
		return v
	}
	return r.Slug
}

// View flattens the record into the shape the listing endpoints return:
// frontmatter fields plus slug and body content.
func (r *ContentRecord) View() map[string]any {
	out := make(map[string]any, len(r.Frontmatter)+3)
	for k, v := range r.Frontmatter {
		out[k] = v
	}
	out["slug"] = r.Slug
	out["content"] = r.Body
	out["updatedAt"] = r.UpdatedAt
	return out
}

// Tags returns the record's tags frontmatter list, if any.
func (r *ContentRecord) Tags() []string {
	raw, ok := r.Frontmatter["tags"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		tags := make([]string, 0, len(v))
		for _, t := range v {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	}
	return nil
}

// Status returns the record's workflow status, defaulting to published.
func (r *ContentRecord) Status() string {
	if v, ok := r.Frontmatter["status"].(string); ok && v != "" {
		return v
	}
	return "published"
}
