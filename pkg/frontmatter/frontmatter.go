// Package frontmatter reads and writes Markdown documents with a YAML
// metadata block delimited by "---" lines at the top of the file.
package frontmatter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Document is a parsed Markdown file: metadata header plus free-form body.
type Document struct {
	Metadata map[string]any
	Body     string
}

// Parse splits raw file content into the YAML metadata block and the body.
// A file without a metadata block yields empty metadata and the full text
// as body.
func Parse(raw []byte) (*Document, error) {
	text := string(raw)

	trimmed := strings.TrimPrefix(text, "\uFEFF")
	if !strings.HasPrefix(trimmed, delimiter+"\n") && trimmed != delimiter {
		return &Document{Metadata: map[string]any{}, Body: text}, nil
	}

	rest := strings.TrimPrefix(trimmed, delimiter+"\n")

	var block, body string
	switch end := strings.Index(rest, "\n"+delimiter+"\n"); {
	case strings.HasPrefix(rest, delimiter+"\n"):
		// Empty metadata block.
		body = rest[len(delimiter)+1:]
	case end != -1:
		block = rest[:end]
		body = rest[end+len("\n"+delimiter+"\n"):]
	case rest == delimiter || strings.HasSuffix(rest, "\n"+delimiter):
		block = strings.TrimSuffix(strings.TrimSuffix(rest, delimiter), "\n")
	default:
		// Opening delimiter without a closing one: treat the whole
		// file as body rather than guessing where the metadata ends.
		return &Document{Metadata: map[string]any{}, Body: text}, nil
	}
	// One blank line conventionally separates the header from the body.
	body = strings.TrimPrefix(body, "\n")

	metadata := map[string]any{}
	if err := yaml.Unmarshal([]byte(block), &metadata); err != nil {
		return nil, fmt.Errorf("invalid frontmatter block: %w", err)
	}
	if metadata == nil {
		metadata = map[string]any{}
	}

	return &Document{Metadata: metadata, Body: body}, nil
}

// Serialize renders metadata and body back into file content. Keys are
// written in sorted order so output is deterministic; the body is
// preserved verbatim.
func Serialize(metadata map[string]any, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		entry := map[string]any{k: metadata[k]}
		out, err := yaml.Marshal(entry)
		if err != nil {
			return nil, fmt.Errorf("marshal frontmatter field %q: %w", k, err)
		}
		buf.Write(out)
	}

	buf.WriteString(delimiter + "\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
	}
	return buf.Bytes(), nil
}
