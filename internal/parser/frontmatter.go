package parser

import (
	"fmt"
	"strings"

	"github.com/starford/notegraph/internal/models"
)

// ParseTypeFromFrontmatter returns the note type declared by the "type" key
// of the leading frontmatter block. Missing, unknown or undecodable values
// yield models.NoteTypeNote.
func ParseTypeFromFrontmatter(content string) models.NoteType {
	fm, _ := splitFrontmatter(content)
	if t, ok := frontmatterType(fm); ok {
		return t
	}
	return models.NoteTypeNote
}

// HasFrontmatterType reports whether content declares a valid note type.
func HasFrontmatterType(content string) bool {
	fm, _ := splitFrontmatter(content)
	_, ok := frontmatterType(fm)
	return ok
}

// frontmatterType reads the first word of a string "type" value.
func frontmatterType(fm map[string]any) (models.NoteType, bool) {
	s, ok := fm["type"].(string)
	if !ok {
		return "", false
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", false
	}
	t := models.NoteType(fields[0])
	if !t.Valid() {
		return "", false
	}
	return t, true
}

// frontmatterTags reads the "tags" key: a YAML list, or a comma-separated
// string. A leading '#' on an entry is dropped.
func frontmatterTags(fm map[string]any) []string {
	var raw []string
	switch v := fm["tags"].(type) {
	case []any:
		for _, item := range v {
			switch s := item.(type) {
			case nil:
			case string:
				raw = append(raw, s)
			default:
				raw = append(raw, fmt.Sprint(s))
			}
		}
	case string:
		raw = strings.Split(v, ",")
	}

	var out []string
	for _, item := range raw {
		tag := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(item), "#"))
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
