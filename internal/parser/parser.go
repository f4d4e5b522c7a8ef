// Package parser derives note metadata (type, tags, tasks, wikilinks) from
// raw Markdown. Every function here is pure: no I/O, no clock, no globals.
package parser

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/notegraph/internal/models"
)

const fmDelim = "---"

// Result holds everything derived from a note's content in one pass.
type Result struct {
	Frontmatter map[string]any
	Body        string
	Title       string
	Type        models.NoteType
	Tags        []string
	Tasks       []ParsedTask
	Links       []Wikilink
}

// Parse runs every extractor over content.
func Parse(content string) *Result {
	fm, body := splitFrontmatter(content)
	return &Result{
		Frontmatter: fm,
		Body:        body,
		Title:       deriveTitle(fm, body),
		Type:        ParseTypeFromFrontmatter(content),
		Tags:        ParseTags(content),
		Tasks:       ParseTasks(content),
		Links:       ParseWikilinks(content),
	}
}

// Normalize converts CRLF and lone CR line endings to LF.
func Normalize(content string) string {
	if !strings.Contains(content, "\r") {
		return content
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}

// frontmatterBlock returns the text between a leading pair of --- lines and
// the remainder after the closing line. ok is false when content does not
// open with a complete block.
func frontmatterBlock(content string) (block, rest string, ok bool) {
	content = Normalize(content)
	if !strings.HasPrefix(content, fmDelim+"\n") {
		return "", content, false
	}
	after := content[len(fmDelim)+1:]

	// An empty block closes immediately.
	if strings.HasPrefix(after, fmDelim) && closesAt(after, 0) {
		return "", trimDelimLine(after[len(fmDelim):]), true
	}

	for offset := 0; ; {
		idx := strings.Index(after[offset:], "\n"+fmDelim)
		if idx < 0 {
			return "", content, false
		}
		pos := offset + idx + 1
		if closesAt(after, pos) {
			return after[:pos-1], trimDelimLine(after[pos+len(fmDelim):]), true
		}
		offset = pos
	}
}

// closesAt reports whether a --- at pos is alone on its line.
func closesAt(s string, pos int) bool {
	end := pos + len(fmDelim)
	return end == len(s) || s[end] == '\n'
}

func trimDelimLine(s string) string {
	return strings.TrimPrefix(s, "\n")
}

// splitFrontmatter decodes the YAML frontmatter and returns the body that
// follows it. Invalid YAML leaves the whole content as body.
func splitFrontmatter(content string) (map[string]any, string) {
	block, rest, ok := frontmatterBlock(content)
	if !ok {
		return nil, Normalize(content)
	}
	var fm map[string]any
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return nil, Normalize(content)
	}
	return fm, strings.TrimLeft(rest, "\n")
}

// DeriveTitle returns the frontmatter title, the first H1 heading, or "".
func DeriveTitle(content string) string {
	fm, body := splitFrontmatter(content)
	return deriveTitle(fm, body)
}

func deriveTitle(fm map[string]any, body string) string {
	if t, ok := fm["title"].(string); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
