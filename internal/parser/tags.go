package parser

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// isTagRune reports whether r may appear in an inline tag after the '#'.
func isTagRune(r rune) bool {
	return r < utf8.RuneSelf && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '/' || r == '-')
}

// ParseTags returns the sorted, deduplicated set of tags found in content:
// inline #tokens anywhere in the text plus the frontmatter "tags" list.
// Hierarchical tags are kept as a single string ("dev/frontend").
func ParseTags(content string) []string {
	seen := make(map[string]struct{})
	for _, t := range inlineTags(Normalize(content)) {
		seen[t] = struct{}{}
	}
	fm, _ := splitFrontmatter(content)
	for _, t := range frontmatterTags(fm) {
		seen[t] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// inlineTags returns every '#' followed by one or more tag runes, in order.
// "&#" opens an HTML character reference, not a tag. A trailing '/' is
// dropped.
func inlineTags(text string) []string {
	var out []string
	for i := 0; i < len(text); i++ {
		if text[i] != '#' || (i > 0 && text[i-1] == '&') {
			continue
		}
		j := i + 1
		for j < len(text) && isTagRune(rune(text[j])) {
			j++
		}
		if tag := strings.TrimRight(text[i+1:j], "/"); tag != "" {
			out = append(out, tag)
		}
		i = j - 1
	}
	return out
}
