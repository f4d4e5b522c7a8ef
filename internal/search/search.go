// Package search ranks notes against a free-text query, ignoring case and
// diacritics.
package search

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/starford/notegraph/internal/models"
)

// Preview window sizes, in characters.
const (
	previewBefore   = 50
	previewAfter    = 100
	previewFallback = 150
	ellipsis        = "..."
)

const (
	rankTitle   = 1
	rankContent = 2
)

// Result is a matching note with an optional content preview.
type Result struct {
	models.Note
	Preview string `json:"preview,omitempty"`
}

// Normalize lower-cases s and strips combining diacritical marks
// (U+0300..U+036F) after canonical decomposition, so "Réunion" becomes
// "reunion".
func Normalize(s string) string {
	out, _ := fold(s)
	return out
}

// fold normalizes s one rune at a time and records, for every rune of the
// result, the index of the rune of s it came from.
func fold(s string) (string, []int) {
	var (
		b      strings.Builder
		origin []int
	)
	b.Grow(len(s))
	i := 0
	for _, r := range s {
		for _, d := range norm.NFD.String(string(unicode.ToLower(r))) {
			if d >= 0x0300 && d <= 0x036F {
				continue
			}
			b.WriteRune(d)
			origin = append(origin, i)
		}
		i++
	}
	return b.String(), origin
}

// Search filters and ranks notes. notes must already be in the default
// order (created_at ascending); ties keep that order. A blank query returns
// every note unchanged and without previews.
//
// A note matches when every query token is a substring of its normalized
// title (rank 1) or every token is a substring of its normalized content
// (rank 2). The two fields are checked independently: a note matching in
// its content carries a preview around the first token even when the title
// matched too, and a title-only match previews the head of its content.
func Search(notes []models.Note, query string) []Result {
	tokens := strings.FieldsFunc(Normalize(query), unicode.IsSpace)
	if len(tokens) == 0 {
		out := make([]Result, len(notes))
		for i, n := range notes {
			out[i] = Result{Note: n}
		}
		return out
	}

	type ranked struct {
		Result
		rank int
	}
	var hits []ranked
	for _, n := range notes {
		content := n.Body()
		normContent, origin := fold(content)
		inTitle := containsAll(Normalize(n.Title), tokens)
		inContent := containsAll(normContent, tokens)

		var h ranked
		switch {
		case inTitle:
			h.rank = rankTitle
		case inContent:
			h.rank = rankContent
		default:
			continue
		}
		h.Note = n
		h.Preview = preview(content, normContent, origin, tokens[0])
		hits = append(hits, h)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].rank != hits[j].rank {
			return hits[i].rank < hits[j].rank
		}
		return hits[i].CreatedAt.Before(hits[j].CreatedAt)
	})

	out := make([]Result, len(hits))
	for i, h := range hits {
		out[i] = h.Result
	}
	return out
}

func containsAll(haystack string, tokens []string) bool {
	for _, t := range tokens {
		if !strings.Contains(haystack, t) {
			return false
		}
	}
	return true
}

// preview cuts a window of the raw content around the first occurrence of
// token in the normalized content. origin maps normalized runes back to raw
// rune indexes. When the token is absent (a title-only match) it falls back
// to the head of the raw content.
func preview(raw, normalized string, origin []int, token string) string {
	idx := strings.Index(normalized, token)
	if idx < 0 {
		return head(raw)
	}
	runes := []rune(raw)
	pos := origin[utf8.RuneCountInString(normalized[:idx])]

	start := max(0, pos-previewBefore)
	end := min(len(runes), pos+previewAfter)

	var b strings.Builder
	if start > 0 {
		b.WriteString(ellipsis)
	}
	b.WriteString(string(runes[start:end]))
	if end < len(runes) {
		b.WriteString(ellipsis)
	}
	return b.String()
}

func head(raw string) string {
	runes := []rune(raw)
	if len(runes) <= previewFallback {
		return raw
	}
	return string(runes[:previewFallback]) + ellipsis
}
