package parser

import (
	"strings"
	"unicode/utf8"
)

// Wikilink is one [[title]] or [[title|alias]] reference. Offsets are
// character (rune) offsets into the raw content; End values are exclusive.
type Wikilink struct {
	Title      string
	Alias      string
	Start      int
	End        int
	TitleStart int
	TitleEnd   int
	AliasStart int
	AliasEnd   int
}

// HasAlias reports whether the link carried a non-empty alias.
func (w Wikilink) HasAlias() bool {
	return w.Alias != ""
}

// ParseWikilinks returns every wikilink in content in order of appearance.
// An opening "[[" preceded by a backslash is escaped and skipped. A link may
// not span lines, and an inner "[[" restarts the match, so "[[a [[b]]"
// yields only b. Links with an empty title are dropped.
func ParseWikilinks(content string) []Wikilink {
	var out []Wikilink
	runePos := 0 // rune offset of byte position i
	for i := 0; i < len(content); {
		if !strings.HasPrefix(content[i:], "[[") || escaped(content, i) {
			_, size := utf8.DecodeRuneInString(content[i:])
			i += size
			runePos++
			continue
		}

		link, byteEnd, ok := scanWikilink(content, i, runePos)
		if !ok {
			i += 2
			runePos += 2
			continue
		}
		out = append(out, link)
		runePos += utf8.RuneCountInString(content[i:byteEnd])
		i = byteEnd
	}
	return out
}

func escaped(s string, i int) bool {
	return i > 0 && s[i-1] == '\\'
}

// scanWikilink parses the link opening at byte offset open. It reports the
// byte offset just past the closing "]]".
func scanWikilink(content string, open, runeOpen int) (Wikilink, int, bool) {
	inner := content[open+2:]
	closeIdx := strings.Index(inner, "]]")
	if closeIdx < 0 {
		return Wikilink{}, 0, false
	}
	body := inner[:closeIdx]
	if strings.Contains(body, "\n") || strings.Contains(body, "[[") {
		return Wikilink{}, 0, false
	}

	rawTitle, rawAlias, hasAlias := strings.Cut(body, "|")
	title := strings.TrimSpace(rawTitle)
	if title == "" {
		return Wikilink{}, 0, false
	}

	bodyStart := runeOpen + 2
	link := Wikilink{
		Title: title,
		Start: runeOpen,
		End:   bodyStart + utf8.RuneCountInString(body) + 2,
	}
	lead := utf8.RuneCountInString(rawTitle[:len(rawTitle)-len(strings.TrimLeft(rawTitle, " \t"))])
	link.TitleStart = bodyStart + lead
	link.TitleEnd = link.TitleStart + utf8.RuneCountInString(title)

	if hasAlias {
		if alias := strings.TrimSpace(rawAlias); alias != "" {
			aliasBase := bodyStart + utf8.RuneCountInString(rawTitle) + 1
			aliasLead := utf8.RuneCountInString(rawAlias[:len(rawAlias)-len(strings.TrimLeft(rawAlias, " \t"))])
			link.Alias = alias
			link.AliasStart = aliasBase + aliasLead
			link.AliasEnd = link.AliasStart + utf8.RuneCountInString(alias)
		}
	}
	return link, open + 2 + closeIdx + 2, true
}

// RewriteWikilinkTitle replaces literal "[[oldTitle]]" and "[[oldTitle|"
// with the new title, keeping any alias text. Escaped links are left alone.
// It reports whether content changed.
func RewriteWikilinkTitle(content, oldTitle, newTitle string) (string, bool) {
	if oldTitle == "" || oldTitle == newTitle {
		return content, false
	}
	out := content
	changed := false
	for _, suffix := range []string{"]]", "|"} {
		var ok bool
		out, ok = replaceUnescaped(out, "[["+oldTitle+suffix, "[["+newTitle+suffix)
		changed = changed || ok
	}
	return out, changed
}

func replaceUnescaped(s, old, repl string) (string, bool) {
	var b strings.Builder
	changed := false
	for {
		idx := strings.Index(s, old)
		if idx < 0 {
			b.WriteString(s)
			return b.String(), changed
		}
		b.WriteString(s[:idx])
		if idx > 0 && s[idx-1] == '\\' {
			b.WriteString(old)
		} else {
			b.WriteString(repl)
			changed = true
		}
		s = s[idx+len(old):]
	}
}

// ContainsWikilinkTo reports whether content holds an unescaped literal
// "[[title]]" or "[[title|".
func ContainsWikilinkTo(content, title string) bool {
	for _, needle := range []string{"[[" + title + "]]", "[[" + title + "|"} {
		for off := 0; ; {
			idx := strings.Index(content[off:], needle)
			if idx < 0 {
				break
			}
			if !escaped(content, off+idx) {
				return true
			}
			off += idx + len(needle)
		}
	}
	return false
}
