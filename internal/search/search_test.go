package search

import (
	"strings"
	"testing"
	"time"

	"github.com/starford/notegraph/internal/models"
)

func note(id, title, content string, minute int) models.Note {
	n := models.Note{
		ID:        id,
		Title:     title,
		Slug:      id,
		Type:      models.NoteTypeNote,
		CreatedAt: time.Date(2024, 1, 1, 9, minute, 0, 0, time.UTC),
	}
	if content != "" {
		n.Content = &content
	}
	return n
}

func ids(rs []Result) string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return strings.Join(out, ",")
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"Réunion Équipe": "reunion equipe",
		"ÇA VA":          "ca va",
		"plain":          "plain",
		"naïve café":     "naive cafe",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSearch_DiacriticInsensitive(t *testing.T) {
	notes := []models.Note{note("a", "Réunion Équipe", "", 0), note("b", "Other", "", 1)}
	got := Search(notes, "reunion")
	if ids(got) != "a" {
		t.Errorf("got %s, want a", ids(got))
	}
}

func TestSearch_TitleOutranksContent(t *testing.T) {
	notes := []models.Note{
		note("content", "Unrelated", "mentions golang here", 0),
		note("title", "Golang tips", "", 1),
	}
	got := Search(notes, "GoLang")
	if ids(got) != "title,content" {
		t.Fatalf("order = %s, want title,content", ids(got))
	}
	if got[0].Preview != "" {
		t.Errorf("title match without content should have no preview, got %q", got[0].Preview)
	}
	if got[1].Preview != "mentions golang here" {
		t.Errorf("preview = %q", got[1].Preview)
	}
}

func TestSearch_AllTokensRequired(t *testing.T) {
	notes := []models.Note{
		note("both", "Weekly planning meeting", "", 0),
		note("one", "Weekly report", "", 1),
	}
	if got := Search(notes, "weekly meeting"); ids(got) != "both" {
		t.Errorf("got %s, want both", ids(got))
	}
}

func TestSearch_TiesKeepCreationOrder(t *testing.T) {
	notes := []models.Note{note("1", "todo one", "", 0), note("2", "todo two", "", 1), note("3", "todo three", "", 2)}
	if got := Search(notes, "todo"); ids(got) != "1,2,3" {
		t.Errorf("got %s", ids(got))
	}
}

func TestSearch_BlankQueryReturnsAll(t *testing.T) {
	notes := []models.Note{note("1", "a", "", 0), note("2", "b", "", 1)}
	if got := Search(notes, "   "); ids(got) != "1,2" {
		t.Errorf("got %s", ids(got))
	}
}

func TestSearch_PreviewWindow(t *testing.T) {
	content := strings.Repeat("a", 80) + " Needle " + strings.Repeat("b", 200)
	got := Search([]models.Note{note("x", "t", content, 0)}, "needle")
	if len(got) != 1 {
		t.Fatalf("len = %d", len(got))
	}
	p := got[0].Preview
	if !strings.HasPrefix(p, "...") || !strings.HasSuffix(p, "...") {
		t.Errorf("preview missing ellipses: %q", p)
	}
	body := strings.TrimSuffix(strings.TrimPrefix(p, "..."), "...")
	if n := len([]rune(body)); n != previewBefore+previewAfter {
		t.Errorf("window = %d runes, want %d", n, previewBefore+previewAfter)
	}
	if !strings.Contains(body, " Needle ") {
		t.Errorf("preview lost the match: %q", p)
	}
}

func TestSearch_PreviewKeepsRawText(t *testing.T) {
	content := "Réunion de l'Équipe: Search the archives"
	got := Search([]models.Note{note("x", "Minutes", content, 0)}, "search")
	if len(got) != 1 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Preview != content {
		t.Errorf("preview = %q, want raw content %q", got[0].Preview, content)
	}

	// Accented text before the match shifts the window in raw runes.
	long := strings.Repeat("é", 60) + "Équipe" + strings.Repeat("z", 120)
	got = Search([]models.Note{note("y", "Other", long, 0)}, "equipe")
	if len(got) != 1 {
		t.Fatalf("len = %d", len(got))
	}
	want := "..." + strings.Repeat("é", 50) + "Équipe" + strings.Repeat("z", 94) + "..."
	if got[0].Preview != want {
		t.Errorf("preview = %q, want %q", got[0].Preview, want)
	}
}

func TestSearch_TitleAndContentMatch(t *testing.T) {
	notes := []models.Note{
		note("content", "Unrelated", "search only here", 0),
		note("both", "Search Tutorial", "search inside body too", 1),
	}
	got := Search(notes, "search")
	if ids(got) != "both,content" {
		t.Fatalf("order = %s, want both,content", ids(got))
	}
	if got[0].Preview != "search inside body too" {
		t.Errorf("preview = %q, want the content window", got[0].Preview)
	}
}

func TestSearch_TitleOnlyPreviewsHead(t *testing.T) {
	content := strings.Repeat("x", 200)
	got := Search([]models.Note{note("t", "Golang tips", content, 0)}, "golang")
	if len(got) != 1 {
		t.Fatalf("len = %d", len(got))
	}
	if want := strings.Repeat("x", previewFallback) + ellipsis; got[0].Preview != want {
		t.Errorf("preview = %q, want head of content", got[0].Preview)
	}
}

func TestHead(t *testing.T) {
	if got := head("short"); got != "short" {
		t.Errorf("head = %q", got)
	}
	long := strings.Repeat("x", 200)
	if got := head(long); len(got) != previewFallback+len(ellipsis) {
		t.Errorf("head len = %d", len(got))
	}
}
