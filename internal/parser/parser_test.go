package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/notegraph/internal/models"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	r := Parse("---\ntitle: Hello\ntype: project\ntags:\n  - go\n  - notes\n---\n# Hello\nBody text.\n")
	if r.Title != "Hello" {
		t.Errorf("title = %q, want %q", r.Title, "Hello")
	}
	if r.Type != models.NoteTypeProject {
		t.Errorf("type = %q, want project", r.Type)
	}
	if diff := cmp.Diff([]string{"go", "notes"}, r.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if r.Body != "# Hello\nBody text.\n" {
		t.Errorf("body = %q", r.Body)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	r := Parse("# Just a heading\nSome text.\n")
	if r.Frontmatter != nil {
		t.Errorf("expected nil frontmatter, got %v", r.Frontmatter)
	}
	if r.Title != "Just a heading" {
		t.Errorf("title = %q, want %q", r.Title, "Just a heading")
	}
	if r.Type != models.NoteTypeNote {
		t.Errorf("type = %q, want note", r.Type)
	}
}

func TestParse_InvalidYAMLFallback(t *testing.T) {
	r := Parse("---\n: invalid: yaml: {{{\ntype: meeting\n---\nBody\n")
	if r.Frontmatter != nil {
		t.Errorf("expected nil frontmatter on invalid YAML")
	}
	// An undecodable block declares nothing.
	if r.Type != models.NoteTypeNote {
		t.Errorf("type = %q, want note", r.Type)
	}
	if HasFrontmatterType("---\n: invalid: yaml: {{{\ntype: meeting\n---\n") {
		t.Error("invalid YAML should not declare a type")
	}
}

func TestParseTypeFromFrontmatter(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    models.NoteType
	}{
		{"empty", "", models.NoteTypeNote},
		{"no frontmatter", "type: project\n", models.NoteTypeNote},
		{"valid", "---\ntype: person\n---\nbody", models.NoteTypePerson},
		{"quoted", "---\ntype: \"daily\"\n---\n", models.NoteTypeDaily},
		{"unknown", "---\ntype: recipe\n---\n", models.NoteTypeNote},
		{"first word", "---\ntype: project  draft\n---\n", models.NoteTypeProject},
		{"not a string", "---\ntype: [project]\n---\n", models.NoteTypeNote},
		{"unclosed", "---\ntype: project\nbody", models.NoteTypeNote},
		{"crlf", "---\r\ntype: meeting\r\n---\r\nbody", models.NoteTypeMeeting},
		{"not leading", "\n---\ntype: project\n---\n", models.NoteTypeNote},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseTypeFromFrontmatter(tc.content); got != tc.want {
				t.Errorf("type = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseTags_DedupAndHierarchy(t *testing.T) {
	content := "---\ntags: [dev/frontend, infra]\n---\n#work #work #dev/frontend"
	want := []string{"dev/frontend", "infra", "work"}
	if diff := cmp.Diff(want, ParseTags(content)); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTags_Boundaries(t *testing.T) {
	content := "# Heading\n## Sub\nsee page#anchor and C# or &#39; but (#ok) and #trail/ foo#bar #work#dev\n"
	want := []string{"anchor", "bar", "dev", "ok", "trail", "work"}
	if diff := cmp.Diff(want, ParseTags(content)); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTags_FrontmatterForms(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    []string
	}{
		{"flow", "---\ntags: [a, ' b ', \"c\"]\n---\n", []string{"a", "b", "c"}},
		{"block", "---\ntags:\n  - x\n  - y/z\n---\n", []string{"x", "y/z"}},
		{"bare", "---\ntags: one, two\n---\n", []string{"one", "two"}},
		{"numbers", "---\ntags: [2024, q1]\n---\n", []string{"2024", "q1"}},
		{"invalid yaml", "---\ntags: [a, b\n---\n", []string{}},
		{"empty list", "---\ntags: []\n---\n", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, ParseTags(tc.content)); diff != "" {
				t.Errorf("tags mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseTasks_StatusMapping(t *testing.T) {
	got := ParseTasks("- [ ] A\n- [x] B\n- [>] C\n- [-] D")
	want := []ParsedTask{
		{Content: "A", Status: models.TaskPending, LineNumber: 0},
		{Content: "B", Status: models.TaskDone, LineNumber: 1},
		{Content: "C", Status: models.TaskDeferred, LineNumber: 2},
		{Content: "D", Status: models.TaskCancelled, LineNumber: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTasks_FirstLineOnly(t *testing.T) {
	got := ParseTasks("- [x] Tâche terminée\nPremiere ligne\nDeuxieme ligne")
	if len(got) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(got))
	}
	if got[0].Content != "Tâche terminée" || got[0].Status != models.TaskDone {
		t.Errorf("task = %+v", got[0])
	}
	if strings.Contains(got[0].Content, "Premiere ligne") {
		t.Errorf("task swallowed following line: %q", got[0].Content)
	}
}

func TestParseTasks_IgnoredLines(t *testing.T) {
	content := "- [X] upper\n- [?] unknown\n* [ ] star\n- [ ]\n- [ ]nospace\ntext [ ] inline\n  - [ ] nested"
	got := ParseTasks(content)
	if len(got) != 1 {
		t.Fatalf("tasks = %+v, want only the nested one", got)
	}
	if got[0].Content != "nested" || got[0].LineNumber != 6 {
		t.Errorf("task = %+v", got[0])
	}
}

func TestParseTasks_LineNumbersAfterNormalization(t *testing.T) {
	got := ParseTasks("intro\r\n- [ ] one\rmiddle\n- [x] two")
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].LineNumber != 1 || got[1].LineNumber != 3 {
		t.Errorf("line numbers = %d, %d; want 1, 3", got[0].LineNumber, got[1].LineNumber)
	}
}

func TestTruncateTask(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"call about the plan", "call about the plan"},
		{"Call Bob about the Q3 plan", "Call"},
		{"Buy milk Then call mom", "Buy milk"},
		{"Buy milk. Then call mom", "Buy milk."},
		{"Ship it!! Next item", "Ship it!!"},
		{"version 1.2 is out", "version 1.2 is out"},
		{"Write report.", "Write report."},
		{"Write report  Another line glued on", "Write report"},
		{"ends with question? maybe not", "ends with question?"},
		{"trailing dots...", "trailing dots..."},
		{strings.Repeat("a", 250), strings.Repeat("a", MaxTaskLength)},
	}
	for _, tc := range cases {
		if got := truncateTask(tc.in); got != tc.want {
			t.Errorf("truncateTask(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseWikilinks_Basic(t *testing.T) {
	content := "See [[Note A]] and [[Note B|alias]]."
	got := ParseWikilinks(content)
	want := []Wikilink{
		{Title: "Note A", Start: 4, End: 14, TitleStart: 6, TitleEnd: 12},
		{Title: "Note B", Alias: "alias", Start: 19, End: 35, TitleStart: 21, TitleEnd: 27, AliasStart: 28, AliasEnd: 33},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
}

func TestParseWikilinks_RuneOffsets(t *testing.T) {
	content := "Réunion → [[Équipe]]"
	got := ParseWikilinks(content)
	if len(got) != 1 {
		t.Fatalf("len = %d", len(got))
	}
	runes := []rune(content)
	if s := string(runes[got[0].Start:got[0].End]); s != "[[Équipe]]" {
		t.Errorf("span = %q", s)
	}
	if s := string(runes[got[0].TitleStart:got[0].TitleEnd]); s != "Équipe" {
		t.Errorf("title span = %q", s)
	}
}

func TestParseWikilinks_EdgeCases(t *testing.T) {
	cases := []struct {
		name    string
		content string
		titles  []string
	}{
		{"escaped", `\[[Hidden]] and [[Shown]]`, []string{"Shown"}},
		{"empty", "see [[ ]] and [[|alias]]", nil},
		{"nested", "[[a [[b]]", []string{"b"}},
		{"multiline", "[[a\nb]] [[c]]", []string{"c"}},
		{"unclosed", "[[open", nil},
		{"duplicates kept", "[[x]] [[x]]", []string{"x", "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var titles []string
			for _, l := range ParseWikilinks(tc.content) {
				titles = append(titles, l.Title)
			}
			if diff := cmp.Diff(tc.titles, titles); diff != "" {
				t.Errorf("titles mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRewriteWikilinkTitle(t *testing.T) {
	content := "Links: [[Old]], [[Old|alias]], [[Older]], \\[[Old]]"
	got, changed := RewriteWikilinkTitle(content, "Old", "New")
	if !changed {
		t.Fatal("expected change")
	}
	want := "Links: [[New]], [[New|alias]], [[Older]], \\[[Old]]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	again, changed := RewriteWikilinkTitle(got, "Old", "New")
	if changed || again != got {
		t.Errorf("second rewrite should be a no-op, got %q", again)
	}
}

func TestContainsWikilinkTo(t *testing.T) {
	if !ContainsWikilinkTo("x [[Old|a]] y", "Old") {
		t.Error("alias form not detected")
	}
	if ContainsWikilinkTo("x \\[[Old]] [[Older]]", "Old") {
		t.Error("escaped or longer title should not match")
	}
}

func TestDeriveTitle(t *testing.T) {
	if got := DeriveTitle("---\ntitle: FM Title\n---\n# H1 Title\ntext"); got != "FM Title" {
		t.Errorf("title = %q, want FM Title", got)
	}
	if got := DeriveTitle("some text\n# My Heading\nmore"); got != "My Heading" {
		t.Errorf("title = %q, want My Heading", got)
	}
}
