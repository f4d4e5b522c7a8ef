package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/notegraph/internal/noteservice"
	"github.com/starford/notegraph/internal/testutil"
)

func testServer(t *testing.T) (*Server, *noteservice.Service) {
	t.Helper()
	svc := noteservice.NewService(testutil.TestDB(t), testutil.DiscardLogger())
	return New(svc, "test"), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so handlers are called
	// directly.
	var (
		result *mcp.CallToolResult
		err    error
	)
	switch name {
	case "search_notes":
		result, err = srv.searchNotes(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "create_note":
		result, err = srv.createNote(ctx, req)
	case "rename_note":
		result, err = srv.renameNote(ctx, req)
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "get_backlinks":
		result, err = srv.getBacklinks(ctx, req)
	case "list_tasks":
		result, err = srv.listTasks(ctx, req)
	case "list_tags":
		result, err = srv.listTags(ctx, req)
	case "get_note_contract":
		result, err = srv.getNoteContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndReadNote(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_note", map[string]any{"content": "# Test\nHello"})
	if r.IsError || !strings.HasPrefix(resultText(r), "created: test (") {
		t.Errorf("create result = %q", resultText(r))
	}

	for _, ref := range []string{"test", "Test"} {
		r = callTool(t, srv, "read_note", map[string]any{"note": ref})
		if text := resultText(r); text != "# Test\nHello" {
			t.Errorf("read %q = %q", ref, text)
		}
	}
}

func TestCreateNote_MissingContent(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "create_note", map[string]any{"title": "x"})
	if !r.IsError {
		t.Error("expected error without content")
	}
}

func TestReadNoteMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_note", map[string]any{"note": "nope"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestListNotes(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "create_note", map[string]any{"title": "A", "content": "#work"})
	callTool(t, srv, "create_note", map[string]any{"title": "B", "content": "plain"})

	all := resultText(callTool(t, srv, "list_notes", map[string]any{}))
	if strings.Count(all, "\n") != 1 {
		t.Errorf("list = %q, want two lines", all)
	}
	tagged := resultText(callTool(t, srv, "list_notes", map[string]any{"tag": "#work"}))
	if !strings.HasSuffix(tagged, "\tnote\tA") || strings.Contains(tagged, "\n") {
		t.Errorf("tagged list = %q", tagged)
	}
}

func TestSearchNotes(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "create_note", map[string]any{"title": "Réunion Équipe", "content": "agenda"})

	text := resultText(callTool(t, srv, "search_notes", map[string]any{"query": "reunion"}))
	if !strings.Contains(text, "Réunion Équipe") {
		t.Errorf("search = %q", text)
	}
	text = resultText(callTool(t, srv, "search_notes", map[string]any{"query": "absent"}))
	if text != "no notes found" {
		t.Errorf("empty search = %q", text)
	}
}

func TestGetBacklinks(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "create_note", map[string]any{"title": "b", "content": "target"})
	callTool(t, srv, "create_note", map[string]any{"title": "a", "content": "links to [[b]]"})

	text := resultText(callTool(t, srv, "get_backlinks", map[string]any{"note": "b"}))
	if text != "a" {
		t.Errorf("backlinks = %q, want a", text)
	}
	text = resultText(callTool(t, srv, "get_backlinks", map[string]any{"note": "a"}))
	if text != "no backlinks found" {
		t.Errorf("backlinks = %q", text)
	}
}

func TestRenameNote(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "create_note", map[string]any{"title": "Old", "content": "x"})
	callTool(t, srv, "create_note", map[string]any{"title": "Ref", "content": "see [[Old]]"})

	r := callTool(t, srv, "rename_note", map[string]any{"note": "Old", "title": "New"})
	if r.IsError {
		t.Fatalf("rename = %q", resultText(r))
	}
	if text := resultText(callTool(t, srv, "read_note", map[string]any{"note": "Ref"})); text != "see [[New]]" {
		t.Errorf("ref content = %q", text)
	}
}

func TestListTasksAndTags(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "create_note", map[string]any{"title": "T", "content": "#home\n- [ ] buy milk\n- [x] pay rent"})

	text := resultText(callTool(t, srv, "list_tasks", map[string]any{"status": "pending"}))
	if !strings.Contains(text, "buy milk") || strings.Contains(text, "pay rent") {
		t.Errorf("tasks = %q", text)
	}
	if r := callTool(t, srv, "list_tasks", map[string]any{"status": "nope"}); !r.IsError {
		t.Error("expected error for invalid status")
	}
	if text := resultText(callTool(t, srv, "list_tags", map[string]any{})); text != "home\t1" {
		t.Errorf("tags = %q", text)
	}
}

func TestNoteContract(t *testing.T) {
	srv, _ := testServer(t)
	text := resultText(callTool(t, srv, "get_note_contract", nil))
	if !strings.Contains(text, "[[Old|alias]]") {
		t.Error("contract should document rename rewriting")
	}
	contents, err := srv.readNoteFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil || len(contents) != 1 {
		t.Fatalf("resource = %v, %v", contents, err)
	}
}
