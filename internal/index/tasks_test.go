package index

import (
	"context"
	"testing"

	"github.com/starford/notegraph/internal/models"
)

func TestTasks_OrderAndStatus(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	first := mustCreate(t, db, "First", "first", "", Derived{Tasks: []models.Task{
		{Content: "later line", Status: models.TaskDone, LineNumber: 4},
		{Content: "early line", Status: models.TaskPending, LineNumber: 1},
		{Content: "bogus", Status: "unknown", LineNumber: 2},
	}})
	mustCreate(t, db, "Second", "second", "", Derived{Tasks: []models.Task{
		{Content: "second note task", Status: models.TaskPending, LineNumber: 0},
	}})

	byNote, err := db.GetTasksByNote(ctx, first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(byNote) != 2 || byNote[0].LineNumber != 1 || byNote[1].LineNumber != 4 {
		t.Fatalf("tasks by note = %+v", byNote)
	}

	all, _ := db.GetAllTasks(ctx)
	if len(all) != 3 {
		t.Fatalf("all tasks = %d, want 3", len(all))
	}
	if all[0].NoteTitle != "Second" {
		t.Errorf("newest first: got %q first", all[0].NoteTitle)
	}

	pending, _ := db.GetTasksByStatus(ctx, models.TaskPending)
	if len(pending) != 2 {
		t.Errorf("pending = %d, want 2", len(pending))
	}
	for _, task := range pending {
		if task.Status != models.TaskPending {
			t.Errorf("status = %q", task.Status)
		}
	}
}

func TestTasks_ExcludeDeletedNotes(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	n := mustCreate(t, db, "N", "n", "", Derived{Tasks: []models.Task{{Content: "x", Status: models.TaskDone}}})
	if err := db.SoftDeleteNote(ctx, n.ID); err != nil {
		t.Fatal(err)
	}
	if all, _ := db.GetAllTasks(ctx); len(all) != 0 {
		t.Errorf("all tasks = %+v", all)
	}
	if done, _ := db.GetTasksByStatus(ctx, models.TaskDone); len(done) != 0 {
		t.Errorf("done tasks = %+v", done)
	}
}

func TestReplaceTasks_RegeneratesIDs(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	n := mustCreate(t, db, "N", "n", "", Derived{Tasks: []models.Task{{Content: "x", Status: models.TaskPending}}})
	before, _ := db.GetTasksByNote(ctx, n.ID)

	if err := db.ReplaceTasks(ctx, n.ID, []models.Task{{Content: "x", Status: models.TaskPending}}); err != nil {
		t.Fatal(err)
	}
	after, _ := db.GetTasksByNote(ctx, n.ID)
	if len(after) != 1 || after[0].ID == before[0].ID {
		t.Errorf("task id should change across saves: before %d after %+v", before[0].ID, after)
	}

	if err := db.DeleteTasksByNote(ctx, n.ID); err != nil {
		t.Fatal(err)
	}
	if left, _ := db.GetTasksByNote(ctx, n.ID); len(left) != 0 {
		t.Errorf("tasks left = %+v", left)
	}
}
