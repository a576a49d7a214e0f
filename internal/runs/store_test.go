package runs_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"sofictl/internal/runs"
)

func openStore(t *testing.T) *runs.Store {
	t.Helper()
	store, err := runs.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCreateAndGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run := &runs.Run{ID: "run-1", WorkDir: "/tmp/work", ParameterFile: "sofi2d.json"}
	if err := store.Create(ctx, run); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if run.Status != runs.StatusRunning {
		t.Fatalf("expected running status, got %q", run.Status)
	}

	got, err := store.GetByID(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ParameterFile != "sofi2d.json" || got.Status != runs.StatusRunning {
		t.Fatalf("unexpected run: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("created_at not persisted")
	}
}

func TestMarkCompletedAndFailed(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run := &runs.Run{ID: "run-1", WorkDir: "/tmp/work", ParameterFile: "sofi2d.json"}
	if err := store.Create(ctx, run); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.MarkCompleted(ctx, run, 0, 42*time.Second); err != nil {
		t.Fatalf("MarkCompleted failed: %v", err)
	}

	got, err := store.GetByID(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != runs.StatusCompleted || got.Duration != 42*time.Second {
		t.Fatalf("unexpected run after completion: %+v", got)
	}

	if err := store.MarkFailed(ctx, run, 1, time.Second, errors.New("simulator exploded")); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}
	got, err = store.GetByID(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != runs.StatusFailed || got.ExitCode != 1 {
		t.Fatalf("unexpected run after failure: %+v", got)
	}
	if got.ErrorMessage != "simulator exploded" {
		t.Fatalf("unexpected error message: %q", got.ErrorMessage)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	store := openStore(t)
	if _, err := store.GetByID(context.Background(), "missing"); !errors.Is(err, runs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateMissingRun(t *testing.T) {
	store := openStore(t)
	run := &runs.Run{ID: "ghost"}
	if err := store.Update(context.Background(), run); !errors.Is(err, runs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := store.Create(ctx, &runs.Run{ID: id, WorkDir: "/w", ParameterFile: "p"}); err != nil {
			t.Fatalf("Create %s failed: %v", id, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	list, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(list))
	}
	if list[0].ID != "c" || list[1].ID != "b" {
		t.Fatalf("unexpected order: %s, %s", list[0].ID, list[1].ID)
	}
}
