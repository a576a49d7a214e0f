package testsupport

import (
	"path/filepath"
	"testing"

	"sofictl/internal/config"
	"sofictl/internal/runs"
)

// MustOpenStore opens a runs.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *runs.Store {
	t.Helper()

	store, err := runs.Open(filepath.Join(cfg.Paths.WorkDir, "runs.db"))
	if err != nil {
		t.Fatalf("runs.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
