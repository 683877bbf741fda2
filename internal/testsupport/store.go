package testsupport

import (
	"path/filepath"
	"testing"

	"stashsweep/internal/history"
)

// MustOpenStore opens a history.Store backed by a per-test temp directory
// and registers cleanup.
func MustOpenStore(t testing.TB) *history.Store {
	t.Helper()

	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
