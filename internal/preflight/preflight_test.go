package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"stashsweep/internal/config"
)

func newVersionServer(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiKey != "" && r.Header.Get("ApiKey") != apiKey {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"errors":[{"message":"must be authenticated"}]}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"version":{"version":"v0.27.2"}}}`))
	}))
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckStash_OK(t *testing.T) {
	srv := newVersionServer(t, "good-key")
	defer srv.Close()

	result := CheckStash(context.Background(), srv.URL, "good-key")
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result.Detail == "" {
		t.Fatal("expected version detail")
	}
}

func TestCheckStash_BadKey(t *testing.T) {
	srv := newVersionServer(t, "good-key")
	defer srv.Close()

	result := CheckStash(context.Background(), srv.URL, "bad-key")
	if result.Passed {
		t.Fatal("expected failure for bad key")
	}
}

func TestCheckStash_MissingURL(t *testing.T) {
	result := CheckStash(context.Background(), "", "key")
	if result.Passed {
		t.Fatal("expected failure for missing URL")
	}
}

func TestCheckStash_Unreachable(t *testing.T) {
	srv := newVersionServer(t, "")
	srv.Close()

	result := CheckStash(context.Background(), srv.URL, "")
	if result.Passed {
		t.Fatal("expected failure for closed server")
	}
}

func TestCheckNtfyTopic(t *testing.T) {
	if result := CheckNtfyTopic("https://ntfy.sh/stashsweep-runs"); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result := CheckNtfyTopic("stashsweep-runs"); result.Passed {
		t.Fatal("expected failure for bare topic name")
	}
	if result := CheckNtfyTopic("ftp://ntfy.sh/topic"); result.Passed {
		t.Fatal("expected failure for non-http scheme")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	srv := newVersionServer(t, "")
	defer srv.Close()

	cfg := config.Default()
	cfg.Stash.URL = srv.URL
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.LogDir = ""
	cfg.Notifications.NtfyTopic = ""

	results := RunAll(context.Background(), &cfg)
	// Stash plus data directory; log and notification checks are skipped
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
}

func TestRunAll_IncludesNotificationsWhenConfigured(t *testing.T) {
	srv := newVersionServer(t, "")
	defer srv.Close()

	cfg := config.Default()
	cfg.Stash.URL = srv.URL
	cfg.Paths.DataDir = t.TempDir()
	cfg.Notifications.NtfyTopic = "https://ntfy.sh/stashsweep-runs"

	results := RunAll(context.Background(), &cfg)
	found := false
	for _, r := range results {
		if r.Name == "Notifications" {
			found = true
			if !r.Passed {
				t.Errorf("notifications check failed: %s", r.Detail)
			}
		}
	}
	if !found {
		t.Fatal("expected notifications check in results")
	}
}
