package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"platter/internal/config"
)

func TestCheckDirectoryAccessOK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccessNotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccessNotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCatalogOK(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "catalog.db")

	result := CheckCatalog(context.Background(), &cfg)
	if !result.Passed {
		t.Fatalf("expected pass for fresh catalog, got: %s", result.Detail)
	}
}

func TestCheckCatalogUnconfigured(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog.Path = ""

	result := CheckCatalog(context.Background(), &cfg)
	if result.Passed {
		t.Fatal("expected failure for empty catalog path")
	}
}

func TestCheckReasoningMissingKey(t *testing.T) {
	cfg := config.Default()
	cfg.Reasoning.APIKey = ""

	result := CheckReasoning(context.Background(), &cfg)
	if result.Passed {
		t.Fatal("expected failure for missing API key")
	}
	if result.Detail != "API key missing" {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckReasoningOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"ok\":true}"}}]}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Reasoning.APIKey = "test-key"
	cfg.Reasoning.BaseURL = srv.URL

	result := CheckReasoning(context.Background(), &cfg)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckReasoningBadKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Reasoning.APIKey = "bad-key"
	cfg.Reasoning.BaseURL = srv.URL

	result := CheckReasoning(context.Background(), &cfg)
	if result.Passed {
		t.Fatal("expected failure for rejected key")
	}
}

func TestRunAllNilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil, t.TempDir())
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAllReportsEveryCheck(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "catalog.db")
	cfg.Reasoning.APIKey = ""

	results := RunAll(context.Background(), &cfg, t.TempDir())
	names := make(map[string]bool, len(results))
	for _, result := range results {
		names[result.Name] = true
	}
	for _, expected := range []string{"Disk directory", "Catalog", "Reasoning service", "FFprobe"} {
		if !names[expected] {
			t.Fatalf("missing check %q in results %v", expected, names)
		}
	}
	// The reasoning check must fail on the missing key without aborting the
	// other checks.
	if AllPassed(results) {
		t.Fatal("expected at least one failing check")
	}
}
