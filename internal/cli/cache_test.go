package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/tickplot/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "tickplot")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := filepath.Join(t.TempDir(), "custom-cache")
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestClearCache(t *testing.T) {
	out := captureStdout(t)
	dir := filepath.Join(t.TempDir(), "tickplot")

	if err := clearCache(dir); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Cache is empty") {
		t.Errorf("output = %q, want empty notice", out.String())
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"layout:a", "artifact:b"} {
		if err := fc.Set(ctx, key, []byte("x"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	out.Reset()
	if err := clearCache(dir); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Cleared 2 cached entries") {
		t.Errorf("output = %q, want 2 cleared", out.String())
	}
	if _, hit, _ := fc.Get(ctx, "layout:a"); hit {
		t.Error("entry survived clear")
	}
}

// captureStdout redirects status output to a buffer for the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}
