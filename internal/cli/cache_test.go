package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/licensetower/pkg/cache"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCachePath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	cfgPath := writeConfig(t, "[cache]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(dir)+"\"\n")

	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", cfgPath, "cache", "path"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache path: %v", err)
	}

	if got := strings.TrimSpace(out.String()); got != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}
}

func TestCacheClear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"pypi:flask", "pypi:click"} {
		if err := fc.Set(ctx, key, []byte(`["BSD License"]`), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	cfgPath := writeConfig(t, "[cache]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(dir)+"\"\n")
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs([]string{"--config", cfgPath, "cache", "clear"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache clear: %v", err)
	}

	if _, ok, _ := fc.Get(ctx, "pypi:flask"); ok {
		t.Error("entry survived cache clear")
	}
}

func TestCacheNonFileBackend(t *testing.T) {
	cfgPath := writeConfig(t, "[cache]\nbackend = \"memory\"\n")

	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", cfgPath, "cache", "path"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("cache path printed %q for memory backend", out.String())
	}
}
