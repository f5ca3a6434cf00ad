package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/thomsbg/ripple/internal/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := New()
	if cfg.Server.Port != DefaultPort {
		t.Errorf("default port = %d", cfg.Server.Port)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("default host = %q", cfg.Server.Host)
	}
	if cfg.Template != "index.html" {
		t.Errorf("default template = %q", cfg.Template)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Namespace != "ripple" {
		t.Errorf("default metrics = %+v", cfg.Metrics)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{
  "name": "todo",
  "template": "views/todo.html",
  "data": "data.json",
  "server": {"port": 8080},
  "scheduler": {"frameIntervalMs": 32}
}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "todo" {
		t.Errorf("name = %q", cfg.Name)
	}
	if cfg.Address() != "localhost:8080" {
		t.Errorf("address = %q", cfg.Address())
	}
	if got := cfg.TemplatePath(); got != filepath.Join(dir, "views/todo.html") {
		t.Errorf("template path = %q", got)
	}
	if got := cfg.DataPath(); got != filepath.Join(dir, "data.json") {
		t.Errorf("data path = %q", got)
	}
	if cfg.FrameInterval() != 32*time.Millisecond {
		t.Errorf("frame interval = %v", cfg.FrameInterval())
	}
}

func TestLoadEmptyFileGetsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != DefaultPort || cfg.Server.Host != DefaultHost {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.FrameInterval() != DefaultFrameInterval {
		t.Errorf("frame interval = %v", cfg.FrameInterval())
	}
	if cfg.DataPath() != "" {
		t.Errorf("data path should be empty, got %q", cfg.DataPath())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	re, ok := err.(*errors.RippleError)
	if !ok || re.Code != "R081" {
		t.Errorf("error = %v", err)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{not json`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	re, ok := err.(*errors.RippleError)
	if !ok || re.Code != "R080" {
		t.Errorf("error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := New()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}

	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("out-of-range port should not validate")
	}

	cfg = New()
	cfg.Template = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty template should not validate")
	}
}

func TestFrameInterval(t *testing.T) {
	tests := []struct {
		ms   int
		want time.Duration
	}{
		{0, DefaultFrameInterval},
		{-1, 0},
		{100, 100 * time.Millisecond},
	}
	for _, tt := range tests {
		cfg := New()
		cfg.Scheduler.FrameIntervalMS = tt.ms
		if got := cfg.FrameInterval(); got != tt.want {
			t.Errorf("FrameInterval(%d) = %v, want %v", tt.ms, got, tt.want)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Name = "demo"
	cfg.Server.Port = 4000

	path := filepath.Join(dir, ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name != "demo" || loaded.Server.Port != 4000 {
		t.Errorf("round trip = %+v", loaded)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `{}`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	found, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatal(err)
	}
	// Resolve symlinks so macOS /var vs /private/var temp dirs compare equal.
	wantRoot, _ := filepath.EvalSymlinks(root)
	gotRoot, _ := filepath.EvalSymlinks(found)
	if gotRoot != wantRoot {
		t.Errorf("found root = %q, want %q", found, root)
	}
}
