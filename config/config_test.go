package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nodegraph/logging"
	"nodegraph/tool"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.History.Capacity != 500 {
		t.Errorf("expected capacity 500, got %d", cfg.History.Capacity)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected level info, got %q", cfg.Log.Level)
	}
	if cfg.Tools.CloneModifier != "alt" {
		t.Errorf("expected clone modifier alt, got %q", cfg.Tools.CloneModifier)
	}
	if !cfg.Document.Indent {
		t.Error("default indent should be true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg")
	if dir := ConfigDir(); dir != "/tmp/test-xdg/nodegraph" {
		t.Errorf("expected /tmp/test-xdg/nodegraph, got %q", dir)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".config", "nodegraph")
	if dir := ConfigDir(); dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.History.Capacity = 50
	cfg.Tools.CloneModifier = "shift"
	cfg.Registry.Paths = []string{"/opt/types.yaml"}

	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := Load()
	if loaded.History.Capacity != 50 {
		t.Errorf("expected capacity 50, got %d", loaded.History.Capacity)
	}
	mod, err := loaded.CloneModifier()
	if err != nil || mod != tool.ModShift {
		t.Errorf("expected shift, got %v (%v)", mod, err)
	}
	if len(loaded.Registry.Paths) != 1 || loaded.Registry.Paths[0] != "/opt/types.yaml" {
		t.Errorf("unexpected paths %v", loaded.Registry.Paths)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := LoadFile(Path())
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if cfg.History.Capacity != 500 {
		t.Errorf("expected defaults, got capacity %d", cfg.History.Capacity)
	}
}

func TestLoadFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[log]\nlevel = \"debug\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.LogLevel() != logging.DebugLevel {
		t.Errorf("expected debug, got %v", cfg.LogLevel())
	}
	if cfg.History.Capacity != 500 {
		t.Errorf("unset sections keep defaults, got capacity %d", cfg.History.Capacity)
	}
}

func TestLoadFileInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"bad toml", "[history\n", "parse"},
		{"zero capacity", "[history]\ncapacity = 0\n", "history.capacity"},
		{"bad level", "[log]\nlevel = \"loud\"\n", "log.level"},
		{"bad modifier", "[tools]\nclone_modifier = \"ctrl\"\n", "clone_modifier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFile(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
