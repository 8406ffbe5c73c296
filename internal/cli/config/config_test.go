package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/snipkit-go/internal/core/domain"
)

func TestDefault(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	cfg := Default()

	if cfg.Storage.Backend != BackendJSON {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, BackendJSON)
	}
	wantPath := filepath.Join("/home/tester", DefaultDirName, DefaultDocument)
	if cfg.Storage.Path != wantPath {
		t.Errorf("Storage.Path = %q, want %q", cfg.Storage.Path, wantPath)
	}
	if !cfg.Storage.AutoInit {
		t.Error("Storage.AutoInit should be true by default")
	}
	if cfg.Storage.Badger.GCInterval != DefaultBadgerGCInterval {
		t.Errorf("Badger.GCInterval = %v, want %v", cfg.Storage.Badger.GCInterval, DefaultBadgerGCInterval)
	}
	if cfg.Editor.Theme != DefaultTheme {
		t.Errorf("Editor.Theme = %q, want %q", cfg.Editor.Theme, DefaultTheme)
	}
	if cfg.Editor.TabSize != DefaultTabSize {
		t.Errorf("Editor.TabSize = %d, want %d", cfg.Editor.TabSize, DefaultTabSize)
	}
	if !cfg.UI.ShowCopyNoti {
		t.Error("UI.ShowCopyNoti should be true by default")
	}
	if cfg.UI.Output != DefaultOutput {
		t.Errorf("UI.Output = %q, want %q", cfg.UI.Output, DefaultOutput)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Backup.Keep != DefaultBackupKeep {
		t.Errorf("Backup.Keep = %d, want %d", cfg.Backup.Keep, DefaultBackupKeep)
	}
	if err := Verify(cfg); err != nil {
		t.Errorf("Verify(Default()) error = %v", err)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	want := filepath.Join("/home/tester", ".snipkit", "config.yaml")
	if got := DefaultConfigPath(); got != want {
		t.Errorf("DefaultConfigPath() = %q, want %q", got, want)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	if err != nil {
		t.Fatalf("Load should not error for nonexistent file: %v", err)
	}
	if cfg.Storage.Backend != BackendJSON {
		t.Errorf("Storage.Backend = %q, want default %q", cfg.Storage.Backend, BackendJSON)
	}
}

func TestLoad_FileEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
storage:
  path: /from/file.json
  badger:
    gc_interval: 30s
editor:
  theme: dracula
  tab_size: 4
ui:
  show_copy_noti: false
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("SNIPKIT_EDITOR__THEME", "github")
	t.Setenv("SNIPKIT_UI__SHOW_SNIPPET_CREATE_TIME", "true")

	cfg, err := Load(path, map[string]any{"storage.path": "/from/flag.json"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"flag beats file", cfg.Storage.Path, "/from/flag.json"},
		{"env beats file", cfg.Editor.Theme, "github"},
		{"file beats default", cfg.Editor.TabSize, 4},
		{"file bool", cfg.UI.ShowCopyNoti, false},
		{"env bool", cfg.UI.ShowSnippetCreateTime, true},
		{"duration", cfg.Storage.Badger.GCInterval, 30 * time.Second},
		{"default kept", cfg.Log.Level, DefaultLogLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got = %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage: [unclosed"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path, nil); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}

func TestLoad_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "none.yaml"), map[string]any{"storage.path": "~/snips.json"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := filepath.Join(home, "snips.json")
	if cfg.Storage.Path != want {
		t.Errorf("Storage.Path = %q, want %q", cfg.Storage.Path, want)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "config.yaml")

	cfg := Default()
	cfg.Editor.Theme = "solarized-dark"
	cfg.Storage.Badger.GCInterval = 5 * time.Minute
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want %o", perm, 0600)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "gc_interval: 5m0s") {
		t.Errorf("saved config should encode durations as strings:\n%s", data)
	}

	loaded, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Editor.Theme != "solarized-dark" {
		t.Errorf("Editor.Theme = %q, want %q", loaded.Editor.Theme, "solarized-dark")
	}
	if loaded.Storage.Badger.GCInterval != 5*time.Minute {
		t.Errorf("GCInterval = %v, want %v", loaded.Storage.Badger.GCInterval, 5*time.Minute)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Storage.Backend = "sqlite" }},
		{"empty path", func(c *Config) { c.Storage.Path = "" }},
		{"empty badger dir", func(c *Config) { c.Storage.Backend = BackendBadger; c.Storage.Badger.Dir = "" }},
		{"negative gc", func(c *Config) { c.Storage.Backend = BackendBadger; c.Storage.Badger.GCInterval = -time.Second }},
		{"tab size zero", func(c *Config) { c.Editor.TabSize = 0 }},
		{"tab size large", func(c *Config) { c.Editor.TabSize = 17 }},
		{"font size", func(c *Config) { c.Editor.FontSize = 0 }},
		{"output", func(c *Config) { c.UI.Output = "xml" }},
		{"log level", func(c *Config) { c.Log.Level = "trace" }},
		{"log format", func(c *Config) { c.Log.Format = "logfmt" }},
		{"backup keep", func(c *Config) { c.Backup.Keep = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Verify(cfg)
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("Verify() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestVerify_BadgerIgnoresPath(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = BackendBadger
	cfg.Storage.Path = ""
	if err := Verify(cfg); err != nil {
		t.Errorf("Verify() error = %v, want nil", err)
	}
}

func TestSanitize(t *testing.T) {
	cfg := Default()
	cfg.Backup.Passphrase = "correct-horse-battery"

	sanitized := Sanitize(cfg)

	if cfg.Backup.Passphrase != "correct-horse-battery" {
		t.Error("Sanitize modified the original config")
	}
	if sanitized.Backup.Passphrase == cfg.Backup.Passphrase {
		t.Error("passphrase should be masked")
	}
	if !strings.HasPrefix(sanitized.Backup.Passphrase, "co") || !strings.HasSuffix(sanitized.Backup.Passphrase, "ry") {
		t.Errorf("masked = %q, want first and last two characters kept", sanitized.Backup.Passphrase)
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "****"},
		{"abcd", "****"},
		{"abcdef", "ab**ef"},
		{"secret-key", "se******ey"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := maskSecret(tt.in); got != tt.want {
				t.Errorf("maskSecret(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	tests := []struct {
		in   string
		want string
	}{
		{"~", "/home/tester"},
		{"~/a/b.json", "/home/tester/a/b.json"},
		{"/abs/path", "/abs/path"},
		{"rel/path", "rel/path"},
		{"~other/x", "~other/x"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ExpandPath(tt.in); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
