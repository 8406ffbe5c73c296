package confloader

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Storage struct {
		Path     string `koanf:"path"`
		AutoInit bool   `koanf:"auto_init"`
	} `koanf:"storage"`
	UI struct {
		Theme        string `koanf:"theme"`
		ShowCopyNoti bool   `koanf:"show_copy_noti"`
	} `koanf:"ui"`
}

const testYAML = `
storage:
  path: "/data/snippets.json"
  auto_init: true
ui:
  theme: "dracula"
  show_copy_noti: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}
}

func TestNewLoader_WithOptions(t *testing.T) {
	l := NewLoader(
		WithEnvPrefix("TEST_"),
		WithConfigFile("/path/to/config.yaml"),
	)

	if l.envPrefix != "TEST_" {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, "TEST_")
	}
	if l.filePath != "/path/to/config.yaml" {
		t.Errorf("filePath = %q, want %q", l.filePath, "/path/to/config.yaml")
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want string
	}{
		{"section and key", "SNIPKIT_STORAGE__PATH", "storage.path"},
		{"snake case key", "SNIPKIT_UI__SHOW_COPY_NOTI", "ui.show_copy_noti"},
		{"top level", "SNIPKIT_VERBOSE", "verbose"},
		{"nested", "SNIPKIT_STORAGE__BADGER__GC_INTERVAL", "storage.badger.gc_interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EnvKey(tt.env, DefaultEnvPrefix); got != tt.want {
				t.Errorf("EnvKey(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoader_LoadFile(t *testing.T) {
	configPath := writeConfig(t, testYAML)

	l := NewLoader()
	if err := l.LoadFile(configPath); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if p := l.GetString("storage.path"); p != "/data/snippets.json" {
		t.Errorf("storage.path = %q, want %q", p, "/data/snippets.json")
	}
	if !l.GetBool("storage.auto_init") {
		t.Error("storage.auto_init should be true")
	}
}

func TestLoader_LoadFile_NotFound(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadFile() should return error for nonexistent file")
	}
}

func TestLoader_LoadFile_Empty(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile(""); err != nil {
		t.Errorf("LoadFile(\"\") should not error, got: %v", err)
	}
}

func TestLoader_LoadEnv(t *testing.T) {
	t.Setenv("SNIPKIT_STORAGE__PATH", "/env/snippets.json")
	t.Setenv("SNIPKIT_UI__SHOW_COPY_NOTI", "false")

	l := NewLoader()
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if p := l.GetString("storage.path"); p != "/env/snippets.json" {
		t.Errorf("storage.path = %q, want %q", p, "/env/snippets.json")
	}
	if got := l.GetString("ui.show_copy_noti"); got != "false" {
		t.Errorf("ui.show_copy_noti = %q, want %q", got, "false")
	}
}

func TestLoader_LoadEnv_CustomPrefix(t *testing.T) {
	t.Setenv("MYAPP_UI__THEME", "github")

	l := NewLoader(WithEnvPrefix("MYAPP_"))
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if theme := l.GetString("ui.theme"); theme != "github" {
		t.Errorf("ui.theme = %q, want %q", theme, "github")
	}
}

func TestLoader_LoadMap(t *testing.T) {
	l := NewLoader()

	data := map[string]any{
		"storage.path": "/flag/snippets.json",
		"verbose":      true,
	}
	if err := l.LoadMap(data); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	if p := l.GetString("storage.path"); p != "/flag/snippets.json" {
		t.Errorf("storage.path = %q, want %q", p, "/flag/snippets.json")
	}
	if !l.GetBool("verbose") {
		t.Error("verbose should be true")
	}
}

func TestLoader_LoadMap_Unmarshal(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(map[string]any{"storage.path": "/flag/snippets.json"}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	var cfg testConfig
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if cfg.Storage.Path != "/flag/snippets.json" {
		t.Errorf("Storage.Path = %q, want %q", cfg.Storage.Path, "/flag/snippets.json")
	}
}

func TestLoader_Load_Priority(t *testing.T) {
	configPath := writeConfig(t, testYAML)
	t.Setenv("SNIPKIT_STORAGE__PATH", "/env/snippets.json")

	l := NewLoader(WithConfigFile(configPath))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.Path != "/env/snippets.json" {
		t.Errorf("Path = %q, want %q (env should override file)",
			cfg.Storage.Path, "/env/snippets.json")
	}
	if cfg.UI.Theme != "dracula" {
		t.Errorf("Theme = %q, want %q", cfg.UI.Theme, "dracula")
	}
}

func TestLoader_Unmarshal(t *testing.T) {
	configPath := writeConfig(t, testYAML)

	l := NewLoader(WithConfigFile(configPath))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.Path != "/data/snippets.json" {
		t.Errorf("Path = %q, want %q", cfg.Storage.Path, "/data/snippets.json")
	}
	if !cfg.Storage.AutoInit {
		t.Error("AutoInit should be true")
	}
	if !cfg.UI.ShowCopyNoti {
		t.Error("ShowCopyNoti should be true")
	}
}

func TestLoader_IsLoaded(t *testing.T) {
	l := NewLoader()

	if l.IsLoaded() {
		t.Error("IsLoaded() should be false before Load()")
	}

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !l.IsLoaded() {
		t.Error("IsLoaded() should be true after Load()")
	}
}

func TestLoader_KeysAndAll(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(map[string]any{"key1": "value1", "key2": "value2"}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	if n := len(l.All()); n < 2 {
		t.Errorf("All() returned %d keys, want at least 2", n)
	}
	if n := len(l.Keys()); n < 2 {
		t.Errorf("Keys() returned %d keys, want at least 2", n)
	}
}

func TestLoader_GetInt(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(map[string]any{"editor.tab_size": 4}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	if n := l.GetInt("editor.tab_size"); n != 4 {
		t.Errorf("GetInt(editor.tab_size) = %d, want %d", n, 4)
	}
}
