package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/snipkit-go/internal/infra/confloader"
)

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(HomeDir(), DefaultConfigName)
}

// Load loads configuration from path, the environment and overrides.
//
// A missing file is not an error: defaults apply. An empty path means
// DefaultConfigPath. Overrides use dotted keys ("storage.path") and take
// precedence over everything else.
func Load(path string, overrides map[string]any) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	l := confloader.NewLoader()

	if _, err := os.Stat(path); err == nil {
		if err := l.LoadFile(path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	if err := l.LoadEnv(); err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		if err := l.LoadMap(overrides); err != nil {
			return nil, err
		}
	}
	if err := l.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.expandPaths()
	return cfg, nil
}

// Save writes cfg to path as YAML with 0600 permissions.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Marshal encodes cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func (c *Config) expandPaths() {
	c.Storage.Path = ExpandPath(c.Storage.Path)
	c.Storage.Badger.Dir = ExpandPath(c.Storage.Badger.Dir)
	c.Backup.Dir = ExpandPath(c.Backup.Dir)
	c.Metrics.Textfile = ExpandPath(c.Metrics.Textfile)
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
