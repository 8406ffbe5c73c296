package config

import (
	"fmt"

	"github.com/yndnr/snipkit-go/internal/core/domain"
)

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifyEditor(&cfg.Editor); err != nil {
		return err
	}
	if err := verifyUI(&cfg.UI); err != nil {
		return err
	}
	if err := verifyLog(&cfg.Log); err != nil {
		return err
	}
	if cfg.Backup.Keep < 1 {
		return invalid("backup.keep must be at least 1")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	switch cfg.Backend {
	case BackendJSON:
		if cfg.Path == "" {
			return invalid("storage.path is required")
		}
	case BackendBadger:
		if cfg.Badger.Dir == "" {
			return invalid("storage.badger.dir is required")
		}
		if cfg.Badger.GCInterval < 0 {
			return invalid("storage.badger.gc_interval must not be negative")
		}
	default:
		return invalid(fmt.Sprintf("storage.backend %q must be %q or %q", cfg.Backend, BackendJSON, BackendBadger))
	}
	return nil
}

func verifyEditor(cfg *EditorSection) error {
	if cfg.TabSize < 1 || cfg.TabSize > 16 {
		return invalid(fmt.Sprintf("editor.tab_size %d must be between 1 and 16", cfg.TabSize))
	}
	if cfg.FontSize < 1 {
		return invalid("editor.font_size must be positive")
	}
	return nil
}

func verifyUI(cfg *UISection) error {
	switch cfg.Output {
	case "table", "json", "yaml":
		return nil
	}
	return invalid(fmt.Sprintf("ui.output %q must be table, json or yaml", cfg.Output))
}

func verifyLog(cfg *LogSection) error {
	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid(fmt.Sprintf("log.level %q is not a known level", cfg.Level))
	}
	switch cfg.Format {
	case "text", "json":
	default:
		return invalid(fmt.Sprintf("log.format %q must be text or json", cfg.Format))
	}
	return nil
}

func invalid(details string) error {
	return domain.ErrInvalidArgument.WithDetails(details)
}
