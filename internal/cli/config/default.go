package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default configuration values.
const (
	DefaultDirName    = ".snipkit"
	DefaultConfigName = "config.yaml"
	DefaultDocument   = "snippets.json"

	BackendJSON   = "json"
	BackendBadger = "badger"

	DefaultBadgerGCInterval = 10 * time.Minute

	DefaultTheme    = "monokai"
	DefaultFontSize = 14
	DefaultTabSize  = 2

	DefaultOutput = "table"

	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"

	DefaultBackupKeep = 10
)

// HomeDir returns the snipkit data directory (~/.snipkit).
// It falls back to a relative directory when no home is known.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DefaultDirName
	}
	return filepath.Join(home, DefaultDirName)
}

// Default returns the default configuration.
func Default() *Config {
	base := HomeDir()
	return &Config{
		Storage: StorageSection{
			Backend:  BackendJSON,
			Path:     filepath.Join(base, DefaultDocument),
			AutoInit: true,
			Badger: BadgerSection{
				Dir:        filepath.Join(base, "badger"),
				GCInterval: DefaultBadgerGCInterval,
				SyncWrites: true,
			},
		},
		Editor: EditorSection{
			Theme:          DefaultTheme,
			FontFamily:     "monospace",
			FontSize:       DefaultFontSize,
			TabSize:        DefaultTabSize,
			ShowLineNumber: true,
		},
		UI: UISection{
			Output:                  DefaultOutput,
			ShowCopyNoti:            true,
			ShowDeleteConfirmDialog: true,
			ShowSnippetUpdateTime:   true,
			ShowSnippetCopyCount:    true,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Backup: BackupSection{
			Dir:  filepath.Join(base, "backups"),
			Keep: DefaultBackupKeep,
		},
	}
}
