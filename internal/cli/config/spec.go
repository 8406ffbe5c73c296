package config

import "time"

// Config is the root configuration for snipkit.
type Config struct {
	Storage StorageSection `koanf:"storage" yaml:"storage"`
	Editor  EditorSection  `koanf:"editor" yaml:"editor"`
	UI      UISection      `koanf:"ui" yaml:"ui"`
	Log     LogSection     `koanf:"log" yaml:"log"`
	Metrics MetricsSection `koanf:"metrics" yaml:"metrics"`
	Backup  BackupSection  `koanf:"backup" yaml:"backup"`
}

// StorageSection configures where snippets are kept.
type StorageSection struct {
	// Backend is "json" (single document file) or "badger".
	Backend string `koanf:"backend" yaml:"backend"`

	// Path is the snippet document for the json backend.
	Path string `koanf:"path" yaml:"path"`

	// AutoInit creates an empty document on first use.
	AutoInit bool `koanf:"auto_init" yaml:"auto_init"`

	Badger BadgerSection `koanf:"badger" yaml:"badger"`
}

// BadgerSection configures the badger backend.
type BadgerSection struct {
	Dir        string        `koanf:"dir" yaml:"dir"`
	GCInterval time.Duration `koanf:"gc_interval" yaml:"gc_interval"`
	SyncWrites bool          `koanf:"sync_writes" yaml:"sync_writes"`
}

// EditorSection configures the edit session and snippet rendering.
type EditorSection struct {
	Theme          string `koanf:"theme" yaml:"theme"`
	FontFamily     string `koanf:"font_family" yaml:"font_family"`
	FontSize       int    `koanf:"font_size" yaml:"font_size"`
	TabSize        int    `koanf:"tab_size" yaml:"tab_size"`
	IndentUsingTab bool   `koanf:"indent_using_tab" yaml:"indent_using_tab"`
	ShowLineNumber bool   `koanf:"show_line_number" yaml:"show_line_number"`

	// Command is the external editor for the REPL "open" command.
	// Empty means $VISUAL, then $EDITOR.
	Command string `koanf:"command" yaml:"command"`
}

// UISection toggles user-facing behaviour.
type UISection struct {
	Output                  string `koanf:"output" yaml:"output"` // table, json, yaml
	ShowCopyNoti            bool   `koanf:"show_copy_noti" yaml:"show_copy_noti"`
	ShowDeleteConfirmDialog bool   `koanf:"show_delete_confirm_dialog" yaml:"show_delete_confirm_dialog"`
	ShowSnippetCreateTime   bool   `koanf:"show_snippet_create_time" yaml:"show_snippet_create_time"`
	ShowSnippetUpdateTime   bool   `koanf:"show_snippet_update_time" yaml:"show_snippet_update_time"`
	ShowSnippetCopyCount    bool   `koanf:"show_snippet_copy_count" yaml:"show_snippet_copy_count"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// MetricsSection configures the prometheus textfile export.
type MetricsSection struct {
	// Textfile is written after every command when set.
	Textfile string `koanf:"textfile" yaml:"textfile"`
}

// BackupSection configures snippet backups.
type BackupSection struct {
	Dir        string `koanf:"dir" yaml:"dir"`
	Keep       int    `koanf:"keep" yaml:"keep"`
	Passphrase string `koanf:"passphrase" yaml:"passphrase,omitempty"`
}
