package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/snipkit-go/internal/cli/config"
	"github.com/yndnr/snipkit-go/internal/cli/output"
	"github.com/yndnr/snipkit-go/internal/cli/repl"
	"github.com/yndnr/snipkit-go/internal/core/domain"
	"github.com/yndnr/snipkit-go/internal/core/service"
	"github.com/yndnr/snipkit-go/internal/highlight"
	"github.com/yndnr/snipkit-go/internal/infra/clipboard"
	"github.com/yndnr/snipkit-go/internal/storage"
	"github.com/yndnr/snipkit-go/internal/storage/backup"
	"github.com/yndnr/snipkit-go/internal/telemetry/logger"
	"github.com/yndnr/snipkit-go/internal/telemetry/metric"
)

// App.Metadata keys.
const (
	runtimeKey = "runtime"

	// ClipboardKey overrides the system clipboard (service.Clipboard).
	ClipboardKey = "clipboard"

	// EditorRunKey overrides how the external editor is started (repl.RunFunc).
	EditorRunKey = "editorRun"
)

// Runtime holds what commands share for one invocation: the resolved
// configuration, the logger, the metrics registry and the lazily opened
// store.
type Runtime struct {
	Config     *config.Config
	ConfigPath string
	Flags      *GlobalFlags
	Logger     logger.Logger
	Metrics    *metric.Registry

	out    io.Writer
	errOut io.Writer
	in     io.Reader

	clipboard service.Clipboard
	editorRun repl.RunFunc

	store *storage.Store
}

func newRuntime(c *cli.Context) (*Runtime, error) {
	flags := ParseGlobalFlags(c)

	path := flags.ConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path, flags.overrides())
	if err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, err
	}

	rt := &Runtime{
		Config:     cfg,
		ConfigPath: path,
		Flags:      flags,
		Metrics:    metric.NewRegistry(),
		out:        c.App.Writer,
		errOut:     c.App.ErrWriter,
		in:         c.App.Reader,
	}
	if rt.out == nil {
		rt.out = os.Stdout
	}
	if rt.errOut == nil {
		rt.errOut = os.Stderr
	}
	if rt.in == nil {
		rt.in = os.Stdin
	}

	rt.Logger, err = logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: rt.errOut,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(rt.Logger)

	if cb, ok := c.App.Metadata[ClipboardKey].(service.Clipboard); ok {
		rt.clipboard = cb
	} else {
		rt.clipboard = clipboard.New()
	}
	if run, ok := c.App.Metadata[EditorRunKey].(repl.RunFunc); ok {
		rt.editorRun = run
	}

	rt.Logger.Debug("configuration loaded", "path", path, "backend", cfg.Storage.Backend)
	return rt, nil
}

// RuntimeFrom returns the runtime set up by the root Before hook.
func RuntimeFrom(c *cli.Context) (*Runtime, error) {
	rt, ok := c.App.Metadata[runtimeKey].(*Runtime)
	if !ok {
		return nil, domain.ErrInternal.WithDetails("runtime not initialized")
	}
	return rt, nil
}

// Out returns the command output writer.
func (rt *Runtime) Out() io.Writer { return rt.out }

// Store opens the configured backend on first use.
// With storage.auto_init an empty document is created when missing.
func (rt *Runtime) Store(ctx context.Context) (*storage.Store, error) {
	if rt.store != nil {
		return rt.store, nil
	}

	doc, err := rt.openDocument()
	if err != nil {
		return nil, err
	}

	store := storage.NewStore(doc,
		storage.WithLogger(rt.Logger),
		storage.WithMetrics(rt.Metrics),
	)
	if rt.Config.Storage.AutoInit {
		if err := store.Init(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	rt.store = store
	return store, nil
}

func (rt *Runtime) openDocument() (storage.Document, error) {
	st := rt.Config.Storage
	switch st.Backend {
	case config.BackendBadger:
		bc := storage.DefaultBadgerConfig()
		bc.GCInterval = st.Badger.GCInterval.String()
		bc.SyncWrites = st.Badger.SyncWrites
		doc, err := storage.OpenBadgerDocument(st.Badger.Dir, bc, rt.Logger)
		if err != nil {
			return nil, err
		}
		for _, c := range doc.Collectors() {
			if err := rt.Metrics.Register(c); err != nil {
				rt.Logger.Warn("register badger collector", "error", err)
			}
		}
		return doc, nil
	default:
		if err := rt.Metrics.Register(metric.NewDocumentCollector(st.Path)); err != nil {
			rt.Logger.Warn("register document collector", "error", err)
		}
		return storage.NewJSONFile(st.Path), nil
	}
}

// Service builds the snippet service on top of the store.
func (rt *Runtime) Service(ctx context.Context) (*service.SnippetService, error) {
	store, err := rt.Store(ctx)
	if err != nil {
		return nil, err
	}
	return service.NewSnippetService(store,
		service.WithClipboard(rt.clipboard),
		service.WithNotifier(output.NewNotifier(rt.errOut)),
		service.WithModeResolver(highlight.NewResolver()),
		service.WithServiceMetrics(rt.Metrics),
		service.WithCopyNotification(rt.Config.UI.ShowCopyNoti),
	), nil
}

// Backups creates the backup manager from the backup section.
func (rt *Runtime) Backups() (*backup.Manager, error) {
	b := rt.Config.Backup
	var pass []byte
	if b.Passphrase != "" {
		pass = []byte(b.Passphrase)
	}
	return backup.NewManager(backup.Config{
		Dir:        b.Dir,
		Keep:       b.Keep,
		Passphrase: pass,
		Logger:     rt.Logger,
	})
}

// Formatter returns the formatter for ui.output.
func (rt *Runtime) Formatter() output.Formatter {
	return output.NewFormatter(output.Format(rt.Config.UI.Output), rt.Flags.Wide)
}

// Structured reports whether output is json or yaml.
func (rt *Runtime) Structured() bool {
	f := output.Format(rt.Config.UI.Output)
	return f == output.FormatJSON || f == output.FormatYAML
}

// Columns returns the optional list columns enabled in the ui section.
func (rt *Runtime) Columns() output.Columns {
	ui := rt.Config.UI
	return output.Columns{
		CreateTime: ui.ShowSnippetCreateTime,
		UpdateTime: ui.ShowSnippetUpdateTime,
		CopyCount:  ui.ShowSnippetCopyCount,
	}
}

// Highlight returns the syntax highlighter, or nil when stdout is not a
// terminal.
func (rt *Runtime) Highlight() output.HighlightFunc {
	f, ok := rt.out.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return nil
	}
	return highlight.NewHighlighter(rt.Config.Editor.Theme).Highlight
}

// HistoryPath is where the edit session keeps its command history.
func (rt *Runtime) HistoryPath() string {
	return filepath.Join(filepath.Dir(rt.ConfigPath), "edit_history")
}

// Close releases the store and writes the metrics textfile if configured.
func (rt *Runtime) Close() error {
	var errs []error
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
		rt.store = nil
	}
	if path := rt.Config.Metrics.Textfile; path != "" {
		if err := rt.Metrics.WriteTextfile(path); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	return errors.Join(errs...)
}
