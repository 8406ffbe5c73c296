package command

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/snipkit-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:                 "snipkit",
		Usage:                "Keep, search and copy code snippets",
		Version:              buildinfo.String(),
		Flags:                globalFlags(),
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			InitCommand(),
			ListCommand(),
			ShowCommand(),
			CreateCommand(),
			UpdateCommand(),
			DeleteCommand(),
			FileCommand(),
			CopyCommand(),
			EditCommand(),
			WatchCommand(),
			BackupCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		Before: before,
		After:  after,
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Configuration file (default ~/.snipkit/config.yaml)",
			EnvVars: []string{"SNIPKIT_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Snippet document to use instead of storage.path",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	ConfigPath string
	File       string

	// Output format
	Output string // table, json, yaml; empty defers to ui.output
	Wide   bool

	Verbose bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		ConfigPath: c.String("config"),
		File:       c.String("file"),
		Output:     c.String("output"),
		Wide:       c.Bool("wide"),
		Verbose:    c.Bool("verbose"),
	}
}

// overrides maps the flags onto config keys.
func (f *GlobalFlags) overrides() map[string]any {
	m := make(map[string]any)
	if f.File != "" {
		m["storage.backend"] = "json"
		m["storage.path"] = f.File
	}
	if f.Output != "" {
		m["ui.output"] = f.Output
	}
	if f.Verbose {
		m["log.level"] = "debug"
	}
	return m
}

func before(c *cli.Context) error {
	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	c.App.Metadata[runtimeKey] = rt
	return nil
}

func after(c *cli.Context) error {
	rt, ok := c.App.Metadata[runtimeKey].(*Runtime)
	if !ok {
		return nil
	}
	delete(c.App.Metadata, runtimeKey)
	return rt.Close()
}

// PrintError prints an error message to w.
func PrintError(w io.Writer, format string, args ...any) {
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "error: "+format+"\n", args...)
}
