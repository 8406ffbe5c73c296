package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/snipkit-go/internal/cli/config"
	"github.com/yndnr/snipkit-go/internal/core/domain"
	"github.com/yndnr/snipkit-go/internal/highlight"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:    "config",
		Aliases: []string{"cfg"},
		Usage:   "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:  "init",
				Usage: "Write the default configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: configInit,
			},
			{
				Name:   "path",
				Usage:  "Print the configuration file path",
				Action: configPath,
			},
			{
				Name:      "validate",
				Usage:     "Validate a configuration file",
				ArgsUsage: "[FILE]",
				Action:    configValidate,
			},
			{
				Name:   "themes",
				Usage:  "List the available highlight themes",
				Action: configThemes,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	rt, err := RuntimeFrom(c)
	if err != nil {
		return err
	}

	cfg := config.Sanitize(rt.Config)
	if rt.Structured() {
		return rt.Formatter().Format(rt.Out(), cfg)
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(rt.Out(), "# %s\n%s", rt.ConfigPath, data)
	return nil
}

func configInit(c *cli.Context) error {
	rt, err := RuntimeFrom(c)
	if err != nil {
		return err
	}

	if _, err := os.Stat(rt.ConfigPath); err == nil {
		if !c.Bool("force") {
			return domain.ErrInvalidArgument.WithDetails(
				fmt.Sprintf("%s already exists, use --force to overwrite", rt.ConfigPath))
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := config.Save(config.Default(), rt.ConfigPath); err != nil {
		return err
	}
	fmt.Fprintf(rt.Out(), "Wrote %s\n", rt.ConfigPath)
	return nil
}

func configPath(c *cli.Context) error {
	rt, err := RuntimeFrom(c)
	if err != nil {
		return err
	}
	fmt.Fprintln(rt.Out(), rt.ConfigPath)
	return nil
}

func configValidate(c *cli.Context) error {
	rt, err := RuntimeFrom(c)
	if err != nil {
		return err
	}

	path := c.Args().First()
	if path == "" {
		path = rt.ConfigPath
	}
	if _, err := os.Stat(path); err != nil {
		return domain.ErrInvalidArgument.WithCause(err).WithDetails("cannot read " + path)
	}

	cfg, err := config.Load(path, nil)
	if err != nil {
		return err
	}
	if err := config.Verify(cfg); err != nil {
		return err
	}
	fmt.Fprintf(rt.Out(), "✓ Configuration file is valid: %s\n", path)
	return nil
}

func configThemes(c *cli.Context) error {
	rt, err := RuntimeFrom(c)
	if err != nil {
		return err
	}
	for _, name := range highlight.Themes() {
		marker := " "
		if name == rt.Config.Editor.Theme {
			marker = "*"
		}
		fmt.Fprintf(rt.Out(), "%s %s\n", marker, name)
	}
	return nil
}
