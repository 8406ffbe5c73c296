package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/snipkit-go/internal/cli/output"
	"github.com/yndnr/snipkit-go/internal/core/domain"
	"github.com/yndnr/snipkit-go/internal/core/service"
	"github.com/yndnr/snipkit-go/internal/highlight"
	"github.com/yndnr/snipkit-go/internal/telemetry/logger"
)

// InitCommand returns the init command.
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:   "init",
		Usage:  "Create an empty snippet document if none exists",
		Action: snippetInit,
	}
}

// ListCommand returns the list command.
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List snippets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "tag",
				Aliases: []string{"t"},
				Usage:   "Only snippets carrying this tag",
			},
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Only snippets whose name contains this text",
			},
		},
		Action: snippetList,
	}
}

// ShowCommand returns the show command.
func ShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Aliases:   []string{"get"},
		Usage:     "Show a snippet and its files",
		ArgsUsage: "KEY",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "file",
				Aliases: []string{"i"},
				Usage:   "Show only the file at this index",
				Value:   -1,
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Print raw file content only",
			},
		},
		Action: snippetShow,
	}
}

// CreateCommand returns the create command.
func CreateCommand() *cli.Command {
	return &cli.Command{
		Name:    "create",
		Aliases: []string{"new", "add"},
		Usage:   "Create a snippet from files or stdin",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Snippet name",
			},
			&cli.StringFlag{
				Name:    "desc",
				Aliases: []string{"d"},
				Usage:   "Snippet description",
			},
			&cli.StringFlag{
				Name:  "key",
				Usage: "Use this key instead of a generated one",
			},
			&cli.StringSliceFlag{
				Name:    "tag",
				Aliases: []string{"t"},
				Usage:   "Tag (repeatable, or comma-separated)",
			},
			&cli.StringSliceFlag{
				Name:  "from",
				Usage: "Read a file into the snippet (repeatable)",
			},
			&cli.StringFlag{
				Name:  "stdin-name",
				Usage: "Read one file from stdin and give it this name",
			},
		},
		Action: snippetCreate,
	}
}

// UpdateCommand returns the update command.
func UpdateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Change a snippet's name, description or tags",
		ArgsUsage: "KEY",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "New name",
			},
			&cli.StringFlag{
				Name:    "desc",
				Aliases: []string{"d"},
				Usage:   "New description",
			},
			&cli.StringFlag{
				Name:    "tags",
				Aliases: []string{"t"},
				Usage:   "New comma-separated tag list (empty clears)",
			},
		},
		Action: snippetUpdate,
	}
}

// DeleteCommand returns the rm command.
func DeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Aliases:   []string{"delete"},
		Usage:     "Delete a snippet",
		ArgsUsage: "KEY",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Do not ask for confirmation",
			},
		},
		Action: snippetDelete,
	}
}

// FileCommand returns the file subcommand group.
func FileCommand() *cli.Command {
	return &cli.Command{
		Name:  "file",
		Usage: "Snippet file operations",
		Subcommands: []*cli.Command{
			{
				Name:      "rm",
				Usage:     "Remove a file from a snippet",
				ArgsUsage: "KEY INDEX",
				Action:    fileDelete,
			},
		},
	}
}

// CopyCommand returns the copy command.
func CopyCommand() *cli.Command {
	return &cli.Command{
		Name:      "copy",
		Aliases:   []string{"cp"},
		Usage:     "Copy a snippet file to the clipboard",
		ArgsUsage: "KEY",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "file",
				Aliases: []string{"i"},
				Usage:   "Index of the file to copy",
			},
		},
		Action: snippetCopy,
	}
}

// ============================================================================
// Actions
// ============================================================================

func snippetInit(c *cli.Context) error {
	rt, err := RuntimeFrom(c)
	if err != nil {
		return err
	}

	store, err := rt.Store(c.Context)
	if err != nil {
		return err
	}
	if !rt.Config.Storage.AutoInit {
		if err := store.Init(c.Context); err != nil {
			return err
		}
	}

	fmt.Fprintf(rt.Out(), "Snippet document ready at %s\n", store.Document().Location())
	return nil
}

func snippetList(c *cli.Context) error {
	rt, svc, err := serviceFrom(c)
	if err != nil {
		return err
	}

	snippets, err := svc.List(c.Context, service.ListFilter{
		Tag:  c.String("tag"),
		Name: c.String("name"),
	})
	if err != nil {
		return err
	}

	if rt.Structured() {
		return rt.Formatter().Format(rt.Out(), snippets)
	}
	if len(snippets) == 0 {
		fmt.Fprintln(rt.Out(), "No snippets found.")
		return nil
	}
	return output.SnippetTable(snippets, rt.Columns(), rt.Flags.Wide, time.Now()).Render(rt.Out())
}

func snippetShow(c *cli.Context) error {
	key, err := requireArg(c, 0, "KEY")
	if err != nil {
		return err
	}
	rt, svc, err := serviceFrom(c)
	if err != nil {
		return err
	}

	sn, err := svc.Get(c.Context, key)
	if err != nil {
		return err
	}

	idx := c.Int("file")
	if rt.Structured() {
		if idx < 0 {
			return rt.Formatter().Format(rt.Out(), sn)
		}
		f, err := sn.File(idx)
		if err != nil {
			return err
		}
		return rt.Formatter().Format(rt.Out(), f)
	}

	modes := highlight.NewResolver()
	return output.RenderSnippet(rt.Out(), sn, output.DetailOptions{
		Columns:     rt.Columns(),
		Now:         time.Now(),
		File:        idx,
		LineNumbers: rt.Config.Editor.ShowLineNumber,
		Plain:       c.Bool("plain"),
		Highlight:   rt.Highlight(),
		Mode:        modes.ModeFor,
	})
}

func snippetCreate(c *cli.Context) error {
	rt, svc, err := serviceFrom(c)
	if err != nil {
		return err
	}

	var files []domain.File
	for _, path := range c.StringSlice("from") {
		data, err := os.ReadFile(path)
		if err != nil {
			return domain.ErrInvalidArgument.WithCause(err).WithDetails(fmt.Sprintf("read %s", path))
		}
		files = append(files, domain.File{Name: filepath.Base(path), Value: string(data)})
	}
	if name := c.String("stdin-name"); name != "" {
		data, err := io.ReadAll(rt.in)
		if err != nil {
			return domain.ErrInternal.WithCause(fmt.Errorf("read stdin: %w", err))
		}
		files = append(files, domain.File{Name: name, Value: string(data)})
	}
	if len(files) == 0 {
		return domain.ErrMissingArgument.WithDetails("at least one --from or --stdin-name is required")
	}

	name := c.String("name")
	if name == "" {
		name = files[0].Name
	}

	sn, err := svc.Create(c.Context, &service.CreateSnippetRequest{
		Key:         strings.TrimSpace(c.String("key")),
		Name:        name,
		Description: c.String("desc"),
		Tags:        c.StringSlice("tag"),
		Files:       files,
	})
	if err != nil {
		return err
	}

	if rt.Structured() {
		return rt.Formatter().Format(rt.Out(), sn)
	}
	fmt.Fprintln(rt.Out(), sn.Key)
	return nil
}

func snippetUpdate(c *cli.Context) error {
	key, err := requireArg(c, 0, "KEY")
	if err != nil {
		return err
	}
	if !c.IsSet("name") && !c.IsSet("desc") && !c.IsSet("tags") {
		return domain.ErrMissingArgument.WithDetails("one of --name, --desc or --tags is required")
	}
	rt, svc, err := serviceFrom(c)
	if err != nil {
		return err
	}

	session, err := svc.Edit(c.Context, key)
	if err != nil {
		return err
	}
	if err := session.Begin(); err != nil {
		return err
	}
	if c.IsSet("name") {
		if err := session.SetName(c.String("name")); err != nil {
			return err
		}
	}
	if c.IsSet("desc") {
		if err := session.SetDescription(c.String("desc")); err != nil {
			return err
		}
	}
	if c.IsSet("tags") {
		if err := session.SetTags(c.String("tags")); err != nil {
			return err
		}
	}

	changed, err := session.Save(c.Context)
	if err != nil {
		return err
	}
	if changed {
		fmt.Fprintln(rt.Out(), "Saved.")
	} else {
		fmt.Fprintln(rt.Out(), "No changes.")
	}
	return nil
}

func snippetDelete(c *cli.Context) error {
	key, err := requireArg(c, 0, "KEY")
	if err != nil {
		return err
	}
	rt, svc, err := serviceFrom(c)
	if err != nil {
		return err
	}

	sn, err := svc.Get(c.Context, key)
	if err != nil {
		return err
	}

	if !c.Bool("force") && rt.Config.UI.ShowDeleteConfirmDialog {
		label := sn.Name
		if label == "" {
			label = sn.Key
		}
		if !confirm(rt, fmt.Sprintf("Delete snippet %q?", label)) {
			fmt.Fprintln(rt.Out(), "Aborted.")
			return nil
		}
	}

	if err := svc.Delete(c.Context, key); err != nil {
		return err
	}
	fmt.Fprintf(rt.Out(), "Deleted %s\n", key)
	return nil
}

func fileDelete(c *cli.Context) error {
	key, err := requireArg(c, 0, "KEY")
	if err != nil {
		return err
	}
	raw, err := requireArg(c, 1, "INDEX")
	if err != nil {
		return err
	}
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("file index %q is not a number", raw))
	}

	rt, svc, err := serviceFrom(c)
	if err != nil {
		return err
	}

	removed, err := svc.DeleteFile(c.Context, key, idx)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrInvalidArgument.WithDetails(service.LastFileWarning)
	}
	fmt.Fprintf(rt.Out(), "Removed file %d from %s\n", idx, key)
	return nil
}

func snippetCopy(c *cli.Context) error {
	key, err := requireArg(c, 0, "KEY")
	if err != nil {
		return err
	}
	_, svc, err := serviceFrom(c)
	if err != nil {
		return err
	}

	ctx := logger.WithSnippetKey(c.Context, key)
	_, err = svc.Copy(ctx, key, c.Int("file"))
	return err
}

// ============================================================================
// Helpers
// ============================================================================

func serviceFrom(c *cli.Context) (*Runtime, *service.SnippetService, error) {
	rt, err := RuntimeFrom(c)
	if err != nil {
		return nil, nil, err
	}
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	svc, err := rt.Service(ctx)
	if err != nil {
		return nil, nil, err
	}
	return rt, svc, nil
}

func requireArg(c *cli.Context, i int, name string) (string, error) {
	v := strings.TrimSpace(c.Args().Get(i))
	if v == "" {
		return "", domain.ErrMissingArgument.WithDetails(name + " is required")
	}
	return v, nil
}

// confirm asks a yes/no question on the runtime's input.
func confirm(rt *Runtime, question string) bool {
	fmt.Fprintf(rt.Out(), "%s [y/N] ", question)
	line, _ := bufio.NewReader(rt.in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
