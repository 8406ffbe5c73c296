package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/snipkit-go/internal/cli/repl"
	"github.com/yndnr/snipkit-go/internal/telemetry/logger"
)

// EditCommand returns the interactive edit command.
func EditCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Edit a snippet interactively",
		ArgsUsage: "KEY",
		Description: "Opens an edit session on the snippet. Changes are staged in a draft\n" +
			"and written by 'save'; 'discard', 'quit' or end of input drop them.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "view",
				Usage: "Start outside edit mode",
			},
		},
		Action: snippetEdit,
	}
}

func snippetEdit(c *cli.Context) error {
	key, err := requireArg(c, 0, "KEY")
	if err != nil {
		return err
	}
	rt, svc, err := serviceFrom(c)
	if err != nil {
		return err
	}

	ctx := logger.WithCommand(logger.WithSnippetKey(c.Context, key), "edit")
	session, err := svc.Edit(ctx, key)
	if err != nil {
		return err
	}
	if !c.Bool("view") {
		if err := session.Begin(); err != nil {
			return err
		}
	}

	history := repl.NewHistory(rt.HistoryPath())
	if err := history.Load(); err != nil {
		rt.Logger.Warn("load edit history", "error", err)
	}
	defer func() {
		if err := history.Save(); err != nil {
			rt.Logger.Warn("save edit history", "error", err)
		}
	}()

	opts := []repl.Option{
		repl.WithIO(rt.in, rt.out),
		repl.WithHistory(history),
		repl.WithHighlight(rt.Highlight()),
		repl.WithEditor(repl.EditorCommand(rt.Config.Editor.Command), rt.editorRun),
	}
	return repl.New(session, opts...).Run(ctx)
}
