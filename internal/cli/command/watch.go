package command

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/snipkit-go/internal/cli/config"
	"github.com/yndnr/snipkit-go/internal/cli/output"
	"github.com/yndnr/snipkit-go/internal/core/domain"
	"github.com/yndnr/snipkit-go/internal/core/service"
	"github.com/yndnr/snipkit-go/internal/infra/shutdown"
	"github.com/yndnr/snipkit-go/internal/storage"
)

// WatchCommand returns the watch command.
func WatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "List snippets and refresh whenever the document changes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "tag",
				Aliases: []string{"t"},
				Usage:   "Only snippets carrying this tag",
			},
			&cli.DurationFlag{
				Name:  "for",
				Usage: "Stop after this long (0 watches until interrupted)",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "Quiet period before a change is shown",
				Value: storage.DefaultDebounce,
			},
		},
		Action: snippetWatch,
	}
}

func snippetWatch(c *cli.Context) error {
	rt, svc, err := serviceFrom(c)
	if err != nil {
		return err
	}
	if rt.Config.Storage.Backend != config.BackendJSON {
		return domain.ErrInvalidArgument.WithDetails("watch needs the json backend")
	}

	ctx, stop := shutdown.WithSignals(c.Context)
	defer stop()
	if d := c.Duration("for"); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	var mu sync.Mutex
	filter := service.ListFilter{Tag: c.String("tag")}
	render := func() {
		mu.Lock()
		defer mu.Unlock()

		snippets, err := svc.List(ctx, filter)
		if err != nil {
			fmt.Fprintf(rt.errOut, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(rt.Out(), "--- %s (%d snippets)\n", time.Now().Format(time.TimeOnly), len(snippets))
		if err := output.SnippetTable(snippets, rt.Columns(), rt.Flags.Wide, time.Now()).Render(rt.Out()); err != nil {
			rt.Logger.Warn("render snippets", "error", err)
		}
	}

	w, err := storage.NewWatcher(rt.Config.Storage.Path,
		storage.WithWatcherLogger(rt.Logger),
		storage.WithDebounce(c.Duration("debounce")),
	)
	if err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	w.OnChange(func(string) { render() })

	render()

	runErr := make(chan error, 1)
	go func() { runErr <- w.Run(ctx) }()

	h := shutdown.NewHandler(0)
	h.OnShutdown(func(hookCtx context.Context) error {
		select {
		case err := <-runErr:
			if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		case <-hookCtx.Done():
			return hookCtx.Err()
		}
	})
	h.OnShutdown(func(context.Context) error {
		fmt.Fprintln(rt.errOut, "Stopped watching.")
		return nil
	})
	return h.Wait(ctx)
}
