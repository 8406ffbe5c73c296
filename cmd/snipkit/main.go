package main

import (
	"context"
	"os"

	"github.com/yndnr/snipkit-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		command.PrintError(os.Stderr, "%v", err)
		os.Exit(1)
	}
}
