// Package main is the entry point for the kiln asset pipeline.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/cmd/kiln/commands"
	"go.trai.ch/kiln/internal/app"
	_ "go.trai.ch/kiln/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run(opts ...func(*app.App)) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	for _, opt := range opts {
		opt(components.App)
	}

	// 2. Interface - CLI
	cli := commands.New(components.App)
	cli.SetArgs(os.Args[1:])

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return 1
	}
	return 0
}
