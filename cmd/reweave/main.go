// Package main is the entry point for the reweave rewriting tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"

	"github.com/reweave/reweave/cmd/reweave/commands"
	"github.com/reweave/reweave/internal/app"
	"github.com/reweave/reweave/internal/core/domain"
	_ "github.com/reweave/reweave/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, err := provider(ctx)
	if err != nil {
		// Logger is not available if initialization failed; write directly
		// to the stderr passed in.
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}

	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrNoUnitsSpecified) {
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
