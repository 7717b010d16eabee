// Package main runs the sound command-line tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/sound/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
