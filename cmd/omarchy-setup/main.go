package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/omarchy-setup/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp()
	rootCmd := cli.NewRootCmd(app)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		app.Printer().Error(err)
		stop()
		os.Exit(1)
	}
}
