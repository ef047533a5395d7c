package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/teranos/opgen/cmd/opgen/commands"
	"github.com/teranos/opgen/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := commands.NewRootCmd().ExecuteContext(ctx)
	stop()
	logger.Cleanup()

	if err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
