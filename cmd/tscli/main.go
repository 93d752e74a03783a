package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/teranos/tscli/cmd/tscli/commands"
	"github.com/teranos/tscli/logger"
)

func main() {
	// Watch mode runs until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Execute(ctx, os.Args[1:])
	stop()
	logger.Cleanup()
	os.Exit(code)
}
