package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// waitForShutdown returns a context cancelled on SIGINT or SIGTERM.
func waitForShutdown(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
