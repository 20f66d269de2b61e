package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// shutdownSignals stop the agent. SIGHUP is a stop rather than a
// reload because the agent carries no reloadable config.
var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}

// notifyShutdown returns a channel carrying the first shutdown signal
// and a release function that unregisters the handler.
func notifyShutdown() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, shutdownSignals...)
	return ch, func() { signal.Stop(ch) }
}

// awaitShutdown blocks until a shutdown signal arrives or the context
// is cancelled. Returns nil on cancellation.
func awaitShutdown(ctx context.Context, ch <-chan os.Signal) os.Signal {
	select {
	case sig := <-ch:
		return sig
	case <-ctx.Done():
		return nil
	}
}
