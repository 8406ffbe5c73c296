// Package shutdown provides graceful shutdown for long-running snipkit
// commands such as "watch".
//
// This package handles process termination signals:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Timeout-bounded cleanup hooks, run in reverse registration order
//
// Usage:
//
//	ctx, stop := shutdown.WithSignals(context.Background())
//	defer stop()
//	h := shutdown.NewHandler(5 * time.Second)
//	h.OnShutdown(func(context.Context) error { return store.Close() })
//	err := h.Wait(ctx) // returns once ctx ends and hooks ran
package shutdown
