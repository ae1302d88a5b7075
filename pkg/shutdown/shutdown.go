package shutdown

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(ch)
		select {
		case <-ctx.Done():
			return
		case <-ch:
			cancel()
		}
	}()

	return ctx, cancel
}

// Graceful runs stop with a deadline of timeout. If stop does not return in
// time, force (when non-nil) is called and the deadline error returned.
func Graceful(log *slog.Logger, name string, timeout time.Duration, stop func(ctx context.Context) error, force func()) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- stop(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			log.Error("shutdown failed", slog.String("component", name), slog.Any("err", err))
			return err
		}
		log.Info("stopped", slog.String("component", name))
		return nil
	case <-ctx.Done():
		log.Warn("graceful stop timed out, forcing", slog.String("component", name))
		if force != nil {
			force()
		}
		return ctx.Err()
	}
}
