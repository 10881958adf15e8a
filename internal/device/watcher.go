// ABOUTME: Live camera availability that re-probes on hot-plug events
// ABOUTME: Only values that differ from the last emitted one are sent

package device

import (
	"context"
	"log/slog"

	"github.com/markalston/facepunch/internal/logger"
)

// Watcher re-runs Probe whenever a video device is added or removed
type Watcher struct {
	enumerator Enumerator
	logger     *slog.Logger
}

// NewWatcher creates a watcher over enumerator
func NewWatcher(enumerator Enumerator, log *slog.Logger) *Watcher {
	return &Watcher{
		enumerator: enumerator,
		logger:     logger.Component(log, "device-watcher"),
	}
}

// follow emits the current availability, then a fresh value after each
// trigger when it changed. It closes out when ctx ends or triggers closes.
func (w *Watcher) follow(ctx context.Context, triggers <-chan string, out chan<- bool) {
	defer close(out)

	last := Probe(ctx, w.enumerator, w.logger)
	select {
	case out <- last:
	case <-ctx.Done():
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case action, ok := <-triggers:
			if !ok {
				return
			}
			now := Probe(ctx, w.enumerator, w.logger)
			w.logger.Debug("video device event", "action", action, "available", now)
			if now == last {
				continue
			}
			last = now
			select {
			case out <- now:
			case <-ctx.Done():
				return
			}
		}
	}
}
