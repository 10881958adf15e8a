//go:build !linux

// ABOUTME: Hot-plug watching is unavailable without udev
// ABOUTME: Watch emits one initial probe and closes

package device

import "context"

// Watch emits the initial availability and closes
func (w *Watcher) Watch(ctx context.Context) <-chan bool {
	out := make(chan bool, 1)
	triggers := make(chan string)
	close(triggers)
	go w.follow(ctx, triggers, out)
	return out
}
