//go:build linux

// ABOUTME: udev netlink subscription for video4linux add/remove events
// ABOUTME: A failed netlink connect degrades to a single initial probe

package device

import (
	"context"

	"github.com/pilebones/go-udev/netlink"
)

// Watch streams availability until ctx is done. When the netlink socket
// cannot be opened, the channel carries the initial value and then closes.
func (w *Watcher) Watch(ctx context.Context) <-chan bool {
	out := make(chan bool, 1)
	triggers := make(chan string)

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		w.logger.Warn("failed to connect to netlink socket; camera hot-plug will not be noticed",
			"error", err,
		)
		close(triggers)
		go w.follow(ctx, triggers, out)
		return out
	}

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	quit := conn.Monitor(queue, errs, buildMatcher())

	go func() {
		defer conn.Close()
		defer close(triggers)
		for {
			select {
			case <-ctx.Done():
				close(quit)
				return
			case uevent := <-queue:
				select {
				case triggers <- string(uevent.Action):
				case <-ctx.Done():
					close(quit)
					return
				}
			case err := <-errs:
				w.logger.Warn("netlink monitor error", "error", err)
			}
		}
	}()

	go w.follow(ctx, triggers, out)
	return out
}

// buildMatcher matches SUBSYSTEM=video4linux with ACTION=add|remove
func buildMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "video4linux",
		},
	})
	return rules
}
