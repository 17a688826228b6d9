package bot

import (
	"context"
	"errors"
	"time"

	"cmdbot/internal/core/command"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

// ErrWaitTimeout is returned by WaitFor when the timeout elapses before a
// matching event arrives. External cancellation surfaces as the context's own
// error instead.
var ErrWaitTimeout = errors.New("timed out waiting for event")

// AddListener registers a callback for an event name and returns a handle for
// later removal.
func (b *Bot) AddListener(event string, fn command.ListenerFunc) uuid.UUID {
	id, _ := uuid.NewV4()

	b.listenerMu.Lock()
	b.listeners[event] = append(b.listeners[event], listenerEntry{id: id, fn: fn})
	b.listenerMu.Unlock()

	return id
}

// RemoveListener removes a previously registered callback by its handle.
func (b *Bot) RemoveListener(event string, id uuid.UUID) {
	b.listenerMu.Lock()
	defer b.listenerMu.Unlock()

	entries := b.listeners[event]
	for i, e := range entries {
		if e.id == id {
			b.listeners[event] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// Dispatch schedules every listener for the event as an independent
// fire-and-forget goroutine and fulfils any one-shot waiters. It returns the
// number of listeners notified.
func (b *Bot) Dispatch(event string, args ...any) int {
	b.listenerMu.RLock()
	entries := make([]listenerEntry, len(b.listeners[event]))
	copy(entries, b.listeners[event])
	b.listenerMu.RUnlock()

	for _, e := range entries {
		go func(fn command.ListenerFunc) {
			defer func() {
				if r := recover(); r != nil {
					log.Error().Str("event", event).Interface("panic", r).Msg("listener panicked")
				}
			}()
			fn(args...)
		}(e.fn)
	}

	b.feedWaiters(event, args)

	return len(entries)
}

type waiter struct {
	check func(args ...any) bool
	ch    chan []any
}

func (b *Bot) feedWaiters(event string, args []any) {
	b.waiterMu.Lock()
	defer b.waiterMu.Unlock()

	remaining := b.waiters[event][:0]
	for _, w := range b.waiters[event] {
		if w.check != nil && !w.check(args...) {
			remaining = append(remaining, w)
			continue
		}
		select {
		case w.ch <- args:
		default:
		}
	}
	b.waiters[event] = remaining
}

func (b *Bot) removeWaiter(event string, w *waiter) {
	b.waiterMu.Lock()
	defer b.waiterMu.Unlock()

	entries := b.waiters[event]
	for i, e := range entries {
		if e == w {
			b.waiters[event] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// WaitFor blocks until an event matching check is dispatched, the timeout
// elapses (ErrWaitTimeout) or ctx is cancelled (the context's error). A zero
// timeout waits forever.
func (b *Bot) WaitFor(ctx context.Context, event string, check func(args ...any) bool, timeout time.Duration) ([]any, error) {
	w := &waiter{check: check, ch: make(chan []any, 1)}

	b.waiterMu.Lock()
	b.waiters[event] = append(b.waiters[event], w)
	b.waiterMu.Unlock()
	defer b.removeWaiter(event, w)

	var timer <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}

	select {
	case args := <-w.ch:
		return args, nil
	case <-timer:
		return nil, ErrWaitTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
