package clock

import (
	"context"
	"sync"
	"time"
)

// Task calls fn on a fixed period until fn returns false, the parent
// context ends, or Stop is called. fn never runs concurrently with itself.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func Every(ctx context.Context, period time.Duration, fn func(now time.Time) bool) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go t.loop(ctx, period, fn)
	return t
}

func (t *Task) loop(ctx context.Context, period time.Duration, fn func(now time.Time) bool) {
	defer close(t.done)
	defer t.cancel()

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			// a stop that raced the tick wins
			if nil != ctx.Err() {
				return
			}
			if !fn(now) {
				return
			}
		}
	}
}

// Stop cancels the task and waits for an in-flight call to return.
// It must not be called from inside fn.
func (t *Task) Stop() {
	t.once.Do(t.cancel)
	<-t.done
}

// Done is closed once the task will make no further calls
func (t *Task) Done() <-chan struct{} {
	return t.done
}
