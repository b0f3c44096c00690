package notify

import (
	"context"
	"sync"
)

// Async hands every event to the wrapped notifier on its own goroutine so
// callers never wait on delivery. Close waits for in-flight deliveries.
type Async struct {
	next Notifier
	wg   sync.WaitGroup
}

func NewAsync(next Notifier) *Async {
	return &Async{next: next}
}

func (a *Async) Notify(ctx context.Context, e Event) {
	ctx = context.WithoutCancel(ctx)

	a.wg.Go(func() {
		a.next.Notify(ctx, e)
	})
}

func (a *Async) Close() {
	a.wg.Wait()
}
