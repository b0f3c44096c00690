package notify_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/rentledger/internal/notify"
)

type countingNotifier struct {
	mu    sync.Mutex
	kinds []notify.Kind
}

func (c *countingNotifier) Notify(_ context.Context, e notify.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.kinds = append(c.kinds, e.Kind)
}

func TestAsync_DeliversBeforeClose(t *testing.T) {
	next := &countingNotifier{}
	a := notify.NewAsync(next)

	ctx, cancel := context.WithCancel(context.Background())
	for range 5 {
		a.Notify(ctx, notify.Event{Kind: notify.KindReminder})
	}
	cancel()

	a.Close()

	assert.Len(t, next.kinds, 5)
}
