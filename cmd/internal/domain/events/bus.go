package events

import (
	"context"
	"sync"

	"github.com/labstack/gommon/log"
)

// Handler consumes one event. Returned errors are logged, never retried.
type Handler func(ctx context.Context, evt Event) error

// Bus is an in-process publisher. Publishers never wait on handlers when the bus
// is asynchronous, so a slow or failing consumer cannot affect the caller.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	async    bool
	wg       sync.WaitGroup
}

func NewBus(async bool) *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
		async:    async,
	}
}

func (b *Bus) Subscribe(t EventType, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

func (b *Bus) Publish(ctx context.Context, evt Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[evt.GetType()]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		log.Debugf("event %s has no subscribers", evt.GetType())
		return
	}

	if !b.async {
		deliver(ctx, evt, handlers)
		return
	}

	// The request that triggered the event may be gone by the time we deliver it.
	detached := context.WithoutCancel(ctx)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		deliver(detached, evt, handlers)
	}()
}

// Wait blocks until every in-flight asynchronous delivery has finished.
func (b *Bus) Wait() {
	b.wg.Wait()
}

func deliver(ctx context.Context, evt Event, handlers []Handler) {
	for _, h := range handlers {
		if err := h(ctx, evt); err != nil {
			log.Errorf("event %s: handler failed: %v", evt.GetType(), err)
		}
	}
}
