package backend

import (
	"context"
	"sync"

	"github.com/ckgxrg/dwsh/events"
	"github.com/ckgxrg/dwsh/logger"
)

type subscriber struct {
	filter func(events.Event) bool
}

// Broadcaster fans out events from a single upstream channel to all subscribers.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[chan events.Event]subscriber
}

// NewBroadcaster starts a broadcaster that reads from upstream and fans out to
// all subscribers. It stops when ctx is cancelled or upstream is closed.
func NewBroadcaster(ctx context.Context, upstream <-chan events.Event) *Broadcaster {
	b := &Broadcaster{
		clients: make(map[chan events.Event]subscriber),
	}
	go b.run(ctx, upstream)
	return b
}

// SubscribeFunc registers a subscriber receiving only the events accepted by
// filter. A nil filter accepts everything. The channel is buffered (32).
func (b *Broadcaster) SubscribeFunc(filter func(events.Event) bool) chan events.Event {
	ch := make(chan events.Event, 32)
	b.mu.Lock()
	b.clients[ch] = subscriber{filter: filter}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel. Unknown channels
// are ignored.
func (b *Broadcaster) Unsubscribe(ch chan events.Event) {
	b.mu.Lock()
	_, ok := b.clients[ch]
	delete(b.clients, ch)
	b.mu.Unlock()
	if ok {
		close(ch)
	}
}

// Subscribers returns the number of registered subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func (b *Broadcaster) broadcast(e events.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch, sub := range b.clients {
		if sub.filter != nil && !sub.filter(e) {
			continue
		}
		select {
		case ch <- e:
		default:
			logger.Warn("[api] client channel full, dropping %s event", e.Type)
		}
	}
}

func (b *Broadcaster) run(ctx context.Context, upstream <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-upstream:
			if !ok {
				return
			}
			b.broadcast(e)
		}
	}
}
