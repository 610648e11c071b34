package events

import (
	"context"
	"sync"

	applog "shopfront/internal/log"
)

// Broker fans events out to in-process subscribers such as SSE streams.
// A subscriber whose buffer is full misses the event; Publish never blocks.
type Broker struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	buf    int
}

var _ Publisher = (*Broker)(nil)

func NewBroker(buffer int) *Broker {
	if buffer < 1 {
		buffer = 1
	}
	return &Broker{subs: map[int]chan Event{}, buf: buffer}
}

// Subscribe registers a new subscriber. cancel unregisters it and closes
// the channel; it is safe to call more than once.
func (b *Broker) Subscribe() (events <-chan Event, cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan Event, b.buf)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Broker) Publish(_ context.Context, e Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			applog.Warn(nil, "events.subscriber.drop", map[string]any{"subscriber": id, "event": e.ID, "type": e.Type})
		}
	}
	return nil
}
