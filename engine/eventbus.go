package engine

import (
	"sync"
	"time"
)

// SubscriberID identifies a bus subscription for later removal.
type SubscriberID uint64

// SubscriberFunc receives events on the emitting goroutine.
type SubscriberFunc func(Event)

type subscription struct {
	id    SubscriberID
	types []EventType // empty means every type
	fn    SubscriberFunc
}

func (s *subscription) wants(t EventType) bool {
	if len(s.types) == 0 {
		return true
	}
	for _, want := range s.types {
		if want == t {
			return true
		}
	}
	return false
}

// EventBus delivers engine events synchronously, in subscription order.
// With a handful of subscribers and five event types a linear scan is
// all the routing needed.
type EventBus struct {
	mu   sync.RWMutex
	next SubscriberID
	subs []*subscription
}

func NewEventBus() *EventBus {
	return &EventBus{}
}

func (eb *EventBus) add(fn SubscriberFunc, types []EventType) SubscriberID {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.next++
	eb.subs = append(eb.subs, &subscription{id: eb.next, types: types, fn: fn})
	return eb.next
}

// Subscribe registers fn for every event type.
func (eb *EventBus) Subscribe(fn SubscriberFunc) SubscriberID {
	return eb.add(fn, nil)
}

// SubscribeTypes registers fn for the listed event types only.
func (eb *EventBus) SubscribeTypes(fn SubscriberFunc, types ...EventType) SubscriberID {
	return eb.add(fn, types)
}

// Unsubscribe drops a subscription. Unknown IDs are a no-op.
func (eb *EventBus) Unsubscribe(id SubscriberID) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	for i, s := range eb.subs {
		if s.id == id {
			eb.subs = append(eb.subs[:i], eb.subs[i+1:]...)
			return
		}
	}
}

// Emit stamps evt and hands it to every matching subscriber before
// returning.
func (eb *EventBus) Emit(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	eb.mu.RLock()
	subs := append([]*subscription(nil), eb.subs...)
	eb.mu.RUnlock()

	for _, s := range subs {
		if s.wants(evt.Type) {
			s.fn(evt)
		}
	}
}
