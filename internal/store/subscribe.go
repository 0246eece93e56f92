package store

import (
	"sync"

	"github.com/lfreitas/redator/internal/correction"
)

// subscriptionHub fans record snapshots out to live subscribers. Each
// subscriber gets its own delivery goroutine so snapshots arrive in
// order without blocking the writer.
type subscriptionHub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]*subscriber // ownerID → subscription ID → subscriber
}

type subscriber struct {
	ch       chan []correction.Record
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

func newSubscriptionHub() *subscriptionHub {
	return &subscriptionHub{subs: make(map[string]map[int]*subscriber)}
}

// subscribe registers onChange for the owner, queues the initial snapshot,
// and returns a cancel function. Cancel joins the delivery goroutine, so
// once it returns onChange is not running and is never invoked again.
// Because of the join, cancel must not be called from inside onChange.
func (h *subscriptionHub) subscribe(ownerID string, onChange func([]correction.Record), initial []correction.Record) func() {
	sub := &subscriber{
		ch:      make(chan []correction.Record, 16),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	if h.subs[ownerID] == nil {
		h.subs[ownerID] = make(map[int]*subscriber)
	}
	h.subs[ownerID][id] = sub
	h.mu.Unlock()

	go sub.run(onChange)
	sub.push(initial)

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[ownerID], id)
			h.mu.Unlock()
			sub.stop()
			<-sub.stopped
		})
	}
}

// broadcast queues a snapshot for every live subscriber of the owner.
func (h *subscriptionHub) broadcast(ownerID string, snap []correction.Record) {
	h.mu.Lock()
	targets := make([]*subscriber, 0, len(h.subs[ownerID]))
	for _, sub := range h.subs[ownerID] {
		targets = append(targets, sub)
	}
	h.mu.Unlock()

	for _, sub := range targets {
		sub.push(snap)
	}
}

// closeAll cancels every subscription and waits for in-flight deliveries
// to finish. Used on store close.
func (h *subscriptionHub) closeAll() {
	h.mu.Lock()
	var all []*subscriber
	for _, owner := range h.subs {
		for id, sub := range owner {
			sub.stop()
			delete(owner, id)
			all = append(all, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range all {
		<-sub.stopped
	}
}

func (s *subscriber) run(onChange func([]correction.Record)) {
	defer close(s.stopped)
	for {
		select {
		case <-s.done:
			return
		case snap := <-s.ch:
			// Re-check cancellation so a queued snapshot is not delivered
			// after cancel.
			select {
			case <-s.done:
				return
			default:
			}
			onChange(snap)
		}
	}
}

func (s *subscriber) stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

func (s *subscriber) push(snap []correction.Record) {
	select {
	case s.ch <- snap:
	case <-s.done:
	}
}
