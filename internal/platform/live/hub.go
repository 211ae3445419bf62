// Package live turns point-in-time queries into change-driven streams.
//
// A Hub carries table-level change notifications from writers to readers.
// Query re-runs a load function whenever one of its topics changes, Combine3
// joins three streams positionally, and SwitchLatest keeps exactly one live
// subscription per logical slot.
package live

import "sync"

// Hub fans out change notifications by topic. Publishing never blocks: each
// subscriber holds at most one pending signal, so a burst of writes collapses
// into a single reload.
type Hub struct {
	mu   sync.Mutex
	subs map[*subscription]struct{}
}

type subscription struct {
	topics map[string]struct{}
	ch     chan struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*subscription]struct{})}
}

// Subscribe registers interest in topics (all topics when none are given).
// The returned function releases the subscription.
func (h *Hub) Subscribe(topics ...string) (<-chan struct{}, func()) {
	sub := &subscription{ch: make(chan struct{}, 1)}
	if len(topics) > 0 {
		sub.topics = make(map[string]struct{}, len(topics))
		for _, t := range topics {
			sub.topics[t] = struct{}{}
		}
	}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, sub)
			h.mu.Unlock()
		})
	}
}

// Publish signals every subscriber interested in any of topics. Publishing
// with no topics invalidates every subscriber.
func (h *Hub) Publish(topics ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		if !sub.matches(topics) {
			continue
		}
		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers reports the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (s *subscription) matches(topics []string) bool {
	if len(topics) == 0 || len(s.topics) == 0 {
		return true
	}
	for _, t := range topics {
		if _, ok := s.topics[t]; ok {
			return true
		}
	}
	return false
}
