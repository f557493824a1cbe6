package chat

import "sync"

// Notifier fans a change signal out to subscribers. Signals are
// edge-triggered and coalescing: a subscriber that hasn't drained its
// channel yet gets no duplicate, which is enough for "something changed,
// re-fetch" consumers.
type Notifier struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{
		subs: make(map[chan struct{}]struct{}),
	}
}

// Subscribe registers a new subscriber. The cancel func must be called
// when the subscriber goes away; it is safe to call more than once.
func (n *Notifier) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		delete(n.subs, ch)
		n.mu.Unlock()
	}

	return ch, cancel
}

// Broadcast signals every subscriber without blocking. A subscriber with
// a pending signal is skipped.
func (n *Notifier) Broadcast() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
