package status

import "sync"

// Dispatcher is a small in-process pub/sub channel keyed by device address.
// The aggregator sends one signal per published snapshot; derived-metric
// consumers subscribe and recompute on every signal. Signals carry no
// payload, the snapshot itself lives in the slot.
type Dispatcher struct {
	mu   sync.Mutex
	subs map[string]map[int]chan struct{}
	next int
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{subs: make(map[string]map[int]chan struct{})}
}

// Subscribe registers for signals on key and returns the signal channel
// plus an unsubscribe function. The channel has a buffer of one; a
// consumer that lags coalesces signals instead of blocking the sender.
func (d *Dispatcher) Subscribe(key string) (<-chan struct{}, func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.subs[key] == nil {
		d.subs[key] = make(map[int]chan struct{})
	}
	id := d.next
	d.next++

	ch := make(chan struct{}, 1)
	d.subs[key][id] = ch

	unsubscribe := func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if subs, ok := d.subs[key]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(d.subs, key)
			}
		}
	}
	return ch, unsubscribe
}

// Send notifies every subscriber of key without blocking.
func (d *Dispatcher) Send(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, ch := range d.subs[key] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
