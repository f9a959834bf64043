package watch

import (
	"sync"
	"time"
)

// Debouncer collapses a burst of Trigger calls into one request, delivered
// on C once no Trigger has happened for the debounce interval. At most one
// request is ever pending.
type Debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
	req   chan struct{}
}

// NewDebouncer returns a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay, req: make(chan struct{}, 1)}
}

// C delivers debounced requests.
func (d *Debouncer) C() <-chan struct{} { return d.req }

// Trigger (re)starts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.Fire)
}

// Fire queues a request immediately unless one is already pending.
func (d *Debouncer) Fire() {
	select {
	case d.req <- struct{}{}:
	default:
	}
}

// Stop cancels a pending quiet period.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
