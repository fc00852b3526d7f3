package suggest

import (
	"sync"
	"time"
)

// DefaultDebounce is the settle delay between the last keystroke and recomputation.
const DefaultDebounce = 100 * time.Millisecond

// Debouncer coalesces bursts of input into one call made delay after the last
// Push. Only the latest text is delivered; superseded pushes are dropped.
// It sits in front of Session.UpdateQuery, which itself stays synchronous.
type Debouncer struct {
	delay   time.Duration
	fn      func(text string)
	mu      sync.Mutex
	timer   *time.Timer
	pending string
	waiting bool
	gen     uint64
	stopped bool
}

// NewDebouncer calls fn with the settled text. delay <= 0 means DefaultDebounce.
func NewDebouncer(delay time.Duration, fn func(text string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Push records text and restarts the settle timer.
func (d *Debouncer) Push(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.gen++
	d.pending = text
	d.waiting = true
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(gen)
	})
}

// Flush delivers the pending text now, if any.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	gen := d.gen
	d.mu.Unlock()
	d.fire(gen)
}

// Stop cancels any pending delivery and ignores later pushes.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.stopped || !d.waiting {
		d.mu.Unlock()
		return
	}
	d.waiting = false
	text := d.pending
	d.mu.Unlock()

	d.fn(text)
}
