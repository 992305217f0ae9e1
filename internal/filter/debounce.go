package filter

import (
	"sync"
	"time"
)

// Debouncer collapses bursts of calls into one trailing call carrying the
// arguments of the last call in the burst.
type Debouncer[T any] struct {
	wait time.Duration
	fn   func(T)

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	last    T
	seq     uint64
}

// Debounce wraps fn so that it runs once wait has passed without another Call.
func Debounce[T any](wait time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{wait: wait, fn: fn}
}

// Call records arg and (re)starts the quiet-period timer.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.last = arg
	d.pending = true
	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() { d.fire(seq) })
}

// fire runs fn unless a later Call, Stop or Flush superseded this timer.
func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	if !d.pending || seq != d.seq {
		d.mu.Unlock()
		return
	}
	arg := d.last
	d.pending = false
	d.mu.Unlock()

	d.fn(arg)
}

// Flush runs a pending call immediately. It returns false when nothing was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	arg := d.last
	d.pending = false
	d.seq++
	d.mu.Unlock()

	d.fn(arg)
	return true
}

// Stop drops a pending call without running it.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = false
	d.seq++
}
