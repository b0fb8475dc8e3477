// Package poll keeps local snapshots of remote, authoritative resources in
// sync via fire-and-forget fetches and an optional fixed-period ticker.
package poll

import (
	"log"
	"sync"
	"time"
)

// Status is the lifecycle state of a monitored resource.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusFetching Status = "fetching"
	StatusReady    Status = "ready"
	StatusError    Status = "error"
)

// FetchFunc retrieves one full snapshot of a resource.
type FetchFunc[T any] func() (T, error)

// Resource owns one polled snapshot. Snapshots are replaced wholesale on
// success; a failed fetch records the message but keeps the previous snapshot
// on display. Overlapping fetches proceed independently and the later
// completion wins; there is no cancellation or request sequencing token.
type Resource[T any] struct {
	name     string
	fetch    FetchFunc[T]
	onChange func()

	mu        sync.Mutex
	status    Status
	snapshot  T
	hasData   bool
	lastErr   string
	updatedAt time.Time
	inFlight  int

	autoMu   sync.Mutex
	autoStop chan struct{}
}

func NewResource[T any](name string, fetch FetchFunc[T]) *Resource[T] {
	return &Resource[T]{
		name:   name,
		fetch:  fetch,
		status: StatusIdle,
	}
}

// OnChange registers a callback invoked after every completed fetch, success
// or failure. Must be set before the first trigger.
func (r *Resource[T]) OnChange(fn func()) {
	r.onChange = fn
}

// Refresh starts one fetch cycle and returns immediately.
func (r *Resource[T]) Refresh() {
	go r.doFetch()
}

func (r *Resource[T]) doFetch() {
	r.mu.Lock()
	r.status = StatusFetching
	r.inFlight++
	r.mu.Unlock()

	snap, err := r.fetch()

	r.mu.Lock()
	r.inFlight--
	if err != nil {
		log.Printf("poll: %s: %v", r.name, err)
		r.lastErr = err.Error()
		if r.inFlight == 0 {
			r.status = StatusError
		}
	} else {
		r.snapshot = snap
		r.hasData = true
		r.updatedAt = time.Now()
		r.lastErr = ""
		if r.inFlight == 0 {
			r.status = StatusReady
		}
	}
	r.mu.Unlock()

	if r.onChange != nil {
		r.onChange()
	}
}

// Snapshot returns the last successful snapshot, if any.
func (r *Resource[T]) Snapshot() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot, r.hasData
}

// Status returns the current state of the resource.
func (r *Resource[T]) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// LastError returns the most recent failure message, cleared on success.
func (r *Resource[T]) LastError() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// UpdatedAt returns when the snapshot was last replaced.
func (r *Resource[T]) UpdatedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updatedAt
}

// StartAuto arms the auto-refresh ticker. Any previously armed ticker is
// cancelled first, so toggling never accumulates timers.
func (r *Resource[T]) StartAuto(interval time.Duration) {
	r.autoMu.Lock()
	defer r.autoMu.Unlock()
	if r.autoStop != nil {
		close(r.autoStop)
	}
	stop := make(chan struct{})
	r.autoStop = stop

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				r.Refresh()
			}
		}
	}()
}

// StopAuto cancels the auto-refresh ticker. No further timer-triggered
// fetches occur until StartAuto is called again.
func (r *Resource[T]) StopAuto() {
	r.autoMu.Lock()
	defer r.autoMu.Unlock()
	if r.autoStop != nil {
		close(r.autoStop)
		r.autoStop = nil
	}
}

// AutoActive reports whether the auto-refresh ticker is armed.
func (r *Resource[T]) AutoActive() bool {
	r.autoMu.Lock()
	defer r.autoMu.Unlock()
	return r.autoStop != nil
}
