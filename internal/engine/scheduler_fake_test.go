package engine

import (
	"sync"
	"time"
)

// fakeScheduler captures armed callbacks instead of firing them on a real
// clock, so tests can simulate timer expiry deterministically.
type fakeScheduler struct {
	mu        sync.Mutex
	callbacks map[string]func()
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{callbacks: make(map[string]func())}
}

func (f *fakeScheduler) Arm(id string, deadline time.Time, callback func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callbacks[id] = callback
}

func (f *fakeScheduler) Cancel(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.callbacks, id)
}

// fire invokes the callback armed under id, if any is still pending.
func (f *fakeScheduler) fire(id string) {
	f.mu.Lock()
	cb := f.callbacks[id]
	f.mu.Unlock()
	if cb != nil {
		cb()
	}
}
