package feedback

import "sync"

// Loader counts outstanding requests and keeps the indicator visible until the last
// one finishes.
type Loader struct {
	mu      sync.Mutex
	pending int
	set     func(bool)
}

// NewLoader wires a loader to the indicator toggle.
func NewLoader(set func(visible bool)) *Loader {
	return &Loader{set: set}
}

// Show registers one outstanding request.
func (l *Loader) Show() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending++
	if l.pending == 1 && l.set != nil {
		l.set(true)
	}
}

// Hide releases one outstanding request. Extra calls are ignored.
func (l *Loader) Hide() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending == 0 {
		return
	}
	l.pending--
	if l.pending == 0 && l.set != nil {
		l.set(false)
	}
}

// Pending returns the number of outstanding requests.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}
