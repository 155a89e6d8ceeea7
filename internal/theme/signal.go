package theme

import "sync"

// Source is the ambient "dark theme active" flag as seen by the bridge.
// Subscribe registers fn for change notifications and returns its unregister func.
type Source interface {
	Dark() bool
	Subscribe(fn func(dark bool)) (unsubscribe func())
}

// Signal is an observable boolean owned by the presentation layer. Listeners
// are notified synchronously, outside the lock, and only when the value changes.
type Signal struct {
	mu        sync.Mutex
	dark      bool
	nextID    int
	listeners map[int]func(bool)
}

// NewSignal returns a Signal starting at dark.
func NewSignal(dark bool) *Signal {
	return &Signal{
		dark:      dark,
		listeners: make(map[int]func(bool)),
	}
}

// Dark reports the current value.
func (s *Signal) Dark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dark
}

// Set changes the value and notifies listeners if it actually changed.
func (s *Signal) Set(dark bool) {
	s.mu.Lock()
	if s.dark == dark {
		s.mu.Unlock()
		return
	}
	s.dark = dark
	fns := make([]func(bool), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(dark)
	}
}

// Toggle flips the value and returns the new one.
func (s *Signal) Toggle() bool {
	s.mu.Lock()
	next := !s.dark
	s.mu.Unlock()
	s.Set(next)
	return next
}

// Subscribe registers fn. The returned func unregisters it and is safe to call twice.
func (s *Signal) Subscribe(fn func(dark bool)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Listeners returns the number of registered listeners.
func (s *Signal) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// ToggleLabel is the caption of the control that flips the theme: it names
// the mode a press switches to.
func ToggleLabel(dark bool) string {
	if dark {
		return "LIGHT MODE"
	}
	return "DARK MODE"
}
