// Package theme turns the ambient light/dark flag into the color bundle the
// forecast chart is drawn with.
package theme

import (
	"sync"

	"github.com/i474232898/weather-lookup/internal/logging"
	"github.com/i474232898/weather-lookup/internal/metrics"
)

// StyleParameters is the derived chart style. It is recomputed, never persisted.
type StyleParameters struct {
	Dark        bool   `json:"dark"`
	TextColor   string `json:"textColor"`
	GridColor   string `json:"gridColor"`
	BorderColor string `json:"borderColor"`
	LineColor   string `json:"lineColor"`
}

// Compute resolves every token for the given theme. It is deterministic:
// the same resolver and flag always yield the same bundle.
func Compute(res Resolver, dark bool) StyleParameters {
	return StyleParameters{
		Dark:        dark,
		TextColor:   res.Resolve(dark, TokenText),
		GridColor:   res.Resolve(dark, TokenGrid),
		BorderColor: res.Resolve(dark, TokenBorder),
		LineColor:   res.Resolve(dark, TokenLine),
	}
}

// Bridge keeps StyleParameters in step with a Source. It is the only writer of
// the bundle; consumers read it with Params or get pushed updates via OnChange.
type Bridge struct {
	src Source
	res Resolver

	mu          sync.RWMutex
	params      StyleParameters
	started     bool
	unsubscribe func()
	nextID      int
	consumers   map[int]func(StyleParameters)
}

// NewBridge creates a bridge. A nil resolver selects DefaultPalette.
func NewBridge(src Source, res Resolver) *Bridge {
	if res == nil {
		res = DefaultPalette
	}
	return &Bridge{
		src:       src,
		res:       res,
		consumers: make(map[int]func(StyleParameters)),
	}
}

// Start computes the bundle once and subscribes to the source. Calling it
// again while started does nothing.
func (b *Bridge) Start() {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return
	}
	b.started = true
	b.mu.Unlock()

	b.apply(b.src.Dark())
	unsubscribe := b.src.Subscribe(b.apply)

	b.mu.Lock()
	b.unsubscribe = unsubscribe
	b.mu.Unlock()
}

// Close unregisters from the source. The last bundle stays readable.
func (b *Bridge) Close() {
	b.mu.Lock()
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.started = false
	b.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Params returns the current bundle.
func (b *Bridge) Params() StyleParameters {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.params
}

// OnChange registers fn to receive every new bundle. The returned func unregisters it.
func (b *Bridge) OnChange(fn func(StyleParameters)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.consumers[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.consumers, id)
		b.mu.Unlock()
	}
}

// apply replaces the whole bundle, never merging with the previous one.
func (b *Bridge) apply(dark bool) {
	next := Compute(b.res, dark)

	b.mu.Lock()
	b.params = next
	fns := make([]func(StyleParameters), 0, len(b.consumers))
	for _, fn := range b.consumers {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	metrics.ThemeRecomputes.Inc()
	logging.Debug("chart style recomputed", "dark", dark)

	for _, fn := range fns {
		fn(next)
	}
}
