package farol

import (
	"sync"

	"github.com/agentstation/farol/pkg/changeset"
)

// Hook function types for run events
type (
	// IncludedHook is called for each include directive once its batch is committed
	IncludedHook func(directive changeset.IncludeDirective)

	// ExcludedHook is called for each exclude directive once its batch is committed
	ExcludedHook func(directive changeset.ExcludeDirective)

	// DeliveredHook is called after a batch file was imported by the target system
	DeliveredHook func(kind changeset.Kind, path string)
)

// hooks manages event callbacks for committed runs
type hooks struct {
	mu          sync.RWMutex
	onIncluded  []IncludedHook
	onExcluded  []ExcludedHook
	onDelivered []DeliveredHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnIncluded registers a callback for committed include directives
func (f *farol) OnIncluded(fn IncludedHook) {
	f.hooks.mu.Lock()
	defer f.hooks.mu.Unlock()
	f.hooks.onIncluded = append(f.hooks.onIncluded, fn)
}

// OnExcluded registers a callback for committed exclude directives
func (f *farol) OnExcluded(fn ExcludedHook) {
	f.hooks.mu.Lock()
	defer f.hooks.mu.Unlock()
	f.hooks.onExcluded = append(f.hooks.onExcluded, fn)
}

// OnDelivered registers a callback for delivered batches
func (f *farol) OnDelivered(fn DeliveredHook) {
	f.hooks.mu.Lock()
	defer f.hooks.mu.Unlock()
	f.hooks.onDelivered = append(f.hooks.onDelivered, fn)
}

// triggerCommitted fires the directive hooks for a committed changeset
func (h *hooks) triggerCommitted(c *changeset.Changeset) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, d := range c.Include {
		for _, hook := range h.onIncluded {
			hook(d)
		}
	}
	for _, d := range c.Exclude {
		for _, hook := range h.onExcluded {
			hook(d)
		}
	}
}

// triggerDelivered fires the delivery hooks
func (h *hooks) triggerDelivered(kind changeset.Kind, path string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, hook := range h.onDelivered {
		hook(kind, path)
	}
}
