package surface

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-orderentry/pkg/template"
)

// Dispatcher mounts the right entry surface for a template and owns the
// swap: mounting a new template always closes the previous surface first, so
// no working state survives a template switch.
type Dispatcher struct {
	mu       sync.Mutex
	registry *Registry
	current  Surface
	template template.Template
	mounted  bool
}

// DispatcherOption customises dispatcher construction.
type DispatcherOption func(*Dispatcher)

// WithRegistry replaces the default surface registry.
func WithRegistry(registry *Registry) DispatcherOption {
	return func(d *Dispatcher) {
		if registry != nil {
			d.registry = registry
		}
	}
}

// NewDispatcher constructs a dispatcher backed by the built-in registry
// unless one is injected.
func NewDispatcher(options ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	if d.registry == nil {
		d.registry = DefaultRegistry()
	}
	return d
}

// Mount resolves the template's surface kind, discards any currently mounted
// surface, and creates a fresh one. Re-mounting the same template also
// produces fresh state.
func (d *Dispatcher) Mount(t template.Template) (Surface, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	kind := Resolve(t)
	factory, err := d.registry.Get(kind)
	if err != nil {
		return nil, err
	}

	d.closeCurrentLocked()

	created, err := factory(t)
	if err != nil {
		return nil, fmt.Errorf("surface: mount %q template %q: %w", kind, t.ID, err)
	}
	d.current = created
	d.template = t
	d.mounted = true
	return created, nil
}

// Current returns the mounted surface, if any.
func (d *Dispatcher) Current() (Surface, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current, d.mounted
}

// Template returns the template backing the mounted surface.
func (d *Dispatcher) Template() (template.Template, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.template, d.mounted
}

// Unmount discards the mounted surface and its working state.
func (d *Dispatcher) Unmount() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeCurrentLocked()
}

func (d *Dispatcher) closeCurrentLocked() {
	if d.current != nil {
		_ = d.current.Close()
	}
	d.current = nil
	d.template = template.Template{}
	d.mounted = false
}
