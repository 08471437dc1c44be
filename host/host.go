package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/a-h/templ"
	"github.com/joy-dx/goajax/dto"
)

var (
	ErrNotInstalled     = errors.New("host: request dispatcher not installed")
	ErrUnknownComponent = errors.New("host: unknown component")
)

// Dispatcher is the request entry point exposed to host components.
type Dispatcher func(ctx context.Context, cfg *dto.RequestConfig) (dto.Response, error)

// Lifecycle is the mixin applied to every host instance.
type Lifecycle struct {
	Created func()
	Mounted func()
}

// Resolver produces a component template on first render.
type Resolver func() (string, error)

// Host is the UI framework the request core installs itself into.
type Host interface {
	Install(dispatch Dispatcher, mixin Lifecycle) error
	RegisterComponent(name string, resolve Resolver) error
	// Bind points slot at a registered component; an empty name unbinds it.
	Bind(slot, component string)
}

type Binding struct {
	Slot      string
	Component string
}

// Registry is a Host rendering registered templates as templ components.
type Registry struct {
	mu         sync.RWMutex
	dispatch   Dispatcher
	mixins     []Lifecycle
	components map[string]Resolver
	resolved   map[string]string
	bindings   map[string]string
	binds      []Binding
}

func NewRegistry() *Registry {
	return &Registry{
		components: make(map[string]Resolver),
		resolved:   make(map[string]string),
		bindings:   make(map[string]string),
	}
}

func (r *Registry) Install(dispatch Dispatcher, mixin Lifecycle) error {
	if dispatch == nil {
		return fmt.Errorf("install: %w", ErrNotInstalled)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatch = dispatch
	r.mixins = append(r.mixins, mixin)
	return nil
}

// Mount runs the created then mounted hook of every installed mixin.
func (r *Registry) Mount() {
	r.mu.RLock()
	mixins := append([]Lifecycle(nil), r.mixins...)
	r.mu.RUnlock()

	for _, m := range mixins {
		if m.Created != nil {
			m.Created()
		}
	}
	for _, m := range mixins {
		if m.Mounted != nil {
			m.Mounted()
		}
	}
}

// Dispatch forwards a request through the installed dispatcher.
func (r *Registry) Dispatch(ctx context.Context, cfg *dto.RequestConfig) (dto.Response, error) {
	r.mu.RLock()
	dispatch := r.dispatch
	r.mu.RUnlock()
	if dispatch == nil {
		return dto.Response{}, ErrNotInstalled
	}
	return dispatch(ctx, cfg)
}

// RegisterComponent replaces any component of the same name and drops its
// resolved template.
func (r *Registry) RegisterComponent(name string, resolve Resolver) error {
	if name == "" || resolve == nil {
		return fmt.Errorf("register %q: %w", name, ErrUnknownComponent)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[name] = resolve
	delete(r.resolved, name)
	return nil
}

func (r *Registry) Bind(slot, component string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if component == "" {
		delete(r.bindings, slot)
	} else {
		r.bindings[slot] = component
	}
	r.binds = append(r.binds, Binding{Slot: slot, Component: component})
}

// Bound returns the component currently bound to slot.
func (r *Registry) Bound(slot string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bindings[slot]
}

// Binds returns every Bind call in order.
func (r *Registry) Binds() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Binding(nil), r.binds...)
}

// Template resolves a component once and caches the result.
func (r *Registry) Template(name string) (string, error) {
	r.mu.RLock()
	tpl, ok := r.resolved[name]
	resolve := r.components[name]
	r.mu.RUnlock()
	if ok {
		return tpl, nil
	}
	if resolve == nil {
		return "", fmt.Errorf("%q: %w", name, ErrUnknownComponent)
	}

	tpl, err := resolve()
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", name, err)
	}
	r.mu.Lock()
	r.resolved[name] = tpl
	r.mu.Unlock()
	return tpl, nil
}

// Render renders whatever is bound to slot. An unbound slot renders nothing.
func (r *Registry) Render(slot string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		name := r.Bound(slot)
		if name == "" {
			return nil
		}
		tpl, err := r.Template(name)
		if err != nil {
			return err
		}
		return templ.Raw(tpl).Render(ctx, w)
	})
}
