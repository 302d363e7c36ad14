package shadow

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	// ErrDuplicateComponent is returned by Registry.Register if a component of
	// the same name was already registered.
	ErrDuplicateComponent = errors.New(`shadow: duplicate component`)

	// ErrInvalidComponent is returned by Registry.Register for invalid names.
	ErrInvalidComponent = errors.New(`shadow: invalid component`)
)

type (
	// Registry is a set of component kinds, and the source of family
	// identities, for any number of surfaces. Instances must be initialized
	// using NewRegistry, and are safe for concurrent use.
	Registry struct {
		dispatcher  EventDispatcher
		descriptors map[ComponentName]*ComponentDescriptor
		handles     []*ComponentDescriptor
		mu          sync.RWMutex
		families    atomic.Uint64
	}

	// ComponentDescriptor is the operation table for one component kind,
	// providing family and node construction. Instances are created by
	// Registry.Register.
	ComponentDescriptor struct {
		registry *Registry
		name     ComponentName
		handle   ComponentHandle
		traits   Traits
	}

	// RegistryOption configures a Registry.
	RegistryOption interface {
		applyRegistry(*Registry) error
	}

	registryOptionImpl struct {
		applyRegistryFunc func(*Registry) error
	}
)

func (x *registryOptionImpl) applyRegistry(r *Registry) error {
	return x.applyRegistryFunc(r)
}

// WithEventDispatcher attaches a dispatcher to every EventEmitter created by
// the registry's component descriptors.
func WithEventDispatcher(dispatcher EventDispatcher) RegistryOption {
	return &registryOptionImpl{func(r *Registry) error {
		r.dispatcher = dispatcher
		return nil
	}}
}

// NewRegistry initializes a new, empty Registry.
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		descriptors: make(map[ComponentName]*ComponentDescriptor),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyRegistry(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a component kind, with the given default traits.
func (x *Registry) Register(name ComponentName, traits Traits) (*ComponentDescriptor, error) {
	if name == `` {
		return nil, fmt.Errorf(`%w: empty name`, ErrInvalidComponent)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if _, ok := x.descriptors[name]; ok {
		return nil, fmt.Errorf(`%w: %q`, ErrDuplicateComponent, name)
	}

	d := &ComponentDescriptor{
		registry: x,
		name:     name,
		handle:   ComponentHandle(len(x.handles) + 1),
		traits:   traits,
	}
	x.descriptors[name] = d
	x.handles = append(x.handles, d)
	return d, nil
}

// MustRegister is like Register, but panics on error.
func (x *Registry) MustRegister(name ComponentName, traits Traits) *ComponentDescriptor {
	d, err := x.Register(name, traits)
	if err != nil {
		panic(err)
	}
	return d
}

// Lookup returns the descriptor registered under name.
func (x *Registry) Lookup(name ComponentName) (*ComponentDescriptor, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	d, ok := x.descriptors[name]
	return d, ok
}

// Descriptor returns the descriptor for a handle, or nil if unknown.
func (x *Registry) Descriptor(handle ComponentHandle) *ComponentDescriptor {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if handle <= 0 || int(handle) > len(x.handles) {
		return nil
	}
	return x.handles[handle-1]
}

// Name returns the component name.
func (x *ComponentDescriptor) Name() ComponentName { return x.name }

// Handle returns the component handle.
func (x *ComponentDescriptor) Handle() ComponentHandle { return x.handle }

// Traits returns the default traits of nodes created by this descriptor.
func (x *ComponentDescriptor) Traits() Traits { return x.traits }

// NewFamily allocates a new, unique family, for a logical instance of this
// component on the given surface.
func (x *ComponentDescriptor) NewFamily(surface SurfaceID, tag Tag) Family {
	return Family{
		id:        x.registry.families.Add(1),
		surface:   surface,
		tag:       tag,
		component: x.handle,
	}
}

// CreateEventEmitter creates an emitter for family, bound to the registry's
// dispatcher, if any.
func (x *ComponentDescriptor) CreateEventEmitter(family Family) *EventEmitter {
	return &EventEmitter{
		dispatcher: x.registry.dispatcher,
		family:     family,
	}
}

// CreateNode creates a new, unsealed node. The fragment provides the initial
// values, where a nil Traits defaults to the descriptor's traits, and a nil
// EventEmitter defaults to a new emitter. A panic will occur if family is
// invalid, or belongs to a different component.
func (x *ComponentDescriptor) CreateNode(family Family, fragment Fragment) *Node {
	if family.IsZero() {
		panic(`shadow: invalid family`)
	}
	if family.component != x.handle {
		panic(`shadow: family belongs to a different component`)
	}

	n := &Node{
		family:       family,
		descriptor:   x,
		props:        fragment.Props,
		state:        fragment.State,
		eventEmitter: fragment.EventEmitter,
		traits:       x.traits,
	}
	if n.eventEmitter == nil {
		n.eventEmitter = x.CreateEventEmitter(family)
	}
	if fragment.Traits != nil {
		n.traits = *fragment.Traits
	}
	if fragment.LayoutMetrics != nil {
		n.layoutMetrics = *fragment.LayoutMetrics
	}
	if fragment.OrderIndex != nil {
		n.orderIndex = *fragment.OrderIndex
	}
	if len(fragment.Children) != 0 {
		n.children = append([]*Node(nil), fragment.Children...)
	}
	return n
}
