package shadow

import (
	"sync/atomic"
)

type (
	// Node is an immutable (once sealed), persistent tree node, representing
	// one rendered component instance at a point in time. New versions are
	// produced by cloning, which reuses unchanged attributes and children by
	// reference.
	//
	// Nodes must be created via ComponentDescriptor.CreateNode, or cloned from
	// an existing node.
	Node struct {
		props         Props
		state         State
		eventEmitter  *EventEmitter
		descriptor    *ComponentDescriptor
		children      []*Node
		family        Family
		layoutMetrics LayoutMetrics
		orderIndex    int
		traits        Traits
		sealed        atomic.Bool
	}

	// Fragment holds the attributes to set when creating or cloning a node.
	// For cloning, nil (or zero) fields are inherited from the source node. A
	// nil Children inherits, while a non-nil, empty slice sets no children.
	Fragment struct {
		Props         Props
		State         State
		EventEmitter  *EventEmitter
		LayoutMetrics *LayoutMetrics
		OrderIndex    *int
		Traits        *Traits
		Children      []*Node
	}
)

// Clone returns a new, unsealed node of the same family, with the fragment
// applied over the receiver's attributes.
func (x *Node) Clone(fragment Fragment) *Node {
	n := &Node{
		props:         x.props,
		state:         x.state,
		eventEmitter:  x.eventEmitter,
		descriptor:    x.descriptor,
		children:      x.children[:len(x.children):len(x.children)],
		family:        x.family,
		layoutMetrics: x.layoutMetrics,
		orderIndex:    x.orderIndex,
		traits:        x.traits,
	}
	if fragment.Props != nil {
		n.props = fragment.Props
	}
	if fragment.State != nil {
		n.state = fragment.State
	}
	if fragment.EventEmitter != nil {
		n.eventEmitter = fragment.EventEmitter
	}
	if fragment.LayoutMetrics != nil {
		n.layoutMetrics = *fragment.LayoutMetrics
	}
	if fragment.OrderIndex != nil {
		n.orderIndex = *fragment.OrderIndex
	}
	if fragment.Traits != nil {
		n.traits = *fragment.Traits
	}
	if fragment.Children != nil {
		n.children = append(make([]*Node, 0, len(fragment.Children)), fragment.Children...)
	}
	return n
}

// CloneTree finds the node of the target family within the receiver's
// subtree (inclusive), replaces it with the result of fn, then clones every
// ancestor on the path, returning the new root. Nil is returned if the
// target is not found. Every node not on the path is shared with the
// receiver's tree.
func (x *Node) CloneTree(target Family, fn func(node *Node) *Node) *Node {
	if x.family == target {
		n := fn(x)
		if n == nil {
			panic(`shadow: clone tree callback returned nil`)
		}
		return n
	}
	for i, child := range x.children {
		if n := child.CloneTree(target, fn); n != nil {
			children := append(make([]*Node, 0, len(x.children)), x.children...)
			children[i] = n
			return x.Clone(Fragment{Children: children})
		}
	}
	return nil
}

// AppendChild adds a child, during construction. A panic will occur if the
// node is sealed.
func (x *Node) AppendChild(child *Node) {
	if child == nil {
		panic(`shadow: nil child`)
	}
	if x.sealed.Load() {
		panic(`shadow: append child to sealed node`)
	}
	x.children = append(x.children, child)
}

// Seal marks the node and its descendants as read-only. Already sealed
// subtrees are not revisited.
func (x *Node) Seal() {
	if x.sealed.Swap(true) {
		return
	}
	for _, child := range x.children {
		child.Seal()
	}
}

func (x *Node) Sealed() bool { return x.sealed.Load() }

// SameFamily reports whether both nodes represent the same logical instance.
func (x *Node) SameFamily(other *Node) bool {
	return other != nil && x.family == other.family
}

func (x *Node) Family() Family { return x.family }

func (x *Node) Tag() Tag { return x.family.tag }

func (x *Node) SurfaceID() SurfaceID { return x.family.surface }

func (x *Node) Descriptor() *ComponentDescriptor { return x.descriptor }

func (x *Node) ComponentName() ComponentName { return x.descriptor.name }

func (x *Node) ComponentHandle() ComponentHandle { return x.descriptor.handle }

func (x *Node) Props() Props { return x.props }

func (x *Node) State() State { return x.state }

func (x *Node) EventEmitter() *EventEmitter { return x.eventEmitter }

func (x *Node) LayoutMetrics() LayoutMetrics { return x.layoutMetrics }

// OrderIndex is the z-order of the node among its siblings, where zero
// indicates document order.
func (x *Node) OrderIndex() int { return x.orderIndex }

func (x *Node) Traits() Traits { return x.traits }

// Children returns the child list, which must not be modified.
func (x *Node) Children() []*Node { return x.children[:len(x.children):len(x.children)] }

// Walk calls fn for each node in the subtree, in pre-order, stopping early if
// fn returns false.
func (x *Node) Walk(fn func(node *Node) bool) bool {
	if !fn(x) {
		return false
	}
	for _, child := range x.children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}
