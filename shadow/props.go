package shadow

import (
	"reflect"
)

type (
	// Props is an immutable, component-specific property set. Implementations
	// must never be modified once attached to a node.
	Props interface {
		// Equal reports whether other is value-equal to the receiver.
		Equal(other Props) bool
	}

	// State is an immutable, component-specific state value, e.g. data owned
	// by the native side of a component.
	State interface {
		// Equal reports whether other is value-equal to the receiver.
		Equal(other State) bool
	}

	// RawProps is a generic Props implementation, comparing by deep equality.
	RawProps map[string]any

	// RawState is a generic State implementation, comparing by deep equality.
	RawState map[string]any
)

var (
	_ Props = RawProps(nil)
	_ State = RawState(nil)
)

// Equal implements Props.
func (x RawProps) Equal(other Props) bool {
	o, ok := other.(RawProps)
	return ok && (len(x) == 0 && len(o) == 0 || reflect.DeepEqual(x, o))
}

// Equal implements State.
func (x RawState) Equal(other State) bool {
	o, ok := other.(RawState)
	return ok && (len(x) == 0 && len(o) == 0 || reflect.DeepEqual(x, o))
}

// PropsEqual compares two possibly nil Props.
func PropsEqual(a, b Props) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// StateEqual compares two possibly nil State values.
func StateEqual(a, b State) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}
