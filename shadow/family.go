package shadow

import (
	"fmt"
)

// Family is the stable identity of a logical component instance, shared by
// every node (clone) representing it, across tree generations. Families are
// comparable, and are intended to be used as map keys.
//
// Families must be created via ComponentDescriptor.NewFamily. The zero value
// is an invalid family, see IsZero.
type Family struct {
	id        uint64
	surface   SurfaceID
	tag       Tag
	component ComponentHandle
}

// IsZero reports whether this is the (invalid) zero value.
func (x Family) IsZero() bool { return x.id == 0 }

// ID returns the registry-unique identifier of the family.
func (x Family) ID() uint64 { return x.id }

// SurfaceID returns the surface the family belongs to.
func (x Family) SurfaceID() SurfaceID { return x.surface }

// Tag returns the tag assigned when the family was created.
func (x Family) Tag() Tag { return x.tag }

// ComponentHandle returns the handle of the component kind.
func (x Family) ComponentHandle() ComponentHandle { return x.component }

func (x Family) String() string {
	return fmt.Sprintf("Family(%d, surface=%d, tag=%d)", x.id, x.surface, x.tag)
}
