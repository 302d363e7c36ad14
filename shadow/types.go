package shadow

import (
	"fmt"
	"strings"
)

type (
	// Tag is the opaque, per-surface identity of a platform view.
	Tag int32

	// SurfaceID identifies a surface, i.e. one independently rendered tree.
	SurfaceID int32

	// ComponentName is the registered name of a component kind, e.g. "View".
	ComponentName string

	// ComponentHandle is the numeric identity of a registered component kind,
	// assigned by the Registry.
	ComponentHandle int64

	// Traits is a bitmask describing how a node participates in mounting.
	Traits uint32

	// DisplayType mirrors the layout engine's display property.
	DisplayType uint8

	// Point is a position, in points.
	Point struct {
		X, Y float64
	}

	// Size is a size, in points.
	Size struct {
		Width, Height float64
	}

	// Rect is an origin plus a size.
	Rect struct {
		Origin Point
		Size   Size
	}

	// LayoutMetrics are computed by a layout pass, external to this package.
	// The zero value indicates no layout has been computed.
	LayoutMetrics struct {
		Frame            Rect
		DisplayType      DisplayType
		PointScaleFactor float64
	}
)

const (
	// FormsView indicates the node mounts a platform view of its own, i.e. it
	// is "concrete". Nodes without this trait are flattened, meaning their
	// (concrete) descendants are mounted directly into the nearest concrete
	// ancestor.
	FormsView Traits = 1 << iota

	// FormsStackingContext indicates the node always hosts its own children,
	// which implies FormsView for mounting purposes.
	FormsStackingContext

	// Hidden excludes the node, and its entire subtree, from mounting.
	Hidden
)

const (
	DisplayFlex DisplayType = iota
	DisplayNone
	DisplayContents
)

// Check returns true if every trait in mask is set.
func (x Traits) Check(mask Traits) bool { return x&mask == mask }

// Set returns a copy of x with every trait in mask set.
func (x Traits) Set(mask Traits) Traits { return x | mask }

// Unset returns a copy of x with every trait in mask cleared.
func (x Traits) Unset(mask Traits) Traits { return x &^ mask }

// Concrete reports whether a node with these traits mounts a platform view.
func (x Traits) Concrete() bool {
	return x&(FormsView|FormsStackingContext) != 0
}

func (x Traits) String() string {
	var parts []string
	if x.Check(FormsView) {
		parts = append(parts, "FormsView")
	}
	if x.Check(FormsStackingContext) {
		parts = append(parts, "FormsStackingContext")
	}
	if x.Check(Hidden) {
		parts = append(parts, "Hidden")
	}
	if rest := x.Unset(FormsView | FormsStackingContext | Hidden); rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, "|")
}

// Add returns the sum of two points.
func (x Point) Add(o Point) Point { return Point{X: x.X + o.X, Y: x.Y + o.Y} }

// IsEmpty reports whether no layout has been computed.
func (x LayoutMetrics) IsEmpty() bool { return x == LayoutMetrics{} }

// Offset returns a copy of x with its frame translated by p, leaving empty
// metrics untouched.
func (x LayoutMetrics) Offset(p Point) LayoutMetrics {
	if x.IsEmpty() {
		return x
	}
	x.Frame.Origin = x.Frame.Origin.Add(p)
	return x
}
