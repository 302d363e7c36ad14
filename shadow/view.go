package shadow

import (
	"fmt"
)

// View is a value snapshot of the externally visible attributes of a Node,
// carried as the payload of mutations. The zero value represents no view.
type View struct {
	Props           Props
	State           State
	EventEmitter    *EventEmitter
	ComponentName   ComponentName
	ComponentHandle ComponentHandle
	LayoutMetrics   LayoutMetrics
	SurfaceID       SurfaceID
	Tag             Tag
}

// NewView snapshots node. A nil node results in the zero View.
func NewView(node *Node) View {
	if node == nil {
		return View{}
	}
	return View{
		Props:           node.props,
		State:           node.state,
		EventEmitter:    node.eventEmitter,
		ComponentName:   node.descriptor.name,
		ComponentHandle: node.descriptor.handle,
		LayoutMetrics:   node.layoutMetrics,
		SurfaceID:       node.family.surface,
		Tag:             node.family.tag,
	}
}

// IsZero reports whether x represents no view.
func (x View) IsZero() bool { return x.ComponentHandle == 0 && x.Tag == 0 }

// Equal compares every attribute, using PropsEqual and StateEqual, and
// comparing event emitters by identity.
func (x View) Equal(o View) bool {
	return x.Tag == o.Tag &&
		x.ComponentHandle == o.ComponentHandle &&
		x.ComponentName == o.ComponentName &&
		x.SurfaceID == o.SurfaceID &&
		x.EventEmitter == o.EventEmitter &&
		x.LayoutMetrics == o.LayoutMetrics &&
		PropsEqual(x.Props, o.Props) &&
		StateEqual(x.State, o.State)
}

func (x View) String() string {
	if x.IsZero() {
		return `View()`
	}
	return fmt.Sprintf("View(%s, tag=%d)", x.ComponentName, x.Tag)
}
