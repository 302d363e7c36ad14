package mounting

import (
	"fmt"

	"github.com/joeycumines/go-shadowtree/shadow"
)

// MutationType identifies the kind of a Mutation.
type MutationType uint8

const (
	// Create allocates a new (unmounted) view.
	Create MutationType = iota + 1
	// Delete deallocates an unmounted view, with no children.
	Delete
	// Insert mounts a view into a parent, at an index.
	Insert
	// Remove unmounts a view from a parent, at an index.
	Remove
	// Update replaces the attributes of a view.
	Update
)

type (
	// Mutation is one instruction to the mounting layer. Which views are set
	// depends on the type:
	//
	//   - Create: NewChildView
	//   - Delete: OldChildView
	//   - Insert: ParentView, NewChildView, Index
	//   - Remove: ParentView, OldChildView, Index
	//   - Update: ParentView (zero for the root), OldChildView, NewChildView,
	//     Index (-1 for the root)
	//
	// Index is -1 where it is not applicable.
	Mutation struct {
		ParentView   shadow.View
		OldChildView shadow.View
		NewChildView shadow.View
		Index        int
		Type         MutationType
	}

	// MutationList is an ordered batch of mutations, that must be applied in
	// order. Insert and Remove indexes refer to the child list as mutated by
	// all preceding mutations.
	MutationList []Mutation
)

func (x MutationType) String() string {
	switch x {
	case Create:
		return `Create`
	case Delete:
		return `Delete`
	case Insert:
		return `Insert`
	case Remove:
		return `Remove`
	case Update:
		return `Update`
	default:
		return fmt.Sprintf("MutationType(%d)", uint8(x))
	}
}

// CreateMutation creates view, which is not yet mounted.
func CreateMutation(view shadow.View) Mutation {
	return Mutation{Type: Create, NewChildView: view, Index: -1}
}

// DeleteMutation deletes view, which must already be removed.
func DeleteMutation(view shadow.View) Mutation {
	return Mutation{Type: Delete, OldChildView: view, Index: -1}
}

// InsertMutation mounts child in parent, at index.
func InsertMutation(parent, child shadow.View, index int) Mutation {
	return Mutation{Type: Insert, ParentView: parent, NewChildView: child, Index: index}
}

// RemoveMutation unmounts child from parent, at index.
func RemoveMutation(parent, child shadow.View, index int) Mutation {
	return Mutation{Type: Remove, ParentView: parent, OldChildView: child, Index: index}
}

// UpdateMutation replaces oldChild, mounted in parent at index, with newChild.
func UpdateMutation(parent, oldChild, newChild shadow.View, index int) Mutation {
	return Mutation{Type: Update, ParentView: parent, OldChildView: oldChild, NewChildView: newChild, Index: index}
}

// Tag returns the tag of the view the mutation targets.
func (x Mutation) Tag() shadow.Tag {
	if x.Type == Delete || x.Type == Remove {
		return x.OldChildView.Tag
	}
	return x.NewChildView.Tag
}

func (x Mutation) String() string {
	switch x.Type {
	case Create:
		return fmt.Sprintf("Create %s", x.NewChildView)
	case Delete:
		return fmt.Sprintf("Delete %s", x.OldChildView)
	case Insert:
		return fmt.Sprintf("Insert %s into %s at %d", x.NewChildView, x.ParentView, x.Index)
	case Remove:
		return fmt.Sprintf("Remove %s from %s at %d", x.OldChildView, x.ParentView, x.Index)
	case Update:
		if x.ParentView.IsZero() {
			return fmt.Sprintf("Update %s", x.NewChildView)
		}
		return fmt.Sprintf("Update %s in %s at %d", x.NewChildView, x.ParentView, x.Index)
	default:
		return x.Type.String()
	}
}

// Count returns the number of mutations of the given type.
func (x MutationList) Count(t MutationType) (n int) {
	for _, m := range x {
		if m.Type == t {
			n++
		}
	}
	return
}

// Filter returns the mutations that target the given tag, in order.
func (x MutationList) Filter(tag shadow.Tag) (mutations MutationList) {
	for _, m := range x {
		if m.Tag() == tag {
			mutations = append(mutations, m)
		}
	}
	return
}
