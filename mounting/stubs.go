package mounting

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/joeycumines/go-shadowtree/shadow"
)

type (
	// StubViewTree is an in-memory model of a mounted view tree, that
	// validates every mutation applied to it. It is used to verify mutation
	// lists, and as a reference Mounter.
	//
	// The zero value is an empty tree, where the first view created becomes
	// the root. All methods are safe for concurrent use.
	StubViewTree struct {
		views   map[shadow.Tag]*stubView
		mu      sync.Mutex
		root    shadow.Tag
		hasRoot bool
	}

	stubView struct {
		view     shadow.View
		children []shadow.Tag
		parent   shadow.Tag
		mounted  bool
	}

	// StubSnapshot is a nested copy of the state of a StubViewTree, see
	// StubViewTree.Snapshot.
	StubSnapshot struct {
		Children []StubSnapshot
		View     shadow.View
	}
)

var _ Mounter = (*StubViewTree)(nil)

// NewStubViewTree initializes a tree containing only root.
func NewStubViewTree(root shadow.View) *StubViewTree {
	return &StubViewTree{
		views:   map[shadow.Tag]*stubView{root.Tag: {view: root}},
		root:    root.Tag,
		hasRoot: true,
	}
}

// BuildStubViewTree builds the view tree for root, directly, i.e. without
// diffing.
func BuildStubViewTree(root *shadow.Node) (*StubViewTree, error) {
	view := shadow.NewView(root)
	var mutations MutationList
	appendBuildMutations(&mutations, view, root)
	x := NewStubViewTree(view)
	if err := x.Mutate(mutations); err != nil {
		return nil, err
	}
	return x, nil
}

func appendBuildMutations(mutations *MutationList, parent shadow.View, node *shadow.Node) {
	for index, pair := range sliceChildPairs(node) {
		*mutations = append(*mutations, CreateMutation(pair.view))
		appendBuildMutations(mutations, pair.view, pair.node)
		*mutations = append(*mutations, InsertMutation(parent, pair.view, index))
	}
}

// BuildStubViewTreeUsingDifferentiator builds the view tree for root by
// diffing a childless clone of root against it, using d, or the default
// Differentiator if d is nil.
func BuildStubViewTreeUsingDifferentiator(d *Differentiator, root *shadow.Node) (*StubViewTree, error) {
	if d == nil {
		d = new(Differentiator)
	}
	empty := root.Clone(shadow.Fragment{Children: []*shadow.Node{}})
	empty.Seal()
	x := NewStubViewTree(shadow.NewView(empty))
	if err := x.Mutate(d.Calculate(empty, root)); err != nil {
		return nil, err
	}
	return x, nil
}

// Mutate applies mutations in order, stopping at the first that fails, which
// is returned as a *MutationError. Mutations applied prior to a failure are
// not reverted.
func (x *StubViewTree) Mutate(mutations MutationList) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.views == nil {
		x.views = make(map[shadow.Tag]*stubView)
	}
	for i, m := range mutations {
		if err := x.apply(m); err != nil {
			return &MutationError{Err: err, Mutation: m, Index: i}
		}
	}
	return nil
}

// Mount implements Mounter, see Mutate.
func (x *StubViewTree) Mount(ctx context.Context, _ shadow.SurfaceID, mutations MutationList) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return x.Mutate(mutations)
}

func (x *StubViewTree) apply(m Mutation) error {
	switch m.Type {
	case Create:
		tag := m.NewChildView.Tag
		if _, ok := x.views[tag]; ok {
			return fmt.Errorf(`%w: tag %d`, ErrViewExists, tag)
		}
		x.views[tag] = &stubView{view: m.NewChildView}
		if !x.hasRoot {
			x.root, x.hasRoot = tag, true
		}

	case Delete:
		tag := m.OldChildView.Tag
		v, err := x.lookup(tag)
		if err != nil {
			return err
		}
		if v.mounted {
			return fmt.Errorf(`%w: tag %d`, ErrViewMounted, tag)
		}
		if len(v.children) != 0 {
			return fmt.Errorf(`%w: tag %d has %d`, ErrViewHasChildren, tag, len(v.children))
		}
		delete(x.views, tag)
		if x.hasRoot && x.root == tag {
			x.hasRoot = false
		}

	case Insert:
		parent, err := x.lookup(m.ParentView.Tag)
		if err != nil {
			return err
		}
		tag := m.NewChildView.Tag
		child, err := x.lookup(tag)
		if err != nil {
			return err
		}
		if child.mounted || (x.hasRoot && x.root == tag) {
			return fmt.Errorf(`%w: tag %d`, ErrViewMounted, tag)
		}
		if m.Index < 0 || m.Index > len(parent.children) {
			return fmt.Errorf(`%w: %d not in [0, %d]`, ErrIndexOutOfRange, m.Index, len(parent.children))
		}
		if !child.view.Equal(m.NewChildView) {
			return fmt.Errorf(`%w: inserted view for tag %d differs from the current view`, ErrChildMismatch, tag)
		}
		parent.children = slices.Insert(parent.children, m.Index, tag)
		child.parent, child.mounted = m.ParentView.Tag, true

	case Remove:
		parent, err := x.lookup(m.ParentView.Tag)
		if err != nil {
			return err
		}
		tag := m.OldChildView.Tag
		child, err := x.lookup(tag)
		if err != nil {
			return err
		}
		if !child.mounted {
			return fmt.Errorf(`%w: tag %d`, ErrViewNotMounted, tag)
		}
		if m.Index < 0 || m.Index >= len(parent.children) {
			return fmt.Errorf(`%w: %d not in [0, %d)`, ErrIndexOutOfRange, m.Index, len(parent.children))
		}
		if actual := parent.children[m.Index]; actual != tag {
			return fmt.Errorf(`%w: expected tag %d at index %d, found %d`, ErrChildMismatch, tag, m.Index, actual)
		}
		parent.children = slices.Delete(parent.children, m.Index, m.Index+1)
		child.mounted = false

	case Update:
		tag := m.NewChildView.Tag
		if m.OldChildView.Tag != tag {
			return fmt.Errorf(`%w: update from tag %d to tag %d`, ErrChildMismatch, m.OldChildView.Tag, tag)
		}
		v, err := x.lookup(tag)
		if err != nil {
			return err
		}
		if !v.view.Equal(m.OldChildView) {
			return fmt.Errorf(`%w: old view for tag %d differs from the current view`, ErrChildMismatch, tag)
		}
		v.view = m.NewChildView

	default:
		return fmt.Errorf(`%w: %s`, ErrInvalidMutation, m.Type)
	}

	return nil
}

func (x *StubViewTree) lookup(tag shadow.Tag) (*stubView, error) {
	if v, ok := x.views[tag]; ok {
		return v, nil
	}
	return nil, fmt.Errorf(`%w: tag %d`, ErrUnknownView, tag)
}

// Size returns the number of views, mounted or not, including the root.
func (x *StubViewTree) Size() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.views)
}

// Root returns the root view, if any.
func (x *StubViewTree) Root() (shadow.View, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.hasRoot {
		return shadow.View{}, false
	}
	return x.views[x.root].view, true
}

// View returns the current view for tag.
func (x *StubViewTree) View(tag shadow.Tag) (shadow.View, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if v, ok := x.views[tag]; ok {
		return v.view, true
	}
	return shadow.View{}, false
}

// Children returns the tags of the views mounted in the view for tag.
func (x *StubViewTree) Children(tag shadow.Tag) []shadow.Tag {
	x.mu.Lock()
	defer x.mu.Unlock()
	if v, ok := x.views[tag]; ok {
		return slices.Clone(v.children)
	}
	return nil
}

// Parent returns the tag of the view the view for tag is mounted in.
func (x *StubViewTree) Parent(tag shadow.Tag) (shadow.Tag, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if v, ok := x.views[tag]; ok && v.mounted {
		return v.parent, true
	}
	return 0, false
}

// Snapshot copies the tree reachable from the root. The zero value is
// returned if there is no root.
func (x *StubViewTree) Snapshot() StubSnapshot {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.hasRoot {
		return StubSnapshot{}
	}
	return x.snapshot(x.root)
}

func (x *StubViewTree) snapshot(tag shadow.Tag) StubSnapshot {
	v := x.views[tag]
	s := StubSnapshot{View: v.view}
	if len(v.children) != 0 {
		s.Children = make([]StubSnapshot, len(v.children))
		for i, child := range v.children {
			s.Children[i] = x.snapshot(child)
		}
	}
	return s
}

// Equal compares the views (see shadow.View.Equal) and structure.
func (x StubSnapshot) Equal(o StubSnapshot) bool {
	if !x.View.Equal(o.View) || len(x.Children) != len(o.Children) {
		return false
	}
	for i := range x.Children {
		if !x.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Size returns the number of views in the snapshot, or 0 if it is zero.
func (x StubSnapshot) Size() int {
	if x.View.IsZero() && len(x.Children) == 0 {
		return 0
	}
	n := 1
	for _, child := range x.Children {
		n += child.Size()
	}
	return n
}

// String formats the snapshot as an indented tree, one view per line.
func (x StubSnapshot) String() string {
	var b strings.Builder
	x.format(&b, 0)
	return b.String()
}

func (x StubSnapshot) format(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat(`  `, depth))
	b.WriteString(x.View.String())
	if x.View.Props != nil {
		fmt.Fprintf(b, " props=%v", x.View.Props)
	}
	if x.View.State != nil {
		fmt.Fprintf(b, " state=%v", x.View.State)
	}
	if !x.View.LayoutMetrics.IsEmpty() {
		fmt.Fprintf(b, " frame=%v", x.View.LayoutMetrics.Frame)
	}
	b.WriteByte('\n')
	for _, child := range x.Children {
		child.format(b, depth+1)
	}
}
