package mounting

import (
	"io"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/joeycumines/go-shadowtree/shadow"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/require"
)

const testSurface shadow.SurfaceID = 1

// testTrees builds trees where every tag maps to one family, and one event
// emitter, for the lifetime of the test.
type testTrees struct {
	view     *shadow.ComponentDescriptor
	families map[shadow.Tag]shadow.Family
	emitters map[shadow.Tag]*shadow.EventEmitter
}

func newTestTrees(t testing.TB) *testTrees {
	t.Helper()
	r, err := shadow.NewRegistry()
	require.NoError(t, err)
	return &testTrees{
		view:     r.MustRegister(`View`, shadow.FormsView),
		families: make(map[shadow.Tag]shadow.Family),
		emitters: make(map[shadow.Tag]*shadow.EventEmitter),
	}
}

func (x *testTrees) family(tag shadow.Tag) shadow.Family {
	f, ok := x.families[tag]
	if !ok {
		f = x.view.NewFamily(testSurface, tag)
		x.families[tag] = f
		x.emitters[tag] = x.view.CreateEventEmitter(f)
	}
	return f
}

func (x *testTrees) build(tag shadow.Tag, fragment shadow.Fragment) *shadow.Node {
	family := x.family(tag)
	fragment.EventEmitter = x.emitters[tag]
	if fragment.Children == nil {
		fragment.Children = []*shadow.Node{}
	}
	return x.view.CreateNode(family, fragment)
}

// n builds a concrete node.
func (x *testTrees) n(tag shadow.Tag, children ...*shadow.Node) *shadow.Node {
	return x.build(tag, shadow.Fragment{Children: children})
}

// np builds a concrete node with props.
func (x *testTrees) np(tag shadow.Tag, props shadow.RawProps, children ...*shadow.Node) *shadow.Node {
	return x.build(tag, shadow.Fragment{Props: props, Children: children})
}

// flat builds a non-concrete node, with an origin.
func (x *testTrees) flat(tag shadow.Tag, origin shadow.Point, children ...*shadow.Node) *shadow.Node {
	traits := shadow.Traits(0)
	metrics := shadow.LayoutMetrics{Frame: shadow.Rect{Origin: origin, Size: shadow.Size{Width: 1, Height: 1}}}
	return x.build(tag, shadow.Fragment{Traits: &traits, LayoutMetrics: &metrics, Children: children})
}

// newTestLogger writes JSON lines to w, without timestamps.
func newTestLogger(w io.Writer) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w), stumpy.WithTimeField(``)),
		stumpy.L.WithLevel(logiface.LevelDebug),
	).Logger()
}

func sealed(root *shadow.Node) *shadow.Node {
	root.Seal()
	return root
}

// requireRoundTrip applies the mutations from oldRoot to newRoot, to a view
// tree built from oldRoot, and compares the result to one built from
// newRoot, returning the mutations.
func requireRoundTrip(t testing.TB, d *Differentiator, oldRoot, newRoot *shadow.Node) MutationList {
	t.Helper()

	tree, err := BuildStubViewTree(oldRoot)
	require.NoError(t, err)

	mutations := d.Calculate(oldRoot, newRoot)
	require.NoError(t, tree.Mutate(mutations), "mutations:\n%s", formatMutations(mutations))

	expected, err := BuildStubViewTree(newRoot)
	require.NoError(t, err)

	if got, want := tree.Snapshot(), expected.Snapshot(); !got.Equal(want) {
		t.Fatalf("snapshot mismatch (-want +got):\n%s\nmutations:\n%s", cmp.Diff(want.String(), got.String()), formatMutations(mutations))
	}
	require.Equal(t, expected.Size(), tree.Size(), `unmounted views must be deleted`)

	return mutations
}

// requireNotRecreated fails if any view is both deleted and created, i.e. a
// view that stays mounted was not moved.
func requireNotRecreated(t testing.TB, mutations MutationList) MutationList {
	t.Helper()
	deleted := make(map[shadow.Tag]struct{})
	for _, m := range mutations {
		if m.Type == Delete {
			deleted[m.Tag()] = struct{}{}
		}
	}
	for _, m := range mutations {
		if _, ok := deleted[m.Tag()]; ok && m.Type == Create {
			t.Fatalf("view %d recreated, mutations:\n%s", m.Tag(), formatMutations(mutations))
		}
	}
	return mutations
}

func formatMutations(mutations MutationList) string {
	var s string
	for _, m := range mutations {
		s += m.String() + "\n"
	}
	return s
}

// genNode models a tree, for generating a sequence of related trees, where
// families never move between parents.
type genNode struct {
	children []*genNode
	origin   shadow.Point
	tag      shadow.Tag
	version  int
	order    int
	flat     bool
	hidden   bool
}

type treeGenerator struct {
	trees   *testTrees
	rng     *rand.Rand
	root    *genNode
	nextTag shadow.Tag
}

func newTreeGenerator(t testing.TB, seed uint64) *treeGenerator {
	g := &treeGenerator{
		trees:   newTestTrees(t),
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		nextTag: 1,
	}
	g.root = g.newNode()
	for range 8 + g.rng.IntN(8) {
		g.insert()
	}
	return g
}

func (x *treeGenerator) newNode() *genNode {
	n := &genNode{
		tag:    x.nextTag,
		origin: shadow.Point{X: float64(x.rng.IntN(5)), Y: float64(x.rng.IntN(5))},
	}
	x.nextTag++
	return n
}

func (x *treeGenerator) nodes() (nodes []*genNode) {
	var walk func(n *genNode)
	walk = func(n *genNode) {
		nodes = append(nodes, n)
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(x.root)
	return
}

func (x *treeGenerator) pick() *genNode {
	nodes := x.nodes()
	return nodes[x.rng.IntN(len(nodes))]
}

func (x *treeGenerator) insert() {
	parent := x.pick()
	index := x.rng.IntN(len(parent.children) + 1)
	child := x.newNode()
	parent.children = append(parent.children, nil)
	copy(parent.children[index+1:], parent.children[index:])
	parent.children[index] = child
}

// Step applies one random change.
func (x *treeGenerator) Step() {
	n := x.pick()
	switch x.rng.IntN(9) {
	case 0, 1:
		if len(x.nodes()) < 48 {
			x.insert()
		}
	case 2:
		if len(n.children) != 0 {
			i := x.rng.IntN(len(n.children))
			n.children = append(n.children[:i], n.children[i+1:]...)
		}
	case 3:
		if len(n.children) > 1 {
			i, j := x.rng.IntN(len(n.children)), x.rng.IntN(len(n.children))
			c := n.children[i]
			n.children = append(n.children[:i], n.children[i+1:]...)
			n.children = append(n.children[:j], append([]*genNode{c}, n.children[j:]...)...)
		}
	case 4:
		n.version++
	case 5:
		if n != x.root {
			n.flat = !n.flat
		}
	case 6:
		if n != x.root && x.rng.IntN(3) == 0 {
			n.hidden = !n.hidden
		}
	case 7:
		n.order = x.rng.IntN(3) - 1
	case 8:
		n.origin = shadow.Point{X: float64(x.rng.IntN(5)), Y: float64(x.rng.IntN(5))}
	}
}

// Tree builds a new, sealed, tree from the current state.
func (x *treeGenerator) Tree() *shadow.Node {
	return sealed(x.build(x.root))
}

func (x *treeGenerator) build(n *genNode) *shadow.Node {
	children := make([]*shadow.Node, 0, len(n.children))
	for _, c := range n.children {
		children = append(children, x.build(c))
	}
	traits := shadow.FormsView
	if n.flat {
		traits = 0
	}
	if n.hidden {
		traits = traits.Set(shadow.Hidden)
	}
	order := n.order
	metrics := shadow.LayoutMetrics{Frame: shadow.Rect{Origin: n.origin, Size: shadow.Size{Width: 10, Height: 10}}}
	fragment := shadow.Fragment{
		Traits:        &traits,
		OrderIndex:    &order,
		LayoutMetrics: &metrics,
		Children:      children,
	}
	if n.version != 0 {
		fragment.Props = shadow.RawProps{`version`: n.version}
	}
	return x.trees.build(n.tag, fragment)
}
