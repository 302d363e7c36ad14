package mounting

import (
	"cmp"
	"slices"

	"github.com/joeycumines/go-shadowtree/shadow"
)

// nodePair is one entry of a flattened child list, where view carries the
// layout offset accumulated from any flattened ancestors.
type nodePair struct {
	node *shadow.Node
	view shadow.View
}

// sliceChildPairs returns the mountable children of node, i.e. the list of
// views the node's platform view hosts, in mount order.
//
// Concrete children are included as-is. Non-concrete children are replaced by
// their own (recursively sliced) children, offset by their origin. Hidden
// nodes are skipped, together with their subtree. A panic will occur if a
// family appears more than once.
func sliceChildPairs(node *shadow.Node) []nodePair {
	var pairs []nodePair
	sliceChildPairsRecursively(&pairs, shadow.Point{}, node)
	reorderIfNeeded(pairs)
	if len(pairs) > 1 {
		seen := make(map[shadow.Family]struct{}, len(pairs))
		for _, p := range pairs {
			if _, ok := seen[p.node.Family()]; ok {
				panic(`mounting: duplicate family among siblings`)
			}
			seen[p.node.Family()] = struct{}{}
		}
	}
	return pairs
}

func sliceChildPairsRecursively(pairs *[]nodePair, offset shadow.Point, node *shadow.Node) {
	for _, child := range node.Children() {
		traits := child.Traits()
		if traits.Check(shadow.Hidden) {
			continue
		}

		view := shadow.NewView(child)
		view.LayoutMetrics = view.LayoutMetrics.Offset(offset)

		if traits.Concrete() {
			*pairs = append(*pairs, nodePair{node: child, view: view})
			continue
		}

		origin := offset
		if !view.LayoutMetrics.IsEmpty() {
			origin = view.LayoutMetrics.Frame.Origin
		}
		sliceChildPairsRecursively(pairs, origin, child)
	}
}

// reorderIfNeeded stable sorts by order index, if any is non-zero.
func reorderIfNeeded(pairs []nodePair) {
	if len(pairs) < 2 {
		return
	}
	if !slices.ContainsFunc(pairs, func(p nodePair) bool { return p.node.OrderIndex() != 0 }) {
		return
	}
	slices.SortStableFunc(pairs, func(a, b nodePair) int {
		return cmp.Compare(a.node.OrderIndex(), b.node.OrderIndex())
	})
}
