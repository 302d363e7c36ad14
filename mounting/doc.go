// Package mounting calculates, and applies, the mutations that transform a
// mounted view tree from one shadow tree generation to the next.
//
// # Differentiation
//
// A [Differentiator] compares two sealed trees, matching nodes by
// [shadow.Family]. Each parent's children are first flattened: non-concrete
// nodes (see [shadow.Traits.Concrete]) are replaced by their own children,
// offset by their origin, and hidden nodes are skipped. The resulting lists
// are reconciled, emitting a [MutationList] with the guarantees:
//
//   - Views are removed and deleted before their ancestors are.
//   - Views are created, and have their children inserted, before they are
//     inserted into their parent.
//   - Insert and Remove indexes apply to the child list as mutated by the
//     preceding mutations.
//   - Subtrees that are shared (pointer-identical) are skipped.
//
// Families must not move between parents. A family may however move between
// mounted parents as a result of its ancestors being flattened, or no longer
// flattened. Such views are removed from their old parent and inserted into
// their new one, rather than being deleted and created.
//
// # Mounting
//
// A [Coordinator] implements the commit pipeline for one surface: any
// goroutine may commit a new tree, which a single consumer diffs against the
// last mounted tree, and passes to a [Mounter]. [StubViewTree] is an
// in-memory Mounter, which validates every mutation, and is the reference
// for the round trip property: applying CalculateMutations(a, b) to the view
// tree built for a results in the view tree built for b.
package mounting
