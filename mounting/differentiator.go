package mounting

import (
	"fmt"
	"slices"
	"strings"

	"github.com/joeycumines/go-shadowtree/shadow"
	"github.com/joeycumines/logiface"
)

// Mode selects the child list reconciliation algorithm.
type Mode uint8

const (
	// ModeOptimizedMoves walks both child lists in lockstep, matching by
	// family, such that only the views that actually moved are removed and
	// reinserted.
	ModeOptimizedMoves Mode = iota

	// ModeClassic removes and reinserts every view after the first position
	// at which the child lists differ.
	ModeClassic
)

type (
	// Differentiator computes the mutations transforming the view tree
	// mounted for one shadow tree into the view tree for another.
	//
	// The zero value is ready to use, and a Differentiator may be used
	// concurrently, as each calculation only reads its (sealed) inputs.
	Differentiator struct {
		// Logger is optional, and receives warnings about unexpected input,
		// such as roots of different families.
		Logger *logiface.Logger[logiface.Event]

		// Mode is the reconciliation algorithm.
		// **Defaults to ModeOptimizedMoves, if 0**
		Mode Mode
	}

	// levelMutations accumulates the mutations for one parent's child list,
	// that are concatenated in a fixed order, see flush.
	levelMutations struct {
		destructive MutationList
		updates     MutationList
		removes     MutationList
		deletes     MutationList
		creates     MutationList
		downward    MutationList
		inserts     MutationList
	}
)

func (x Mode) String() string {
	switch x {
	case ModeOptimizedMoves:
		return `optimized-moves`
	case ModeClassic:
		return `classic`
	default:
		return fmt.Sprintf("Mode(%d)", uint8(x))
	}
}

// ParseMode parses the String representation of a Mode, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case ``, `optimized-moves`, `optimized`:
		return ModeOptimizedMoves, nil
	case `classic`:
		return ModeClassic, nil
	default:
		return 0, fmt.Errorf(`mounting: unknown differentiator mode %q`, s)
	}
}

// CalculateMutations uses a zero Differentiator, see Differentiator.Calculate.
func CalculateMutations(oldRoot, newRoot *shadow.Node) MutationList {
	var d Differentiator
	return d.Calculate(oldRoot, newRoot)
}

// Calculate returns the mutations that transform the view tree built from
// oldRoot into the view tree built from newRoot. Both trees must be sealed.
//
// Either root may be nil, indicating no tree, in which case every view is
// created or deleted. Roots of different families are handled the same way,
// the old tree being deleted before the new one is created.
//
// Subtrees that are shared by both trees are skipped, and the result is empty
// if the roots are the same node.
func (x *Differentiator) Calculate(oldRoot, newRoot *shadow.Node) MutationList {
	var mutations MutationList

	switch {
	case oldRoot == newRoot:
	case oldRoot == nil:
		x.createTree(&mutations, newRoot)
	case newRoot == nil:
		x.deleteTree(&mutations, oldRoot)
	case !oldRoot.SameFamily(newRoot):
		x.Logger.Warning().
			Stringer(`old_root`, oldRoot.Family()).
			Stringer(`new_root`, newRoot.Family()).
			Log(`mounting: root families differ, replacing the whole tree`)
		x.deleteTree(&mutations, oldRoot)
		x.createTree(&mutations, newRoot)
	default:
		oldView, newView := shadow.NewView(oldRoot), shadow.NewView(newRoot)
		if !oldView.Equal(newView) {
			mutations = append(mutations, UpdateMutation(shadow.View{}, oldView, newView, -1))
		}
		x.calculateChildren(&mutations, newView, sliceChildPairs(oldRoot), sliceChildPairs(newRoot))
	}

	return mutations
}

func (x *Differentiator) createTree(mutations *MutationList, root *shadow.Node) {
	view := shadow.NewView(root)
	*mutations = append(*mutations, CreateMutation(view))
	x.mount(mutations, view, sliceChildPairs(root), nil)
}

func (x *Differentiator) deleteTree(mutations *MutationList, root *shadow.Node) {
	view := shadow.NewView(root)
	x.unmount(mutations, view, sliceChildPairs(root), nil)
	*mutations = append(*mutations, DeleteMutation(view))
}

// mount inserts every pair into parent, creating each view, unless it was
// moved, in which case it is diffed against its old pair.
func (x *Differentiator) mount(mutations *MutationList, parent shadow.View, pairs []nodePair, moved map[shadow.Family]nodePair) {
	if len(pairs) == 0 {
		return
	}
	var level levelMutations
	for index, pair := range pairs {
		level.inserts = append(level.inserts, InsertMutation(parent, pair.view, index))
		x.created(&level, parent, pair, index, moved)
	}
	level.flush(mutations)
}

// unmount removes every pair from parent, deleting each view, unless it was
// moved.
func (x *Differentiator) unmount(mutations *MutationList, parent shadow.View, pairs []nodePair, moved map[shadow.Family]nodePair) {
	if len(pairs) == 0 {
		return
	}
	var level levelMutations
	for index, pair := range pairs {
		level.removes = append(level.removes, RemoveMutation(parent, pair.view, index))
		x.deleted(&level, pair, moved)
	}
	level.flush(mutations)
}

func (x *Differentiator) calculateChildren(mutations *MutationList, parent shadow.View, oldPairs, newPairs []nodePair) {
	if len(oldPairs) == 0 && len(newPairs) == 0 {
		return
	}

	var level levelMutations

	// matching prefix
	index := 0
	for ; index < len(oldPairs) && index < len(newPairs); index++ {
		oldPair, newPair := oldPairs[index], newPairs[index]
		if !oldPair.node.SameFamily(newPair.node) {
			break
		}
		x.matched(&level, parent, oldPair, newPair, index)
	}

	moved := movedFamilies(oldPairs[index:], newPairs[index:])

	if x.Mode == ModeClassic {
		x.calculateClassic(&level, parent, oldPairs, newPairs, index, moved)
	} else {
		x.calculateOptimizedMoves(&level, parent, oldPairs, newPairs, index, moved)
	}

	level.flush(mutations)
}

func (x *Differentiator) calculateClassic(level *levelMutations, parent shadow.View, oldPairs, newPairs []nodePair, start int, moved map[shadow.Family]nodePair) {
	inserted := make(map[shadow.Family]int, len(newPairs)-start)
	for index := start; index < len(newPairs); index++ {
		newPair := newPairs[index]
		level.inserts = append(level.inserts, InsertMutation(parent, newPair.view, index))
		inserted[newPair.node.Family()] = index
	}

	for index := start; index < len(oldPairs); index++ {
		oldPair := oldPairs[index]
		level.removes = append(level.removes, RemoveMutation(parent, oldPair.view, index))
		if newIndex, ok := inserted[oldPair.node.Family()]; ok {
			delete(inserted, oldPair.node.Family())
			x.matched(level, parent, oldPair, newPairs[newIndex], newIndex)
		} else {
			x.deleted(level, oldPair, moved)
		}
	}

	for index := start; index < len(newPairs); index++ {
		if _, ok := inserted[newPairs[index].node.Family()]; ok {
			x.created(level, parent, newPairs[index], index, moved)
		}
	}
}

func (x *Differentiator) calculateOptimizedMoves(level *levelMutations, parent shadow.View, oldPairs, newPairs []nodePair, start int, moved map[shadow.Family]nodePair) {
	switch {
	case start == len(newPairs):
		for index := start; index < len(oldPairs); index++ {
			level.removes = append(level.removes, RemoveMutation(parent, oldPairs[index].view, index))
			x.deleted(level, oldPairs[index], moved)
		}
		return

	case start == len(oldPairs):
		for index := start; index < len(newPairs); index++ {
			level.inserts = append(level.inserts, InsertMutation(parent, newPairs[index].view, index))
			x.created(level, parent, newPairs[index], index, moved)
		}
		return
	}

	// families not yet visited by the lockstep walk
	remaining := make(map[shadow.Family]struct{}, len(newPairs)-start)
	for index := start; index < len(newPairs); index++ {
		remaining[newPairs[index].node.Family()] = struct{}{}
	}

	// families inserted ahead of their old position, or new, in insert order
	inserted := make(map[shadow.Family]int)
	var insertOrder []int

	oldIndex, newIndex := start, start
	for oldIndex < len(oldPairs) || newIndex < len(newPairs) {
		haveOld, haveNew := oldIndex < len(oldPairs), newIndex < len(newPairs)

		if haveOld && haveNew && oldPairs[oldIndex].node.SameFamily(newPairs[newIndex].node) {
			delete(remaining, newPairs[newIndex].node.Family())
			x.matched(level, parent, oldPairs[oldIndex], newPairs[newIndex], newIndex)
			oldIndex++
			newIndex++
			continue
		}

		if haveOld {
			oldPair := oldPairs[oldIndex]
			family := oldPair.node.Family()

			if index, ok := inserted[family]; ok {
				// moved: already inserted at the new position
				level.removes = append(level.removes, RemoveMutation(parent, oldPair.view, oldIndex))
				delete(inserted, family)
				x.matched(level, parent, oldPair, newPairs[index], index)
				oldIndex++
				continue
			}

			if _, ok := remaining[family]; !ok {
				level.removes = append(level.removes, RemoveMutation(parent, oldPair.view, oldIndex))
				x.deleted(level, oldPair, moved)
				oldIndex++
				continue
			}
		}

		if !haveNew {
			panic(`mounting: inconsistent child lists`)
		}

		newPair := newPairs[newIndex]
		level.inserts = append(level.inserts, InsertMutation(parent, newPair.view, newIndex))
		inserted[newPair.node.Family()] = newIndex
		insertOrder = append(insertOrder, newIndex)
		newIndex++
	}

	for _, index := range insertOrder {
		if _, ok := inserted[newPairs[index].node.Family()]; ok {
			x.created(level, parent, newPairs[index], index, moved)
		}
	}
}

// matched handles a view present in both lists, emitting an update if it
// changed, and recursing into the subtree unless it is shared.
func (x *Differentiator) matched(level *levelMutations, parent shadow.View, oldPair, newPair nodePair, index int) {
	if !oldPair.view.Equal(newPair.view) {
		level.updates = append(level.updates, UpdateMutation(parent, oldPair.view, newPair.view, index))
	}

	if oldPair.node == newPair.node {
		return
	}

	newChildren := sliceChildPairs(newPair.node)
	target := &level.downward
	if len(newChildren) == 0 {
		target = &level.destructive
	}
	x.calculateChildren(target, newPair.view, sliceChildPairs(oldPair.node), newChildren)
}

// deleted emits a delete for a removed view, after unmounting its subtree.
// Moved views are only removed, as they are inserted into their new parent.
func (x *Differentiator) deleted(level *levelMutations, oldPair nodePair, moved map[shadow.Family]nodePair) {
	if _, ok := moved[oldPair.node.Family()]; ok {
		return
	}
	level.deletes = append(level.deletes, DeleteMutation(oldPair.view))
	x.unmount(&level.destructive, oldPair.view, sliceChildPairs(oldPair.node), moved)
}

// created emits a create for a new view, followed by the mounting of its
// subtree, prior to it being inserted. Moved views are instead matched against
// their old pair.
func (x *Differentiator) created(level *levelMutations, parent shadow.View, newPair nodePair, index int, moved map[shadow.Family]nodePair) {
	if oldPair, ok := moved[newPair.node.Family()]; ok {
		x.matched(level, parent, oldPair, newPair, index)
		return
	}
	level.creates = append(level.creates, CreateMutation(newPair.view))
	x.mount(&level.downward, newPair.view, sliceChildPairs(newPair.node), moved)
}

// movedFamilies finds the views that remain mounted, under a different
// parent, as a result of flattening changing within the unmatched old and new
// pairs of one child list. The result maps each family to its old pair.
//
// Families never move between shadow parents, so a moved view is always
// mounted beneath an unmatched pair (or is one) on both sides, and is never
// beneath another moved view on one side only.
func movedFamilies(oldPairs, newPairs []nodePair) map[shadow.Family]nodePair {
	if len(oldPairs) == 0 || len(newPairs) == 0 {
		return nil
	}

	oldFamilies := make(map[shadow.Family]struct{}, len(oldPairs))
	for _, pair := range oldPairs {
		oldFamilies[pair.node.Family()] = struct{}{}
	}
	newFamilies := make(map[shadow.Family]struct{}, len(newPairs))
	for _, pair := range newPairs {
		newFamilies[pair.node.Family()] = struct{}{}
	}

	// every view mounted by the old pairs that are not in the new list
	unmounted := make(map[shadow.Family]nodePair)
	var collect func(pairs []nodePair)
	collect = func(pairs []nodePair) {
		for _, pair := range pairs {
			unmounted[pair.node.Family()] = pair
			collect(sliceChildPairs(pair.node))
		}
	}
	for _, pair := range oldPairs {
		if _, ok := newFamilies[pair.node.Family()]; !ok {
			unmounted[pair.node.Family()] = pair
			collect(sliceChildPairs(pair.node))
		}
	}
	if len(unmounted) == 0 {
		return nil
	}

	var moved map[shadow.Family]nodePair
	var match func(pairs []nodePair)
	match = func(pairs []nodePair) {
		for _, pair := range pairs {
			if oldPair, ok := unmounted[pair.node.Family()]; ok {
				if moved == nil {
					moved = make(map[shadow.Family]nodePair)
				}
				moved[pair.node.Family()] = oldPair
				continue
			}
			match(sliceChildPairs(pair.node))
		}
	}
	for _, pair := range newPairs {
		if _, ok := oldFamilies[pair.node.Family()]; !ok {
			match([]nodePair{pair})
		}
	}

	return moved
}

// flush appends, in order: the unmounting of removed subtrees, updates,
// removes (highest index first), deletes, creates, the mounting of subtrees,
// and inserts (lowest index first).
func (x *levelMutations) flush(mutations *MutationList) {
	n := len(x.destructive) + len(x.updates) + len(x.removes) + len(x.deletes) + len(x.creates) + len(x.downward) + len(x.inserts)
	*mutations = slices.Grow(*mutations, n)
	*mutations = append(*mutations, x.destructive...)
	*mutations = append(*mutations, x.updates...)
	for i := len(x.removes) - 1; i >= 0; i-- {
		*mutations = append(*mutations, x.removes[i])
	}
	*mutations = append(*mutations, x.deletes...)
	*mutations = append(*mutations, x.creates...)
	*mutations = append(*mutations, x.downward...)
	*mutations = append(*mutations, x.inserts...)
}
