package atomiclist

type (
	// List is a lock-free, multi-producer singly linked list of values,
	// allocating a node per InsertHead. See [Intrusive] for the semantics,
	// which are identical, except that values are moved in and out of the
	// list, rather than linked.
	//
	// The zero value is an empty list, ready for use. A List must not be
	// copied after first use.
	List[T any] struct {
		list Intrusive[wrapper[T], *wrapper[T]]
	}

	wrapper[T any] struct {
		Hook[wrapper[T]]
		value T
	}
)

// InsertHead inserts v at the head of the list, returning true if the list was
// empty, i.e. this insert made it non-empty.
func (x *List[T]) InsertHead(v T) bool {
	return x.list.InsertHead(&wrapper[T]{value: v})
}

// Empty reports whether the list was empty at the moment of the call. The
// result is advisory, it has no ordering guarantee vs concurrent inserts.
func (x *List[T]) Empty() bool {
	return x.list.Empty()
}

// Sweep removes every value, calling fn for each, oldest-first within each
// detached batch, repeating until the list is observed empty.
// See also [Intrusive.Sweep].
func (x *List[T]) Sweep(fn func(v T)) {
	x.list.Sweep(func(w *wrapper[T]) {
		v := w.value
		var zero T
		w.value = zero
		fn(v)
	})
}

// ReverseSweep removes every value present at the moment of the call, calling
// fn for each, newest-first. See also [Intrusive.ReverseSweep].
func (x *List[T]) ReverseSweep(fn func(v T)) {
	x.list.ReverseSweep(func(w *wrapper[T]) {
		v := w.value
		var zero T
		w.value = zero
		fn(v)
	})
}

// Clear drops every value, as if swept by a no-op callback.
func (x *List[T]) Clear() {
	x.list.Clear()
}

// Drain removes every value, returning them oldest-first. It is a convenience
// for consumers preferring a slice to a callback, and has the same semantics
// as Sweep.
func (x *List[T]) Drain() (values []T) {
	x.Sweep(func(v T) {
		values = append(values, v)
	})
	return
}
