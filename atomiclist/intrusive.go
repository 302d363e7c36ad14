package atomiclist

import (
	"sync/atomic"
)

type (
	// Hook is the intrusive linkage for an element of an [Intrusive] list.
	// Embed it (by value) in the element type, which promotes the ListHook
	// method, satisfying [Hooked]:
	//
	//	type task struct {
	//	    atomiclist.Hook[task]
	//	    run func()
	//	}
	//
	//	var queue atomiclist.Intrusive[task, *task]
	//
	// The zero value is an unlinked hook.
	Hook[T any] struct {
		next *T
	}

	// Hooked constrains PT to be a pointer to T, providing access to the
	// element's [Hook].
	Hooked[T any] interface {
		*T
		ListHook() *Hook[T]
	}

	// Intrusive is a lock-free, multi-producer singly linked list, which links
	// elements using a [Hook] embedded in each element.
	//
	// Ownership of each element is transferred to the list by InsertHead, and
	// is returned to the callback of whichever call sweeps it out. An element
	// must be linked into at most one list at a time.
	//
	// The zero value is an empty list, ready for use. An Intrusive must not be
	// copied after first use.
	Intrusive[T any, PT Hooked[T]] struct {
		head atomic.Pointer[T]
	}
)

// ListHook returns the receiver, and is promoted to types embedding Hook.
func (x *Hook[T]) ListHook() *Hook[T] { return x }

// InsertHead links v at the head of the list, returning true if the list was
// empty, i.e. this insert made it non-empty. Callers typically use the result
// to decide whether a consumer needs to be woken.
//
// A panic will occur if v is nil, or v is detectably already linked (its hook
// points at another element). Note that the tail element of a list has no
// successor, so reinserting it is not detected, and is a misuse.
func (x *Intrusive[T, PT]) InsertHead(v PT) bool {
	if (*T)(v) == nil {
		panic(`atomiclist: nil element`)
	}
	hook := v.ListHook()
	if hook.next != nil {
		panic(`atomiclist: element already linked`)
	}
	for {
		head := x.head.Load()
		hook.next = head
		if x.head.CompareAndSwap(head, (*T)(v)) {
			return head == nil
		}
	}
}

// Empty reports whether the list was empty at the moment of the call. The
// result is advisory, it has no ordering guarantee vs concurrent inserts.
func (x *Intrusive[T, PT]) Empty() bool {
	return x.head.Load() == nil
}

// Sweep detaches every element, calling fn for each, oldest-first within each
// detached batch, and repeats until the list is observed empty. This means the
// list was empty at some point after the last call to fn, even if elements
// were inserted concurrently.
//
// The element's hook is cleared before fn is called, so fn may reinsert the
// element, into this or any other list. Note that reinserting into this list
// causes Sweep to deliver it again.
func (x *Intrusive[T, PT]) Sweep(fn func(v PT)) {
	for {
		head := x.head.Swap(nil)
		if head == nil {
			return
		}
		unlinkAll[T, PT](reverse[T, PT](head), fn)
	}
}

// ReverseSweep detaches every element present at the moment of the call,
// calling fn for each, newest-first. Unlike Sweep, it does not re-check for
// elements inserted concurrently, which are left for a future sweep.
func (x *Intrusive[T, PT]) ReverseSweep(fn func(v PT)) {
	unlinkAll[T, PT](x.head.Swap(nil), fn)
}

// Clear drops every element, as if swept by a no-op callback.
func (x *Intrusive[T, PT]) Clear() {
	x.Sweep(func(PT) {})
}

// reverse reverses the (owned) chain starting at head, returning the new head.
func reverse[T any, PT Hooked[T]](head *T) *T {
	var prev *T
	for head != nil {
		hook := PT(head).ListHook()
		next := hook.next
		hook.next = prev
		prev = head
		head = next
	}
	return prev
}

// unlinkAll walks the (owned) chain starting at head, clearing each hook before
// handing the element to fn.
func unlinkAll[T any, PT Hooked[T]](head *T, fn func(v PT)) {
	for head != nil {
		v := PT(head)
		hook := v.ListHook()
		head = hook.next
		hook.next = nil
		fn(v)
	}
}
