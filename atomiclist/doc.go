// Package atomiclist implements lock-free, multi-producer singly linked lists,
// intended for "queue work from any goroutine, drain it on a chosen consumer"
// patterns, e.g. task registries, remote ready queues and listener chains.
//
// # Variants
//
// [Intrusive] links elements through a [Hook] embedded in the element type,
// meaning InsertHead never allocates. [List] wraps arbitrary values, allocating
// one node per insert.
//
// # Ordering
//
// Every InsertHead establishes a single total order per list. Sweep delivers
// each detached batch oldest-first (FIFO), and keeps detaching until it
// observes the list empty. ReverseSweep delivers a single batch newest-first
// (LIFO), leaving any concurrent late inserts for a future sweep.
//
// # Thread Safety
//
// InsertHead and Empty are safe to call from any goroutine. Every detached
// chain is owned by exactly one sweeper, so concurrent sweeps never deliver an
// element twice, but callers needing FIFO across batches must enforce a single
// consumer.
//
// # Usage
//
//	var queue atomiclist.List[func()]
//	if queue.InsertHead(task) {
//	    // went from empty to non-empty, wake the consumer
//	}
//	// ...on the consumer
//	queue.Sweep(func(task func()) { task() })
package atomiclist
