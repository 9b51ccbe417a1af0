package list

type circularListNode[T any] struct {
	prev, next *circularListNode[T]
	listRef    *circularList[T]
	value      T // It should be placed at the end of the struct to avoid taking too much padding.
}

// insertAfter splices a new node holding v between at and at.next.
//
//	+----+      +----+          +----+      +----+      +----+
//	| at |<---->| n  |   ==>    | at |<---->|newE|<---->| n  |
//	+----+      +----+          +----+      +----+      +----+
func insertAfter[T any](at *circularListNode[T], v T) *circularListNode[T] {
	newE := &circularListNode[T]{
		prev:    at,
		next:    at.next,
		listRef: at.listRef,
		value:   v,
	}
	at.next.prev = newE
	at.next = newE
	return newE
}

// unlink splices e out of the cycle. The neighbours of e are still
// reachable from e itself, so a stale cursor standing on e does not
// dereference nil.
// It must never be called on the sentinel.
func unlink[T any](e *circularListNode[T]) {
	if e.listRef != nil && e == e.listRef.root {
		panic("[circular-list] unlink the sentinel")
	}
	e.prev.next = e.next
	e.next.prev = e.prev
	e.listRef = nil
}
