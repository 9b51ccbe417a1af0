package list

import (
	"iter"
)

// Note that neither the circular list nor its cursors are thread safe.
// All structural changes are made through a ListCursor.

// ListCursor is a bidirectional cursor sitting in the gap between two
// adjacent elements (or the sentinel). Set and Remove target the element
// returned by the latest Next or Previous.
type ListCursor[T any] interface {
	// HasNext reports whether Next would return an element.
	HasNext() bool
	// HasPrevious reports whether Previous would return an element.
	HasPrevious() bool
	// Next returns the element after the cursor and moves the cursor forward.
	Next() (T, error)
	// Previous returns the element before the cursor and moves the cursor backward.
	Previous() (T, error)
	// NextIndex returns the index of the element a subsequent Next would return,
	// or the list length if the cursor is at the end.
	NextIndex() int64
	// PreviousIndex returns NextIndex()-1, which is -1 at the start of the list.
	PreviousIndex() int64
	// Add inserts v right before the element a subsequent Next would return.
	// The new element is not visited by the adding cursor.
	Add(v T) error
	// Remove removes the element returned by the latest Next or Previous.
	Remove() error
	// Set replaces the value of the element returned by the latest Next or Previous.
	Set(v T) error
}

// CircularList is a dummy-anchored circular doubly linked list.
type CircularList[T any] interface {
	Len() int64
	// Front returns the first value, false if the list is empty.
	Front() (T, bool)
	// Back returns the last value, false if the list is empty.
	Back() (T, bool)
	// All iterates the list from the front, yielding index and value.
	All() iter.Seq2[int64, T]
	// Backward iterates the list from the back, yielding index and value.
	Backward() iter.Seq2[int64, T]
	// Values copies all values in order.
	Values() []T
	// NewCursor returns a cursor positioned before the first element.
	NewCursor() ListCursor[T]
	// NewReadOnlyCursor returns a cursor rejecting Add, Remove and Set.
	NewReadOnlyCursor() ListCursor[T]
	// Verify walks the list and reports every broken link or count.
	Verify() error
}
