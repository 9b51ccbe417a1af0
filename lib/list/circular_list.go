package list

// References:
// https://github.com/golang/go/blob/master/src/container/list/list.go
// https://docs.oracle.com/javase/8/docs/api/java/util/ListIterator.html
//
// The sentinel (root) closes the cycle, so "before the first" and
// "after the last" are the same node and no nil checks are needed
// at both ends.
//
//	       +------------------------------------------+
//	       v                                          |
//	   +------+     +-----+     +-----+     +-----+   |
//	+->| root |<--->|  A  |<--->|  B  |<--->|  C  |<--+
//	|  +------+     +-----+     +-----+     +-----+
//	|                                          ^
//	+------------------------------------------+
//
// The list itself exposes no mutation, all of them are made through
// a cursor. Every Add and Remove bumps the list version, a cursor
// holding an older version fails fast with ErrCursorStale.

import (
	"errors"
	"iter"
	"strconv"

	"go.uber.org/multierr"

	"github.com/benz9527/xlist/lib/infra"
	"github.com/benz9527/xlist/xlog"
)

var (
	ErrCursorNoSuchElement = errors.New("[circular-list] no such element")
	ErrCursorIllegalState  = errors.New("[circular-list] no element returned by next or previous")
	ErrCursorUnsupported   = errors.New("[circular-list] read-only cursor")
	ErrCursorStale         = errors.New("[circular-list] list structurally modified outside of the cursor")
	errCListNilLogger      = errors.New("[circular-list] nil logger")
	errCListBrokenLink     = errors.New("[circular-list] broken link")
	errCListFrontMismatch  = errors.New("[circular-list] front is not the node after the sentinel")
	errCListLenMismatch    = errors.New("[circular-list] length mismatch")
	errCListDetachedNode   = errors.New("[circular-list] detached node reachable")
)

var _ CircularList[struct{}] = (*circularList[struct{}])(nil) // Type check assertion

type circularListOptions struct {
	logger   xlog.XLogger
	failFast bool
}

type CircularListOption func(*circularListOptions) error

// WithCircularListLogger traces the structural changes at debug level
// and the stale cursors at error level.
func WithCircularListLogger(logger xlog.XLogger) CircularListOption {
	return func(opts *circularListOptions) error {
		if logger == nil {
			return infra.WrapErrorStack(errCListNilLogger)
		}
		opts.logger = logger
		return nil
	}
}

// WithCircularListFailFast enabled by default. If it is disabled, a
// cursor keeps working on nodes removed by another cursor.
func WithCircularListFailFast(enabled bool) CircularListOption {
	return func(opts *circularListOptions) error {
		opts.failFast = enabled
		return nil
	}
}

type circularList[T any] struct {
	root     *circularListNode[T] // sentinel
	front    *circularListNode[T] // alias of root.next
	logger   xlog.XLogger
	size     int64
	version  uint64
	failFast bool
}

func NewCircularList[T any](opts ...CircularListOption) CircularList[T] {
	options := &circularListOptions{
		failFast: true,
	}
	for _, o := range opts {
		if err := o(options); err != nil {
			panic(err)
		}
	}
	if options.logger == nil {
		options.logger = xlog.NewNopXLogger()
	}
	return new(circularList[T]).init(options)
}

func (l *circularList[T]) init(options *circularListOptions) *circularList[T] {
	l.root = &circularListNode[T]{listRef: l}
	l.root.prev, l.root.next = l.root, l.root
	l.front = l.root
	l.logger = options.logger
	l.failFast = options.failFast
	return l
}

func (l *circularList[T]) Len() int64 {
	return l.size
}

func (l *circularList[T]) Front() (T, bool) {
	if l.size == 0 {
		var zero T
		return zero, false
	}
	return l.front.value, true
}

func (l *circularList[T]) Back() (T, bool) {
	if l.size == 0 {
		var zero T
		return zero, false
	}
	return l.root.prev.value, true
}

// All allows removing the yielded element by a cursor while iterating.
func (l *circularList[T]) All() iter.Seq2[int64, T] {
	return func(yield func(int64, T) bool) {
		var idx int64
		for e := l.root.next; e != l.root; idx++ {
			n := e.next
			if !yield(idx, e.value) {
				return
			}
			e = n
		}
	}
}

func (l *circularList[T]) Backward() iter.Seq2[int64, T] {
	return func(yield func(int64, T) bool) {
		idx := l.size - 1
		for e := l.root.prev; e != l.root; idx-- {
			p := e.prev
			if !yield(idx, e.value) {
				return
			}
			e = p
		}
	}
}

func (l *circularList[T]) Values() []T {
	values := make([]T, 0, l.size)
	for e := l.root.next; e != l.root; e = e.next {
		values = append(values, e.value)
	}
	return values
}

func (l *circularList[T]) NewCursor() ListCursor[T] {
	return &circularListCursor[T]{
		listRef: l,
		prev:    l.root,
		next:    l.front,
		version: l.version,
	}
}

func (l *circularList[T]) NewReadOnlyCursor() ListCursor[T] {
	return &readOnlyCursor[T]{
		circularListCursor: l.NewCursor().(*circularListCursor[T]),
	}
}

// Verify checks the link symmetry of every node reachable from the
// sentinel, the cached front and the length.
// The walk stops after Len()+1 steps, so a broken cycle never
// loops forever.
func (l *circularList[T]) Verify() error {
	var merr error
	if l.front != l.root.next {
		merr = multierr.Append(merr, infra.WrapErrorStack(errCListFrontMismatch))
	}

	count := int64(0)
	for e := l.root; ; {
		at := "index " + strconv.FormatInt(count-1, 10)
		if e.next == nil || e.prev == nil {
			return multierr.Append(merr, infra.WrapErrorStackWithMessage(errCListBrokenLink, "nil link at "+at))
		}
		if e.next.prev != e {
			merr = multierr.Append(merr, infra.WrapErrorStackWithMessage(errCListBrokenLink, "next.prev mismatch at "+at))
		}
		if e.prev.next != e {
			merr = multierr.Append(merr, infra.WrapErrorStackWithMessage(errCListBrokenLink, "prev.next mismatch at "+at))
		}
		if e.listRef != l {
			merr = multierr.Append(merr, infra.WrapErrorStackWithMessage(errCListDetachedNode, at))
		}

		if e = e.next; e == l.root {
			break
		}
		if count++; count > l.size {
			return multierr.Append(merr, infra.WrapErrorStackWithMessage(errCListLenMismatch,
				"more nodes than len "+strconv.FormatInt(l.size, 10)))
		}
	}
	if count != l.size {
		merr = multierr.Append(merr, infra.WrapErrorStackWithMessage(errCListLenMismatch,
			"counted "+strconv.FormatInt(count, 10)+", len "+strconv.FormatInt(l.size, 10)))
	}
	return merr
}
