package list

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/benz9527/xlist/lib/infra"
)

var (
	_ ListCursor[struct{}] = (*circularListCursor[struct{}])(nil)
	_ ListCursor[struct{}] = (*readOnlyCursor[struct{}])(nil)
)

// The cursor stays in the gap between prev and next.
//
//	         prev        next
//	+------+     +-----+ ^ +-----+     +------+
//	| root |<--->|  A  |<|>|  B  |<--->| root |
//	+------+     +-----+   +-----+     +------+
//	              idx 0  pos=1  idx 1
//
// lastReturned is the node handed out by the latest Next or Previous,
// nil after Add and Remove.
type circularListCursor[T any] struct {
	listRef      *circularList[T]
	prev, next   *circularListNode[T]
	lastReturned *circularListNode[T]
	pos          int64
	version      uint64
}

func (c *circularListCursor[T]) checkVersion(op string) error {
	l := c.listRef
	if !l.failFast || c.version == l.version {
		return nil
	}
	err := infra.WrapErrorStackWithMessage(ErrCursorStale,
		"cursor version "+strconv.FormatUint(c.version, 10)+", list version "+strconv.FormatUint(l.version, 10),
	)
	l.logger.ErrorStack(err, "[circular-list] stale cursor", zap.String("op", op))
	return err
}

func (c *circularListCursor[T]) HasNext() bool {
	return c.next != c.listRef.root
}

func (c *circularListCursor[T]) HasPrevious() bool {
	return c.prev != c.listRef.root
}

func (c *circularListCursor[T]) Next() (T, error) {
	var zero T
	if err := c.checkVersion("next"); err != nil {
		return zero, err
	}
	if !c.HasNext() {
		return zero, ErrCursorNoSuchElement
	}
	c.lastReturned = c.next
	c.prev, c.next = c.next, c.next.next
	c.pos++
	return c.lastReturned.value, nil
}

func (c *circularListCursor[T]) Previous() (T, error) {
	var zero T
	if err := c.checkVersion("previous"); err != nil {
		return zero, err
	}
	if !c.HasPrevious() {
		return zero, ErrCursorNoSuchElement
	}
	c.lastReturned = c.prev
	c.prev, c.next = c.prev.prev, c.prev
	c.pos--
	return c.lastReturned.value, nil
}

func (c *circularListCursor[T]) NextIndex() int64 {
	return c.pos
}

func (c *circularListCursor[T]) PreviousIndex() int64 {
	return c.pos - 1
}

func (c *circularListCursor[T]) Add(v T) error {
	if err := c.checkVersion("add"); err != nil {
		return err
	}
	l := c.listRef
	newE := insertAfter(c.prev, v)
	if c.prev == l.root {
		l.front = newE
	}
	c.prev = newE
	c.lastReturned = nil
	c.pos++

	l.size++
	l.version++
	c.version = l.version
	l.logger.Debug("[circular-list] add",
		zap.Int64("index", c.pos-1),
		zap.Int64("len", l.size),
	)
	return nil
}

func (c *circularListCursor[T]) Remove() error {
	if err := c.checkVersion("remove"); err != nil {
		return err
	}
	if c.lastReturned == nil {
		return ErrCursorIllegalState
	}
	l, target := c.listRef, c.lastReturned
	if c.next == target {
		// Positioned by Previous.
		c.next = target.next
	}
	if c.prev == target {
		// Positioned by Next.
		c.prev = target.prev
		c.pos--
	}
	if l.front == target {
		l.front = target.next
	}
	unlink(target)
	c.lastReturned = nil

	l.size--
	l.version++
	c.version = l.version
	l.logger.Debug("[circular-list] remove",
		zap.Int64("index", c.pos),
		zap.Int64("len", l.size),
	)
	return nil
}

func (c *circularListCursor[T]) Set(v T) error {
	if err := c.checkVersion("set"); err != nil {
		return err
	}
	if c.lastReturned == nil {
		return ErrCursorIllegalState
	}
	c.lastReturned.value = v
	return nil
}

type readOnlyCursor[T any] struct {
	*circularListCursor[T]
}

func (c *readOnlyCursor[T]) Add(T) error {
	return ErrCursorUnsupported
}

func (c *readOnlyCursor[T]) Remove() error {
	return ErrCursorUnsupported
}

func (c *readOnlyCursor[T]) Set(T) error {
	return ErrCursorUnsupported
}
