package bimap

import "fmt"

// cursor walks the bins of one table of a BiMapOf in bin order, projecting
// each node to an element of type T.
type cursor[K comparable, V comparable, T any] struct {
	tab     *hashTable[K, V]
	mirror  *hashTable[V, K]
	project func(*node[K, V]) T

	next     *node[K, V]
	current  *node[K, V]
	index    int
	expected int
}

func newCursor[K comparable, V comparable, T any](
	tab *hashTable[K, V],
	mirror *hashTable[V, K],
	project func(*node[K, V]) T,
) *cursor[K, V, T] {
	c := &cursor[K, V, T]{
		tab:      tab,
		mirror:   mirror,
		project:  project,
		expected: tab.modCount + mirror.modCount,
	}
	if tab.size > 0 {
		c.seek()
	}
	return c
}

func (c *cursor[K, V, T]) modCount() int {
	return c.tab.modCount + c.mirror.modCount
}

// seek moves next to the first node of the next non-empty bin.
func (c *cursor[K, V, T]) seek() {
	bins := c.tab.bins
	for c.next == nil && c.index < len(bins) {
		c.next = bins[c.index]
		c.index++
	}
}

// advance returns the next element. ok is false once the table is
// exhausted.
func (c *cursor[K, V, T]) advance() (elem T, ok bool, err error) {
	if c.modCount() != c.expected {
		return elem, false, ErrConcurrentModification
	}
	e := c.next
	if e == nil {
		c.current = nil
		return elem, false, nil
	}
	c.current = e
	c.next = e.next
	if c.next == nil {
		c.seek()
	}
	return c.project(e), true, nil
}

// remove deletes the mapping last returned by advance from both tables.
func (c *cursor[K, V, T]) remove() error {
	p := c.current
	if p == nil {
		return ErrIllegalState
	}
	if c.modCount() != c.expected {
		return ErrConcurrentModification
	}
	c.current = nil
	// movable is false so the bin order ahead of next is kept
	removeMapping(c.tab, c.mirror, p.key, p.value, false, false)
	c.expected = c.modCount()
	return nil
}

// elementCursor erases the table types of a cursor.
type elementCursor[T any] interface {
	advance() (T, bool, error)
	remove() error
}

// Iterator is a fail-fast cursor over a view of a BiMapOf, in the style of
// bufio.Scanner:
//
//	it := m.KeySet().Iterator()
//	for it.Next() {
//		k := it.Value()
//		...
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
//
// If the map is structurally modified other than through Remove after the
// iterator was created, Next stops and Err reports an error wrapping
// ErrConcurrentModification. The iterator is unusable afterwards. Binding
// a new value to an existing key counts as a modification, since it
// rewrites the inverse table.
type Iterator[T any] struct {
	c     elementCursor[T]
	value T
	err   error
	done  bool
}

// Next advances to the next element and reports whether there is one.
func (it *Iterator[T]) Next() bool {
	if it.done {
		return false
	}
	v, ok, err := it.c.advance()
	if err != nil {
		it.err = fmt.Errorf("bimap: iterator: %w", err)
	}
	if !ok {
		var zero T
		it.value = zero
		it.done = true
		return false
	}
	it.value = v
	return true
}

// Value returns the element produced by the last call to Next.
func (it *Iterator[T]) Value() T {
	return it.value
}

// Err returns the error, if any, that stopped the iteration.
func (it *Iterator[T]) Err() error {
	return it.err
}

// Remove deletes the mapping of the element last returned by Next from the
// map, including its mirror in the inverse direction. It fails with
// ErrIllegalState if Next has not produced an element since the last
// Remove.
func (it *Iterator[T]) Remove() error {
	if it.err != nil {
		return it.err
	}
	if err := it.c.remove(); err != nil {
		return fmt.Errorf("bimap: iterator: %w", err)
	}
	return nil
}
