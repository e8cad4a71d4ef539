package bimap

import "fmt"

// Characteristics describe a Spliterator's source.
type Characteristics uint8

const (
	// Sized means EstimateSize is exact.
	Sized Characteristics = 1 << iota
	// Distinct means no two elements are equal.
	Distinct
)

// Has reports whether all characteristics in x are set.
func (c Characteristics) Has(x Characteristics) bool {
	return c&x == x
}

func (c Characteristics) String() string {
	switch c {
	case 0:
		return "None"
	case Sized:
		return "Sized"
	case Distinct:
		return "Distinct"
	case Sized | Distinct:
		return "Sized|Distinct"
	}
	return fmt.Sprintf("Characteristics(%d)", uint8(c))
}

// rangeSplitter covers the bin range [index, fence) of one table.
//
// fence is negative until first use; binding it snapshots the bin count,
// the size estimate and the modification count.
type rangeSplitter[K comparable, V comparable, T any] struct {
	tab     *hashTable[K, V]
	mirror  *hashTable[V, K]
	project func(*node[K, V]) T

	current  *node[K, V]
	index    int
	fence    int
	est      int
	expected int
}

func (s *rangeSplitter[K, V, T]) modCount() int {
	return s.tab.modCount + s.mirror.modCount
}

func (s *rangeSplitter[K, V, T]) getFence() int {
	if s.fence < 0 {
		s.est = s.tab.size
		s.expected = s.modCount()
		s.fence = len(s.tab.bins)
	}
	return s.fence
}

func (s *rangeSplitter[K, V, T]) trySplit() elementSplitter[T] {
	hi := s.getFence()
	lo := s.index
	mid := int(uint(lo+hi) >> 1)
	if lo >= mid || s.current != nil {
		return nil
	}
	s.est >>= 1
	prefix := &rangeSplitter[K, V, T]{
		tab:      s.tab,
		mirror:   s.mirror,
		project:  s.project,
		index:    lo,
		fence:    mid,
		est:      s.est,
		expected: s.expected,
	}
	s.index = mid
	return prefix
}

func (s *rangeSplitter[K, V, T]) tryAdvance(action func(T)) (bool, error) {
	hi := s.getFence()
	bins := s.tab.bins
	if len(bins) < hi || s.index < 0 {
		return false, nil
	}
	for s.current != nil || s.index < hi {
		if s.current == nil {
			s.current = bins[s.index]
			s.index++
			continue
		}
		e := s.current
		s.current = e.next
		action(s.project(e))
		if s.modCount() != s.expected {
			return false, ErrConcurrentModification
		}
		return true, nil
	}
	return false, nil
}

func (s *rangeSplitter[K, V, T]) forEachRemaining(action func(T) bool) error {
	hi := s.getFence()
	bins := s.tab.bins
	i := s.index
	if len(bins) < hi || i < 0 || (i >= hi && s.current == nil) {
		return nil
	}
	s.index = hi
	p := s.current
	s.current = nil
	for p != nil || i < hi {
		if p == nil {
			p = bins[i]
			i++
			continue
		}
		if !action(s.project(p)) {
			break
		}
		p = p.next
	}
	if s.modCount() != s.expected {
		return ErrConcurrentModification
	}
	return nil
}

func (s *rangeSplitter[K, V, T]) estimateSize() int {
	s.getFence()
	return s.est
}

func (s *rangeSplitter[K, V, T]) characteristics() Characteristics {
	if s.fence < 0 || s.est == s.tab.size {
		return Sized | Distinct
	}
	return Distinct
}

// elementSplitter erases the table types of a rangeSplitter.
type elementSplitter[T any] interface {
	trySplit() elementSplitter[T]
	tryAdvance(action func(T)) (bool, error)
	forEachRemaining(action func(T) bool) error
	estimateSize() int
	characteristics() Characteristics
}

func newSpliterator[K comparable, V comparable, T any](
	tab *hashTable[K, V],
	mirror *hashTable[V, K],
	project func(*node[K, V]) T,
) *Spliterator[T] {
	return &Spliterator[T]{s: &rangeSplitter[K, V, T]{
		tab:     tab,
		mirror:  mirror,
		project: project,
		fence:   -1,
	}}
}

// Spliterator traverses a view of a BiMapOf and can split off a prefix of
// its bin range for traversal by another goroutine.
//
// A Spliterator binds to the map on first use rather than on creation.
// Structural modification of the map after that point makes traversal
// fail with an error wrapping ErrConcurrentModification. The map must not
// be modified while spliterators are traversed concurrently.
type Spliterator[T any] struct {
	s elementSplitter[T]
}

// TrySplit splits off the lower half of the remaining bin range into a new
// Spliterator. It returns nil when the range cannot be split further or
// traversal has already started inside a bin.
func (sp *Spliterator[T]) TrySplit() *Spliterator[T] {
	if s := sp.s.trySplit(); s != nil {
		return &Spliterator[T]{s: s}
	}
	return nil
}

// TryAdvance calls action on the next element, if any, and reports whether
// it did.
func (sp *Spliterator[T]) TryAdvance(action func(T)) (bool, error) {
	ok, err := sp.s.tryAdvance(action)
	if err != nil {
		return false, fmt.Errorf("bimap: spliterator: %w", err)
	}
	return ok, nil
}

// ForEachRemaining calls action on each remaining element until action
// returns false.
func (sp *Spliterator[T]) ForEachRemaining(action func(T) bool) error {
	if err := sp.s.forEachRemaining(action); err != nil {
		return fmt.Errorf("bimap: spliterator: %w", err)
	}
	return nil
}

// EstimateSize returns the estimated number of remaining elements. It is
// exact while Characteristics reports Sized.
func (sp *Spliterator[T]) EstimateSize() int {
	return sp.s.estimateSize()
}

// Characteristics returns the characteristics of the remaining elements.
func (sp *Spliterator[T]) Characteristics() Characteristics {
	return sp.s.characteristics()
}
