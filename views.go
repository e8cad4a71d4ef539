package bimap

import "fmt"

func keyOf[K comparable, V comparable](e *node[K, V]) K            { return e.key }
func entryOf[K comparable, V comparable](e *node[K, V]) Entry[K, V] { return e.entry() }

// KeySet is a live view of the keys of a BiMapOf. Elements can be removed
// through it, which removes the whole mapping; adding is not supported.
type KeySet[K comparable, V comparable] struct {
	m *BiMapOf[K, V]
}

// KeySet returns the key view of the map.
func (m *BiMapOf[K, V]) KeySet() *KeySet[K, V] {
	if m.keySet == nil {
		m.keySet = &KeySet[K, V]{m: m}
	}
	return m.keySet
}

// Size returns the number of keys.
func (s *KeySet[K, V]) Size() int { return s.m.Size() }

// Contains reports whether key is bound.
func (s *KeySet[K, V]) Contains(key K) bool { return s.m.HasKey(key) }

// Remove removes key and its value from the map.
func (s *KeySet[K, V]) Remove(key K) bool {
	_, ok := s.m.LoadAndDelete(key)
	return ok
}

// Add always fails with ErrUnsupportedOperation.
func (s *KeySet[K, V]) Add(K) error {
	return fmt.Errorf("%w: add to key view", ErrUnsupportedOperation)
}

// Clear always fails with ErrUnsupportedOperation.
func (s *KeySet[K, V]) Clear() error {
	return fmt.Errorf("%w: clear key view", ErrUnsupportedOperation)
}

// Iterator returns a fail-fast iterator over the keys.
func (s *KeySet[K, V]) Iterator() *Iterator[K] {
	fwd, inv := s.m.tables()
	return &Iterator[K]{c: newCursor(fwd, inv, keyOf[K, V])}
}

// Spliterator returns a spliterator over the keys.
func (s *KeySet[K, V]) Spliterator() *Spliterator[K] {
	fwd, inv := s.m.tables()
	return newSpliterator(fwd, inv, keyOf[K, V])
}

// All returns an iterator function over the keys.
func (s *KeySet[K, V]) All() func(yield func(K) bool) { return s.m.Keys() }

// ToSlice returns the keys in iteration order.
func (s *KeySet[K, V]) ToSlice() []K {
	out := make([]K, 0, s.Size())
	for k := range s.All() {
		out = append(out, k)
	}
	return out
}

// ValueSet is a live view of the values of a BiMapOf. It is the key view
// of the inverse map.
type ValueSet[K comparable, V comparable] struct {
	keys *KeySet[V, K]
}

// ValueSet returns the value view of the map.
func (m *BiMapOf[K, V]) ValueSet() *ValueSet[K, V] {
	if m.valueSet == nil {
		m.valueSet = &ValueSet[K, V]{keys: m.inverseOf().KeySet()}
	}
	return m.valueSet
}

// Size returns the number of values.
func (s *ValueSet[K, V]) Size() int { return s.keys.Size() }

// Contains reports whether value is bound.
func (s *ValueSet[K, V]) Contains(value V) bool { return s.keys.Contains(value) }

// Remove removes value and its key from the map.
func (s *ValueSet[K, V]) Remove(value V) bool { return s.keys.Remove(value) }

// Add always fails with ErrUnsupportedOperation.
func (s *ValueSet[K, V]) Add(V) error {
	return fmt.Errorf("%w: add to value view", ErrUnsupportedOperation)
}

// Clear always fails with ErrUnsupportedOperation.
func (s *ValueSet[K, V]) Clear() error {
	return fmt.Errorf("%w: clear value view", ErrUnsupportedOperation)
}

// Iterator returns a fail-fast iterator over the values.
func (s *ValueSet[K, V]) Iterator() *Iterator[V] { return s.keys.Iterator() }

// Spliterator returns a spliterator over the values.
func (s *ValueSet[K, V]) Spliterator() *Spliterator[V] { return s.keys.Spliterator() }

// All returns an iterator function over the values.
func (s *ValueSet[K, V]) All() func(yield func(V) bool) { return s.keys.All() }

// ToSlice returns the values in iteration order.
func (s *ValueSet[K, V]) ToSlice() []V { return s.keys.ToSlice() }

// EntrySet is a live view of the mappings of a BiMapOf.
type EntrySet[K comparable, V comparable] struct {
	m *BiMapOf[K, V]
}

// EntrySet returns the mapping view of the map.
func (m *BiMapOf[K, V]) EntrySet() *EntrySet[K, V] {
	if m.entrySet == nil {
		m.entrySet = &EntrySet[K, V]{m: m}
	}
	return m.entrySet
}

// InverseEntrySet returns the mapping view of the inverse map.
func (m *BiMapOf[K, V]) InverseEntrySet() *EntrySet[V, K] {
	return m.inverseOf().EntrySet()
}

// Size returns the number of mappings.
func (s *EntrySet[K, V]) Size() int { return s.m.Size() }

// Contains reports whether e.Key is bound to e.Value.
func (s *EntrySet[K, V]) Contains(e Entry[K, V]) bool {
	v, ok := s.m.Load(e.Key)
	return ok && v == e.Value
}

// Remove removes the mapping if e.Key is bound to e.Value.
func (s *EntrySet[K, V]) Remove(e Entry[K, V]) bool {
	return s.m.CompareAndDelete(e.Key, e.Value)
}

// Add always fails with ErrUnsupportedOperation.
func (s *EntrySet[K, V]) Add(Entry[K, V]) error {
	return fmt.Errorf("%w: add to entry view", ErrUnsupportedOperation)
}

// Clear always fails with ErrUnsupportedOperation.
func (s *EntrySet[K, V]) Clear() error {
	return fmt.Errorf("%w: clear entry view", ErrUnsupportedOperation)
}

// Iterator returns a fail-fast iterator over the mappings.
func (s *EntrySet[K, V]) Iterator() *Iterator[Entry[K, V]] {
	fwd, inv := s.m.tables()
	return &Iterator[Entry[K, V]]{c: newCursor(fwd, inv, entryOf[K, V])}
}

// Spliterator returns a spliterator over the mappings.
func (s *EntrySet[K, V]) Spliterator() *Spliterator[Entry[K, V]] {
	fwd, inv := s.m.tables()
	return newSpliterator(fwd, inv, entryOf[K, V])
}

// All returns an iterator function over the mappings.
func (s *EntrySet[K, V]) All() func(yield func(Entry[K, V]) bool) {
	return func(yield func(Entry[K, V]) bool) {
		s.m.Range(func(k K, v V) bool {
			return yield(Entry[K, V]{Key: k, Value: v})
		})
	}
}

// ToSlice returns the mappings in iteration order.
func (s *EntrySet[K, V]) ToSlice() []Entry[K, V] {
	out := make([]Entry[K, V], 0, s.Size())
	for e := range s.All() {
		out = append(out, e)
	}
	return out
}
