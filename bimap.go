package bimap

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

// BiMapOf is a bijective hash map: both its keys and its values are unique,
// and either can be looked up in O(1) on average. It keeps two hash tables,
// one mapping keys to values and one mapping values back to keys, and every
// mutation updates both.
//
// Key features of BiMapOf:
//   - Bins overflow into red-black trees, so heavy hash collisions degrade
//     lookups to O(log n) rather than O(n)
//   - Inverse returns a live view sharing the same storage with the roles
//     of keys and values swapped
//   - Iterators and spliterators are fail-fast
//   - Pluggable hash functions and hash smearing strategies
//   - Zero-value usability with lazy initialization
//
// A BiMapOf is not safe for concurrent use. Wrap it with Synchronized when
// more than one goroutine can reach it and at least one of them writes.
//
// Keys and values are compared with ==. As with Go maps, an interface-typed
// key or value whose dynamic type is not comparable causes a panic. Values
// that are not equal to themselves, such as floating-point NaN, are rejected
// with ErrInvalidArgument because they could never be looked up again.
type BiMapOf[K comparable, V comparable] struct {
	fwd *hashTable[K, V]
	inv *hashTable[V, K]

	// inverse is the memoized inverse view; its inverse is this map.
	inverse *BiMapOf[V, K]

	keySet   *KeySet[K, V]
	valueSet *ValueSet[K, V]
	entrySet *EntrySet[K, V]
}

// NewBiMapOf creates a new BiMapOf instance. Direct initialization is also
// supported; a zero BiMapOf uses the default configuration.
//
// Parameters:
//   - WithInitialCapacity option for the initial bin count
//   - WithLoadFactor option for the resize trigger
//   - WithHashing option for the hash smearing strategy
//   - WithLogger option for resize and treeify events
func NewBiMapOf[K comparable, V comparable](
	options ...func(*Config),
) (*BiMapOf[K, V], error) {
	return NewBiMapOfWithHasher[K, V](nil, nil, options...)
}

// NewBiMapOfWithHasher creates a BiMapOf with custom raw hash functions for
// keys and values. A nil function selects the built-in hash for the type.
func NewBiMapOfWithHasher[K comparable, V comparable](
	keyHash HashFunc[K],
	valHash HashFunc[V],
	options ...func(*Config),
) (*BiMapOf[K, V], error) {
	cfg := defaultConfig()
	for _, opt := range options {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	m := &BiMapOf[K, V]{}
	m.init(&cfg, keyHash, valHash)
	return m, nil
}

// MustNewBiMapOf is like NewBiMapOf but panics if the configuration is
// invalid.
func MustNewBiMapOf[K comparable, V comparable](options ...func(*Config)) *BiMapOf[K, V] {
	m, err := NewBiMapOf[K, V](options...)
	if err != nil {
		panic(err)
	}
	return m
}

// FromMap creates a BiMapOf holding the entries of src. It fails with
// ErrValueAlreadyPresent if two keys of src share a value.
func FromMap[K comparable, V comparable](src map[K]V, options ...func(*Config)) (*BiMapOf[K, V], error) {
	options = append([]func(*Config){WithInitialCapacity(int(float64(len(src))/DefaultLoadFactor) + 1)}, options...)
	m, err := NewBiMapOf[K, V](options...)
	if err != nil {
		return nil, err
	}
	if err := m.PutAll(src); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *BiMapOf[K, V]) init(cfg *Config, keyHash HashFunc[K], valHash HashFunc[V]) {
	if keyHash == nil {
		keyHash = defaultHashFunc[K](uintptr(rand.Uint64()))
	}
	if valHash == nil {
		valHash = defaultHashFunc[V](uintptr(rand.Uint64()))
	}
	m.fwd = newHashTable[K, V](cfg, keyHash, "forward")
	m.inv = newHashTable[V, K](cfg, valHash, "inverse")
}

// tables returns both tables, initializing a zero BiMapOf on first use.
func (m *BiMapOf[K, V]) tables() (*hashTable[K, V], *hashTable[V, K]) {
	if m.fwd == nil {
		cfg := defaultConfig()
		m.init(&cfg, nil, nil)
	}
	return m.fwd, m.inv
}

// inverseOf returns the memoized inverse view.
func (m *BiMapOf[K, V]) inverseOf() *BiMapOf[V, K] {
	fwd, inv := m.tables()
	if m.inverse == nil {
		m.inverse = &BiMapOf[V, K]{fwd: inv, inv: fwd, inverse: m}
	}
	return m.inverse
}

// Inverse returns the inverse view of this map, which maps each of its
// values to the associated key. The view shares storage with this map:
// changes made through either are visible through both.
func (m *BiMapOf[K, V]) Inverse() BiMap[V, K] {
	return m.inverseOf()
}

// Size returns the number of key-value mappings. This is an O(1) operation.
func (m *BiMapOf[K, V]) Size() int {
	if m.fwd == nil {
		return 0
	}
	return m.fwd.size
}

// IsZero reports whether the map holds no mappings.
func (m *BiMapOf[K, V]) IsZero() bool {
	return m.Size() == 0
}

// Load returns the value bound to key.
func (m *BiMapOf[K, V]) Load(key K) (value V, ok bool) {
	if m.fwd == nil {
		return
	}
	return m.fwd.get(key)
}

// LoadKey returns the key bound to value.
func (m *BiMapOf[K, V]) LoadKey(value V) (key K, ok bool) {
	if m.inv == nil {
		return
	}
	return m.inv.get(value)
}

// LoadOrDefault returns the value bound to key, or def if there is none.
func (m *BiMapOf[K, V]) LoadOrDefault(key K, def V) V {
	if v, ok := m.Load(key); ok {
		return v
	}
	return def
}

// LoadKeyOrDefault returns the key bound to value, or def if there is none.
func (m *BiMapOf[K, V]) LoadKeyOrDefault(value V, def K) K {
	if k, ok := m.LoadKey(value); ok {
		return k
	}
	return def
}

// HasKey reports whether key is bound.
func (m *BiMapOf[K, V]) HasKey(key K) bool {
	_, ok := m.Load(key)
	return ok
}

// HasValue reports whether value is bound.
func (m *BiMapOf[K, V]) HasValue(value V) bool {
	_, ok := m.LoadKey(value)
	return ok
}

// putMode selects the behavior of update.
type putMode uint8

const (
	// putAny stores unconditionally but rejects value conflicts.
	putAny putMode = iota
	// putAbsent stores only when key is unbound.
	putAbsent
	// putPresent stores only when key is already bound.
	putPresent
	// putForce stores unconditionally, evicting the key that currently
	// holds value.
	putForce
)

// update is the only path that binds a value. It applies the forward
// change and then mirrors the difference between the old and the new value
// into the inverse table, so the two tables agree when it returns.
func (m *BiMapOf[K, V]) update(key K, value V, mode putMode) (previous V, loaded bool, err error) {
	if key != key || value != value {
		return previous, false, fmt.Errorf("%w: %v=%v is not equal to itself", ErrInvalidArgument, key, value)
	}
	fwd, inv := m.tables()

	e := fwd.getNode(key)
	if e != nil {
		previous, loaded = e.value, true
		if mode == putAbsent || e.value == value {
			return previous, true, nil
		}
	} else if mode == putPresent {
		return previous, false, nil
	}

	if owner := inv.getNode(value); owner != nil {
		// owner.value != key, the same-value case returned above
		if mode != putForce {
			return previous, loaded, fmt.Errorf("%w: %v is bound to key %v", ErrValueAlreadyPresent, value, owner.value)
		}
		removeMapping(fwd, inv, owner.value, value, false, true)
	}

	if e != nil {
		e.value = value
		inv.put(value, key, false)
		inv.remove(previous, key, true, true)
		return previous, true, nil
	}
	fwd.put(key, value, false)
	inv.put(value, key, false)
	return previous, false, nil
}

// removeMapping removes key from a and the mirrored entry from b. It is the
// only removal path. matchValue and movable apply to a.
func removeMapping[K comparable, V comparable](
	a *hashTable[K, V],
	b *hashTable[V, K],
	key K,
	value V,
	matchValue, movable bool,
) *node[K, V] {
	e := a.remove(key, value, matchValue, movable)
	if e != nil {
		b.remove(e.value, key, true, true)
	}
	return e
}

// Put binds key to value and returns the value previously bound to key, if
// any. If value is already bound to a different key, Put fails with
// ErrValueAlreadyPresent and leaves the map unchanged; use ForcePut to
// rebind it instead.
func (m *BiMapOf[K, V]) Put(key K, value V) (previous V, loaded bool, err error) {
	return m.update(key, value, putAny)
}

// ForcePut is like Put, but if value is already bound to a different key
// that binding is silently removed first. The map may shrink by one.
func (m *BiMapOf[K, V]) ForcePut(key K, value V) (previous V, loaded bool, err error) {
	return m.update(key, value, putForce)
}

// LoadOrStore returns the existing value for key if present. Otherwise it
// binds value and returns it. The loaded result is true if the value was
// loaded, false if stored.
func (m *BiMapOf[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool, err error) {
	previous, loaded, err := m.update(key, value, putAbsent)
	if loaded {
		return previous, true, err
	}
	if err != nil {
		return actual, false, err
	}
	return value, false, nil
}

// Replace rebinds key to value only if key is already bound. It returns
// the previous value and whether a replacement happened.
func (m *BiMapOf[K, V]) Replace(key K, value V) (previous V, replaced bool, err error) {
	previous, replaced, err = m.update(key, value, putPresent)
	if err != nil {
		return previous, false, err
	}
	return previous, replaced, nil
}

// CompareAndSwap rebinds key to new only if it is currently bound to old.
func (m *BiMapOf[K, V]) CompareAndSwap(key K, old, new V) (swapped bool, err error) {
	if v, ok := m.Load(key); !ok || v != old {
		return false, nil
	}
	if _, _, err = m.update(key, new, putPresent); err != nil {
		return false, err
	}
	return true, nil
}

// CompareAndSwapKey rebinds value to newKey only if it is currently bound
// to oldKey.
func (m *BiMapOf[K, V]) CompareAndSwapKey(value V, oldKey, newKey K) (swapped bool, err error) {
	return m.inverseOf().CompareAndSwap(value, oldKey, newKey)
}

// PutAll binds every entry of src. It stops at the first entry that fails;
// entries bound before it stay bound.
func (m *BiMapOf[K, V]) PutAll(src map[K]V) error {
	for k, v := range src {
		if _, _, err := m.update(k, v, putAny); err != nil {
			return err
		}
	}
	return nil
}

// LoadAndDelete removes key and returns the value it was bound to.
func (m *BiMapOf[K, V]) LoadAndDelete(key K) (value V, loaded bool) {
	fwd, inv := m.tables()
	if e := removeMapping(fwd, inv, key, value, false, true); e != nil {
		return e.value, true
	}
	return value, false
}

// Delete removes key.
func (m *BiMapOf[K, V]) Delete(key K) {
	m.LoadAndDelete(key)
}

// LoadAndDeleteValue removes value and returns the key it was bound to.
func (m *BiMapOf[K, V]) LoadAndDeleteValue(value V) (key K, loaded bool) {
	return m.inverseOf().LoadAndDelete(value)
}

// DeleteValue removes value.
func (m *BiMapOf[K, V]) DeleteValue(value V) {
	m.LoadAndDeleteValue(value)
}

// CompareAndDelete removes key only if it is bound to old.
func (m *BiMapOf[K, V]) CompareAndDelete(key K, old V) (deleted bool) {
	fwd, inv := m.tables()
	return removeMapping(fwd, inv, key, old, true, true) != nil
}

// Clear removes all mappings. The bin arrays keep their capacity.
func (m *BiMapOf[K, V]) Clear() {
	fwd, inv := m.tables()
	fwd.clear()
	inv.clear()
}

// Range calls yield for each mapping until yield returns false.
//
// Range panics with an error wrapping ErrConcurrentModification if yield
// structurally modifies the map.
func (m *BiMapOf[K, V]) Range(yield func(key K, value V) bool) {
	fwd, inv := m.tables()
	c := newCursor(fwd, inv, func(e *node[K, V]) *node[K, V] { return e })
	for {
		e, ok, err := c.advance()
		if err != nil {
			panic(fmt.Errorf("bimap: range: %w", err))
		}
		if !ok || !yield(e.key, e.value) {
			return
		}
	}
}

// All returns an iterator function for use with range-over-func.
// It provides the same functionality as Range but in iterator form.
func (m *BiMapOf[K, V]) All() func(yield func(K, V) bool) { return m.Range }

// Keys is the iterator version for iterating over all keys.
func (m *BiMapOf[K, V]) Keys() func(yield func(K) bool) {
	return func(yield func(K) bool) {
		m.Range(func(k K, _ V) bool {
			return yield(k)
		})
	}
}

// Values is the iterator version for iterating over all values.
func (m *BiMapOf[K, V]) Values() func(yield func(V) bool) {
	return func(yield func(V) bool) {
		m.Range(func(_ K, v V) bool {
			return yield(v)
		})
	}
}

// ToMap collect all entries and return a map[K]V
func (m *BiMapOf[K, V]) ToMap() map[K]V {
	return m.ToMapWithLimit(-1)
}

// ToMapWithLimit collect up to limit entries into a map[K]V, limit < 0 is no limit
func (m *BiMapOf[K, V]) ToMapWithLimit(limit int) map[K]V {
	if limit == 0 {
		return map[K]V{}
	}
	if limit < 0 {
		limit = math.MaxInt
	}
	a := make(map[K]V, min(m.Size(), limit))
	m.Range(func(k K, v V) bool {
		a[k] = v
		limit--
		return limit > 0
	})
	return a
}

// String implement the formatting output interface fmt.Stringer
func (m *BiMapOf[K, V]) String() string {
	const limit = 1024
	return strings.Replace(fmt.Sprint(m.ToMapWithLimit(limit)), "map[", "BiMapOf[", 1)
}

// Clone returns a copy of the map with independent storage and the same
// configuration.
func (m *BiMapOf[K, V]) Clone() *BiMapOf[K, V] {
	fwd, inv := m.tables()
	c := &BiMapOf[K, V]{
		fwd: fwd.cloneEmpty(),
		inv: inv.cloneEmpty(),
	}
	for _, first := range fwd.bins {
		for e := first; e != nil; e = e.next {
			c.fwd.putVal(e.hash, e.key, e.value, false)
			c.inv.put(e.value, e.key, false)
		}
	}
	return c
}

// Verify checks every structural invariant of both tables and the
// bijection between them. It returns an error wrapping ErrCorrupted on the
// first violation found.
func (m *BiMapOf[K, V]) Verify() error {
	fwd, inv := m.tables()
	if err := fwd.verify(); err != nil {
		return fmt.Errorf("forward table: %w", err)
	}
	if err := inv.verify(); err != nil {
		return fmt.Errorf("inverse table: %w", err)
	}
	if fwd.size != inv.size {
		return fmt.Errorf("%w: forward size %d, inverse size %d", ErrCorrupted, fwd.size, inv.size)
	}
	for _, first := range fwd.bins {
		for e := first; e != nil; e = e.next {
			if k, ok := inv.get(e.value); !ok || k != e.key {
				return fmt.Errorf("%w: %v=%v has no mirror", ErrCorrupted, e.key, e.value)
			}
		}
	}
	return nil
}
