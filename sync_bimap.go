package bimap

// SyncBiMapOf is a BiMapOf guarded by a read-write mutex. Its inverse view
// shares the same mutex, so operations through either side are serialized
// against each other.
//
// Range holds the read lock for the whole traversal; yield must not write
// to the map or its inverse.
type SyncBiMapOf[K comparable, V comparable] struct {
	_       noCopy
	mu      *paddedRWMutex
	m       *BiMapOf[K, V]
	inverse *SyncBiMapOf[V, K]
}

// NewSyncBiMapOf creates a synchronized BiMapOf.
func NewSyncBiMapOf[K comparable, V comparable](
	options ...func(*Config),
) (*SyncBiMapOf[K, V], error) {
	m, err := NewBiMapOf[K, V](options...)
	if err != nil {
		return nil, err
	}
	return Synchronized(m), nil
}

// Synchronized wraps m. The caller must not use m directly afterwards.
func Synchronized[K comparable, V comparable](m *BiMapOf[K, V]) *SyncBiMapOf[K, V] {
	mu := new(paddedRWMutex)
	s := &SyncBiMapOf[K, V]{mu: mu, m: m}
	s.inverse = &SyncBiMapOf[V, K]{mu: mu, m: m.inverseOf(), inverse: s}
	return s
}

// Inverse returns the synchronized inverse view.
func (s *SyncBiMapOf[K, V]) Inverse() BiMap[V, K] {
	return s.inverse
}

// Size returns the number of mappings.
func (s *SyncBiMapOf[K, V]) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.Size()
}

// IsZero reports whether the map holds no mappings.
func (s *SyncBiMapOf[K, V]) IsZero() bool {
	return s.Size() == 0
}

// HasKey reports whether key is bound.
func (s *SyncBiMapOf[K, V]) HasKey(key K) bool {
	_, ok := s.Load(key)
	return ok
}

// HasValue reports whether value is bound to some key.
func (s *SyncBiMapOf[K, V]) HasValue(value V) bool {
	_, ok := s.LoadKey(value)
	return ok
}

// Load returns the value bound to key.
func (s *SyncBiMapOf[K, V]) Load(key K) (value V, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.Load(key)
}

// LoadKey returns the key bound to value.
func (s *SyncBiMapOf[K, V]) LoadKey(value V) (key K, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.LoadKey(value)
}

// Put binds key to value under the write lock. See BiMapOf.Put.
func (s *SyncBiMapOf[K, V]) Put(key K, value V) (previous V, loaded bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Put(key, value)
}

// ForcePut binds key to value, evicting any other key bound to value.
func (s *SyncBiMapOf[K, V]) ForcePut(key K, value V) (previous V, loaded bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.ForcePut(key, value)
}

// LoadOrStore returns the existing value for key, or stores value.
func (s *SyncBiMapOf[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.LoadOrStore(key, value)
}

// Replace rebinds key only if it is already present.
func (s *SyncBiMapOf[K, V]) Replace(key K, value V) (previous V, replaced bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Replace(key, value)
}

// CompareAndSwap rebinds key to new if it is currently bound to old.
func (s *SyncBiMapOf[K, V]) CompareAndSwap(key K, old, new V) (swapped bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.CompareAndSwap(key, old, new)
}

// LoadAndDelete removes key and returns the value it was bound to.
func (s *SyncBiMapOf[K, V]) LoadAndDelete(key K) (value V, loaded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.LoadAndDelete(key)
}

// LoadAndDeleteValue removes value and returns the key it was bound to.
func (s *SyncBiMapOf[K, V]) LoadAndDeleteValue(value V) (key K, loaded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.LoadAndDeleteValue(value)
}

// CompareAndDelete removes key if it is bound to old.
func (s *SyncBiMapOf[K, V]) CompareAndDelete(key K, old V) (deleted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.CompareAndDelete(key, old)
}

// Delete removes key.
func (s *SyncBiMapOf[K, V]) Delete(key K) {
	s.LoadAndDelete(key)
}

// DeleteValue removes the mapping holding value.
func (s *SyncBiMapOf[K, V]) DeleteValue(value V) {
	s.LoadAndDeleteValue(value)
}

// Clear removes all mappings.
func (s *SyncBiMapOf[K, V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.Clear()
}

// Compute runs fn with exclusive access to the underlying map, for
// multi-step updates that must not interleave with other operations.
func (s *SyncBiMapOf[K, V]) Compute(fn func(m *BiMapOf[K, V]) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.m)
}

// Range calls yield for each mapping under the read lock.
func (s *SyncBiMapOf[K, V]) Range(yield func(key K, value V) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.m.Range(yield)
}

// All returns an iterator function for use with range-over-func.
func (s *SyncBiMapOf[K, V]) All() func(yield func(K, V) bool) { return s.Range }

// ToMap returns a snapshot of the mappings.
func (s *SyncBiMapOf[K, V]) ToMap() map[K]V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.ToMap()
}

// String formats the mappings sorted by key.
func (s *SyncBiMapOf[K, V]) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.String()
}

// Stats returns statistics of the underlying map.
func (s *SyncBiMapOf[K, V]) Stats() *BiMapStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.Stats()
}
