package bimap

// BiMap is a map that preserves the uniqueness of its values as well as
// its keys. Each value is bound to exactly one key, and Inverse gives the
// value-to-key view of the same mappings.
//
// BiMapOf and SyncBiMapOf implement BiMap.
type BiMap[K comparable, V comparable] interface {
	Size() int
	IsZero() bool
	HasKey(key K) bool
	HasValue(value V) bool
	Load(key K) (value V, ok bool)
	LoadKey(value V) (key K, ok bool)

	Put(key K, value V) (previous V, loaded bool, err error)
	ForcePut(key K, value V) (previous V, loaded bool, err error)
	LoadOrStore(key K, value V) (actual V, loaded bool, err error)
	Replace(key K, value V) (previous V, replaced bool, err error)
	CompareAndSwap(key K, old, new V) (swapped bool, err error)

	LoadAndDelete(key K) (value V, loaded bool)
	LoadAndDeleteValue(value V) (key K, loaded bool)
	CompareAndDelete(key K, old V) (deleted bool)
	Delete(key K)
	DeleteValue(value V)
	Clear()

	Range(yield func(key K, value V) bool)
	ToMap() map[K]V
	Inverse() BiMap[V, K]
}

var (
	_ BiMap[string, int] = (*BiMapOf[string, int])(nil)
	_ BiMap[string, int] = (*SyncBiMapOf[string, int])(nil)
)

// Equal reports whether a and b hold the same mappings. a is copied
// before b is read, so a SyncBiMapOf may be compared with its own inverse.
func Equal[K comparable, V comparable](a, b BiMap[K, V]) bool {
	if a == b {
		return true
	}
	if a.Size() != b.Size() {
		return false
	}
	return EqualMap(b, a.ToMap())
}

// EqualMap reports whether m holds exactly the mappings of other.
func EqualMap[K comparable, V comparable](m BiMap[K, V], other map[K]V) bool {
	if m.Size() != len(other) {
		return false
	}
	for k, v := range other {
		if w, ok := m.Load(k); !ok || w != v {
			return false
		}
	}
	return true
}
