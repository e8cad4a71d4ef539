package bimap

import (
	"math/bits"
	"unsafe"
)

// defaultHashFunc returns the raw hash used when no HashFunc is supplied.
// Integer kinds hash to their own value, which keeps sequential integer keys
// spread over consecutive bins. Every other type is hashed with Go's
// built-in map hasher for that type, salted with seed.
func defaultHashFunc[T comparable](seed uintptr) HashFunc[T] {
	switch any(*new(T)).(type) {
	case uint, int, uintptr:
		return func(v T) uintptr {
			return *(*uintptr)(unsafe.Pointer(&v))
		}

	case uint64, int64:
		if bits.UintSize == 32 {
			return func(v T) uintptr {
				u := *(*uint64)(unsafe.Pointer(&v))
				return uintptr(u) ^ uintptr(u>>32)
			}
		}
		return func(v T) uintptr {
			return uintptr(*(*uint64)(unsafe.Pointer(&v)))
		}

	case uint32, int32:
		return func(v T) uintptr {
			return uintptr(*(*uint32)(unsafe.Pointer(&v)))
		}

	case uint16, int16:
		return func(v T) uintptr {
			return uintptr(*(*uint16)(unsafe.Pointer(&v)))
		}

	case uint8, int8:
		return func(v T) uintptr {
			return uintptr(*(*uint8)(unsafe.Pointer(&v)))
		}

	default:
		hash := builtInHasher[T]()
		return func(v T) uintptr {
			return hash(noescape(unsafe.Pointer(&v)), seed)
		}
	}
}

// builtInHasher obtains Go's built-in hash function for T by reading the
// hasher slot of the runtime type descriptor of map[T]struct{}.
//
// Notes:
//   - This implementation relies on Go's internal type representation
//   - It should be verified for compatibility with each Go version upgrade
func builtInHasher[T comparable]() func(unsafe.Pointer, uintptr) uintptr {
	var m map[T]struct{}
	return iTypeOf(m).MapType().Hasher
}

type iTFlag uint8
type iKind uint8
type iNameOff int32
type iTypeOff int32

type iType struct {
	Size_       uintptr
	PtrBytes    uintptr
	Hash        uint32
	TFlag       iTFlag
	Align_      uint8
	FieldAlign_ uint8
	Kind_       iKind
	Equal       func(unsafe.Pointer, unsafe.Pointer) bool
	GCData      *byte
	Str         iNameOff
	PtrToThis   iTypeOff
}

func (t *iType) MapType() *iMapType {
	return (*iMapType)(unsafe.Pointer(t))
}

type iMapType struct {
	iType
	Key   *iType
	Elem  *iType
	Group *iType
	// function for hashing keys (ptr to key, seed) -> hash
	Hasher func(unsafe.Pointer, uintptr) uintptr
}

type iEmptyInterface struct {
	Type *iType
	Data unsafe.Pointer
}

func iTypeOf(a any) *iType {
	eface := *(*iEmptyInterface)(unsafe.Pointer(&a))
	return (*iType)(noescape(unsafe.Pointer(eface.Type)))
}

// noescape hides a pointer from escape analysis.  noescape is
// the identity function but escape analysis doesn't think the
// output depends on the input.  noescape is inlined and currently
// compiles down to zero instructions.
// USE CAREFULLY!
//
// nolint:all
//
//go:nosplit
//goland:noinspection ALL
func noescape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}
