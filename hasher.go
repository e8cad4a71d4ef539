package bimap

import (
	"math/bits"
	"strconv"
)

// HashFunc computes the raw hash of a key or value. The result is passed
// through the table's Hasher before it selects a bin.
type HashFunc[T any] func(v T) uintptr

// Hasher post-mixes a raw hash before it is used for bin selection and
// tree ordering. Tables only look at the low bits of a hash to pick a bin,
// so a good Hasher moves entropy from the high bits down.
type Hasher interface {
	Smear(h uintptr) uintptr
}

// Hashing enumerates the built-in Hasher strategies.
type Hashing int

const (
	// Standard uses the raw hash unchanged.
	Standard Hashing = iota
	// Spread XORs the raw hash with its high half word, the classic
	// hash-map spreading step.
	Spread
	// Murmur3 applies the MurmurHash3 mixing step to the folded hash.
	Murmur3
	// ACC4 applies the shift-add-xor sequence of the ACC4 hash.
	ACC4
	// Fibonacci multiplies by the golden ratio and folds the high half.
	Fibonacci
)

const (
	murmurC1 = 0xcc9e2d51
	murmurC2 = 0x1b873593
)

// Smear implements Hasher.
func (h Hashing) Smear(x uintptr) uintptr {
	switch h {
	case Spread:
		return spread(x)
	case Murmur3:
		k := fold32(x) * murmurC1
		return uintptr(bits.RotateLeft32(k, 15) * murmurC2)
	case ACC4:
		k := fold32(x)
		k += ^(k << 9)
		k ^= k >> 14
		k += k << 4
		k ^= k >> 10
		return uintptr(k)
	case Fibonacci:
		x *= hashPrime
		return x ^ x>>(bits.UintSize/2)
	default:
		return x
	}
}

func (h Hashing) String() string {
	switch h {
	case Standard:
		return "Standard"
	case Spread:
		return "Spread"
	case Murmur3:
		return "Murmur3"
	case ACC4:
		return "ACC4"
	case Fibonacci:
		return "Fibonacci"
	default:
		return "Hashing(" + strconv.Itoa(int(h)) + ")"
	}
}

// spread improves hash distribution by XORing the original hash with its high bits.
func spread(h uintptr) uintptr {
	return h ^ (h >> 16)
}

// fold32 folds a word-sized hash into 32 bits without dropping the high half.
func fold32(h uintptr) uint32 {
	if bits.UintSize == 64 {
		return uint32(h) ^ uint32(uint64(h)>>32)
	}
	return uint32(h)
}
