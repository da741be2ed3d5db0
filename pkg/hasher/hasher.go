// Package hasher provides hash functions for map keys.
//
// Rather than embedding a type switch inside the map, the map takes a
// Hasher for its key type. Integer keys get a Knuth multiplicative hash,
// string keys get a base-31 polynomial hash, and everything else falls
// back to xxhash over the key's printed representation. None of these
// are cryptographic; collisions are expected and resolved by the map's
// chaining.
package hasher

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// knuthMultiplier is the classic multiplicative hashing constant.
const knuthMultiplier = 2654435761

// stringBase is the polynomial base for string hashing.
const stringBase = 31

// Hasher computes a bucket hash for keys of type K.
type Hasher[K any] interface {
	Hash(key K) uint64
}

// Func adapts a plain function to the Hasher interface.
type Func[K any] func(key K) uint64

// Hash calls the underlying function.
func (f Func[K]) Hash(key K) uint64 {
	return f(key)
}

// Integer is the constraint satisfied by the built-in integer types.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Int returns a Hasher for integer keys using Knuth's multiplicative
// method. Multiplication wraps mod 2^64, which is the word-size modulus
// the method calls for.
func Int[K Integer]() Hasher[K] {
	return Func[K](func(key K) uint64 {
		return uint64(key) * knuthMultiplier
	})
}

// String returns a Hasher for string keys using a base-31 polynomial
// over the raw bytes.
func String[K ~string]() Hasher[K] {
	return Func[K](func(key K) uint64 {
		var h uint64
		for i := 0; i < len(key); i++ {
			h = h*stringBase + uint64(key[i])
		}
		return h
	})
}

// Fallback returns a Hasher usable with any key type. The key's %v
// representation is fed through xxhash. Slower than the dedicated
// hashers but total: it never fails, and distinct representations give
// well-distributed hashes.
func Fallback[K any]() Hasher[K] {
	return Func[K](func(key K) uint64 {
		var d xxhash.Digest
		d.Reset()
		fmt.Fprintf(&d, "%v", key)
		return d.Sum64()
	})
}

// ForKey selects the default Hasher for K: the Knuth hash for integer
// kinds, the polynomial hash for strings, and the xxhash fallback for
// everything else. The selection happens once, not per call.
func ForKey[K comparable]() Hasher[K] {
	var zero K
	switch any(zero).(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr:
		return Func[K](func(key K) uint64 {
			return integerValue(any(key)) * knuthMultiplier
		})
	case string:
		return Func[K](func(key K) uint64 {
			s := any(key).(string)
			var h uint64
			for i := 0; i < len(s); i++ {
				h = h*stringBase + uint64(s[i])
			}
			return h
		})
	default:
		return Fallback[K]()
	}
}

// integerValue widens any built-in integer to uint64.
func integerValue(v interface{}) uint64 {
	switch n := v.(type) {
	case int:
		return uint64(n)
	case int8:
		return uint64(n)
	case int16:
		return uint64(n)
	case int32:
		return uint64(n)
	case int64:
		return uint64(n)
	case uint:
		return uint64(n)
	case uint8:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint32:
		return uint64(n)
	case uint64:
		return n
	case uintptr:
		return uint64(n)
	default:
		return 0
	}
}
