// Package hash wraps xxHash64 for series identifiers and memo keys.
package hash

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// ID computes the xxHash64 of a series or well name.
func ID(name string) uint64 {
	return xxhash.Sum64String(name)
}

// Digest accumulates typed values into a single xxHash64 key.
//
// Every Write method is length- or tag-prefixed so that adjacent fields cannot alias
// each other: ("ab", "c") and ("a", "bc") produce different keys.
type Digest struct {
	d   *xxhash.Digest
	buf [8]byte
}

// NewDigest returns an empty digest.
func NewDigest() *Digest {
	return &Digest{d: xxhash.New()}
}

// Int writes a signed integer.
func (h *Digest) Int(v int) *Digest {
	binary.LittleEndian.PutUint64(h.buf[:], uint64(int64(v)))
	_, _ = h.d.Write(h.buf[:])

	return h
}

// Float writes the IEEE-754 bits of v. All NaN payloads hash the same.
func (h *Digest) Float(v float64) *Digest {
	bits := math.Float64bits(v)
	if math.IsNaN(v) {
		bits = 0x7ff8000000000001
	}
	binary.LittleEndian.PutUint64(h.buf[:], bits)
	_, _ = h.d.Write(h.buf[:])

	return h
}

// Bool writes a single flag.
func (h *Digest) Bool(v bool) *Digest {
	if v {
		return h.Int(1)
	}

	return h.Int(0)
}

// String writes a length-prefixed string.
func (h *Digest) String(s string) *Digest {
	h.Int(len(s))
	_, _ = h.d.WriteString(s)

	return h
}

// Ints writes a length-prefixed integer slice.
func (h *Digest) Ints(vs []int) *Digest {
	h.Int(len(vs))
	for _, v := range vs {
		h.Int(v)
	}

	return h
}

// Floats writes a length-prefixed float slice.
func (h *Digest) Floats(vs []float64) *Digest {
	h.Int(len(vs))
	for _, v := range vs {
		h.Float(v)
	}

	return h
}

// Sum64 returns the current key.
func (h *Digest) Sum64() uint64 {
	return h.d.Sum64()
}
