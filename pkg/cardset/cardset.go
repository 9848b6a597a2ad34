// Package cardset provides a fixed-capacity unordered set of up to 128 card
// identifiers with O(1) set algebra and exactly uniform random sampling of
// members and subsets.
//
// A Set is a plain value: copy it to snapshot it. Only the Draw* methods
// mutate the receiver.
package cardset

import (
	"math/bits"
	"math/rand"
	"strconv"
	"strings"
)

// Set is a 128-bit membership mask. Bit i is set iff identifier i is a member.
type Set struct {
	lo, hi uint64
}

// New returns a set holding the given identifiers.
func New(ids ...uint8) Set {
	var s Set
	for _, id := range ids {
		s.Insert(id)
	}
	return s
}

// Insert adds id to the set. id must be < MaxID.
func (s *Set) Insert(id uint8) {
	if id < 64 {
		s.lo |= 1 << id
	} else {
		s.hi |= 1 << (id - 64)
	}
}

// Remove deletes id from the set if present.
func (s *Set) Remove(id uint8) {
	if id < 64 {
		s.lo &^= 1 << id
	} else {
		s.hi &^= 1 << (id - 64)
	}
}

// Contains reports whether id is a member.
func (s Set) Contains(id uint8) bool {
	if id < 64 {
		return s.lo>>id&1 != 0
	}
	return s.hi>>(id-64)&1 != 0
}

// Len returns the number of members.
func (s Set) Len() int {
	return bits.OnesCount64(s.lo) + bits.OnesCount64(s.hi)
}

// IsEmpty reports whether the set has no members.
func (s Set) IsEmpty() bool {
	return s.lo == 0 && s.hi == 0
}

func (s Set) Union(o Set) Set {
	return Set{lo: s.lo | o.lo, hi: s.hi | o.hi}
}

func (s Set) Intersection(o Set) Set {
	return Set{lo: s.lo & o.lo, hi: s.hi & o.hi}
}

// Difference returns the members of s that are not in o.
func (s Set) Difference(o Set) Set {
	return Set{lo: s.lo &^ o.lo, hi: s.hi &^ o.hi}
}

// Lowest returns the smallest member, or false when the set is empty.
func (s Set) Lowest() (uint8, bool) {
	if s.lo != 0 {
		return uint8(bits.TrailingZeros64(s.lo)), true
	}
	if s.hi != 0 {
		return uint8(64 + bits.TrailingZeros64(s.hi)), true
	}
	return 0, false
}

// IDs returns the members in ascending order.
func (s Set) IDs() []uint8 {
	out := make([]uint8, 0, s.Len())
	for w := s; !w.IsEmpty(); {
		id, _ := w.Lowest()
		out = append(out, id)
		w.clearLowest()
	}
	return out
}

func (s Set) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, id := range s.IDs() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(id)))
	}
	b.WriteByte('}')
	return b.String()
}

// clearLowest removes the smallest member.
func (s *Set) clearLowest() {
	if s.lo != 0 {
		s.lo &= s.lo - 1
	} else if s.hi != 0 {
		s.hi &= s.hi - 1
	}
}

// nth returns the k-th smallest member (0-based). k must be < Len.
func (s Set) nth(k int) uint8 {
	if lo := bits.OnesCount64(s.lo); k >= lo {
		v := s.hi
		for i := k - lo; i > 0; i-- {
			v &= v - 1
		}
		return uint8(64 + bits.TrailingZeros64(v))
	}
	v := s.lo
	for i := k; i > 0; i-- {
		v &= v - 1
	}
	return uint8(bits.TrailingZeros64(v))
}

// PickRandom returns a uniformly random member without removing it.
func (s Set) PickRandom(rng *rand.Rand) (uint8, bool) {
	n := s.Len()
	if n == 0 {
		return 0, false
	}
	return s.nth(rng.Intn(n)), true
}

// Draw removes and returns a uniformly random member.
func (s *Set) Draw(rng *rand.Rand) (uint8, bool) {
	id, ok := s.PickRandom(rng)
	if ok {
		s.Remove(id)
	}
	return id, ok
}
