package cardset

import "math/rand"

// unrank returns the k-th size-element subset of s (n = s.Len()) in the
// combinatorial number system, walking members from lowest to highest.
// k must be < C(n, size) and size <= MaxDraw.
func unrank(s Set, n, size int, k uint64) Set {
	var selected Set
	remaining := n
	toPick := size
	for toPick > 0 {
		id, _ := s.Lowest()
		s.clearLowest()
		remaining--
		threshold := binom[remaining][toPick-1]
		if k < threshold {
			selected.Insert(id)
			toPick--
		} else {
			k -= threshold
		}
	}
	return selected
}

// DrawMultiple removes and returns a uniformly random count-element subset.
// Every one of the C(n, count) subsets is equally likely. When count >= Len
// the whole set is taken.
func (s *Set) DrawMultiple(count int, rng *rand.Rand) Set {
	n := s.Len()
	if count <= 0 {
		return Set{}
	}
	if count >= n {
		all := *s
		*s = Set{}
		return all
	}
	if count <= MaxDraw {
		k := uint64(rng.Int63n(int64(binom[n][count])))
		drawn := unrank(*s, n, count, k)
		*s = s.Difference(drawn)
		return drawn
	}
	// Choosing the kept complement uniformly is the same distribution.
	if keep := n - count; keep <= MaxDraw {
		k := uint64(rng.Int63n(int64(binom[n][keep])))
		kept := unrank(*s, n, keep, k)
		drawn := s.Difference(kept)
		*s = kept
		return drawn
	}
	var drawn Set
	for i := 0; i < count; i++ {
		id, _ := s.Draw(rng)
		drawn.Insert(id)
	}
	return drawn
}

// DrawUpTo removes and returns a subset drawn uniformly from all subsets
// with at most max members (so sizes are weighted by C(n, size)).
//
// Above the table width the draw stays exact while max >= n/2 (coin flips
// with rejection); otherwise max is clamped to MaxDraw and subsets larger
// than MaxDraw are never drawn.
func (s *Set) DrawUpTo(max int, rng *rand.Rand) Set {
	n := s.Len()
	if n == 0 || max <= 0 {
		return Set{}
	}
	if max == 1 {
		r := rng.Intn(n + 1)
		if r == 0 {
			return Set{}
		}
		id := s.nth(r - 1)
		s.Remove(id)
		return New(id)
	}
	if max > MaxDraw && 2*max >= n {
		return s.drawCoinFlips(max, rng)
	}

	c := max
	if c > n {
		c = n
	}
	if c > MaxDraw {
		c = MaxDraw
	}
	total := binomCum[n][c]
	r := uint64(rng.Int63n(int64(total)))
	size := 0
	for k := 0; k <= c; k++ {
		if r < binomCum[n][k] {
			size = k
			if k > 0 {
				r -= binomCum[n][k-1]
			}
			break
		}
	}
	if size == 0 {
		return Set{}
	}
	drawn := unrank(*s, n, size, r)
	*s = s.Difference(drawn)
	return drawn
}

// drawCoinFlips includes every member independently with probability 1/2,
// which is uniform over all subsets, and rejects subsets larger than max.
func (s *Set) drawCoinFlips(max int, rng *rand.Rand) Set {
	ids := s.IDs()
	for {
		var drawn Set
		size := 0
		for _, id := range ids {
			if rng.Int63()&1 == 1 {
				drawn.Insert(id)
				size++
			}
		}
		if size <= max {
			*s = s.Difference(drawn)
			return drawn
		}
	}
}
