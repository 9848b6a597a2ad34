package cardset

// MaxID is one past the largest identifier a Set can hold.
const MaxID = 128

// MaxDraw is the widest subset the binomial tables cover.
const MaxDraw = 9

// binom[n][k] = C(n, k) for n <= 128, k <= 9.
var binom [MaxID + 1][MaxDraw + 1]uint64

// binomCum[n][k] = C(n,0) + ... + C(n,k).
var binomCum [MaxID + 1][MaxDraw + 1]uint64

func init() {
	for n := 0; n <= MaxID; n++ {
		binom[n][0] = 1
		for k := 1; k <= MaxDraw && k <= n; k++ {
			binom[n][k] = binom[n-1][k-1] + binom[n-1][k]
		}
	}
	for n := 0; n <= MaxID; n++ {
		binomCum[n][0] = binom[n][0]
		for k := 1; k <= MaxDraw; k++ {
			binomCum[n][k] = binomCum[n][k-1] + binom[n][k]
		}
	}
}

// Binomial returns C(n, k) from the precomputed table. It returns 0 when
// the arguments fall outside the table.
func Binomial(n, k int) uint64 {
	if n < 0 || n > MaxID || k < 0 || k > MaxDraw {
		return 0
	}
	return binom[n][k]
}

// BinomialCum returns the number of subsets of an n-set with at most k
// members, or 0 outside the table.
func BinomialCum(n, k int) uint64 {
	if n < 0 || n > MaxID || k < 0 || k > MaxDraw {
		return 0
	}
	return binomCum[n][k]
}
