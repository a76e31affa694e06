package prune

import (
	"math"

	bitsbloom "github.com/bits-and-blooms/bloom/v3"
)

// filter wraps a bits-and-blooms Bloom filter sized for a known
// capacity and target false-positive rate. Each Prune call builds its
// own filter, populates it once, then only reads from it.
type filter struct {
	bf *bitsbloom.BloomFilter
}

func newFilter(capacity uint64, fpRate float64) *filter {
	m, k := size(capacity, fpRate)
	return &filter{bf: bitsbloom.New(uint(m), uint(k))}
}

func (f *filter) Add(key []byte) { f.bf.Add(key) }

func (f *filter) MightContain(key []byte) bool { return f.bf.Test(key) }

// size computes Bloom parameters using the standard formulas:
//
//	m = - (n * ln p) / (ln 2)^2
//	k = (m / n) * ln 2
//
// Results are clamped to at least 1.
func size(n uint64, p float64) (uint64, uint8) {
	if n == 0 {
		n = 1
	}
	if !(p > 0 && p < 1) {
		p = 0.01 // default 1% if invalid
	}
	ln2 := math.Ln2
	m := uint64(math.Ceil(-float64(n) * math.Log(p) / (ln2 * ln2)))
	if m == 0 {
		m = 1
	}
	k := uint8(math.Max(1, math.Round((float64(m)/float64(n))*ln2)))
	return m, k
}
