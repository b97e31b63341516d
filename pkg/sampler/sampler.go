// Package sampler draws a length-biased random subset of a Dictionary's
// words, sized to the SAT budget for a target crossword grid size.
package sampler

import (
	"errors"
	"math"
	"math/rand"

	"github.com/crossplay/satxword/pkg/dictionary"
)

// ErrPoolTooSmall is returned when the dictionary cannot supply enough
// words (in particular, length-3 words) to plausibly reach density.
var ErrPoolTooSmall = errors.New("sampler: word pool too small for requested size")

// Config controls pool sampling.
type Config struct {
	Size             int   // target grid size
	Seed             int64 // RNG seed; fixed seed gives a deterministic pool
	PoolSizeOverride int   // 0 means use the size-indexed default table
}

// Pool is the ordered sequence of Words drawn for one generation. The
// order of Words defines the word indices the Encoder builds placement
// variables against.
type Pool struct {
	Words []dictionary.Word
}

// defaultPoolSizes are the tuned target pool sizes per spec §4.2.
var defaultPoolSizes = map[int]int{
	8:  80,
	10: 120,
	12: 150,
	16: 220,
}

func targetPoolSize(size, override int) int {
	if override > 0 {
		return override
	}
	if n, ok := defaultPoolSizes[size]; ok {
		return n
	}
	return 10 * size
}

// lengthBand is one of the three mix bands from spec §4.2.
type lengthBand struct {
	lo, hi int // inclusive length range
	frac   float64
}

func bands(size int) [3]lengthBand {
	half := ceilDiv(size, 2)
	threeQuarters := ceilDiv(3*size, 4)
	return [3]lengthBand{
		{3, half, 0.70},
		{half + 1, threeQuarters, 0.25},
		{threeQuarters + 1, size, 0.05},
	}
}

func ceilDiv(a, b int) int {
	return int(math.Ceil(float64(a) / float64(b)))
}

// Sample draws, without replacement per length bucket, a pool of words
// sized and length-distributed per spec §4.2. It is deterministic for a
// fixed (dictionary contents, size, seed).
func Sample(dict *dictionary.Dictionary, cfg Config) (Pool, error) {
	if cfg.Size < 3 {
		return Pool{}, ErrPoolTooSmall
	}
	if len(dict.Bucket(3)) == 0 {
		return Pool{}, ErrPoolTooSmall
	}

	target := targetPoolSize(cfg.Size, cfg.PoolSizeOverride)
	r := rand.New(rand.NewSource(cfg.Seed))

	type bucketPlan struct {
		length int
		want   int
	}
	var plan []bucketPlan
	for _, band := range bands(cfg.Size) {
		if band.lo > band.hi {
			continue
		}
		lengths := band.hi - band.lo + 1
		bandTarget := int(math.Round(float64(target) * band.frac))
		per := bandTarget / lengths
		remainder := bandTarget - per*lengths
		for length := band.lo; length <= band.hi; length++ {
			want := per
			if remainder > 0 {
				want++
				remainder--
			}
			plan = append(plan, bucketPlan{length: length, want: want})
		}
	}

	// Redistribute shortfalls from under-stocked buckets to their
	// immediate neighbors, proportionally to how much each neighbor can
	// still absorb.
	available := make(map[int][]dictionary.Word, len(plan))
	for _, p := range plan {
		available[p.length] = dict.Bucket(p.length)
	}

	wantByLength := make(map[int]int, len(plan))
	for _, p := range plan {
		wantByLength[p.length] = p.want
	}

	for _, p := range plan {
		have := len(available[p.length])
		if have >= p.want {
			continue
		}
		shortfall := p.want - have
		wantByLength[p.length] = have

		neighbors := []int{p.length - 1, p.length + 1}
		capacities := make(map[int]int, 2)
		totalCapacity := 0
		for _, n := range neighbors {
			if n < 3 || n > cfg.Size {
				continue
			}
			cap := len(available[n]) - wantByLength[n]
			if cap < 0 {
				cap = 0
			}
			capacities[n] = cap
			totalCapacity += cap
		}
		if totalCapacity == 0 {
			continue
		}
		for _, n := range neighbors {
			cap, ok := capacities[n]
			if !ok || cap == 0 {
				continue
			}
			extra := int(math.Round(float64(shortfall) * float64(cap) / float64(totalCapacity)))
			if extra > cap {
				extra = cap
			}
			wantByLength[n] += extra
		}
	}

	var pool Pool
	lengths := make([]int, 0, len(wantByLength))
	for length := range wantByLength {
		lengths = append(lengths, length)
	}
	sortInts(lengths)

	for _, length := range lengths {
		want := wantByLength[length]
		if want <= 0 {
			continue
		}
		words := available[length]
		if len(words) == 0 {
			continue
		}
		idx := r.Perm(len(words))
		if want > len(words) {
			want = len(words)
		}
		for i := 0; i < want; i++ {
			pool.Words = append(pool.Words, words[idx[i]])
		}
	}

	if len(pool.Words) == 0 {
		return Pool{}, ErrPoolTooSmall
	}

	return pool, nil
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
