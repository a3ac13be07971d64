package engine

import (
	"crypto/rand"
	"io"
	"log/slog"
	"math/big"
	mrand "math/rand"
)

// RandomSource produces uniformly distributed integers in [min, max].
type RandomSource interface {
	Between(min, max int) int
}

// CryptoSource draws from crypto/rand. It is the default source. Reader
// overrides the entropy source; read failures are logged on Logger.
type CryptoSource struct {
	Reader io.Reader
	Logger *slog.Logger
}

// Between fetches a strongly uniform random integer via crypto/rand. If the
// read fails it logs the error and returns min.
func (s CryptoSource) Between(min, max int) int {
	if max <= min {
		return min
	}
	reader := s.Reader
	if reader == nil {
		reader = rand.Reader
	}
	n, err := rand.Int(reader, big.NewInt(int64(max-min+1)))
	if err != nil {
		if s.Logger != nil {
			s.Logger.Error("random source failed", "min", min, "max", max, "error", err)
		}
		return min
	}
	return int(n.Int64()) + min
}

// SeededSource is a reproducible pseudo-random source.
type SeededSource struct {
	rng *mrand.Rand
}

// NewSeeded creates a source whose sequence is fixed by seed.
func NewSeeded(seed int64) *SeededSource {
	return &SeededSource{rng: mrand.New(mrand.NewSource(seed))}
}

// Between draws the next value of the seeded sequence.
func (s *SeededSource) Between(min, max int) int {
	if max <= min {
		return min
	}
	return s.rng.Intn(max-min+1) + min
}

// Sequence replays prepared results in order, for deterministic tests. Values
// are clamped into the requested range. Once exhausted it repeats the last
// value, or returns min if it was created empty.
type Sequence struct {
	results []int
	next    int
}

// NewSequence prepares a deterministic sequence of results.
func NewSequence(results ...int) *Sequence {
	return &Sequence{results: results}
}

// Between returns the next prepared result.
func (s *Sequence) Between(min, max int) int {
	if len(s.results) == 0 {
		return min
	}
	idx := s.next
	if idx >= len(s.results) {
		idx = len(s.results) - 1
	} else {
		s.next++
	}
	val := s.results[idx]
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Remaining reports how many prepared results have not been used yet.
func (s *Sequence) Remaining() int {
	return len(s.results) - s.next
}

// rollDie draws a percentile or other die for a RollSelector.
func rollDie(rng RandomSource, kind RollKind) (int, bool) {
	switch kind {
	case RollPercentile:
		return rng.Between(1, 100), true
	}
	return 0, false
}
