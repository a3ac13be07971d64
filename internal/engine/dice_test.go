package engine

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCryptoSourceBounds(t *testing.T) {
	src := CryptoSource{}
	for i := 0; i < 200; i++ {
		v := src.Between(1, 100)
		if v < 1 || v > 100 {
			t.Fatalf("roll out of bounds for percentile: %d", v)
		}
	}
	assert.Equal(t, 7, src.Between(7, 7))
}

func TestSeededSourceIsReproducible(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 50; i++ {
		va, vb := a.Between(1, 100), b.Between(1, 100)
		assert.Equal(t, va, vb)
		assert.GreaterOrEqual(t, va, 1)
		assert.LessOrEqual(t, va, 100)
	}
}

func TestSequence(t *testing.T) {
	seq := NewSequence(30, 150, -4)

	assert.Equal(t, 30, seq.Between(1, 100))
	assert.Equal(t, 100, seq.Between(1, 100), "values above max are clamped")
	assert.Equal(t, 1, seq.Between(1, 100), "values below min are clamped")
	assert.Equal(t, 0, seq.Remaining())
	assert.Equal(t, 1, seq.Between(1, 100), "exhausted sequence repeats the last value")

	empty := NewSequence()
	assert.Equal(t, 5, empty.Between(5, 10))
}

func TestRollDie(t *testing.T) {
	v, ok := rollDie(NewSequence(64), RollPercentile)
	assert.True(t, ok)
	assert.Equal(t, 64, v)

	_, ok = rollDie(NewSequence(64), RollKind("d20"))
	assert.False(t, ok)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestCryptoSourceLogsReadFailure(t *testing.T) {
	var buf bytes.Buffer
	src := CryptoSource{Reader: failingReader{}, Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	assert.Equal(t, 1, src.Between(1, 100))
	assert.Contains(t, buf.String(), "random source failed")
	assert.Contains(t, buf.String(), "entropy exhausted")
}
