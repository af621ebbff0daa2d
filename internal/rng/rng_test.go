package rng

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededIsReproducible(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Intn(10), b.Intn(10))
	}
	assert.Equal(t, a.Suffix(4), b.Suffix(4))
}

func TestSuffixAlphabet(t *testing.T) {
	s := NewSeeded(7).Suffix(32)
	assert.Len(t, s, 32)
	for _, r := range s {
		assert.Contains(t, suffixAlphabet, string(r))
	}
}

func TestIntnNonPositive(t *testing.T) {
	assert.Equal(t, 0, NewSeeded(1).Intn(0))
	assert.Equal(t, 0, NewSeeded(1).Intn(-3))
}

func TestReaderDrivesUUID(t *testing.T) {
	id1, err := uuid.NewRandomFromReader(NewSeeded(3))
	require.NoError(t, err)
	id2, err := uuid.NewRandomFromReader(NewSeeded(3))
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Equal(t, uuid.Version(4), id1.Version())
}
