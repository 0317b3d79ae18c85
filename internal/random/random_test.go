package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShuffleIsReproducibleWithSeed(t *testing.T) {
	a := []int{1, 2, 3, 4, 5, 6, 7, 8}
	b := []int{1, 2, 3, 4, 5, 6, 7, 8}

	Shuffle(New(&Config{Seed: 42}), a)
	Shuffle(New(&Config{Seed: 42}), b)

	assert.Equal(t, a, b)
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, a)
}

func TestIntnBounds(t *testing.T) {
	r := New(&Config{Seed: 7})
	for i := 0; i < 100; i++ {
		v := r.Intn(3)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 3)
	}
	assert.Equal(t, 0, r.Intn(0))
}

func TestPick(t *testing.T) {
	r := New(&Config{Seed: 1})
	assert.Equal(t, "", Pick(r, []string{}))
	assert.Contains(t, []string{"a", "b"}, Pick(r, []string{"a", "b"}))
}
