package turnorder

import (
	"testing"

	"github.com/BraydenJenkins/chatbot-showdown/internal/random"
	"github.com/stretchr/testify/assert"
)

func TestShuffleIsAPermutation(t *testing.T) {
	ids := []uint64{1, 2, 3, 4, 5, 6, 7, 8}
	order := Shuffle(random.New(&random.Config{Seed: 9}), ids)

	assert.ElementsMatch(t, ids, order)
	assert.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7, 8}, ids, "input must not be modified")
}

func TestShuffleIsReproducible(t *testing.T) {
	ids := []uint64{10, 20, 30, 40}
	a := Shuffle(random.New(&random.Config{Seed: 5}), ids)
	b := Shuffle(random.New(&random.Config{Seed: 5}), ids)
	assert.Equal(t, a, b)
}

func TestSerializeRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		order []uint64
		want  string
	}{
		{name: "empty", order: nil, want: ""},
		{name: "single", order: []uint64{7}, want: "7"},
		{name: "many", order: []uint64{3, 1, 18446744073709551614}, want: "3;1;18446744073709551614"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Serialize(tt.order)
			assert.Equal(t, tt.want, s)
			assert.Equal(t, len(tt.order), len(Deserialize(s)))
			if len(tt.order) > 0 {
				assert.Equal(t, tt.order, Deserialize(s))
			}
		})
	}
}

func TestDeserializeSkipsGarbage(t *testing.T) {
	assert.Equal(t, []uint64{1, 3}, Deserialize("1;;x; 3 ;"))
}

func TestAdvance(t *testing.T) {
	order := []uint64{4, 2, 9}

	current, rest, ok := Advance(order)
	assert.True(t, ok)
	assert.Equal(t, uint64(4), current)
	assert.Equal(t, []uint64{2, 9}, rest)

	_, _, ok = Advance(nil)
	assert.False(t, ok)
}

func TestAdvanceConnectedSkipsDeparted(t *testing.T) {
	connected := map[uint64]bool{1: true, 3: true}
	isConnected := func(id uint64) bool { return connected[id] }

	current, rest, ok := AdvanceConnected([]uint64{2, 1, 4, 3}, isConnected)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), current)
	assert.Equal(t, []uint64{4, 3}, rest)

	current, rest, ok = AdvanceConnected(rest, isConnected)
	assert.True(t, ok)
	assert.Equal(t, uint64(3), current)
	assert.Empty(t, rest)

	_, _, ok = AdvanceConnected([]uint64{2, 4}, isConnected)
	assert.False(t, ok)
}
