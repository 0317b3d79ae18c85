// Package turnorder shuffles and serializes the order players act in during
// the conversation phase.
package turnorder

import (
	"slices"
	"strconv"
	"strings"

	"github.com/BraydenJenkins/chatbot-showdown/internal/random"
)

// Separator joins ids in the replicated order string
const Separator = ";"

// Shuffle returns a uniform random permutation of ids. ids is not modified.
func Shuffle(src random.Source, ids []uint64) []uint64 {
	order := slices.Clone(ids)
	random.Shuffle(src, order)
	return order
}

// Serialize joins the order with Separator
func Serialize(order []uint64) string {
	parts := make([]string, len(order))
	for i, id := range order {
		parts[i] = strconv.FormatUint(id, 10)
	}
	return strings.Join(parts, Separator)
}

// Deserialize parses a serialized order. Empty and malformed entries are skipped.
func Deserialize(s string) []uint64 {
	var order []uint64
	for _, part := range strings.Split(s, Separator) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			continue
		}
		order = append(order, id)
	}
	return order
}

// Advance pops the head of order. ok is false when order is empty.
func Advance(order []uint64) (current uint64, remainder []uint64, ok bool) {
	if len(order) == 0 {
		return 0, nil, false
	}
	return order[0], slices.Clone(order[1:]), true
}

// AdvanceConnected pops heads until one passes connected. Players that left
// mid-activity are skipped rather than treated as errors.
func AdvanceConnected(order []uint64, connected func(id uint64) bool) (current uint64, remainder []uint64, ok bool) {
	for {
		current, order, ok = Advance(order)
		if !ok || connected(current) {
			return current, order, ok
		}
	}
}
