package coordinator

import (
	"maps"
	"slices"

	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
	"github.com/BraydenJenkins/chatbot-showdown/internal/random"
)

type pooledResponse struct {
	response string
	author   uint64
}

// Redistribute hands each recipient up to OptionsPerPlayer responses of kind
// written by other players. The pool is shuffled once and every response is
// consumed when handed out, so no response reaches two recipients. Shortfalls
// are backfilled from examples.
func Redistribute(src random.Source, kind models.QuestionKind, recipients []uint64, responses map[uint64]*models.RolesResponses, examples []string) (map[uint64][]string, []Allocation) {
	var pool []pooledResponse
	seen := make(map[pooledResponse]struct{})
	for _, author := range slices.Sorted(maps.Keys(responses)) {
		for _, response := range responses[author].For(kind) {
			entry := pooledResponse{response: response, author: author}
			if _, dup := seen[entry]; dup {
				continue
			}
			seen[entry] = struct{}{}
			pool = append(pool, entry)
		}
	}
	random.Shuffle(src, pool)

	options := make(map[uint64][]string, len(recipients))
	var allocations []Allocation
	for _, recipient := range recipients {
		chosen := make([]string, 0, OptionsPerPlayer)
		for i := 0; i < len(pool) && len(chosen) < OptionsPerPlayer; {
			if pool[i].author == recipient {
				i++
				continue
			}
			chosen = append(chosen, pool[i].response)
			allocations = append(allocations, Allocation{
				Kind:      kind,
				Response:  pool[i].response,
				Author:    pool[i].author,
				Recipient: recipient,
			})
			pool = slices.Delete(pool, i, i+1)
		}
		for len(chosen) < OptionsPerPlayer && len(examples) > 0 {
			chosen = append(chosen, random.Pick(src, examples))
		}
		options[recipient] = chosen
	}
	return options, allocations
}

// joinOptions joins options with OptionSeparator, dropping trailing options
// that would push the result past maxBytes
func joinOptions(options []string, maxBytes int) string {
	out := ""
	for _, option := range options {
		next := option
		if out != "" {
			next = out + OptionSeparator + option
		}
		if len(next) > maxBytes {
			break
		}
		out = next
	}
	return out
}
