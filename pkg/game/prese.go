package game

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Prese maps a player id to the number of tricks taken in a round.
//
// JSON-wise the mapping is represented as an ordered list of
// [playerId, count] pairs so the document shape stays portable across
// storage and share transports. Pairs are emitted sorted by player id
// to keep the encoded bytes deterministic.
type Prese map[string]int

// MarshalJSON encodes the mapping as [[playerId, count], ...].
func (p Prese) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	ids := make([]string, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	pairs := make([][2]any, 0, len(ids))
	for _, id := range ids {
		pairs = append(pairs, [2]any{id, p[id]})
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON decodes the [[playerId, count], ...] pair list back into
// the mapping.
func (p *Prese) UnmarshalJSON(data []byte) error {
	var pairs [][2]json.RawMessage
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("prese: expected pair list: %w", err)
	}

	out := make(Prese, len(pairs))
	for i, pair := range pairs {
		var id string
		if err := json.Unmarshal(pair[0], &id); err != nil {
			return fmt.Errorf("prese: pair %d: invalid player id: %w", i, err)
		}
		var count int
		if err := json.Unmarshal(pair[1], &count); err != nil {
			return fmt.Errorf("prese: pair %d: invalid count: %w", i, err)
		}
		out[id] = count
	}
	*p = out
	return nil
}

// Clone returns an independent copy of the mapping.
func (p Prese) Clone() Prese {
	if p == nil {
		return nil
	}
	out := make(Prese, len(p))
	for id, count := range p {
		out[id] = count
	}
	return out
}

// Total sums the tricks across all entries.
func (p Prese) Total() int {
	total := 0
	for _, count := range p {
		total += count
	}
	return total
}
