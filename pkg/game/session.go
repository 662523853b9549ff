package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session is a complete Bestia game: roster, ante unit, dealer rotation
// state and the append-only event log.
//
// The players order defines the dealer rotation sequence. The stored
// CurrentDealerIndex is kept consistent by the ledger for the persisted
// document shape, but dealer identity is canonically derived from the
// latest dealer_pay event in the log (aggregate.CurrentDealerID), so a
// deleted dealer_pay event cannot desync reads.
type Session struct {
	ID                 uuid.UUID       `json:"id"`
	Piatto             decimal.Decimal `json:"piatto"`
	Currency           string          `json:"currency,omitempty"`
	Players            []Player        `json:"players"`
	CurrentDealerIndex int             `json:"currentDealerIndex"`
	Events             []Event         `json:"events"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`

	// Version backs optimistic concurrency at the repository level and is
	// not part of the shared document shape.
	Version int64 `json:"-"`
}

// Clone deep-copies the session. Ledger applications operate on a clone and
// return it, so callers never observe a half-applied session value.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.Players != nil {
		out.Players = make([]Player, len(s.Players))
		copy(out.Players, s.Players)
	}
	if s.Events != nil {
		out.Events = make([]Event, len(s.Events))
		for i, event := range s.Events {
			out.Events[i] = event.Clone()
		}
	}
	return &out
}

// PlayerIndex returns the roster position of the player, or -1.
func (s *Session) PlayerIndex(playerID string) int {
	for i, player := range s.Players {
		if player.ID == playerID {
			return i
		}
	}
	return -1
}

// PlayerByID returns the roster entry for the id.
func (s *Session) PlayerByID(playerID string) (Player, bool) {
	if i := s.PlayerIndex(playerID); i >= 0 {
		return s.Players[i], true
	}
	return Player{}, false
}

// EventIndex returns the log position of the event, or -1.
func (s *Session) EventIndex(eventID string) int {
	for i, event := range s.Events {
		if event.ID == eventID {
			return i
		}
	}
	return -1
}
