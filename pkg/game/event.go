package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucabarbieri/bestia-backend/pkg/enums"
)

// Transaction is a single money movement inside an event. Positive amounts
// credit the player, negative amounts debit them.
type Transaction struct {
	PlayerID string          `json:"playerId"`
	Amount   decimal.Decimal `json:"amount"`
}

// EventMetadata carries the type-dependent context of an event.
//
// dealer_pay and giro_chiuso set DealerPlayerID; round_end additionally
// records the prese assignment and the bestia players; manual_entry only
// uses Description.
type EventMetadata struct {
	DealerPlayerID string   `json:"dealerPlayerId,omitempty"`
	Prese          Prese    `json:"prese,omitempty"`
	BestiaPlayers  []string `json:"bestiaPlayers,omitempty"`
	Description    string   `json:"description,omitempty"`
}

// Event records an immutable ledger entry in a game session. The log is
// append-only; only manual entries may be edited and any event may be
// deleted by explicit user action.
type Event struct {
	ID           string          `json:"id"`
	Type         enums.EventType `json:"type"`
	Timestamp    int64           `json:"timestamp"`
	Transactions []Transaction   `json:"transactions"`
	Metadata     *EventMetadata  `json:"metadata,omitempty"`
}

// NewEvent builds an event of the given type stamped with the current time.
func NewEvent(eventType enums.EventType, transactions []Transaction, metadata *EventMetadata) Event {
	return Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		Timestamp:    time.Now().UnixMilli(),
		Transactions: transactions,
		Metadata:     metadata,
	}
}

// Clone returns an independent copy of the event.
func (e Event) Clone() Event {
	out := e
	if e.Transactions != nil {
		out.Transactions = make([]Transaction, len(e.Transactions))
		copy(out.Transactions, e.Transactions)
	}
	if e.Metadata != nil {
		meta := EventMetadata{
			DealerPlayerID: e.Metadata.DealerPlayerID,
			Prese:          e.Metadata.Prese.Clone(),
			Description:    e.Metadata.Description,
		}
		if e.Metadata.BestiaPlayers != nil {
			meta.BestiaPlayers = make([]string, len(e.Metadata.BestiaPlayers))
			copy(meta.BestiaPlayers, e.Metadata.BestiaPlayers)
		}
		out.Metadata = &meta
	}
	return out
}
