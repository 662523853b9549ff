package game

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Player is a roster entry. The id is opaque and immutable once assigned.
//
// Balance is a denormalized display value carried for the persisted document
// shape; the authoritative balance is always derived by replaying the event
// log (see the aggregate package) and the ledger never reads this field.
type Player struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
	IsActive bool            `json:"isActive"`
}

// NewPlayer creates an active player with a fresh id and zero balance.
func NewPlayer(name string) Player {
	return Player{
		ID:       uuid.NewString(),
		Name:     name,
		Balance:  decimal.Zero,
		IsActive: true,
	}
}
