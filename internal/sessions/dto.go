package sessions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateSessionInput carries the fields needed to open a new table.
type CreateSessionInput struct {
	PlayerNames []string
	Piatto      decimal.Decimal
	Currency    string
}

// SessionSummary is the list-view projection of a stored session.
type SessionSummary struct {
	ID          uuid.UUID       `json:"id"`
	Piatto      decimal.Decimal `json:"piatto"`
	Currency    string          `json:"currency,omitempty"`
	PlayerNames []string        `json:"playerNames"`
	EventCount  int             `json:"eventCount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// SessionList is a cursor page of summaries.
type SessionList struct {
	Sessions   []SessionSummary `json:"sessions"`
	NextCursor string           `json:"nextCursor,omitempty"`
}
