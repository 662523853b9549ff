package sessions

import (
	"github.com/shopspring/decimal"

	"github.com/lucabarbieri/bestia-backend/internal/aggregate"
	"github.com/lucabarbieri/bestia-backend/internal/settlement"
)

// statsResponse carries every derived read of a session in one payload.
type statsResponse struct {
	Pot                decimal.Decimal            `json:"pot"`
	Balances           map[string]decimal.Decimal `json:"balances"`
	DealerPlayerID     string                     `json:"dealerPlayerId,omitempty"`
	NextDealerPlayerID string                     `json:"nextDealerPlayerId,omitempty"`
	Wins               map[string]int             `json:"wins"`
	Losses             map[string]int             `json:"losses"`
	RoundsPlayed       map[string]int             `json:"roundsPlayed"`
	BestiaCounts       map[string]int             `json:"bestiaCounts"`
	Progression        []aggregate.BalancePoint   `json:"progression"`
}

type settlementResponse struct {
	Payments []settlement.Payment `json:"payments"`
}

type roundPreviewResponse struct {
	Payouts map[string]decimal.Decimal `json:"payouts"`
}

type shareResponse struct {
	URL      string `json:"url"`
	ShortURL string `json:"shortUrl,omitempty"`
}
