package sessions

import (
	"github.com/shopspring/decimal"
)

type createSessionRequest struct {
	PlayerNames []string        `json:"player_names" validate:"required,min=2,dive,required"`
	Piatto      decimal.Decimal `json:"piatto"`
	Currency    string          `json:"currency" validate:"omitempty,max=8"`
}

type dealerSelectionRequest struct {
	DealerPlayerID string `json:"dealer_player_id" validate:"required"`
}

type roundRequest struct {
	Prese           map[string]int             `json:"prese" validate:"required"`
	BestiaPlayerIDs []string                   `json:"bestia_player_ids"`
	Description     string                     `json:"description" validate:"omitempty,max=500"`
	Amounts         map[string]decimal.Decimal `json:"amounts"`
}

type roundPreviewRequest struct {
	Prese           map[string]int `json:"prese" validate:"required"`
	BestiaPlayerIDs []string       `json:"bestia_player_ids"`
}

type manualEntryRequest struct {
	Amounts     map[string]decimal.Decimal `json:"amounts" validate:"required"`
	Description string                     `json:"description" validate:"omitempty,max=500"`
}

type setCurrentRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
}

type importRequest struct {
	// Payload accepts a full share URL or the bare encoded document.
	Payload string `json:"payload" validate:"required"`
}
