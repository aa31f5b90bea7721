package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction describes a purchase the user is about to make. It is consumed
// once by the suggestion engine and never persisted.
type Transaction struct {
	Category    Category        `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        *time.Time      `json:"date,omitempty"`
	Description string          `json:"description,omitempty"`
}

// CardSuggestion is the engine's recommendation for a transaction. It is
// derived from the candidate cards on every call and never stored.
type CardSuggestion struct {
	Card           Card             `json:"card"`
	Reason         string           `json:"reason"`
	CashbackAmount *decimal.Decimal `json:"cashback_amount,omitempty"`
	Perks          []string         `json:"perks,omitempty"`
}
