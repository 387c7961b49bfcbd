package models

import "time"

// Position is one open holding in the toy ledger.
type Position struct {
	ID         string    `json:"id" badgerhold:"key"`
	Symbol     string    `json:"symbol" badgerhold:"index"`
	Shares     float64   `json:"shares"`
	EntryPrice float64   `json:"entry_price"`
	Allocation float64   `json:"allocation"` // dollars committed at entry
	OpenedAt   time.Time `json:"opened_at"`
}

// TradeRecord is an executed buy or sell in the ledger.
type TradeRecord struct {
	ID         string    `json:"id" badgerhold:"key"`
	Symbol     string    `json:"symbol" badgerhold:"index"`
	Side       string    `json:"side"` // "buy" or "sell"
	Shares     float64   `json:"shares"`
	Price      float64   `json:"price"`
	Value      float64   `json:"value"`
	ExecutedAt time.Time `json:"executed_at"`
}

// LedgerState is the singleton cash/equity record for the toy portfolio.
type LedgerState struct {
	ID        string    `json:"id" badgerhold:"key"`
	Cash      float64   `json:"cash"`
	Equity    float64   `json:"equity"` // starting capital reference for sizing
	UpdatedAt time.Time `json:"updated_at"`
}

// PortfolioReport summarizes the ledger for display.
type PortfolioReport struct {
	Cash      float64    `json:"cash"`
	Invested  float64    `json:"invested"`
	Positions []Position `json:"positions"`
	AsOf      time.Time  `json:"as_of"`
}
