package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// HistoryType enum constants
const (
	HistoryPurchase = "purchase"
	HistoryPayment  = "payment"
)

// HistoryEntry is one dealer ledger line. ItemName and Quantity are set for purchases only.
type HistoryEntry struct {
	Type     string          `json:"type"` // purchase, payment
	Date     time.Time       `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	ItemName string          `json:"item_name,omitempty"`
	Quantity int             `json:"quantity,omitempty"`
}

// Dealer is a supplier keyed by Name.
// ToPay is derived from Billed and Paid; only ledger.SettleDealer writes it.
type Dealer struct {
	Name    string          `json:"name"`
	Billed  decimal.Decimal `json:"billed"`
	Paid    decimal.Decimal `json:"paid"`
	ToPay   decimal.Decimal `json:"to_pay"`
	History []HistoryEntry  `json:"history"`
}
