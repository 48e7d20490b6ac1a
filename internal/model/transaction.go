package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Channel enum constants
const (
	ChannelCash   = "cash"
	ChannelOnline = "online"
)

// TransactionEntry is one received payment. Amount is always positive.
type TransactionEntry struct {
	Amount  decimal.Decimal `json:"amount"`
	Details string          `json:"details"`
	Date    time.Time       `json:"date"`
}

// Transactions holds the two append-only payment ledgers.
type Transactions struct {
	Cash   []TransactionEntry `json:"cash"`
	Online []TransactionEntry `json:"online"`
}
