package ledger

import "github.com/shopspring/decimal"

// SignalType classifies a domain signal.
type SignalType string

const (
	SignalInvoiceCreated SignalType = "invoice.created"
	SignalLimitExceeded  SignalType = "customer.limit_exceeded"
	SignalPaymentDue     SignalType = "payment.due"
	SignalLowStock       SignalType = "stock.low"
)

// Signal is an observation produced by a transition. It never changes state;
// callers decide whether to log, count or push it.
type Signal struct {
	Type    SignalType      `json:"type"`
	Subject string          `json:"subject"` // customer or item name
	Message string          `json:"message"`
	Amount  decimal.Decimal `json:"amount"`
	Date    string          `json:"date,omitempty"`
}
