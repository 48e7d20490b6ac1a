package model

import "github.com/shopspring/decimal"

// TransactionSummary aggregates the cash and online ledgers
type TransactionSummary struct {
	CashTotal   decimal.Decimal `json:"cash_total"`
	OnlineTotal decimal.Decimal `json:"online_total"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	CashCount   int             `json:"cash_count"`
	OnlineCount int             `json:"online_count"`
}

// ReorderGroup lists the low-stock items supplied by one dealer
type ReorderGroup struct {
	Dealer string      `json:"dealer"`
	Items  []StockItem `json:"items"`
}

// Alert types
const (
	AlertOverdue  = "overdue"
	AlertLimit    = "limit"
	AlertReminder = "reminder"
)

// Alert is one derived entry of the alerts view
type Alert struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Title    string          `json:"title"`
	Message  string          `json:"message"`
	Severity string          `json:"severity"`
	Date     string          `json:"date,omitempty"`
	Customer string          `json:"customer,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
}

// CustomerBalance is a customer with its derived pending position
type CustomerBalance struct {
	Name         string          `json:"name"`
	Phone        string          `json:"phone"`
	AllowedLimit decimal.Decimal `json:"allowed_limit"`
	PendingTotal decimal.Decimal `json:"pending_total"`
	OverLimit    bool            `json:"over_limit"`
	InvoiceCount int             `json:"invoice_count"`
}

// DealerTotals sums the dealer ledger across all dealers
type DealerTotals struct {
	Billed decimal.Decimal `json:"billed"`
	Paid   decimal.Decimal `json:"paid"`
	ToPay  decimal.Decimal `json:"to_pay"`
}
