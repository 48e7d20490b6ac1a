package model

import "github.com/shopspring/decimal"

// DefaultAllowedLimit is the credit limit given to customers created by an invoice.
var DefaultAllowedLimit = decimal.NewFromInt(10000)

// PendingEntry is an unpaid amount owed by a customer.
type PendingEntry struct {
	Amount  decimal.Decimal `json:"amount"`
	DueDate string          `json:"due_date"`
}

// Customer is keyed by Name. Pending and History grow together, one entry per invoice.
type Customer struct {
	Name         string          `json:"name"`
	Phone        string          `json:"phone"`
	AllowedLimit decimal.Decimal `json:"allowed_limit"`
	Pending      []PendingEntry  `json:"pending"`
	History      []Invoice       `json:"history"`
}
