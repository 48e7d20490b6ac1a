package model

import "github.com/shopspring/decimal"

// DueDateCash marks an invoice settled at the counter.
const DueDateCash = "Cash"

// DateLayout is the calendar layout used for invoice, due and quotation dates.
const DateLayout = "2006-01-02"

// CustomerRef identifies the buyer on a document by name and phone.
type CustomerRef struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// LineItem is one billed row of an invoice. Discount, SGST and CGST are percentages.
type LineItem struct {
	ItemName string          `json:"item_name"`
	HSN      string          `json:"hsn"`
	Quantity int             `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Unit     string          `json:"unit"`
	Discount decimal.Decimal `json:"discount"`
	SGST     decimal.Decimal `json:"sgst"`
	CGST     decimal.Decimal `json:"cgst"`
}

// Invoice is immutable once appended to the state.
type Invoice struct {
	InvoiceNumber string          `json:"invoice_number"` // INV-001, INV-002, ...
	Customer      CustomerRef     `json:"customer"`
	Items         []LineItem      `json:"items"`
	Total         decimal.Decimal `json:"total"`
	DueDate       string          `json:"due_date"` // YYYY-MM-DD or DueDateCash
	Date          string          `json:"date"`
}

// IsCash reports whether the invoice carries no credit due date.
func (i Invoice) IsCash() bool {
	return i.DueDate == "" || i.DueDate == DueDateCash
}

// QuotationItem is a quoted row; quotations carry no tax.
type QuotationItem struct {
	ItemName string          `json:"item_name"`
	HSN      string          `json:"hsn"`
	Quantity int             `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Unit     string          `json:"unit"`
	Discount decimal.Decimal `json:"discount"`
}

// Quotation is a non-binding draft: no stock, customer or dealer effects.
type Quotation struct {
	QuotationNumber string          `json:"quotation_number"`
	Customer        CustomerRef     `json:"customer"`
	Items           []QuotationItem `json:"items"`
	Total           decimal.Decimal `json:"total"`
	Date            string          `json:"date"`
}
