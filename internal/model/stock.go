package model

import "github.com/shopspring/decimal"

// StockItem is one inventory row. ItemName is its unique key.
type StockItem struct {
	ItemName string          `json:"item_name"`
	HSN      string          `json:"hsn"` // tax classification code
	Quantity int             `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Unit     string          `json:"unit"`
	MinLimit int             `json:"min_limit"` // reorder threshold
	Dealer   string          `json:"dealer"`
}

// IsLow reports whether the row sits below its reorder threshold.
func (s StockItem) IsLow() bool {
	return s.Quantity < s.MinLimit
}
