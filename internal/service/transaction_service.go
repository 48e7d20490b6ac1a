package service

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"shopledger/internal/ledger"
	"shopledger/internal/model"
	"shopledger/pkg/pagination"

	"github.com/shopspring/decimal"
)

type AddTransactionRequest struct {
	Type    string          `json:"type" validate:"required,oneof=cash online"`
	Amount  decimal.Decimal `json:"amount" validate:"gt=0"`
	Details string          `json:"details"`
}

// TransactionRow is one entry of either ledger tagged with its channel.
type TransactionRow struct {
	Type    string          `json:"type"`
	Amount  decimal.Decimal `json:"amount"`
	Details string          `json:"details"`
	Date    time.Time       `json:"date"`
}

type TransactionService interface {
	AddTransaction(ctx context.Context, req AddTransactionRequest) (TransactionRow, error)
	ListTransactions(ctx context.Context, channel string, page, limit int) ([]TransactionRow, int64, error)
	Summary(ctx context.Context) (model.TransactionSummary, error)
	ExportCSV(ctx context.Context, w io.Writer) error
}

type transactionService struct {
	store    ledger.StateHolder
	renderer DocumentRenderer
	now      Clock
}

func NewTransactionService(store ledger.StateHolder, renderer DocumentRenderer, now Clock) TransactionService {
	return &transactionService{store: store, renderer: renderer, now: now}
}

func (s *transactionService) AddTransaction(ctx context.Context, req AddTransactionRequest) (TransactionRow, error) {
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	if err := validateRequest(req); err != nil {
		return TransactionRow{}, err
	}

	now := s.now()
	payload := ledger.AddTransaction{Type: req.Type, Amount: req.Amount, Details: req.Details, Date: now}
	res := s.store.Dispatch(ledger.NewEvent(ledger.KindAddTransaction, now, payload))
	if !res.Applied {
		return TransactionRow{}, fmt.Errorf("failed to record %s transaction", req.Type)
	}
	return TransactionRow{Type: req.Type, Amount: req.Amount, Details: req.Details, Date: now}, nil
}

// ListTransactions merges the ledgers newest first. An empty channel lists both.
func (s *transactionService) ListTransactions(ctx context.Context, channel string, page, limit int) ([]TransactionRow, int64, error) {
	switch channel {
	case "", model.ChannelCash, model.ChannelOnline:
	default:
		return nil, 0, fmt.Errorf("%w: unknown channel %q", ErrValidation, channel)
	}

	rows := transactionRows(s.store.GetState().Transactions)
	if channel != "" {
		rows = slices.DeleteFunc(rows, func(r TransactionRow) bool { return r.Type != channel })
	}
	slices.SortStableFunc(rows, func(a, b TransactionRow) int { return b.Date.Compare(a.Date) })

	return pagination.Slice(rows, pagination.New(page, limit)), int64(len(rows)), nil
}

func (s *transactionService) Summary(ctx context.Context) (model.TransactionSummary, error) {
	return ledger.Summarize(s.store.GetState().Transactions), nil
}

// ExportCSV writes cash rows then online rows, each in ledger order.
func (s *transactionService) ExportCSV(ctx context.Context, w io.Writer) error {
	return s.renderer.TransactionsCSV(w, transactionRows(s.store.GetState().Transactions))
}

func transactionRows(t model.Transactions) []TransactionRow {
	rows := make([]TransactionRow, 0, len(t.Cash)+len(t.Online))
	for _, e := range t.Cash {
		rows = append(rows, TransactionRow{Type: model.ChannelCash, Amount: e.Amount, Details: e.Details, Date: e.Date})
	}
	for _, e := range t.Online {
		rows = append(rows, TransactionRow{Type: model.ChannelOnline, Amount: e.Amount, Details: e.Details, Date: e.Date})
	}
	return rows
}
