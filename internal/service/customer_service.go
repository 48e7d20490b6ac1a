package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"shopledger/internal/ledger"
	"shopledger/internal/model"

	"github.com/shopspring/decimal"
)

type PendingResponse struct {
	model.PendingEntry
	Overdue bool `json:"overdue"`
}

type CustomerDetailResponse struct {
	model.CustomerBalance
	OverdueTotal decimal.Decimal   `json:"overdue_total"`
	Pending      []PendingResponse `json:"pending"`
	History      []model.Invoice   `json:"history"`
}

type CustomerService interface {
	ListCustomers(ctx context.Context, query string, overLimitOnly bool) ([]model.CustomerBalance, error)
	GetCustomer(ctx context.Context, name string) (CustomerDetailResponse, error)
}

type customerService struct {
	store ledger.StateHolder
	now   Clock
}

func NewCustomerService(store ledger.StateHolder, now Clock) CustomerService {
	return &customerService{store: store, now: now}
}

// ListCustomers filters by a case-insensitive name or phone fragment.
func (s *customerService) ListCustomers(ctx context.Context, query string, overLimitOnly bool) ([]model.CustomerBalance, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	balances := ledger.CustomerBalances(s.store.GetState())
	return slices.DeleteFunc(balances, func(b model.CustomerBalance) bool {
		if overLimitOnly && !b.OverLimit {
			return true
		}
		return query != "" &&
			!strings.Contains(strings.ToLower(b.Name), query) &&
			!strings.Contains(b.Phone, query)
	}), nil
}

func (s *customerService) GetCustomer(ctx context.Context, name string) (CustomerDetailResponse, error) {
	state := s.store.GetState()
	i := state.FindCustomer(name)
	if i < 0 {
		return CustomerDetailResponse{}, fmt.Errorf("customer %s: %w", name, ErrNotFound)
	}
	c := state.Customers[i]
	now := s.now()
	return CustomerDetailResponse{
		CustomerBalance: ledger.Balance(c),
		OverdueTotal:    overdueTotal(c.Pending, now),
		Pending:         pendingView(c.Pending, now),
		History:         c.History,
	}, nil
}

func pendingView(pending []model.PendingEntry, now time.Time) []PendingResponse {
	out := make([]PendingResponse, 0, len(pending))
	for _, p := range pending {
		out = append(out, PendingResponse{PendingEntry: p, Overdue: ledger.IsOverdue(p, now)})
	}
	return out
}

func overdueTotal(pending []model.PendingEntry, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, p := range pending {
		if ledger.IsOverdue(p, now) {
			total = total.Add(p.Amount)
		}
	}
	return total
}
