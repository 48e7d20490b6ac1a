package service

import (
	"context"

	"shopledger/internal/ledger"
	"shopledger/internal/model"
)

type StateResponse struct {
	Version uint64      `json:"version"`
	State   model.State `json:"state"`
}

// DashboardResponse is the home screen summary.
type DashboardResponse struct {
	Shop          model.Shop               `json:"shop"`
	InvoiceCount  int                      `json:"invoice_count"`
	CustomerCount int                      `json:"customer_count"`
	OverLimit     int                      `json:"over_limit"`
	LowStock      int                      `json:"low_stock"`
	AlertCount    int                      `json:"alert_count"`
	Transactions  model.TransactionSummary `json:"transactions"`
	Dealers       model.DealerTotals       `json:"dealers"`
}

// versioned is satisfied by *ledger.Store.
type versioned interface {
	Snapshot() (model.State, uint64)
}

type LedgerService interface {
	GetState(ctx context.Context) StateResponse
	GetShop(ctx context.Context) model.Shop
	Dashboard(ctx context.Context) DashboardResponse
}

type ledgerService struct {
	store ledger.StateHolder
	now   Clock
}

func NewLedgerService(store ledger.StateHolder, now Clock) LedgerService {
	return &ledgerService{store: store, now: now}
}

func (s *ledgerService) GetState(ctx context.Context) StateResponse {
	if v, ok := s.store.(versioned); ok {
		state, version := v.Snapshot()
		return StateResponse{Version: version, State: state}
	}
	return StateResponse{State: s.store.GetState()}
}

func (s *ledgerService) GetShop(ctx context.Context) model.Shop {
	return s.store.GetState().Shop
}

func (s *ledgerService) Dashboard(ctx context.Context) DashboardResponse {
	state := s.store.GetState()

	res := DashboardResponse{
		Shop:          state.Shop,
		InvoiceCount:  len(state.Invoices),
		CustomerCount: len(state.Customers),
		AlertCount:    len(ledger.Alerts(state, s.now())),
		Transactions:  ledger.Summarize(state.Transactions),
		Dealers:       ledger.DealerTotals(state.Dealers),
	}
	for _, c := range state.Customers {
		if ledger.IsOverLimit(c) {
			res.OverLimit++
		}
	}
	for _, it := range state.Stock {
		if it.IsLow() {
			res.LowStock++
		}
	}
	return res
}
