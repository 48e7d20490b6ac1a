package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shopledger/internal/ledger"
	"shopledger/internal/model"

	"github.com/shopspring/decimal"
)

type PayDealerRequest struct {
	Dealer string          `json:"dealer" validate:"required"`
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
	Date   string          `json:"date" validate:"omitempty,datetime=2006-01-02"` // defaults to now
}

type DealerListResponse struct {
	Dealers []model.Dealer     `json:"dealers"`
	Totals  model.DealerTotals `json:"totals"`
}

type DealerService interface {
	PayDealer(ctx context.Context, req PayDealerRequest) (model.Dealer, error)
	ResetDealer(ctx context.Context, name string) (model.Dealer, error)
	ClearInvalidHistory(ctx context.Context) (int, error)
	ListDealers(ctx context.Context) (DealerListResponse, error)
	GetDealer(ctx context.Context, name string) (model.Dealer, error)
}

type dealerService struct {
	store ledger.StateHolder
	now   Clock
}

func NewDealerService(store ledger.StateHolder, now Clock) DealerService {
	return &dealerService{store: store, now: now}
}

func (s *dealerService) PayDealer(ctx context.Context, req PayDealerRequest) (model.Dealer, error) {
	req.Dealer = strings.TrimSpace(req.Dealer)
	if err := validateRequest(req); err != nil {
		return model.Dealer{}, err
	}

	now := s.now()
	var paidAt time.Time
	if req.Date != "" {
		d, err := time.ParseInLocation(model.DateLayout, req.Date, now.Location())
		if err != nil {
			return model.Dealer{}, fmt.Errorf("%w: date: %v", ErrValidation, err)
		}
		paidAt = d
	}

	payload := ledger.PayDealer{Dealer: req.Dealer, Amount: req.Amount, Date: paidAt}
	res := s.store.Dispatch(ledger.NewEvent(ledger.KindPayDealer, now, payload))
	if !res.Applied {
		return model.Dealer{}, fmt.Errorf("failed to record payment to %s", req.Dealer)
	}
	return res.State.Dealers[res.State.FindDealer(req.Dealer)], nil
}

// ResetDealer wipes payments and history of a known dealer; billed is kept.
func (s *dealerService) ResetDealer(ctx context.Context, name string) (model.Dealer, error) {
	if s.store.GetState().FindDealer(name) < 0 {
		return model.Dealer{}, fmt.Errorf("dealer %s: %w", name, ErrNotFound)
	}

	res := s.store.Dispatch(ledger.NewEvent(ledger.KindResetDealer, s.now(), ledger.ResetDealer{Dealer: name}))
	i := res.State.FindDealer(name)
	if i < 0 {
		return model.Dealer{}, fmt.Errorf("dealer %s: %w", name, ErrNotFound)
	}
	return res.State.Dealers[i], nil
}

// ClearInvalidHistory drops zero and negative ledger lines and reports how many went.
func (s *dealerService) ClearInvalidHistory(ctx context.Context) (int, error) {
	var before int
	res := s.store.DispatchWith(func(state model.State) ledger.Event {
		before = historyLen(state.Dealers)
		return ledger.NewEvent(ledger.KindClearInvalidDealerHistory, s.now(), ledger.ClearInvalidDealerHistory{})
	})
	return before - historyLen(res.State.Dealers), nil
}

func historyLen(dealers []model.Dealer) int {
	n := 0
	for _, d := range dealers {
		n += len(d.History)
	}
	return n
}

func (s *dealerService) ListDealers(ctx context.Context) (DealerListResponse, error) {
	dealers := s.store.GetState().Dealers
	return DealerListResponse{Dealers: dealers, Totals: ledger.DealerTotals(dealers)}, nil
}

func (s *dealerService) GetDealer(ctx context.Context, name string) (model.Dealer, error) {
	state := s.store.GetState()
	i := state.FindDealer(name)
	if i < 0 {
		return model.Dealer{}, fmt.Errorf("dealer %s: %w", name, ErrNotFound)
	}
	return state.Dealers[i], nil
}
