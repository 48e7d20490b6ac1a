package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"shopledger/internal/ledger"
	"shopledger/internal/model"
	"shopledger/pkg/pagination"

	"github.com/shopspring/decimal"
)

type QuotationLineRequest struct {
	ItemName string          `json:"item_name" validate:"required"`
	HSN      string          `json:"hsn"`
	Quantity int             `json:"quantity" validate:"gt=0"`
	Rate     decimal.Decimal `json:"rate" validate:"gte=0"`
	Unit     string          `json:"unit"`
	Discount decimal.Decimal `json:"discount" validate:"gte=0,lte=100"`
}

type CreateQuotationRequest struct {
	CustomerName  string                 `json:"customer_name" validate:"required"`
	CustomerPhone string                 `json:"customer_phone"`
	Items         []QuotationLineRequest `json:"items" validate:"required,min=1,dive"`
}

// QuotationService issues non-binding drafts. Quotations never touch stock or balances.
type QuotationService interface {
	CreateQuotation(ctx context.Context, req CreateQuotationRequest) (model.Quotation, error)
	ListQuotations(ctx context.Context, page, limit int) ([]model.Quotation, int64, error)
	GetQuotation(ctx context.Context, number string) (model.Quotation, error)
	RenderQuotationPDF(ctx context.Context, number string) ([]byte, error)
}

type quotationService struct {
	store    ledger.StateHolder
	renderer DocumentRenderer
	now      Clock
}

func NewQuotationService(store ledger.StateHolder, renderer DocumentRenderer, now Clock) QuotationService {
	return &quotationService{store: store, renderer: renderer, now: now}
}

func (s *quotationService) CreateQuotation(ctx context.Context, req CreateQuotationRequest) (model.Quotation, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	if err := validateRequest(req); err != nil {
		return model.Quotation{}, err
	}

	items := make([]model.QuotationItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.QuotationItem{
			ItemName: strings.TrimSpace(it.ItemName),
			HSN:      it.HSN,
			Quantity: it.Quantity,
			Rate:     it.Rate,
			Unit:     it.Unit,
			Discount: it.Discount,
		})
	}

	now := s.now()
	quotation := model.Quotation{
		Customer: model.CustomerRef{Name: req.CustomerName, Phone: req.CustomerPhone},
		Items:    items,
		Total:    ledger.QuotationTotal(items),
		Date:     now.Format(model.DateLayout),
	}

	res := s.store.DispatchWith(func(state model.State) ledger.Event {
		quotation.QuotationNumber = ledger.NextQuotationNumber(state)
		return ledger.NewEvent(ledger.KindCreateQuotation, now, ledger.CreateQuotation{Quotation: quotation})
	})
	if !res.Applied {
		return model.Quotation{}, fmt.Errorf("failed to create quotation for %s", req.CustomerName)
	}
	return quotation, nil
}

func (s *quotationService) ListQuotations(ctx context.Context, page, limit int) ([]model.Quotation, int64, error) {
	state := s.store.GetState()
	quotations := slices.Clone(state.Quotations)
	slices.Reverse(quotations)
	return pagination.Slice(quotations, pagination.New(page, limit)), int64(len(quotations)), nil
}

func (s *quotationService) GetQuotation(ctx context.Context, number string) (model.Quotation, error) {
	state := s.store.GetState()
	i := slices.IndexFunc(state.Quotations, func(q model.Quotation) bool { return q.QuotationNumber == number })
	if i < 0 {
		return model.Quotation{}, fmt.Errorf("quotation %s: %w", number, ErrNotFound)
	}
	return state.Quotations[i], nil
}

func (s *quotationService) RenderQuotationPDF(ctx context.Context, number string) ([]byte, error) {
	quotation, err := s.GetQuotation(ctx, number)
	if err != nil {
		return nil, err
	}
	return s.renderer.QuotationPDF(s.store.GetState().Shop, quotation)
}
