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

// --- DTOs ---

type InvoiceLineRequest struct {
	ItemName string          `json:"item_name" validate:"required"`
	HSN      string          `json:"hsn"`
	Quantity int             `json:"quantity" validate:"gt=0"`
	Rate     decimal.Decimal `json:"rate" validate:"gte=0"`
	Unit     string          `json:"unit"`
	Discount decimal.Decimal `json:"discount" validate:"gte=0,lte=100"`
	SGST     decimal.Decimal `json:"sgst" validate:"gte=0,lte=100"`
	CGST     decimal.Decimal `json:"cgst" validate:"gte=0,lte=100"`
}

type CreateInvoiceRequest struct {
	CustomerName  string               `json:"customer_name" validate:"required"`
	CustomerPhone string               `json:"customer_phone"`
	DueDate       string               `json:"due_date" validate:"omitempty,duedate"` // YYYY-MM-DD, Cash or empty
	Items         []InvoiceLineRequest `json:"items" validate:"required,min=1,dive"`
}

type InvoiceFilter struct {
	Customer string // exact customer name or empty for all
	Page     int
	Limit    int
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (model.Invoice, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]model.Invoice, int64, error)
	GetInvoice(ctx context.Context, number string) (model.Invoice, error)
	RenderInvoicePDF(ctx context.Context, number string) ([]byte, error)
}

type invoiceService struct {
	store    ledger.StateHolder
	renderer DocumentRenderer
	now      Clock
}

func NewInvoiceService(store ledger.StateHolder, renderer DocumentRenderer, now Clock) InvoiceService {
	return &invoiceService{store: store, renderer: renderer, now: now}
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (model.Invoice, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	if err := validateRequest(req); err != nil {
		return model.Invoice{}, err
	}

	items := make([]model.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.LineItem{
			ItemName: strings.TrimSpace(it.ItemName),
			HSN:      it.HSN,
			Quantity: it.Quantity,
			Rate:     it.Rate,
			Unit:     it.Unit,
			Discount: it.Discount,
			SGST:     it.SGST,
			CGST:     it.CGST,
		})
	}

	dueDate := req.DueDate
	if dueDate == "" {
		dueDate = model.DueDateCash
	}

	now := s.now()
	invoice := model.Invoice{
		Customer: model.CustomerRef{Name: req.CustomerName, Phone: req.CustomerPhone},
		Items:    items,
		Total:    ledger.InvoiceTotal(items),
		DueDate:  dueDate,
		Date:     now.Format(model.DateLayout),
	}

	res := s.store.DispatchWith(func(state model.State) ledger.Event {
		invoice.InvoiceNumber = ledger.NextInvoiceNumber(state)
		return ledger.NewEvent(ledger.KindCreateInvoice, now, ledger.CreateInvoice{Invoice: invoice})
	})
	if !res.Applied {
		return model.Invoice{}, fmt.Errorf("failed to create invoice for %s", req.CustomerName)
	}
	return invoice, nil
}

// ListInvoices returns invoices newest first.
func (s *invoiceService) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]model.Invoice, int64, error) {
	state := s.store.GetState()

	invoices := make([]model.Invoice, 0, len(state.Invoices))
	for _, inv := range slices.Backward(state.Invoices) {
		if filter.Customer == "" || inv.Customer.Name == filter.Customer {
			invoices = append(invoices, inv)
		}
	}

	return pagination.Slice(invoices, pagination.New(filter.Page, filter.Limit)), int64(len(invoices)), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, number string) (model.Invoice, error) {
	state := s.store.GetState()
	i := slices.IndexFunc(state.Invoices, func(inv model.Invoice) bool { return inv.InvoiceNumber == number })
	if i < 0 {
		return model.Invoice{}, fmt.Errorf("invoice %s: %w", number, ErrNotFound)
	}
	return state.Invoices[i], nil
}

func (s *invoiceService) RenderInvoicePDF(ctx context.Context, number string) ([]byte, error) {
	invoice, err := s.GetInvoice(ctx, number)
	if err != nil {
		return nil, err
	}
	return s.renderer.InvoicePDF(s.store.GetState().Shop, invoice)
}
