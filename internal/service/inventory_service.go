package service

import (
	"context"
	"fmt"
	"strings"

	"shopledger/internal/ledger"
	"shopledger/internal/model"
	"shopledger/pkg/pagination"

	"github.com/shopspring/decimal"
)

// maxSuggestions caps the item-name autocomplete list.
const maxSuggestions = 8

// DTOs
type AddStockRequest struct {
	ItemName string          `json:"item_name" validate:"required"`
	HSN      string          `json:"hsn"`
	Quantity int             `json:"quantity" validate:"gt=0"`
	Rate     decimal.Decimal `json:"rate" validate:"gte=0"`
	Unit     string          `json:"unit"`
	MinLimit int             `json:"min_limit" validate:"gte=0"`
	Dealer   string          `json:"dealer" validate:"required"`
}

type StockItemResponse struct {
	model.StockItem
	Low bool `json:"low"`
}

type InventoryService interface {
	AddStock(ctx context.Context, req AddStockRequest) (StockItemResponse, error)
	ListStock(ctx context.Context, page, limit int, lowOnly bool) ([]StockItemResponse, int64, error)
	SearchStock(ctx context.Context, query string) ([]model.StockItem, error)
	ReorderList(ctx context.Context) ([]model.ReorderGroup, error)
}

type inventoryService struct {
	store ledger.StateHolder
	now   Clock
}

func NewInventoryService(store ledger.StateHolder, now Clock) InventoryService {
	return &inventoryService{store: store, now: now}
}

func (s *inventoryService) AddStock(ctx context.Context, req AddStockRequest) (StockItemResponse, error) {
	req.ItemName = strings.TrimSpace(req.ItemName)
	req.Dealer = strings.TrimSpace(req.Dealer)
	if err := validateRequest(req); err != nil {
		return StockItemResponse{}, err
	}

	item := model.StockItem{
		ItemName: req.ItemName,
		HSN:      req.HSN,
		Quantity: req.Quantity,
		Rate:     req.Rate,
		Unit:     req.Unit,
		MinLimit: req.MinLimit,
		Dealer:   req.Dealer,
	}
	res := s.store.Dispatch(ledger.NewEvent(ledger.KindAddStock, s.now(), ledger.AddStock{StockItem: item}))
	if !res.Applied {
		return StockItemResponse{}, fmt.Errorf("failed to add stock %s", req.ItemName)
	}

	i := res.State.FindStock(req.ItemName)
	if i < 0 {
		return StockItemResponse{}, fmt.Errorf("stock %s missing after delivery", req.ItemName)
	}
	return toStockItemResponse(res.State.Stock[i]), nil
}

func (s *inventoryService) ListStock(ctx context.Context, page, limit int, lowOnly bool) ([]StockItemResponse, int64, error) {
	state := s.store.GetState()

	res := make([]StockItemResponse, 0, len(state.Stock))
	for _, item := range state.Stock {
		if lowOnly && !item.IsLow() {
			continue
		}
		res = append(res, toStockItemResponse(item))
	}

	return pagination.Slice(res, pagination.New(page, limit)), int64(len(res)), nil
}

// SearchStock matches item names case-insensitively by substring, in stock order.
func (s *inventoryService) SearchStock(ctx context.Context, query string) ([]model.StockItem, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	matches := make([]model.StockItem, 0, maxSuggestions)
	if query == "" {
		return matches, nil
	}
	for _, item := range s.store.GetState().Stock {
		if strings.Contains(strings.ToLower(item.ItemName), query) {
			matches = append(matches, item)
			if len(matches) == maxSuggestions {
				break
			}
		}
	}
	return matches, nil
}

func (s *inventoryService) ReorderList(ctx context.Context) ([]model.ReorderGroup, error) {
	return ledger.ReorderGroups(s.store.GetState().Stock), nil
}

func toStockItemResponse(item model.StockItem) StockItemResponse {
	return StockItemResponse{StockItem: item, Low: item.IsLow()}
}
