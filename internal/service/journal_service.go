package service

import (
	"context"
	"encoding/json"
	"fmt"

	"shopledger/internal/ledger"
	"shopledger/internal/repository"
)

type JournalEntryResponse struct {
	ID         string          `json:"id"`
	Version    uint64          `json:"version"`
	Kind       string          `json:"kind"`
	Event      json.RawMessage `json:"event"`
	OccurredAt string          `json:"occurred_at"`
	CreatedAt  string          `json:"created_at"`
}

type JournalService interface {
	ListEvents(ctx context.Context, kind string, page, limit int) ([]JournalEntryResponse, int64, error)
}

type journalService struct {
	repo repository.JournalRepository
}

// NewJournalService creates a new JournalService instance
func NewJournalService(repo repository.JournalRepository) JournalService {
	return &journalService{repo: repo}
}

// ListEvents pages through the journal newest first, optionally narrowed to one kind.
func (s *journalService) ListEvents(ctx context.Context, kind string, page, limit int) ([]JournalEntryResponse, int64, error) {
	if kind != "" && !ledger.Kind(kind).Known() {
		return nil, 0, fmt.Errorf("%w: unknown event kind %q", ErrValidation, kind)
	}

	records, total, err := s.repo.List(ctx, kind, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list journal: %w", err)
	}

	res := make([]JournalEntryResponse, 0, len(records))
	for _, r := range records {
		res = append(res, JournalEntryResponse{
			ID:         r.ID.String(),
			Version:    r.Version,
			Kind:       r.Kind,
			Event:      json.RawMessage(r.Payload),
			OccurredAt: r.OccurredAt.Format("2006-01-02 15:04:05"),
			CreatedAt:  r.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}
