package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"shopledger/internal/model"

	"gorm.io/gorm"
)

// JournalRepository is the append-only log of dispatched events.
type JournalRepository interface {
	Append(ctx context.Context, entry *model.EventRecord) error
	List(ctx context.Context, kind string, page, limit int) ([]model.EventRecord, int64, error)
}

type journalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) JournalRepository {
	return &journalRepository{db: db}
}

func (r *journalRepository) Append(ctx context.Context, entry *model.EventRecord) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *journalRepository) List(ctx context.Context, kind string, page, limit int) ([]model.EventRecord, int64, error) {
	var entries []model.EventRecord
	var total int64

	db := GetDB(ctx, r.db).Model(&model.EventRecord{})
	if kind != "" {
		db = db.Where("kind = ?", kind)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("version desc").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

type memoryJournalRepository struct {
	mu      sync.Mutex
	entries []model.EventRecord
}

// NewMemoryJournalRepository keeps the journal in process memory.
func NewMemoryJournalRepository() JournalRepository {
	return &memoryJournalRepository{}
}

func (r *memoryJournalRepository) Append(_ context.Context, entry *model.EventRecord) error {
	if !json.Valid([]byte(entry.Payload)) {
		return fmt.Errorf("failed to append event %s: payload is not valid JSON", entry.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memoryJournalRepository) List(_ context.Context, kind string, page, limit int) ([]model.EventRecord, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]model.EventRecord, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		if kind == "" || r.entries[i].Kind == kind {
			matched = append(matched, r.entries[i])
		}
	}

	total := int64(len(matched))
	offset := (page - 1) * limit
	if offset >= len(matched) {
		return []model.EventRecord{}, total, nil
	}
	end := min(offset+limit, len(matched))
	return matched[offset:end], total, nil
}
