package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopledger/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type postgresSnapshotRepository struct {
	db  *gorm.DB
	key string
}

// NewPostgresSnapshotRepository stores the snapshot as one row of ledger_snapshots.
func NewPostgresSnapshotRepository(db *gorm.DB, key string) SnapshotRepository {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &postgresSnapshotRepository{db: db, key: key}
}

func (r *postgresSnapshotRepository) Save(ctx context.Context, snap Snapshot) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	record := model.SnapshotRecord{
		Key:       r.key,
		Version:   snap.Version,
		Data:      string(data),
		UpdatedAt: time.Now(),
	}
	err = GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"version", "data", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", r.key, err)
	}
	return nil
}

func (r *postgresSnapshotRepository) Load(ctx context.Context) (Snapshot, error) {
	var record model.SnapshotRecord
	if err := GetDB(ctx, r.db).First(&record, "key = ?", r.key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Snapshot{}, ErrSnapshotNotFound
		}
		return Snapshot{}, fmt.Errorf("failed to load snapshot %s: %w", r.key, err)
	}
	return DecodeSnapshot([]byte(record.Data))
}
