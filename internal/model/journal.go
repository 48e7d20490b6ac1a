package model

import (
	"time"

	"github.com/google/uuid"
)

// SnapshotRecord stores the whole encoded ledger state under one key
type SnapshotRecord struct {
	Key       string    `gorm:"type:varchar(100);primaryKey" json:"key"`
	Version   uint64    `gorm:"not null" json:"version"`
	Data      string    `gorm:"type:jsonb;not null" json:"data"` // encoded {"version":N,"state":{...}}
	UpdatedAt time.Time `json:"updated_at"`
}

func (SnapshotRecord) TableName() string { return "ledger_snapshots" }

// EventRecord is one journaled event, written in dispatch order
type EventRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Version    uint64    `gorm:"not null;index" json:"version"` // store version after the event
	Kind       string    `gorm:"type:varchar(50);not null;index" json:"kind"`
	Payload    string    `gorm:"type:jsonb;not null" json:"payload"` // encoded event envelope
	OccurredAt time.Time `gorm:"index" json:"occurred_at"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (EventRecord) TableName() string { return "ledger_events" }
