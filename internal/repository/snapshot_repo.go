package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"shopledger/internal/model"
)

// DefaultSnapshotKey is the single key the whole state is stored under.
const DefaultSnapshotKey = "persist:root"

var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is the persisted document: the state and the store version it was taken at.
type Snapshot struct {
	Version uint64      `json:"version"`
	State   model.State `json:"state"`
}

// SnapshotRepository saves and loads the whole ledger state as one document.
type SnapshotRepository interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (Snapshot, error)
}

// EncodeSnapshot serializes snap with every empty collection written as [].
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	snap.State = snap.State.Clone()
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	snap.State.Normalize()
	return snap, nil
}

type memorySnapshotRepository struct {
	mu   sync.Mutex
	data []byte
}

// NewMemorySnapshotRepository keeps the encoded document in process memory.
func NewMemorySnapshotRepository() SnapshotRepository {
	return &memorySnapshotRepository{}
}

func (r *memorySnapshotRepository) Save(_ context.Context, snap Snapshot) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = data
	return nil
}

func (r *memorySnapshotRepository) Load(_ context.Context) (Snapshot, error) {
	r.mu.Lock()
	data := r.data
	r.mu.Unlock()
	if data == nil {
		return Snapshot{}, ErrSnapshotNotFound
	}
	return DecodeSnapshot(data)
}
