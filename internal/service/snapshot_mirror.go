package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"shopledger/internal/ledger"
	"shopledger/internal/logger"
	"shopledger/internal/model"
	"shopledger/internal/observability"
	"shopledger/internal/repository"

	"github.com/rs/zerolog"
)

const (
	defaultFlushInterval = 5 * time.Second
	shutdownFlushTimeout = 10 * time.Second
)

// SnapshotMirror persists the store in the background. Listen only records the
// latest state and queues journal entries; Run writes them out, so a slow backend
// never holds the store lock. Intermediate states may be skipped, the latest never is.
type SnapshotMirror struct {
	repo     repository.SnapshotRepository
	journal  repository.JournalRepository
	tx       repository.TransactionManager
	metrics  *observability.Metrics
	interval time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	latest  *repository.Snapshot
	pending []model.EventRecord
	saved   uint64
	wake    chan struct{}
}

// NewSnapshotMirror creates a mirror. journal may be nil when the backend keeps no event log.
func NewSnapshotMirror(repo repository.SnapshotRepository, journal repository.JournalRepository, tx repository.TransactionManager, metrics *observability.Metrics, interval time.Duration) *SnapshotMirror {
	if interval <= 0 {
		interval = defaultFlushInterval
	}
	if tx == nil {
		tx = repository.NewNoopTransactionManager()
	}
	return &SnapshotMirror{
		repo:     repo,
		journal:  journal,
		tx:       tx,
		metrics:  metrics,
		interval: interval,
		log:      logger.WithComponent("snapshot_mirror"),
		wake:     make(chan struct{}, 1),
	}
}

// Listen is a ledger.Listener. It runs under the store lock and never blocks.
func (m *SnapshotMirror) Listen(res ledger.Result) {
	if !res.Applied {
		return
	}

	var record *model.EventRecord
	if m.journal != nil {
		payload, err := json.Marshal(res.Event)
		if err != nil {
			m.log.Error().Err(err).Str("kind", string(res.Event.Kind)).Msg("failed to encode event for journal")
		} else {
			record = &model.EventRecord{
				ID:         res.Event.ID,
				Version:    res.Version,
				Kind:       string(res.Event.Kind),
				Payload:    string(payload),
				OccurredAt: res.Event.At,
			}
		}
	}

	m.mu.Lock()
	m.latest = &repository.Snapshot{Version: res.Version, State: res.State}
	if record != nil {
		m.pending = append(m.pending, *record)
	}
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Run flushes on every wake-up and on each tick until ctx is done, then makes a
// final flush with a fresh deadline.
func (m *SnapshotMirror) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownFlushTimeout)
			defer cancel()
			if err := m.Flush(flushCtx); err != nil {
				return fmt.Errorf("failed final snapshot flush: %w", err)
			}
			m.log.Info().Uint64("version", m.SavedVersion()).Msg("snapshot mirror stopped")
			return nil
		case <-m.wake:
		case <-ticker.C:
		}
		if err := m.Flush(ctx); err != nil {
			m.log.Error().Err(err).Msg("snapshot flush failed, will retry")
		}
	}
}

// Flush writes queued journal entries and the latest snapshot in one transaction.
// On failure everything is requeued.
func (m *SnapshotMirror) Flush(ctx context.Context) error {
	m.mu.Lock()
	snap, records := m.latest, m.pending
	m.latest, m.pending = nil, nil
	m.mu.Unlock()

	if snap == nil && len(records) == 0 {
		return nil
	}

	start := time.Now()
	err := m.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for i := range records {
			if err := m.journal.Append(txCtx, &records[i]); err != nil {
				return fmt.Errorf("failed to append event %d: %w", records[i].Version, err)
			}
		}
		if snap == nil {
			return nil
		}
		return m.repo.Save(txCtx, *snap)
	})
	m.metrics.ObserveSnapshotSave(time.Since(start), err)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.pending = append(records, m.pending...)
		if m.latest == nil {
			m.latest = snap
		}
		return err
	}
	if snap != nil {
		m.saved = snap.Version
	}
	return nil
}

// SavedVersion is the version of the last snapshot written successfully.
func (m *SnapshotMirror) SavedVersion() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved
}

// Rehydrate loads the persisted state, or an empty one on first start. A configured
// shop profile replaces the persisted one.
func Rehydrate(ctx context.Context, repo repository.SnapshotRepository, shop model.Shop) (model.State, uint64, error) {
	snap, err := repo.Load(ctx)
	if errors.Is(err, repository.ErrSnapshotNotFound) {
		return model.NewState(shop), 0, nil
	}
	if err != nil {
		return model.State{}, 0, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if shop.Name != "" {
		snap.State.Shop = shop
	}
	snap.State.Normalize()
	return snap.State, snap.Version, nil
}
