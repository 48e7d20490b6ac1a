package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shopledger/internal/ledger"
	"shopledger/internal/model"
	"shopledger/internal/observability"
	"shopledger/internal/repository"

	"github.com/stretchr/testify/require"
)

type flakySnapshotRepo struct {
	repository.SnapshotRepository
	mu    sync.Mutex
	fail  bool
	saves []uint64
}

func (r *flakySnapshotRepo) Save(ctx context.Context, snap repository.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("backend down")
	}
	r.saves = append(r.saves, snap.Version)
	return r.SnapshotRepository.Save(ctx, snap)
}

func TestSnapshotMirrorPersistsLatestVersion(t *testing.T) {
	ctx := context.Background()
	repo := &flakySnapshotRepo{SnapshotRepository: repository.NewMemorySnapshotRepository()}
	journal := repository.NewMemoryJournalRepository()
	mirror := NewSnapshotMirror(repo, journal, nil, observability.NewMetrics(), time.Hour)

	store := newTestStore()
	store.Subscribe(mirror.Listen)
	stock := NewInventoryService(store, fixedClock)
	for range 3 {
		_, err := stock.AddStock(ctx, AddStockRequest{ItemName: "Bolt", Quantity: 2, Dealer: "Acme"})
		require.NoError(t, err)
	}
	// not applied, never journaled
	store.Dispatch(ledger.NewEvent(ledger.KindClearReminders, testNow, ledger.ClearReminders{}))

	require.NoError(t, mirror.Flush(ctx))
	require.Equal(t, []uint64{3}, repo.saves)
	require.Equal(t, uint64(3), mirror.SavedVersion())

	snap, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(3), snap.Version)
	require.Equal(t, 6, snap.State.Stock[0].Quantity)

	entries, total, err := journal.List(ctx, "", 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Equal(t, uint64(3), entries[0].Version)

	events := NewJournalService(journal)
	list, total, err := events.ListEvents(ctx, string(ledger.KindAddStock), 1, 2)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, list, 2)
	require.Contains(t, string(list[0].Event), `"kind":"ADD_STOCK"`)

	_, _, err = events.ListEvents(ctx, "DROP_TABLES", 1, 2)
	require.ErrorIs(t, err, ErrValidation)

	// nothing queued
	require.NoError(t, mirror.Flush(ctx))
	require.Len(t, repo.saves, 1)
}

func TestSnapshotMirrorRequeuesOnFailure(t *testing.T) {
	ctx := context.Background()
	repo := &flakySnapshotRepo{SnapshotRepository: repository.NewMemorySnapshotRepository(), fail: true}
	mirror := NewSnapshotMirror(repo, nil, repository.NewNoopTransactionManager(), nil, time.Hour)

	store := newTestStore()
	store.Subscribe(mirror.Listen)
	stock := NewInventoryService(store, fixedClock)
	_, err := stock.AddStock(ctx, AddStockRequest{ItemName: "Bolt", Quantity: 2, Dealer: "Acme"})
	require.NoError(t, err)

	require.Error(t, mirror.Flush(ctx))
	require.Zero(t, mirror.SavedVersion())

	repo.mu.Lock()
	repo.fail = false
	repo.mu.Unlock()

	require.NoError(t, mirror.Flush(ctx))
	require.Equal(t, uint64(1), mirror.SavedVersion())
}

func TestSnapshotMirrorFlushesOnShutdown(t *testing.T) {
	repo := repository.NewMemorySnapshotRepository()
	mirror := NewSnapshotMirror(repo, nil, nil, nil, time.Hour)
	store := newTestStore()
	store.Subscribe(mirror.Listen)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mirror.Run(ctx) }()

	_, err := NewInventoryService(store, fixedClock).AddStock(context.Background(), AddStockRequest{ItemName: "Bolt", Quantity: 1, Dealer: "Acme"})
	require.NoError(t, err)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("mirror did not stop")
	}

	snap, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(1), snap.Version)
}

func TestRehydrate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemorySnapshotRepository()
	shop := model.Shop{Name: "Sharma Hardware", Phone: "99"}

	state, version, err := Rehydrate(ctx, repo, shop)
	require.NoError(t, err)
	require.Zero(t, version)
	require.Equal(t, shop, state.Shop)
	require.NotNil(t, state.Invoices)

	saved := model.NewState(model.DefaultShop())
	saved.Reminders = []model.Reminder{{ID: "r1", Title: "Call"}}
	require.NoError(t, repo.Save(ctx, repository.Snapshot{Version: 9, State: saved}))

	state, version, err = Rehydrate(ctx, repo, shop)
	require.NoError(t, err)
	require.Equal(t, uint64(9), version)
	require.Equal(t, shop, state.Shop)
	require.Len(t, state.Reminders, 1)

	state, _, err = Rehydrate(ctx, repo, model.Shop{})
	require.NoError(t, err)
	require.Equal(t, model.DefaultShop(), state.Shop)
}

type recordingPublisher struct {
	types []string
}

func (p *recordingPublisher) Publish(msgType string, _ any) {
	p.types = append(p.types, msgType)
}

func TestNotifierPublishesSignals(t *testing.T) {
	pub := &recordingPublisher{}
	store := newTestStore()
	store.Subscribe(NewNotifier(pub, observability.NewMetrics()).Listen)

	req := invoiceRequest("Ravi", lineReq("Bolt", 1, "20000"))
	req.DueDate = "2026-04-01"
	_, err := NewInvoiceService(store, NewDocumentRenderer(), fixedClock).CreateInvoice(context.Background(), req)
	require.NoError(t, err)

	store.Dispatch(ledger.NewEvent(ledger.KindClearReminders, testNow, ledger.ClearReminders{}))

	require.Equal(t, []string{
		string(ledger.SignalInvoiceCreated),
		string(ledger.SignalLimitExceeded),
		string(ledger.SignalPaymentDue),
		MessageStateChanged,
	}, pub.types)
}
