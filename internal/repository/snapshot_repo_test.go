package repository

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"shopledger/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() Snapshot {
	s := model.NewState(model.DefaultShop())
	at := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
	inv := model.Invoice{
		InvoiceNumber: "INV-001",
		Customer:      model.CustomerRef{Name: "Asha", Phone: "98"},
		Items: []model.LineItem{{
			ItemName: "Bolt", HSN: "7318", Quantity: 30, Rate: decimal.RequireFromString("2"),
			Unit: "pcs", Discount: decimal.Zero, SGST: decimal.RequireFromString("9"), CGST: decimal.RequireFromString("9"),
		}},
		Total:   decimal.RequireFromString("70.8"),
		DueDate: "2024-04-01",
		Date:    "2024-03-10",
	}
	s.Invoices = []model.Invoice{inv}
	s.Stock = []model.StockItem{{ItemName: "Bolt", HSN: "7318", Quantity: 70, Rate: decimal.RequireFromString("2"), Unit: "pcs", MinLimit: 10, Dealer: "DealerA"}}
	s.Customers = []model.Customer{{
		Name: "Asha", Phone: "98", AllowedLimit: model.DefaultAllowedLimit,
		Pending: []model.PendingEntry{{Amount: inv.Total, DueDate: inv.DueDate}},
		History: []model.Invoice{inv},
	}}
	s.Dealers = []model.Dealer{
		{Name: "DealerA", Billed: decimal.RequireFromString("200"), Paid: decimal.Zero, ToPay: decimal.RequireFromString("200"),
			History: []model.HistoryEntry{{Type: model.HistoryPurchase, Date: at, Amount: decimal.RequireFromString("200"), ItemName: "Bolt", Quantity: 100}}},
		{Name: "Empty", Billed: decimal.Zero, Paid: decimal.Zero, ToPay: decimal.Zero},
	}
	s.Transactions.Online = []model.TransactionEntry{{Amount: decimal.RequireFromString("60"), Details: "upi", Date: at}}
	s.Reminders = []model.Reminder{{ID: "r1", Title: "GST", Message: "file", Severity: model.SeverityHigh}}
	return Snapshot{Version: 12, State: s}
}

func TestSnapshotCodecIsByteStable(t *testing.T) {
	first, err := EncodeSnapshot(sampleSnapshot())
	require.NoError(t, err)

	decoded, err := DecodeSnapshot(first)
	require.NoError(t, err)
	require.Equal(t, uint64(12), decoded.Version)
	require.NotNil(t, decoded.State.Dealers[1].History)
	require.NotNil(t, decoded.State.Quotations)
	require.NotNil(t, decoded.State.Transactions.Cash)

	second, err := EncodeSnapshot(decoded)
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))
}

func TestSnapshotCodecWritesEmptyCollections(t *testing.T) {
	data, err := EncodeSnapshot(Snapshot{State: model.State{Shop: model.DefaultShop()}})
	require.NoError(t, err)
	for _, field := range []string{`"invoices":[]`, `"customers":[]`, `"dealers":[]`, `"stock":[]`, `"quotations":[]`, `"cash":[]`, `"online":[]`, `"reminders":[]`} {
		require.Contains(t, string(data), field)
	}
}

func TestDecodeSnapshotRejectsGarbage(t *testing.T) {
	_, err := DecodeSnapshot([]byte("{not json"))
	require.Error(t, err)
}

func requireRoundTrip(t *testing.T, repo SnapshotRepository) {
	t.Helper()
	ctx := context.Background()

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, ErrSnapshotNotFound)

	want := sampleSnapshot()
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want.Version, got.Version)

	wantData, err := EncodeSnapshot(want)
	require.NoError(t, err)
	gotData, err := EncodeSnapshot(got)
	require.NoError(t, err)
	require.JSONEq(t, string(wantData), string(gotData))

	want.Version = 13
	require.NoError(t, repo.Save(ctx, want))
	got, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(13), got.Version)
}

func TestMemorySnapshotRepository(t *testing.T) {
	requireRoundTrip(t, NewMemorySnapshotRepository())
}

func TestRedisSnapshotRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	requireRoundTrip(t, NewRedisSnapshotRepository(client, ""))
	require.True(t, mr.Exists(DefaultSnapshotKey))
}

type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectStore) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3SnapshotRepository(t *testing.T) {
	store := newFakeObjectStore()
	requireRoundTrip(t, NewS3SnapshotRepository(store, "ledger", "shops/main.json"))
	require.Contains(t, store.objects, "ledger/shops/main.json")
}

func TestMemoryJournalRepositoryListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryJournalRepository()
	kinds := []string{"ADD_STOCK", "CREATE_INVOICE", "ADD_STOCK", "PAY_DEALER", "ADD_STOCK"}
	for i, kind := range kinds {
		require.NoError(t, repo.Append(ctx, &model.EventRecord{Version: uint64(i + 1), Kind: kind, Payload: `{}`}))
	}

	page, total, err := repo.List(ctx, "", 1, 2)
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	require.Equal(t, uint64(5), page[0].Version)

	page, total, err = repo.List(ctx, "ADD_STOCK", 2, 2)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	require.Equal(t, uint64(1), page[0].Version)

	page, _, err = repo.List(ctx, "", 9, 20)
	require.NoError(t, err)
	require.Empty(t, page)

	require.Error(t, repo.Append(ctx, &model.EventRecord{Payload: "nope"}))
}

func TestNoopTransactionManagerRunsInline(t *testing.T) {
	called := false
	err := NewNoopTransactionManager().RunInTx(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	require.True(t, called)
}
