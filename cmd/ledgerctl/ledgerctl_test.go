package main

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"shopledger/internal/ledger"
	"shopledger/internal/model"
	"shopledger/internal/repository"

	"github.com/stretchr/testify/require"
)

const journal = `
{"id":"0b8e7c1e-7a57-4c0e-9a63-0f0b8a1d2e01","kind":"ADD_STOCK","at":"2026-03-01T09:00:00Z","payload":{"item_name":"Bolt","quantity":10,"rate":"2","min_limit":5,"dealer":"Acme"}}
{"id":"0b8e7c1e-7a57-4c0e-9a63-0f0b8a1d2e02","kind":"CREATE_INVOICE","at":"2026-03-02T09:00:00Z","payload":{"invoice_number":"INV-001","customer":{"name":"Ravi","phone":""},"items":[{"item_name":"Bolt","quantity":7,"rate":"3"}],"total":"21","due_date":"2026-03-05","date":"2026-03-02"}}

{"id":"0b8e7c1e-7a57-4c0e-9a63-0f0b8a1d2e03","kind":"SEND_SMS","at":"2026-03-02T10:00:00Z","payload":{}}
{"id":"0b8e7c1e-7a57-4c0e-9a63-0f0b8a1d2e04","kind":"ADD_TRANSACTION","at":"2026-03-03T09:00:00Z","payload":{"type":"online","amount":"21","details":"INV-001"}}
`

func TestReadJournalAndReplay(t *testing.T) {
	events, err := readJournal(strings.NewReader(journal))
	require.NoError(t, err)
	require.Len(t, events, 4)

	state, applied := ledger.Replay(model.NewState(model.DefaultShop()), events)
	require.Equal(t, 3, applied)
	require.Equal(t, 3, state.Stock[0].Quantity)
	require.Len(t, state.Customers, 1)
	require.Len(t, state.Transactions.Online, 1)

	var out bytes.Buffer
	at := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, writeSummary(&out, repository.Snapshot{Version: uint64(applied), State: state}, at))
	require.Contains(t, out.String(), "Invoices")
	require.Contains(t, out.String(), "1 low")
	require.Contains(t, out.String(), "21.00 (1)")
}

func TestReadJournalReportsLine(t *testing.T) {
	_, err := readJournal(strings.NewReader("{\"kind\":\"ADD_STOCK\"}\nnot json\n"))
	require.ErrorContains(t, err, "journal line 2")
}

func TestReplayCommandWritesSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/events.jsonl"
	require.NoError(t, os.WriteFile(path, []byte(journal), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"replay", "--journal", path})
	require.NoError(t, rootCmd.Execute())

	snap, err := repository.DecodeSnapshot(bytes.TrimSpace(out.Bytes()))
	require.NoError(t, err)
	require.Equal(t, uint64(3), snap.Version)
	require.Equal(t, "INV-001", snap.State.Invoices[0].InvoiceNumber)
}
