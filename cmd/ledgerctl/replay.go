package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"shopledger/internal/ledger"
	"shopledger/internal/logger"
	"shopledger/internal/model"
	"shopledger/internal/repository"

	"github.com/spf13/cobra"
)

const maxEventLine = 4 << 20

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Rebuild a snapshot from an event journal",
	Long: `Replay folds every event of a JSON-lines journal into an empty ledger,
in file order, and writes the resulting snapshot document.

Each line holds one event envelope: {"id":...,"kind":...,"at":...,"payload":{...}}.
Unknown kinds are skipped the same way the server skips them.`,
	Example: `  # Print the rebuilt snapshot
  ledgerctl replay --journal events.jsonl

  # Write it to a file
  ledgerctl replay --journal events.jsonl --snapshot state.json`,
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().String("journal", "", "JSON-lines file of events (required)")
	replayCmd.Flags().String("snapshot", "", "Output file for the snapshot document (default: stdout)")
	_ = replayCmd.MarkFlagRequired("journal")
}

func runReplay(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("replay")

	journalPath, _ := cmd.Flags().GetString("journal")
	snapshotPath, _ := cmd.Flags().GetString("snapshot")

	f, err := os.Open(journalPath)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	events, err := readJournal(f)
	if err != nil {
		return err
	}

	state, applied := ledger.Replay(model.NewState(model.DefaultShop()), events)
	log.Info().
		Int("events", len(events)).
		Int("applied", applied).
		Msg("journal replayed")

	data, err := repository.EncodeSnapshot(repository.Snapshot{Version: uint64(applied), State: state})
	if err != nil {
		return err
	}

	if snapshotPath == "" {
		_, err = cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(snapshotPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	log.Info().Str("file", snapshotPath).Msg("snapshot written")
	return nil
}

// readJournal decodes one event per non-blank line.
func readJournal(r io.Reader) ([]ledger.Event, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxEventLine)

	var events []ledger.Event
	for n := 1; scanner.Scan(); n++ {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var e ledger.Event
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("journal line %d: %w", n, err)
		}
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return events, nil
}
