package service

import (
	"shopledger/internal/ledger"
	"shopledger/internal/logger"
	"shopledger/internal/observability"

	"github.com/rs/zerolog"
)

// Message types pushed to websocket clients besides the signal types.
const MessageStateChanged = "state.changed"

// Publisher fans a message out to connected clients without blocking.
type Publisher interface {
	Publish(msgType string, data any)
}

type StateChange struct {
	Kind    ledger.Kind `json:"kind"`
	Version uint64      `json:"version"`
}

// Notifier turns store results into log lines, metrics and pushes.
type Notifier struct {
	publisher Publisher
	metrics   *observability.Metrics
	log       zerolog.Logger
}

func NewNotifier(publisher Publisher, metrics *observability.Metrics) *Notifier {
	return &Notifier{publisher: publisher, metrics: metrics, log: logger.WithComponent("notifier")}
}

// Listen is a ledger.Listener.
func (n *Notifier) Listen(res ledger.Result) {
	n.metrics.ObserveEvent(string(res.Event.Kind), res.Applied, res.Version)
	if !res.Applied {
		n.log.Debug().Str("kind", string(res.Event.Kind)).Msg("event ignored")
		return
	}

	for _, sig := range res.Signals {
		n.metrics.ObserveSignal(string(sig.Type))
		n.logSignal(sig)
		if n.publisher != nil {
			n.publisher.Publish(string(sig.Type), sig)
		}
	}
	if n.publisher != nil {
		n.publisher.Publish(MessageStateChanged, StateChange{Kind: res.Event.Kind, Version: res.Version})
	}
}

func (n *Notifier) logSignal(sig ledger.Signal) {
	var e *zerolog.Event
	switch sig.Type {
	case ledger.SignalLimitExceeded, ledger.SignalLowStock:
		e = n.log.Warn()
	default:
		e = n.log.Info()
	}
	e.Str("signal", string(sig.Type)).
		Str("subject", sig.Subject).
		Str("amount", sig.Amount.String()).
		Msg(sig.Message)
}
