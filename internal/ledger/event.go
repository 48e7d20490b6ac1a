package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"shopledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind names a business event.
type Kind string

const (
	KindCreateInvoice             Kind = "CREATE_INVOICE"
	KindAddStock                  Kind = "ADD_STOCK"
	KindCreateQuotation           Kind = "CREATE_QUOTATION"
	KindAddTransaction            Kind = "ADD_TRANSACTION"
	KindPayDealer                 Kind = "PAY_DEALER"
	KindClearInvalidDealerHistory Kind = "CLEAR_INVALID_DEALER_HISTORY"
	KindResetDealer               Kind = "RESET_DEALER"
	KindClearReminders            Kind = "CLEAR_REMINDERS"
	KindAddReminder               Kind = "ADD_REMINDER"
)

// Event is the tagged record dispatched to the reducer. At is stamped when the
// event is built, never when it is applied, so replaying a journal is deterministic.
type Event struct {
	ID      uuid.UUID `json:"id"`
	Kind    Kind      `json:"kind"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload,omitempty"`
}

// NewEvent stamps a fresh id on the given kind and payload.
func NewEvent(kind Kind, at time.Time, payload any) Event {
	return Event{ID: uuid.New(), Kind: kind, At: at, Payload: payload}
}

// CreateInvoice carries a fully computed invoice.
type CreateInvoice struct {
	model.Invoice
}

// AddStock carries a delivery from a dealer.
type AddStock struct {
	model.StockItem
}

// CreateQuotation carries a draft quotation.
type CreateQuotation struct {
	model.Quotation
}

// AddTransaction records a received payment on the cash or online ledger.
type AddTransaction struct {
	Type    string          `json:"type"` // cash, online
	Amount  decimal.Decimal `json:"amount"`
	Details string          `json:"details"`
	Date    time.Time       `json:"date"`
}

// PayDealer records a payment made to a dealer. A zero Date falls back to the event time.
type PayDealer struct {
	Dealer string          `json:"dealer"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}

// ResetDealer wipes the payment side of one dealer.
type ResetDealer struct {
	Dealer string `json:"dealer"`
}

type ClearInvalidDealerHistory struct{}

type ClearReminders struct{}

// AddReminder carries a manually entered reminder.
type AddReminder struct {
	model.Reminder
}

var payloadDecoders = map[Kind]func(json.RawMessage) (any, error){
	KindCreateInvoice:             decodeAs[CreateInvoice],
	KindAddStock:                  decodeAs[AddStock],
	KindCreateQuotation:           decodeAs[CreateQuotation],
	KindAddTransaction:            decodeAs[AddTransaction],
	KindPayDealer:                 decodeAs[PayDealer],
	KindClearInvalidDealerHistory: decodeAs[ClearInvalidDealerHistory],
	KindResetDealer:               decodeAs[ResetDealer],
	KindClearReminders:            decodeAs[ClearReminders],
	KindAddReminder:               decodeAs[AddReminder],
}

// Known reports whether k is one of the event kinds the reducer understands.
func (k Kind) Known() bool {
	_, ok := payloadDecoders[k]
	return ok
}

func decodeAs[T any](raw json.RawMessage) (any, error) {
	var v T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// UnmarshalJSON decodes the payload according to the kind. Payloads of unknown
// kinds are kept raw so the event still round-trips.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      uuid.UUID       `json:"id"`
		Kind    Kind            `json:"kind"`
		At      time.Time       `json:"at"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.ID, e.Kind, e.At, e.Payload = raw.ID, raw.Kind, raw.At, nil

	decode, ok := payloadDecoders[raw.Kind]
	if !ok {
		if len(raw.Payload) > 0 {
			e.Payload = raw.Payload
		}
		return nil
	}
	payload, err := decode(raw.Payload)
	if err != nil {
		return fmt.Errorf("ledger: decode %s payload: %w", raw.Kind, err)
	}
	e.Payload = payload
	return nil
}

// payloadAs accepts both value and pointer payloads.
func payloadAs[T any](p any) (T, bool) {
	switch v := p.(type) {
	case T:
		return v, true
	case *T:
		if v != nil {
			return *v, true
		}
	}
	var zero T
	return zero, false
}
