package ledger

import (
	"fmt"
	"slices"

	"shopledger/internal/model"

	"github.com/shopspring/decimal"
)

// Transition is the outcome of applying one event. When Applied is false the
// returned State is the input state.
type Transition struct {
	State   model.State
	Signals []Signal
	Applied bool
}

func noop(s model.State) Transition {
	return Transition{State: s}
}

// Reduce applies e to s and returns the next state. It never mutates s: every
// slice it touches is copied first, so readers holding s keep a consistent view.
// Unknown kinds and payloads of the wrong type leave the state unchanged.
func Reduce(s model.State, e Event) Transition {
	switch e.Kind {
	case KindCreateInvoice:
		if p, ok := payloadAs[CreateInvoice](e.Payload); ok {
			return createInvoice(s, p.Invoice)
		}
	case KindAddStock:
		if p, ok := payloadAs[AddStock](e.Payload); ok {
			return addStock(s, p.StockItem, e)
		}
	case KindCreateQuotation:
		if p, ok := payloadAs[CreateQuotation](e.Payload); ok {
			return createQuotation(s, p.Quotation)
		}
	case KindAddTransaction:
		if p, ok := payloadAs[AddTransaction](e.Payload); ok {
			return addTransaction(s, p, e)
		}
	case KindPayDealer:
		if p, ok := payloadAs[PayDealer](e.Payload); ok {
			return payDealer(s, p, e)
		}
	case KindClearInvalidDealerHistory:
		return clearInvalidDealerHistory(s)
	case KindResetDealer:
		if p, ok := payloadAs[ResetDealer](e.Payload); ok {
			return resetDealer(s, p.Dealer)
		}
	case KindClearReminders:
		return clearReminders(s)
	case KindAddReminder:
		if p, ok := payloadAs[AddReminder](e.Payload); ok {
			return addReminder(s, p.Reminder)
		}
	}
	return noop(s)
}

// Replay folds events over initial and reports how many of them were applied.
func Replay(initial model.State, events []Event) (model.State, int) {
	s, applied := initial, 0
	for _, e := range events {
		t := Reduce(s, e)
		if t.Applied {
			applied++
		}
		s = t.State
	}
	return s, applied
}

func appendCopy[T any](in []T, v ...T) []T {
	out := make([]T, len(in), len(in)+len(v))
	copy(out, in)
	return append(out, v...)
}

// createInvoice appends the invoice, depletes stock and books the receivable in one step.
func createInvoice(s model.State, inv model.Invoice) Transition {
	if len(inv.Items) == 0 {
		return noop(s)
	}
	inv.Items = appendCopy([]model.LineItem{}, inv.Items...)

	next := s
	next.Invoices = appendCopy(s.Invoices, inv)

	signals := []Signal{{
		Type:    SignalInvoiceCreated,
		Subject: inv.Customer.Name,
		Message: fmt.Sprintf("Invoice %s created for %s", inv.InvoiceNumber, inv.Customer.Name),
		Amount:  inv.Total,
		Date:    inv.Date,
	}}

	billed := make(map[string]int, len(inv.Items))
	for _, it := range inv.Items {
		billed[it.ItemName] += max(0, it.Quantity)
	}
	if stockMatches(s.Stock, billed) {
		next.Stock = slices.Clone(s.Stock)
		for i, item := range next.Stock {
			qty, ok := billed[item.ItemName]
			if !ok {
				continue
			}
			wasLow := item.IsLow()
			next.Stock[i].Quantity = max(0, item.Quantity-qty)
			if !wasLow && next.Stock[i].IsLow() {
				signals = append(signals, lowStockSignal(next.Stock[i]))
			}
		}
	}

	var customer model.Customer
	pending := model.PendingEntry{Amount: inv.Total, DueDate: inv.DueDate}
	next.Customers = slices.Clone(s.Customers)
	if i := s.FindCustomer(inv.Customer.Name); i >= 0 {
		customer = s.Customers[i]
		customer.Pending = appendCopy(customer.Pending, pending)
		customer.History = appendCopy(customer.History, inv)
		next.Customers[i] = customer
	} else {
		customer = model.Customer{
			Name:         inv.Customer.Name,
			Phone:        inv.Customer.Phone,
			AllowedLimit: model.DefaultAllowedLimit,
			Pending:      []model.PendingEntry{pending},
			History:      []model.Invoice{inv},
		}
		next.Customers = append(next.Customers, customer)
	}

	if IsOverLimit(customer) {
		total, limit := PendingTotal(customer), AllowedLimit(customer)
		signals = append(signals, Signal{
			Type:    SignalLimitExceeded,
			Subject: customer.Name,
			Message: fmt.Sprintf("Limit exceeded! Rs. %s / Rs. %s", total.StringFixed(0), limit.StringFixed(0)),
			Amount:  total.Sub(limit),
		})
	}
	if !inv.IsCash() {
		signals = append(signals, Signal{
			Type:    SignalPaymentDue,
			Subject: customer.Name,
			Message: fmt.Sprintf("Payment of Rs. %s from %s due on %s", inv.Total.StringFixed(2), customer.Name, inv.DueDate),
			Amount:  inv.Total,
			Date:    inv.DueDate,
		})
	}

	return Transition{State: next, Signals: signals, Applied: true}
}

func stockMatches(stock []model.StockItem, billed map[string]int) bool {
	return slices.ContainsFunc(stock, func(it model.StockItem) bool {
		_, ok := billed[it.ItemName]
		return ok
	})
}

func lowStockSignal(item model.StockItem) Signal {
	return Signal{
		Type:    SignalLowStock,
		Subject: item.ItemName,
		Message: fmt.Sprintf("%s is low: %d / %d %s", item.ItemName, item.Quantity, item.MinLimit, item.Unit),
		Amount:  decimal.Zero,
	}
}

// addStock books a delivery: the stock row grows and the supplying dealer is billed.
func addStock(s model.State, item model.StockItem, e Event) Transition {
	if item.ItemName == "" {
		return noop(s)
	}
	item.Quantity = max(0, item.Quantity)

	next := s
	if i := s.FindStock(item.ItemName); i >= 0 {
		next.Stock = slices.Clone(s.Stock)
		next.Stock[i].Quantity += item.Quantity
	} else {
		next.Stock = appendCopy(s.Stock, item)
	}

	purchase := decimal.NewFromInt(int64(item.Quantity)).Mul(item.Rate)
	entry := model.HistoryEntry{
		Type:     model.HistoryPurchase,
		Date:     e.At,
		Amount:   purchase,
		ItemName: item.ItemName,
		Quantity: item.Quantity,
	}

	switch i := s.FindDealer(item.Dealer); {
	case item.Dealer == "":
	case i >= 0:
		d := s.Dealers[i]
		d.Billed = d.Billed.Add(purchase)
		d.History = appendCopy(d.History, entry)
		next.Dealers = slices.Clone(s.Dealers)
		next.Dealers[i] = SettleDealer(d)
	case purchase.IsPositive():
		next.Dealers = appendCopy(s.Dealers, SettleDealer(model.Dealer{
			Name:    item.Dealer,
			Billed:  purchase,
			Paid:    decimal.Zero,
			History: []model.HistoryEntry{entry},
		}))
	}

	return Transition{State: next, Applied: true}
}

func createQuotation(s model.State, q model.Quotation) Transition {
	if len(q.Items) == 0 {
		return noop(s)
	}
	q.Items = appendCopy([]model.QuotationItem{}, q.Items...)
	next := s
	next.Quotations = appendCopy(s.Quotations, q)
	return Transition{State: next, Applied: true}
}

func addTransaction(s model.State, p AddTransaction, e Event) Transition {
	if !p.Amount.IsPositive() {
		return noop(s)
	}
	date := p.Date
	if date.IsZero() {
		date = e.At
	}
	entry := model.TransactionEntry{Amount: p.Amount, Details: p.Details, Date: date}

	next := s
	if p.Type == model.ChannelOnline {
		next.Transactions.Online = appendCopy(s.Transactions.Online, entry)
	} else {
		next.Transactions.Cash = appendCopy(s.Transactions.Cash, entry)
	}
	return Transition{State: next, Applied: true}
}

func payDealer(s model.State, p PayDealer, e Event) Transition {
	if p.Dealer == "" {
		return noop(s)
	}
	amount := decimal.Max(decimal.Zero, p.Amount)
	date := p.Date
	if date.IsZero() {
		date = e.At
	}
	entry := model.HistoryEntry{Type: model.HistoryPayment, Date: date, Amount: amount}

	next := s
	if i := s.FindDealer(p.Dealer); i >= 0 {
		d := s.Dealers[i]
		d.Paid = d.Paid.Add(amount)
		d.History = appendCopy(d.History, entry)
		next.Dealers = slices.Clone(s.Dealers)
		next.Dealers[i] = SettleDealer(d)
		return Transition{State: next, Applied: true}
	}
	if !amount.IsPositive() {
		return noop(s)
	}
	next.Dealers = appendCopy(s.Dealers, SettleDealer(model.Dealer{
		Name:    p.Dealer,
		Billed:  decimal.Zero,
		Paid:    amount,
		History: []model.HistoryEntry{entry},
	}))
	return Transition{State: next, Applied: true}
}

// clearInvalidDealerHistory reports Applied only when an entry was dropped.
func clearInvalidDealerHistory(s model.State) Transition {
	var dealers []model.Dealer
	for i, d := range s.Dealers {
		if !slices.ContainsFunc(d.History, invalidEntry) {
			continue
		}
		if dealers == nil {
			dealers = slices.Clone(s.Dealers)
		}
		kept := make([]model.HistoryEntry, 0, len(d.History))
		for _, h := range d.History {
			if !invalidEntry(h) {
				kept = append(kept, h)
			}
		}
		dealers[i].History = kept
	}
	if dealers == nil {
		return noop(s)
	}
	next := s
	next.Dealers = dealers
	return Transition{State: next, Applied: true}
}

func invalidEntry(h model.HistoryEntry) bool {
	return !h.Amount.IsPositive()
}

func resetDealer(s model.State, name string) Transition {
	i := s.FindDealer(name)
	if i < 0 {
		return noop(s)
	}
	d := s.Dealers[i]
	d.Paid = decimal.Zero
	d.History = []model.HistoryEntry{}

	next := s
	next.Dealers = slices.Clone(s.Dealers)
	next.Dealers[i] = SettleDealer(d)
	return Transition{State: next, Applied: true}
}

func clearReminders(s model.State) Transition {
	if len(s.Reminders) == 0 {
		return noop(s)
	}
	next := s
	next.Reminders = []model.Reminder{}
	return Transition{State: next, Applied: true}
}

func addReminder(s model.State, r model.Reminder) Transition {
	if r.Message == "" && r.Title == "" {
		return noop(s)
	}
	next := s
	next.Reminders = appendCopy(s.Reminders, r)
	return Transition{State: next, Applied: true}
}
