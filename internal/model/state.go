package model

import "slices"

// State is the complete ledger snapshot. Every transition produces a new State;
// readers share the slices of the current one and must not write to them.
type State struct {
	Shop         Shop         `json:"shop"`
	Invoices     []Invoice    `json:"invoices"`
	Customers    []Customer   `json:"customers"`
	Dealers      []Dealer     `json:"dealers"`
	Stock        []StockItem  `json:"stock"`
	Quotations   []Quotation  `json:"quotations"`
	Transactions Transactions `json:"transactions"`
	Reminders    []Reminder   `json:"reminders"`
}

// NewState returns an empty state for the given shop with every collection allocated.
func NewState(shop Shop) State {
	s := State{Shop: shop}
	s.Normalize()
	return s
}

// Normalize replaces nil collections with empty ones so they encode as [] rather than null.
func (s *State) Normalize() {
	if s.Invoices == nil {
		s.Invoices = []Invoice{}
	}
	if s.Customers == nil {
		s.Customers = []Customer{}
	}
	if s.Dealers == nil {
		s.Dealers = []Dealer{}
	}
	if s.Stock == nil {
		s.Stock = []StockItem{}
	}
	if s.Quotations == nil {
		s.Quotations = []Quotation{}
	}
	if s.Transactions.Cash == nil {
		s.Transactions.Cash = []TransactionEntry{}
	}
	if s.Transactions.Online == nil {
		s.Transactions.Online = []TransactionEntry{}
	}
	if s.Reminders == nil {
		s.Reminders = []Reminder{}
	}
	for i := range s.Invoices {
		s.Invoices[i].normalize()
	}
	for i := range s.Customers {
		c := &s.Customers[i]
		if c.Pending == nil {
			c.Pending = []PendingEntry{}
		}
		if c.History == nil {
			c.History = []Invoice{}
		}
		for j := range c.History {
			c.History[j].normalize()
		}
	}
	for i := range s.Dealers {
		if s.Dealers[i].History == nil {
			s.Dealers[i].History = []HistoryEntry{}
		}
	}
	for i := range s.Quotations {
		if s.Quotations[i].Items == nil {
			s.Quotations[i].Items = []QuotationItem{}
		}
	}
}

func (i *Invoice) normalize() {
	if i.Items == nil {
		i.Items = []LineItem{}
	}
}

// Clone returns a deep copy that shares no slices with s.
func (s State) Clone() State {
	out := s
	out.Invoices = cloneInvoices(s.Invoices)
	out.Customers = make([]Customer, len(s.Customers))
	for i, c := range s.Customers {
		out.Customers[i] = c.Clone()
	}
	out.Dealers = make([]Dealer, len(s.Dealers))
	for i, d := range s.Dealers {
		out.Dealers[i] = d.Clone()
	}
	out.Stock = slices.Clone(s.Stock)
	out.Quotations = make([]Quotation, len(s.Quotations))
	for i, q := range s.Quotations {
		q.Items = slices.Clone(q.Items)
		out.Quotations[i] = q
	}
	out.Transactions = Transactions{
		Cash:   slices.Clone(s.Transactions.Cash),
		Online: slices.Clone(s.Transactions.Online),
	}
	out.Reminders = slices.Clone(s.Reminders)
	out.Normalize()
	return out
}

// Clone copies the customer including its pending and history slices.
func (c Customer) Clone() Customer {
	c.Pending = slices.Clone(c.Pending)
	c.History = cloneInvoices(c.History)
	return c
}

// Clone copies the dealer including its history.
func (d Dealer) Clone() Dealer {
	d.History = slices.Clone(d.History)
	return d
}

func cloneInvoices(in []Invoice) []Invoice {
	if in == nil {
		return nil
	}
	out := make([]Invoice, len(in))
	for i, inv := range in {
		inv.Items = slices.Clone(inv.Items)
		out[i] = inv
	}
	return out
}

// FindStock returns the index of the stock row named itemName, or -1.
func (s State) FindStock(itemName string) int {
	return slices.IndexFunc(s.Stock, func(it StockItem) bool { return it.ItemName == itemName })
}

// FindCustomer returns the index of the customer named name, or -1.
func (s State) FindCustomer(name string) int {
	return slices.IndexFunc(s.Customers, func(c Customer) bool { return c.Name == name })
}

// FindDealer returns the index of the dealer named name, or -1.
func (s State) FindDealer(name string) int {
	return slices.IndexFunc(s.Dealers, func(d Dealer) bool { return d.Name == name })
}
