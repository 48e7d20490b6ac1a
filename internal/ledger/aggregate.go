package ledger

import (
	"fmt"
	"slices"
	"time"

	"shopledger/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineTotal applies the discount first, then both tax rates on the discounted amount.
func LineTotal(it model.LineItem) decimal.Decimal {
	taxable := discounted(it.Quantity, it.Rate, it.Discount)
	tax := taxable.Mul(it.SGST.Add(it.CGST)).Div(hundred)
	return taxable.Add(tax)
}

// InvoiceTotal sums the line totals, rounded to 2 decimals.
func InvoiceTotal(items []model.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(LineTotal(it))
	}
	return total.Round(2)
}

// QuotationLineTotal is the discounted amount of a quoted row.
func QuotationLineTotal(it model.QuotationItem) decimal.Decimal {
	return discounted(it.Quantity, it.Rate, it.Discount)
}

// QuotationTotal sums the quoted rows, rounded to 2 decimals.
func QuotationTotal(items []model.QuotationItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(QuotationLineTotal(it))
	}
	return total.Round(2)
}

func discounted(qty int, rate, discount decimal.Decimal) decimal.Decimal {
	base := decimal.NewFromInt(int64(qty)).Mul(rate)
	return base.Sub(base.Mul(discount).Div(hundred))
}

// PendingTotal is the sum of the customer's pending amounts.
func PendingTotal(c model.Customer) decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.Pending {
		total = total.Add(p.Amount)
	}
	return total
}

// AllowedLimit returns the customer's credit limit; an unset limit means the default.
func AllowedLimit(c model.Customer) decimal.Decimal {
	if c.AllowedLimit.IsZero() {
		return model.DefaultAllowedLimit
	}
	return c.AllowedLimit
}

// IsOverLimit reports whether the pending total exceeds the allowed limit.
func IsOverLimit(c model.Customer) bool {
	return PendingTotal(c).GreaterThan(AllowedLimit(c))
}

// IsOverdue reports whether the entry's due date, read as a calendar date in
// now's location, lies strictly before now. "Cash" and malformed dates never are.
func IsOverdue(p model.PendingEntry, now time.Time) bool {
	due, err := time.ParseInLocation(model.DateLayout, p.DueDate, now.Location())
	if err != nil {
		return false
	}
	return due.Before(now)
}

// DealerDue is what is still owed to the dealer, never negative.
func DealerDue(d model.Dealer) decimal.Decimal {
	return decimal.Max(decimal.Zero, d.Billed.Sub(d.Paid))
}

// SettleDealer recomputes ToPay from Billed and Paid. Every transition that
// touches either field goes through here.
func SettleDealer(d model.Dealer) model.Dealer {
	d.ToPay = DealerDue(d)
	return d
}

// Alerts derives the alerts view: overdue pending entries, over-limit customers
// and manual reminders, newest first. Undated alerts sort as the epoch.
func Alerts(s model.State, now time.Time) []model.Alert {
	alerts := make([]model.Alert, 0)

	for _, c := range s.Customers {
		for i, p := range c.Pending {
			if !IsOverdue(p, now) {
				continue
			}
			alerts = append(alerts, model.Alert{
				ID:       fmt.Sprintf("overdue-%s-%d", c.Name, i),
				Type:     model.AlertOverdue,
				Title:    c.Name,
				Message:  fmt.Sprintf("Rs. %s overdue since %s", p.Amount.StringFixed(0), p.DueDate),
				Severity: model.SeverityHigh,
				Date:     p.DueDate,
				Customer: c.Name,
				Amount:   p.Amount,
			})
		}
	}

	for _, c := range s.Customers {
		if !IsOverLimit(c) {
			continue
		}
		total, limit := PendingTotal(c), AllowedLimit(c)
		alerts = append(alerts, model.Alert{
			ID:       "limit-" + c.Name,
			Type:     model.AlertLimit,
			Title:    c.Name,
			Message:  fmt.Sprintf("Limit exceeded! Rs. %s / Rs. %s", total.StringFixed(0), limit.StringFixed(0)),
			Severity: model.SeverityCritical,
			Customer: c.Name,
			Amount:   total.Sub(limit),
		})
	}

	for i, r := range s.Reminders {
		id := r.ID
		if id == "" {
			id = fmt.Sprintf("reminder-%d", i)
		}
		title := r.Title
		if title == "" {
			title = "Reminder"
		}
		severity := r.Severity
		if severity == "" {
			severity = model.SeverityNormal
		}
		alerts = append(alerts, model.Alert{
			ID:       id,
			Type:     model.AlertReminder,
			Title:    title,
			Message:  r.Message,
			Severity: severity,
			Date:     r.DueDate,
			Amount:   decimal.Zero,
		})
	}

	slices.SortStableFunc(alerts, func(a, b model.Alert) int {
		return alertTime(b, now.Location()).Compare(alertTime(a, now.Location()))
	})
	return alerts
}

func alertTime(a model.Alert, loc *time.Location) time.Time {
	if t, err := time.ParseInLocation(model.DateLayout, a.Date, loc); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, a.Date); err == nil {
		return t
	}
	return time.Unix(0, 0)
}

// ReorderGroups groups stock below its minimum by dealer, in first-seen dealer order.
func ReorderGroups(stock []model.StockItem) []model.ReorderGroup {
	groups := make([]model.ReorderGroup, 0)
	index := make(map[string]int)
	for _, item := range stock {
		if !item.IsLow() {
			continue
		}
		i, ok := index[item.Dealer]
		if !ok {
			i = len(groups)
			index[item.Dealer] = i
			groups = append(groups, model.ReorderGroup{Dealer: item.Dealer})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// Summarize totals both payment ledgers. It is cheap enough to run on every read.
func Summarize(t model.Transactions) model.TransactionSummary {
	cash, online := decimal.Zero, decimal.Zero
	for _, e := range t.Cash {
		cash = cash.Add(e.Amount)
	}
	for _, e := range t.Online {
		online = online.Add(e.Amount)
	}
	return model.TransactionSummary{
		CashTotal:   cash,
		OnlineTotal: online,
		GrandTotal:  cash.Add(online),
		CashCount:   len(t.Cash),
		OnlineCount: len(t.Online),
	}
}

// CustomerBalances lists every customer with its derived pending position.
func CustomerBalances(s model.State) []model.CustomerBalance {
	out := make([]model.CustomerBalance, 0, len(s.Customers))
	for _, c := range s.Customers {
		out = append(out, Balance(c))
	}
	return out
}

// Balance derives the pending position of one customer.
func Balance(c model.Customer) model.CustomerBalance {
	return model.CustomerBalance{
		Name:         c.Name,
		Phone:        c.Phone,
		AllowedLimit: AllowedLimit(c),
		PendingTotal: PendingTotal(c),
		OverLimit:    IsOverLimit(c),
		InvoiceCount: len(c.History),
	}
}

// DealerTotals totals billed, paid and due across dealers.
func DealerTotals(dealers []model.Dealer) model.DealerTotals {
	totals := model.DealerTotals{Billed: decimal.Zero, Paid: decimal.Zero, ToPay: decimal.Zero}
	for _, d := range dealers {
		totals.Billed = totals.Billed.Add(d.Billed)
		totals.Paid = totals.Paid.Add(d.Paid)
		totals.ToPay = totals.ToPay.Add(DealerDue(d))
	}
	return totals
}

// NextInvoiceNumber numbers the next invoice from the current invoice count.
func NextInvoiceNumber(s model.State) string {
	return fmt.Sprintf("INV-%03d", len(s.Invoices)+1)
}

// NextQuotationNumber numbers the next quotation from the current quotation count.
func NextQuotationNumber(s model.State) string {
	return fmt.Sprintf("QT-%03d", len(s.Quotations)+1)
}
