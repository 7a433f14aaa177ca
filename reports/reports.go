/*
Package reports derives time-windowed financial summaries from the ledger.

PURPOSE:
  Read-only aggregation over what the Ledger Core has written. Two views:
  - DailySummary: the dashboard snapshot for one calendar day
  - RangeReport:  multi-month sales/category/item/method breakdowns

  The aggregator never mutates ledger state and returns zero-valued
  structures for empty windows rather than failing. Reads run at
  best-effort snapshot isolation: a report may observe a pre- or
  post-update state of a concurrent settlement.

CATEGORY JOIN:
  Line items snapshot name and price, but categoryBreakdown joins to the
  CURRENT catalog category. Reports therefore reflect today's menu
  organization; lines whose item has since been deleted fall under
  "uncategorized".

SEE ALSO:
  - ledger/store.go: ReportStore, the only dependency
  - dashboard.go: DailySummary
*/
package reports

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cafekhata/credit-engine/ledger"
)

// UncategorizedCategory groups line items whose catalog entry is gone.
const UncategorizedCategory = "uncategorized"

// Aggregator builds reports from a read-only store view.
type Aggregator struct {
	store ledger.ReportStore
	clock func() time.Time
}

// NewAggregator creates an Aggregator over the given store.
func NewAggregator(store ledger.ReportStore) *Aggregator {
	return &Aggregator{store: store, clock: time.Now}
}

// =============================================================================
// RANGE REPORT
// =============================================================================

// MonthlySalesRow reports one calendar month's collections by method.
// Total combines cash and upi; credit-marked collections are reported
// separately and excluded from the combined figure.
type MonthlySalesRow struct {
	Month       string // e.g. "Jan 2026"
	Total       decimal.Decimal
	CashTotal   decimal.Decimal
	UPITotal    decimal.Decimal
	CreditTotal decimal.Decimal
}

// ItemSales is one line-item group (by snapshot name).
type ItemSales struct {
	Name     string
	Count    int
	Revenue  decimal.Decimal
}

// CategorySales is one current-catalog category group.
type CategorySales struct {
	Category string
	Total    decimal.Decimal
}

// MethodTotal is one payment-method group.
type MethodTotal struct {
	Method ledger.PaymentMethod
	Total  decimal.Decimal
}

// RangeReport is the multi-month report.
type RangeReport struct {
	MonthlySales         []MonthlySalesRow
	CategoryBreakdown    []CategorySales
	TopItems             []ItemSales
	PaymentMethodSummary []MethodTotal
}

// Range builds a RangeReport over [start, end]. Nil bounds fall back to the
// default window: end = today, start = first day of the calendar month five
// months before today (a 6-month trailing window).
func (a *Aggregator) Range(ctx context.Context, start, end *time.Time) (*RangeReport, error) {
	from, to := a.resolveWindow(start, end)

	txs, err := a.store.TransactionsBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &RangeReport{
		MonthlySales:         monthlySales(txs, from, to),
		TopItems:             topItems(txs, 10),
		PaymentMethodSummary: methodSummary(txs),
	}

	report.CategoryBreakdown, err = a.categoryBreakdown(ctx, txs)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// resolveWindow applies defaults and normalizes to a half-open [from, to)
// range covering whole days.
func (a *Aggregator) resolveWindow(start, end *time.Time) (time.Time, time.Time) {
	now := a.clock()
	endDay := startOfDay(now)
	if end != nil {
		endDay = startOfDay(*end)
	}
	from := time.Date(endDay.Year(), endDay.Month()-5, 1, 0, 0, 0, 0, endDay.Location())
	if start != nil {
		from = startOfDay(*start)
	}
	return from, endDay.AddDate(0, 0, 1)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// monthlySales emits one row per calendar month from from to to inclusive.
// Months with no transactions still get a zero row.
func monthlySales(txs []ledger.Transaction, from, to time.Time) []MonthlySalesRow {
	type bucket struct {
		cash, upi, credit decimal.Decimal
	}
	buckets := make(map[string]*bucket)
	for _, t := range txs {
		key := t.CreatedAt.Format("Jan 2006")
		b := buckets[key]
		if b == nil {
			b = &bucket{cash: decimal.Zero, upi: decimal.Zero, credit: decimal.Zero}
			buckets[key] = b
		}
		switch t.Method {
		case ledger.MethodCash:
			b.cash = b.cash.Add(t.AmountPaid)
		case ledger.MethodUPI:
			b.upi = b.upi.Add(t.AmountPaid)
		case ledger.MethodCredit:
			b.credit = b.credit.Add(t.AmountPaid)
		}
	}

	var rows []MonthlySalesRow
	for m := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location()); m.Before(to); m = m.AddDate(0, 1, 0) {
		key := m.Format("Jan 2006")
		b := buckets[key]
		if b == nil {
			b = &bucket{cash: decimal.Zero, upi: decimal.Zero, credit: decimal.Zero}
		}
		rows = append(rows, MonthlySalesRow{
			Month:       key,
			Total:       b.cash.Add(b.upi),
			CashTotal:   b.cash,
			UPITotal:    b.upi,
			CreditTotal: b.credit,
		})
	}
	return rows
}

// topItems groups line items by snapshot name, ordered by summed quantity
// descending, ties broken by the order the group key was first seen.
func topItems(txs []ledger.Transaction, limit int) []ItemSales {
	index := make(map[string]int)
	var groups []ItemSales
	for _, t := range txs {
		for _, l := range t.Lines {
			i, ok := index[l.Name]
			if !ok {
				i = len(groups)
				index[l.Name] = i
				groups = append(groups, ItemSales{Name: l.Name, Revenue: decimal.Zero})
			}
			groups[i].Count += l.Quantity
			groups[i].Revenue = groups[i].Revenue.Add(l.Subtotal())
		}
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count > groups[j].Count })
	if len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// categoryBreakdown joins line items to the current catalog category and
// sums quantity*price, sorted descending by total.
func (a *Aggregator) categoryBreakdown(ctx context.Context, txs []ledger.Transaction) ([]CategorySales, error) {
	items, err := a.store.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	categoryOf := make(map[string]string, len(items))
	for _, item := range items {
		categoryOf[item.ID] = item.Category
	}

	index := make(map[string]int)
	var groups []CategorySales
	for _, t := range txs {
		for _, l := range t.Lines {
			cat, ok := categoryOf[l.ItemID]
			if !ok {
				cat = UncategorizedCategory
			}
			i, seen := index[cat]
			if !seen {
				i = len(groups)
				index[cat] = i
				groups = append(groups, CategorySales{Category: cat, Total: decimal.Zero})
			}
			groups[i].Total = groups[i].Total.Add(l.Subtotal())
		}
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Total.GreaterThan(groups[j].Total) })
	return groups, nil
}

// methodSummary sums AmountPaid by payment method, sorted descending.
func methodSummary(txs []ledger.Transaction) []MethodTotal {
	index := make(map[ledger.PaymentMethod]int)
	var groups []MethodTotal
	for _, t := range txs {
		i, ok := index[t.Method]
		if !ok {
			i = len(groups)
			index[t.Method] = i
			groups = append(groups, MethodTotal{Method: t.Method, Total: decimal.Zero})
		}
		groups[i].Total = groups[i].Total.Add(t.AmountPaid)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Total.GreaterThan(groups[j].Total) })
	return groups
}
