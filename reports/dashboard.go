/*
dashboard.go - Daily dashboard snapshot

PURPOSE:
  One read path producing everything the dashboard shows for a given
  calendar day: the day's collections, global counters, outstanding
  credit, month-to-date collections by method, the 30-day popular items,
  and the five most recent transactions.

SEE ALSO:
  - reports.go: The multi-month report and shared grouping helpers
*/
package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cafekhata/credit-engine/ledger"
)

// DailySummary is the dashboard snapshot for one calendar day.
type DailySummary struct {
	SalesTotal     decimal.Decimal // sum of AmountPaid for the day
	TotalCustomers int
	TotalMenuItems int
	PendingCredits decimal.Decimal // sum of TotalCredit over all customers

	// Month-to-date collections by method.
	CashPayments decimal.Decimal
	UPIPayments  decimal.Decimal

	// Top 5 by summed quantity over the trailing 30 days, ties broken by
	// the order the item name was first seen.
	PopularItems []ItemSales

	// The 5 most recent transactions by creation time.
	RecentTransactions []ledger.Transaction
}

// Daily builds the dashboard snapshot as of the given day. A zero asOf
// means today. Empty windows produce zero values, never errors.
func (a *Aggregator) Daily(ctx context.Context, asOf time.Time) (*DailySummary, error) {
	if asOf.IsZero() {
		asOf = a.clock()
	}
	day := startOfDay(asOf)
	tomorrow := day.AddDate(0, 0, 1)

	out := &DailySummary{
		SalesTotal:     decimal.Zero,
		PendingCredits: decimal.Zero,
		CashPayments:   decimal.Zero,
		UPIPayments:    decimal.Zero,
	}

	dayTxs, err := a.store.TransactionsBetween(ctx, day, tomorrow)
	if err != nil {
		return nil, err
	}
	for _, t := range dayTxs {
		out.SalesTotal = out.SalesTotal.Add(t.AmountPaid)
	}

	if out.TotalCustomers, err = a.store.CountCustomers(ctx); err != nil {
		return nil, err
	}
	if out.TotalMenuItems, err = a.store.CountItems(ctx); err != nil {
		return nil, err
	}
	if out.PendingCredits, err = a.store.SumOutstandingCredit(ctx); err != nil {
		return nil, err
	}

	monthStart := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	monthTxs, err := a.store.TransactionsBetween(ctx, monthStart, tomorrow)
	if err != nil {
		return nil, err
	}
	for _, t := range monthTxs {
		switch t.Method {
		case ledger.MethodCash:
			out.CashPayments = out.CashPayments.Add(t.AmountPaid)
		case ledger.MethodUPI:
			out.UPIPayments = out.UPIPayments.Add(t.AmountPaid)
		}
	}

	windowTxs, err := a.store.TransactionsBetween(ctx, day.AddDate(0, 0, -30), tomorrow)
	if err != nil {
		return nil, err
	}
	out.PopularItems = topItems(windowTxs, 5)

	if out.RecentTransactions, err = a.store.RecentTransactions(ctx, 5); err != nil {
		return nil, err
	}
	return out, nil
}
