/*
Package ledger provides the credit ledger and transaction accounting engine.

PURPOSE:
  This package contains the domain types and operations for tracking credit
  a café extends to customers who pay less than the full bill, recording
  settlements against that credit, and keeping the customer's outstanding
  balance consistent with the unpaid portion of their transaction history.

KEY CONCEPTS IN THIS FILE (types.go):
  - Customer: Identity plus a cached aggregate of unpaid balance (TotalCredit)
  - MenuItem: Catalog record with price, category, and availability
  - Transaction: A single order or settlement, with snapshot line items
  - LineItem: A copy of an item's name/price captured at order time
  - PaymentStatus: Always derived from AmountPaid vs Total, never set by hand

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for every monetary amount
  2. Snapshots: Line items copy name/price so catalog edits never rewrite history
  3. Derivation: PaymentStatus is a pure function of the two amounts
  4. Discriminant: Transaction.Kind tags order vs payment records explicitly

USAGE:
  tx := ledger.Transaction{
      CustomerID: "c-123",
      Kind:       ledger.KindOrder,
      Lines:      []ledger.LineItem{{ItemID: "i-1", Name: "Chai", Price: d, Quantity: 2}},
  }

SEE ALSO:
  - core.go: Ledger Core operations (orders, settlements)
  - store.go: Persistence interfaces
  - errors.go: Error taxonomy
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CUSTOMER - Identity plus cached outstanding credit
// =============================================================================

// Customer is a café customer who may carry outstanding credit.
//
// TotalCredit is a cached aggregate: at every observable point it equals the
// sum of (Total - AmountPaid) over the customer's transactions. The Ledger
// Core maintains it incrementally, with both writes applied in one
// transactional scope (see Store.WithTx).
type Customer struct {
	ID          string
	Name        string
	Phone       string // unique across customers
	Email       string
	TotalCredit decimal.Decimal // never negative
	IsRedListed bool            // advisory flag, no ledger effect
	LastVisit   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// =============================================================================
// MENU ITEM - Catalog record
// =============================================================================

// MenuItem is a catalog entry. Orders snapshot Name and Price at creation
// time; only Category is ever joined back to the live catalog (reports).
type MenuItem struct {
	ID          string
	Name        string // unique across items
	Price       decimal.Decimal
	Category    string
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// =============================================================================
// TRANSACTION - Order or payment record
// =============================================================================

// TransactionKind discriminates the two transaction variants that share one
// persisted shape. An order has line items; a payment is a pure audit record
// of a settlement against the customer's aggregate balance.
type TransactionKind string

const (
	KindOrder   TransactionKind = "order"
	KindPayment TransactionKind = "payment"
)

type PaymentMethod string

const (
	MethodCash   PaymentMethod = "cash"
	MethodUPI    PaymentMethod = "upi"
	MethodCredit PaymentMethod = "credit"
)

// ParsePaymentMethod validates a wire-level method string. Empty input is
// allowed and returns the zero value; callers apply their own default.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case "":
		return "", nil
	case MethodCash, MethodUPI, MethodCredit:
		return PaymentMethod(s), nil
	}
	return "", &InvalidInputError{Field: "paymentMethod", Reason: "must be one of cash, upi, credit"}
}

type PaymentStatus string

const (
	StatusPending PaymentStatus = "pending"
	StatusPartial PaymentStatus = "partial"
	StatusPaid    PaymentStatus = "paid"
)

// ParsePaymentStatus validates a wire-level status string, empty allowed.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case "":
		return "", nil
	case StatusPending, StatusPartial, StatusPaid:
		return PaymentStatus(s), nil
	}
	return "", &InvalidInputError{Field: "paymentStatus", Reason: "must be one of pending, partial, paid"}
}

// DeriveStatus computes the payment status from the two amounts.
// paid iff amountPaid >= total; partial iff 0 < amountPaid < total;
// pending iff amountPaid = 0.
func DeriveStatus(amountPaid, total decimal.Decimal) PaymentStatus {
	switch {
	case amountPaid.GreaterThanOrEqual(total):
		return StatusPaid
	case amountPaid.IsPositive():
		return StatusPartial
	default:
		return StatusPending
	}
}

// LineItem is a snapshot of a catalog item at order time. Later catalog
// edits never change historical totals.
type LineItem struct {
	ItemID   string
	Name     string
	Price    decimal.Decimal
	Quantity int // >= 1
}

// Subtotal returns Price * Quantity.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Transaction is one immutable-ish ledger record. It is created once and
// later mutated only by payment application (AmountPaid, Status, Method).
// Transactions are never deleted.
type Transaction struct {
	ID         string
	CustomerID string
	Kind       TransactionKind
	Lines      []LineItem // empty for KindPayment
	Total      decimal.Decimal
	AmountPaid decimal.Decimal // 0 <= AmountPaid <= Total
	Method     PaymentMethod
	Status     PaymentStatus
	CreatedAt  time.Time
}

// Outstanding returns Total - AmountPaid.
func (t Transaction) Outstanding() decimal.Decimal {
	return t.Total.Sub(t.AmountPaid)
}

// CheckInvariants verifies the record-level invariants. The Ledger Core
// calls this before persisting any transaction write.
//
// Invariants:
//   - Total = sum of line subtotals for orders
//   - 0 <= AmountPaid <= Total
//   - Status matches DeriveStatus(AmountPaid, Total)
//   - Payment transactions carry no line items
//   - Method is a known value; persisted records never leave it empty
func (t Transaction) CheckInvariants() error {
	switch t.Method {
	case MethodCash, MethodUPI, MethodCredit:
	default:
		return &InvalidInputError{Field: "paymentMethod", Reason: "must be one of cash, upi, credit"}
	}
	if t.Kind == KindOrder {
		sum := decimal.Zero
		for _, l := range t.Lines {
			if l.Quantity < 1 {
				return &InvalidInputError{Field: "quantity", Reason: "must be at least 1"}
			}
			sum = sum.Add(l.Subtotal())
		}
		if !sum.Equal(t.Total) {
			return &InvalidInputError{Field: "total", Reason: "does not equal sum of line items"}
		}
	}
	if t.Kind == KindPayment && len(t.Lines) != 0 {
		return &InvalidInputError{Field: "items", Reason: "payment transactions carry no line items"}
	}
	if t.AmountPaid.IsNegative() || t.AmountPaid.GreaterThan(t.Total) {
		return &InvalidInputError{Field: "amountPaid", Reason: "must be within [0, total]"}
	}
	if t.Status != DeriveStatus(t.AmountPaid, t.Total) {
		return &InvalidInputError{Field: "paymentStatus", Reason: "does not match amounts"}
	}
	return nil
}
