/*
core.go - Ledger Core operations

PURPOSE:
  The Ledger Core owns the accounting invariants. It creates order and
  payment transactions, applies settlements, and updates customer balances
  so that at every observable point:

    Customer.TotalCredit = sum over the customer's transactions
                           of (Total - AmountPaid)

CRITICAL INVARIANTS:
  1. Total = sum of price*quantity for order transactions
  2. 0 <= AmountPaid <= Total
  3. Status is derived from the two amounts, never stored independently
  4. TotalCredit never goes negative

ATOMICITY:
  Every mutating operation touches exactly two records - a Transaction and
  its Customer - and applies both writes inside one Store.WithTx scope.
  Either both commit and the invariants hold, or neither is observable.
  The scope also serializes concurrent settlements against the same
  customer or transaction: balances are re-read inside the scope, so the
  total applied across concurrent requests never exceeds the outstanding
  balance that existed before any of them started.

PAYMENT STATE MACHINE:
  pending -> partial -> paid, strictly monotonic. AmountPaid only
  increases; no operation transitions backward; refunds are out of scope.

SEE ALSO:
  - directory.go: Customer directory operations
  - catalog.go: Menu catalog operations
  - store.go: Persistence interfaces
*/
package ledger

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CORE
// =============================================================================

// Core implements the ledger operations against an injected Store.
type Core struct {
	store Store

	// Injectable for tests.
	clock func() time.Time
	newID func() string
}

// NewCore creates a Ledger Core backed by the given store.
func NewCore(store Store) *Core {
	return &Core{
		store: store,
		clock: time.Now,
		newID: uuid.NewString,
	}
}

// =============================================================================
// ORDER CREATION
// =============================================================================

// OrderLine is one requested line of an order, pre-resolution.
type OrderLine struct {
	ItemID   string
	Quantity int // values < 1 are treated as 1
}

// CreateOrder resolves the requested items against the catalog, computes the
// total, derives the payment status, and persists the transaction together
// with the customer's LastVisit and TotalCredit updates.
//
// Failure modes, all checked before any write:
//   - ErrCustomerNotFound if the customer is absent
//   - InvalidInputError if lines is empty, amountPaid is negative, or
//     amountPaid exceeds the computed total
//   - MissingItemError / UnavailableItemError per line item
//
// method defaults to cash when amountPaid > 0, credit otherwise.
func (c *Core) CreateOrder(ctx context.Context, customerID string, lines []OrderLine, amountPaid decimal.Decimal, method PaymentMethod) (*Transaction, error) {
	if len(lines) == 0 {
		return nil, &InvalidInputError{Field: "items", Reason: "at least one line item is required"}
	}
	if amountPaid.IsNegative() {
		return nil, &InvalidInputError{Field: "amountPaid", Reason: "must not be negative"}
	}

	var created *Transaction
	err := c.store.WithTx(ctx, func(s Store) error {
		customer, err := s.GetCustomer(ctx, customerID)
		if err != nil {
			return err
		}

		snapshot := make([]LineItem, 0, len(lines))
		total := decimal.Zero
		for _, line := range lines {
			item, err := s.GetItem(ctx, line.ItemID)
			if err != nil {
				if IsNotFound(err) {
					return &MissingItemError{ItemID: line.ItemID}
				}
				return err
			}
			if !item.IsAvailable {
				return &UnavailableItemError{ItemID: item.ID, Name: item.Name}
			}
			qty := line.Quantity
			if qty < 1 {
				qty = 1
			}
			snapshot = append(snapshot, LineItem{
				ItemID:   item.ID,
				Name:     item.Name,
				Price:    item.Price,
				Quantity: qty,
			})
			total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(qty))))
		}

		if amountPaid.GreaterThan(total) {
			return &InvalidInputError{Field: "amountPaid", Reason: "exceeds order total"}
		}

		if method == "" {
			if amountPaid.IsPositive() {
				method = MethodCash
			} else {
				method = MethodCredit
			}
		}

		now := c.clock()
		tx := Transaction{
			ID:         c.newID(),
			CustomerID: customer.ID,
			Kind:       KindOrder,
			Lines:      snapshot,
			Total:      total,
			AmountPaid: amountPaid,
			Method:     method,
			Status:     DeriveStatus(amountPaid, total),
			CreatedAt:  now,
		}
		if err := tx.CheckInvariants(); err != nil {
			return err
		}
		if err := s.InsertTransaction(ctx, tx); err != nil {
			return err
		}

		customer.LastVisit = &now
		if amountPaid.LessThan(total) {
			customer.TotalCredit = customer.TotalCredit.Add(total.Sub(amountPaid))
		}
		customer.UpdatedAt = now
		if err := s.UpdateCustomer(ctx, *customer); err != nil {
			return err
		}

		created = &tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// =============================================================================
// SETTLEMENTS
// =============================================================================

// SettlementResult reports the outcome of a standalone payment against a
// customer's aggregate credit.
type SettlementResult struct {
	Transaction     Transaction
	ActualPayment   decimal.Decimal
	RemainingCredit decimal.Decimal
}

// RecordStandalonePayment settles part or all of a customer's aggregate
// credit. The applied amount is capped at the outstanding credit, the credit
// is decremented, and a payment-kind transaction is recorded as the audit
// trail, all in one atomic unit.
//
// Fails with InvalidInputError if amount <= 0 and ErrNoOutstandingCredit if
// the customer carries no credit. method defaults to cash.
func (c *Core) RecordStandalonePayment(ctx context.Context, customerID string, amount decimal.Decimal, method PaymentMethod) (*SettlementResult, error) {
	if !amount.IsPositive() {
		return nil, &InvalidInputError{Field: "amount", Reason: "must be greater than zero"}
	}
	if method == "" {
		method = MethodCash
	}

	var result *SettlementResult
	err := c.store.WithTx(ctx, func(s Store) error {
		customer, err := s.GetCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if !customer.TotalCredit.IsPositive() {
			return ErrNoOutstandingCredit
		}

		actual := decimal.Min(amount, customer.TotalCredit)
		now := c.clock()

		customer.TotalCredit = customer.TotalCredit.Sub(actual)
		customer.UpdatedAt = now
		if err := s.UpdateCustomer(ctx, *customer); err != nil {
			return err
		}

		tx := Transaction{
			ID:         c.newID(),
			CustomerID: customer.ID,
			Kind:       KindPayment,
			Total:      actual,
			AmountPaid: actual,
			Method:     method,
			Status:     StatusPaid,
			CreatedAt:  now,
		}
		if err := tx.CheckInvariants(); err != nil {
			return err
		}
		if err := s.InsertTransaction(ctx, tx); err != nil {
			return err
		}

		result = &SettlementResult{
			Transaction:     tx,
			ActualPayment:   actual,
			RemainingCredit: customer.TotalCredit,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PaymentResult reports the outcome of a payment against one transaction.
type PaymentResult struct {
	Transaction   Transaction
	ActualPayment decimal.Decimal

	// CreditReconciled is set when bookkeeping drift would have driven the
	// customer's credit below zero and it was clamped instead.
	CreditReconciled bool
}

// RecordTransactionPayment applies a payment to a specific transaction. The
// applied amount is capped at the unpaid portion, the status is recomputed,
// and the customer's credit is decremented in the same atomic unit. If
// method is non-empty it overwrites the transaction's payment method.
//
// TotalCredit is never driven below zero: drift is clamped and flagged on
// the result rather than raised as an error.
func (c *Core) RecordTransactionPayment(ctx context.Context, transactionID string, amount decimal.Decimal, method PaymentMethod) (*PaymentResult, error) {
	if !amount.IsPositive() {
		return nil, &InvalidInputError{Field: "amount", Reason: "must be greater than zero"}
	}

	var result *PaymentResult
	err := c.store.WithTx(ctx, func(s Store) error {
		tx, err := s.GetTransaction(ctx, transactionID)
		if err != nil {
			return err
		}
		customer, err := s.GetCustomer(ctx, tx.CustomerID)
		if err != nil {
			return err
		}

		unpaid := tx.Outstanding()
		if !unpaid.IsPositive() {
			return ErrAlreadySettled
		}

		actual := decimal.Min(amount, unpaid)
		tx.AmountPaid = tx.AmountPaid.Add(actual)
		tx.Status = DeriveStatus(tx.AmountPaid, tx.Total)
		if method != "" {
			tx.Method = method
		}
		if err := tx.CheckInvariants(); err != nil {
			return err
		}
		if err := s.UpdateTransactionPayment(ctx, *tx); err != nil {
			return err
		}

		now := c.clock()
		reconciled := false
		customer.TotalCredit = customer.TotalCredit.Sub(actual)
		if customer.TotalCredit.IsNegative() {
			log.Printf("ledger: credit for customer %s would go negative after payment on %s; clamping to zero (reconciliation needed)",
				customer.ID, tx.ID)
			customer.TotalCredit = decimal.Zero
			reconciled = true
		}
		customer.UpdatedAt = now
		if err := s.UpdateCustomer(ctx, *customer); err != nil {
			return err
		}

		result = &PaymentResult{
			Transaction:      *tx,
			ActualPayment:    actual,
			CreditReconciled: reconciled,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// =============================================================================
// LISTINGS
// =============================================================================

// TransactionPage is one page of a filtered listing.
type TransactionPage struct {
	Transactions []Transaction
	Page         int
	TotalPages   int
	TotalCount   int
}

// ListTransactions returns a filtered, paginated listing, newest first.
func (c *Core) ListTransactions(ctx context.Context, f TransactionFilter) (*TransactionPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultPageSize
	}
	txs, total, err := c.store.FindTransactions(ctx, f)
	if err != nil {
		return nil, err
	}
	totalPages := (total + f.PerPage - 1) / f.PerPage
	return &TransactionPage{
		Transactions: txs,
		Page:         f.Page,
		TotalPages:   totalPages,
		TotalCount:   total,
	}, nil
}

// GetTransaction returns one transaction by ID.
func (c *Core) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	return c.store.GetTransaction(ctx, id)
}

// CustomerTransactions returns a customer's history, newest first.
func (c *Core) CustomerTransactions(ctx context.Context, customerID string) ([]Transaction, error) {
	if _, err := c.store.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return c.store.TransactionsByCustomer(ctx, customerID)
}
