/*
store.go - Persistence interfaces for the credit ledger

PURPOSE:
  Defines the interface between the domain logic and the database. The
  Ledger Core is written against these interfaces; SQLite backs them in
  production and an in-memory implementation backs tests.

KEY INTERFACES:
  CustomerStore:    Customer directory (identity + cached credit)
  CatalogStore:     Menu catalog (read-mostly)
  TransactionStore: Transaction records (insert, payment update, queries)
  Store:            All of the above plus WithTx
  ReportStore:      Read-only subset the Report Aggregator consumes

MUTATION CONTRACT:
  Transactions are inserted once and later touched only by
  UpdateTransactionPayment. There is no delete. Customer updates flow
  through UpdateCustomer; the Ledger Core pairs every transaction write
  with its customer write inside one WithTx scope.

ATOMICITY:
  WithTx(ctx, fn) runs fn against a transactional view of the store.
  If fn returns an error, nothing fn wrote is observable; otherwise both
  the transaction record and the customer record commit together. This
  is what keeps Customer.TotalCredit in lockstep with the unpaid portion
  of transaction history.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - ledger/store/memory.go: In-memory for testing

SEE ALSO:
  - core.go: The only writer
  - reports/: The only ReportStore consumer
*/
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CUSTOMER DIRECTORY
// =============================================================================

// CustomerStore persists customer records.
type CustomerStore interface {
	// InsertCustomer persists a new customer.
	InsertCustomer(ctx context.Context, c Customer) error

	// UpdateCustomer overwrites an existing customer record.
	// Returns ErrCustomerNotFound if absent.
	UpdateCustomer(ctx context.Context, c Customer) error

	// GetCustomer returns ErrCustomerNotFound if absent.
	GetCustomer(ctx context.Context, id string) (*Customer, error)

	// GetCustomerByPhone returns ErrCustomerNotFound if no customer has
	// the phone number.
	GetCustomerByPhone(ctx context.Context, phone string) (*Customer, error)

	// ListCustomers returns all customers sorted by name.
	ListCustomers(ctx context.Context) ([]Customer, error)

	// DeleteCustomer removes the record. Referential-integrity checks are
	// the Ledger Core's job, not the store's.
	DeleteCustomer(ctx context.Context, id string) error

	// CountCustomers returns the total number of customers.
	CountCustomers(ctx context.Context) (int, error)

	// SumOutstandingCredit returns the sum of TotalCredit over all customers.
	SumOutstandingCredit(ctx context.Context) (decimal.Decimal, error)
}

// =============================================================================
// MENU CATALOG
// =============================================================================

// CatalogStore persists menu items.
type CatalogStore interface {
	InsertItem(ctx context.Context, item MenuItem) error

	// UpdateItem returns ErrItemNotFound if absent.
	UpdateItem(ctx context.Context, item MenuItem) error

	// GetItem returns ErrItemNotFound if absent.
	GetItem(ctx context.Context, id string) (*MenuItem, error)

	// GetItemByName returns ErrItemNotFound if no item has the name.
	GetItemByName(ctx context.Context, name string) (*MenuItem, error)

	// ListItems returns all items sorted by category, then name.
	ListItems(ctx context.Context) ([]MenuItem, error)

	// DeleteItem returns ErrItemNotFound if absent.
	DeleteItem(ctx context.Context, id string) error

	// CountItems returns the total number of menu items.
	CountItems(ctx context.Context) (int, error)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// TransactionFilter narrows and pages transaction listings.
type TransactionFilter struct {
	// Search matches customer name, phone, or email (case-insensitive
	// substring).
	Search string

	// From/To bound CreatedAt. Either may be nil.
	From *time.Time
	To   *time.Time

	Status PaymentStatus // empty = any
	Method PaymentMethod // empty = any

	Page    int // 1-based; values < 1 are treated as 1
	PerPage int // values < 1 fall back to DefaultPageSize
}

// DefaultPageSize is used when a listing request doesn't specify a limit.
const DefaultPageSize = 10

// TransactionStore persists transaction records.
type TransactionStore interface {
	// InsertTransaction persists a new record.
	InsertTransaction(ctx context.Context, t Transaction) error

	// UpdateTransactionPayment overwrites AmountPaid, Status, and Method.
	// This is the ONLY mutation a persisted transaction ever receives.
	// Returns ErrTransactionNotFound if absent.
	UpdateTransactionPayment(ctx context.Context, t Transaction) error

	// GetTransaction returns ErrTransactionNotFound if absent.
	GetTransaction(ctx context.Context, id string) (*Transaction, error)

	// FindTransactions returns one page (newest first) plus the total
	// count matching the filter.
	FindTransactions(ctx context.Context, f TransactionFilter) ([]Transaction, int, error)

	// TransactionsByCustomer returns the customer's history, newest first.
	TransactionsByCustomer(ctx context.Context, customerID string) ([]Transaction, error)

	// CountTransactionsByCustomer supports the delete-block check.
	CountTransactionsByCustomer(ctx context.Context, customerID string) (int, error)

	// TransactionsBetween returns transactions with CreatedAt in
	// [from, to), oldest first. Insertion order breaks CreatedAt ties.
	TransactionsBetween(ctx context.Context, from, to time.Time) ([]Transaction, error)

	// RecentTransactions returns the n most recent transactions.
	RecentTransactions(ctx context.Context, n int) ([]Transaction, error)
}

// =============================================================================
// STORE - Everything the Ledger Core needs
// =============================================================================

// Store is the persistence collaborator for the Ledger Core.
type Store interface {
	CustomerStore
	CatalogStore
	TransactionStore

	// WithTx executes fn within a transactional scope.
	// If fn returns an error, the scope is rolled back.
	// If fn returns nil, the scope is committed.
	WithTx(ctx context.Context, fn func(Store) error) error
}

// ReportStore is the read-only subset the Report Aggregator consumes.
// Every Store satisfies it.
type ReportStore interface {
	TransactionsBetween(ctx context.Context, from, to time.Time) ([]Transaction, error)
	RecentTransactions(ctx context.Context, n int) ([]Transaction, error)
	CountCustomers(ctx context.Context) (int, error)
	CountItems(ctx context.Context) (int, error)
	SumOutstandingCredit(ctx context.Context) (decimal.Decimal, error)
	ListItems(ctx context.Context) ([]MenuItem, error)
}
