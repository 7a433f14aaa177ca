/*
Package sqlite provides the SQLite-backed implementation of ledger.Store.

PURPOSE:
  Production persistence for customers, menu items, and transactions. The
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  customers:         Directory records with the cached credit aggregate
  menu_items:        Catalog records
  transactions:      Order and payment records (never deleted)
  transaction_lines: Snapshot line items, keyed by (transaction, position)

MUTATION CONTRACT:
  Transactions receive exactly one UPDATE shape: the payment fields
  (amount_paid, status, method). Line items and totals are write-once.
  There is no DELETE on transactions.

AMOUNTS:
  Monetary values are stored as decimal strings and summed in Go.
  SQLite's SUM() coerces to float; folding decimals on the way out keeps
  report figures exact.

TIMESTAMPS:
  Stored as fixed-width UTC text ("2006-01-02 15:04:05.000000000") so
  lexicographic comparison in SQL matches chronological order.

CONCURRENCY:
  WithTx holds a mutex plus a database transaction, so the paired
  transaction/customer writes of a settlement are atomic and concurrent
  settlements against one customer serialize. Reads run outside the lock.

WAL MODE:
  SQLite is opened with WAL so readers don't block behind the writer.

USAGE:
  store, err := sqlite.New("./data/cafekhata.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - ledger/store.go: Interface definitions
  - ledger/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/cafekhata/credit-engine/ledger"
)

// timeFmt is fixed-width so stored text sorts chronologically.
const timeFmt = "2006-01-02 15:04:05.000000000"

// dbtx abstracts *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements ledger.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
	q  dbtx
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: ":memory:" databases are per-connection, and a single
	// writer sidesteps SQLITE_BUSY under concurrent load.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	s.q = db
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL DEFAULT '',
		total_credit TEXT NOT NULL DEFAULT '0',
		is_red_listed INTEGER NOT NULL DEFAULT 0,
		last_visit TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS menu_items (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		price TEXT NOT NULL,
		category TEXT NOT NULL,
		is_available INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL REFERENCES customers(id),
		kind TEXT NOT NULL,
		total TEXT NOT NULL,
		amount_paid TEXT NOT NULL,
		method TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transaction_lines (
		transaction_id TEXT NOT NULL REFERENCES transactions(id),
		line_no INTEGER NOT NULL,
		item_id TEXT NOT NULL,
		name TEXT NOT NULL,
		price TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		PRIMARY KEY (transaction_id, line_no)
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_customer
		ON transactions(customer_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_created_at
		ON transactions(created_at);
	CREATE INDEX IF NOT EXISTS idx_transactions_status
		ON transactions(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// WithTx executes fn within a database transaction. Nested calls join the
// enclosing transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	if _, nested := s.q.(*sql.Tx); nested {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	view := &Store{db: s.db, q: sqlTx}
	if err := fn(view); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// =============================================================================
// HELPERS
// =============================================================================

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeFmt)
}

func decodeTime(s string) (time.Time, error) {
	t, err := time.Parse(timeFmt, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad stored timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

func decodeDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad stored amount %q: %w", s, err)
	}
	return d, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// =============================================================================
// CUSTOMERS
// =============================================================================

func (s *Store) InsertCustomer(ctx context.Context, c ledger.Customer) error {
	var lastVisit any
	if c.LastVisit != nil {
		lastVisit = encodeTime(*c.LastVisit)
	}
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO customers (id, name, phone, email, total_credit, is_red_listed, last_visit, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Phone, c.Email, c.TotalCredit.String(), boolToInt(c.IsRedListed),
		lastVisit, encodeTime(c.CreatedAt), encodeTime(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

func (s *Store) UpdateCustomer(ctx context.Context, c ledger.Customer) error {
	var lastVisit any
	if c.LastVisit != nil {
		lastVisit = encodeTime(*c.LastVisit)
	}
	res, err := s.q.ExecContext(ctx, `
		UPDATE customers
		SET name = ?, phone = ?, email = ?, total_credit = ?, is_red_listed = ?, last_visit = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, c.Phone, c.Email, c.TotalCredit.String(), boolToInt(c.IsRedListed),
		lastVisit, encodeTime(c.UpdatedAt), c.ID)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrCustomerNotFound
	}
	return nil
}

const customerCols = `id, name, phone, email, total_credit, is_red_listed, last_visit, created_at, updated_at`

func scanCustomer(row interface{ Scan(...any) error }) (*ledger.Customer, error) {
	var (
		c         ledger.Customer
		credit    string
		redListed int
		lastVisit sql.NullString
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &credit, &redListed, &lastVisit, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if c.TotalCredit, err = decodeDecimal(credit); err != nil {
		return nil, err
	}
	c.IsRedListed = redListed != 0
	if lastVisit.Valid {
		t, err := decodeTime(lastVisit.String)
		if err != nil {
			return nil, err
		}
		c.LastVisit = &t
	}
	if c.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) GetCustomer(ctx context.Context, id string) (*ledger.Customer, error) {
	c, err := scanCustomer(s.q.QueryRowContext(ctx,
		`SELECT `+customerCols+` FROM customers WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ledger.ErrCustomerNotFound
	}
	return c, err
}

func (s *Store) GetCustomerByPhone(ctx context.Context, phone string) (*ledger.Customer, error) {
	c, err := scanCustomer(s.q.QueryRowContext(ctx,
		`SELECT `+customerCols+` FROM customers WHERE phone = ?`, phone))
	if err == sql.ErrNoRows {
		return nil, ledger.ErrCustomerNotFound
	}
	return c, err
}

func (s *Store) ListCustomers(ctx context.Context) ([]ledger.Customer, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+customerCols+` FROM customers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var out []ledger.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrCustomerNotFound
	}
	return nil
}

func (s *Store) CountCustomers(ctx context.Context) (int, error) {
	var n int
	err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n)
	return n, err
}

// SumOutstandingCredit folds credit strings in Go to keep decimals exact.
func (s *Store) SumOutstandingCredit(ctx context.Context) (decimal.Decimal, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT total_credit FROM customers`)
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	sum := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, err
		}
		d, err := decodeDecimal(raw)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(d)
	}
	return sum, rows.Err()
}

// =============================================================================
// MENU ITEMS
// =============================================================================

func (s *Store) InsertItem(ctx context.Context, item ledger.MenuItem) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO menu_items (id, name, price, category, is_available, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.Price.String(), item.Category, boolToInt(item.IsAvailable),
		encodeTime(item.CreatedAt), encodeTime(item.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

func (s *Store) UpdateItem(ctx context.Context, item ledger.MenuItem) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE menu_items
		SET name = ?, price = ?, category = ?, is_available = ?, updated_at = ?
		WHERE id = ?`,
		item.Name, item.Price.String(), item.Category, boolToInt(item.IsAvailable),
		encodeTime(item.UpdatedAt), item.ID)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrItemNotFound
	}
	return nil
}

const itemCols = `id, name, price, category, is_available, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (*ledger.MenuItem, error) {
	var (
		item      ledger.MenuItem
		price     string
		available int
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&item.ID, &item.Name, &price, &item.Category, &available, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if item.Price, err = decodeDecimal(price); err != nil {
		return nil, err
	}
	item.IsAvailable = available != 0
	if item.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if item.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetItem(ctx context.Context, id string) (*ledger.MenuItem, error) {
	item, err := scanItem(s.q.QueryRowContext(ctx,
		`SELECT `+itemCols+` FROM menu_items WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ledger.ErrItemNotFound
	}
	return item, err
}

func (s *Store) GetItemByName(ctx context.Context, name string) (*ledger.MenuItem, error) {
	item, err := scanItem(s.q.QueryRowContext(ctx,
		`SELECT `+itemCols+` FROM menu_items WHERE name = ?`, name))
	if err == sql.ErrNoRows {
		return nil, ledger.ErrItemNotFound
	}
	return item, err
}

func (s *Store) ListItems(ctx context.Context) ([]ledger.MenuItem, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+itemCols+` FROM menu_items ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	var out []ledger.MenuItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	return out, rows.Err()
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrItemNotFound
	}
	return nil
}

func (s *Store) CountItems(ctx context.Context) (int, error) {
	var n int
	err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM menu_items`).Scan(&n)
	return n, err
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (s *Store) InsertTransaction(ctx context.Context, t ledger.Transaction) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO transactions (id, customer_id, kind, total, amount_paid, method, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.CustomerID, string(t.Kind), t.Total.String(), t.AmountPaid.String(),
		string(t.Method), string(t.Status), encodeTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	for i, l := range t.Lines {
		_, err := s.q.ExecContext(ctx, `
			INSERT INTO transaction_lines (transaction_id, line_no, item_id, name, price, quantity)
			VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, i, l.ItemID, l.Name, l.Price.String(), l.Quantity)
		if err != nil {
			return fmt.Errorf("failed to insert transaction line: %w", err)
		}
	}
	return nil
}

// UpdateTransactionPayment touches only the payment fields; line items and
// totals are write-once.
func (s *Store) UpdateTransactionPayment(ctx context.Context, t ledger.Transaction) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE transactions SET amount_paid = ?, status = ?, method = ?
		WHERE id = ?`,
		t.AmountPaid.String(), string(t.Status), string(t.Method), t.ID)
	if err != nil {
		return fmt.Errorf("failed to update transaction payment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrTransactionNotFound
	}
	return nil
}

const txCols = `t.id, t.customer_id, t.kind, t.total, t.amount_paid, t.method, t.status, t.created_at`

func scanTransaction(row interface{ Scan(...any) error }) (*ledger.Transaction, error) {
	var (
		t          ledger.Transaction
		kind       string
		total      string
		amountPaid string
		method     string
		status     string
		createdAt  string
	)
	if err := row.Scan(&t.ID, &t.CustomerID, &kind, &total, &amountPaid, &method, &status, &createdAt); err != nil {
		return nil, err
	}

	t.Kind = ledger.TransactionKind(kind)
	t.Method = ledger.PaymentMethod(method)
	t.Status = ledger.PaymentStatus(status)

	var err error
	if t.Total, err = decodeDecimal(total); err != nil {
		return nil, err
	}
	if t.AmountPaid, err = decodeDecimal(amountPaid); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// loadLines fetches snapshot line items for a set of transactions.
func (s *Store) loadLines(ctx context.Context, ids []string) (map[string][]ledger.LineItem, error) {
	if len(ids) == 0 {
		return map[string][]ledger.LineItem{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.q.QueryContext(ctx, `
		SELECT transaction_id, item_id, name, price, quantity
		FROM transaction_lines
		WHERE transaction_id IN (`+placeholders+`)
		ORDER BY transaction_id, line_no`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction lines: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]ledger.LineItem)
	for rows.Next() {
		var (
			txID  string
			line  ledger.LineItem
			price string
		)
		if err := rows.Scan(&txID, &line.ItemID, &line.Name, &price, &line.Quantity); err != nil {
			return nil, err
		}
		if line.Price, err = decodeDecimal(price); err != nil {
			return nil, err
		}
		out[txID] = append(out[txID], line)
	}
	return out, rows.Err()
}

// queryTransactions runs a query returning txCols rows and attaches lines.
func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]ledger.Transaction, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var out []ledger.Transaction
	var ids []string
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines, err := s.loadLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Lines = lines[out[i].ID]
	}
	return out, nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*ledger.Transaction, error) {
	txs, err := s.queryTransactions(ctx,
		`SELECT `+txCols+` FROM transactions t WHERE t.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, ledger.ErrTransactionNotFound
	}
	return &txs[0], nil
}

// filterClauses builds the WHERE clause shared by the count and page queries.
func filterClauses(f ledger.TransactionFilter) (string, []any) {
	var conds []string
	var args []any

	if f.Search != "" {
		pat := "%" + strings.ToLower(f.Search) + "%"
		conds = append(conds, `(LOWER(c.name) LIKE ? OR LOWER(c.phone) LIKE ? OR LOWER(c.email) LIKE ?)`)
		args = append(args, pat, pat, pat)
	}
	if f.From != nil {
		conds = append(conds, `t.created_at >= ?`)
		args = append(args, encodeTime(*f.From))
	}
	if f.To != nil {
		conds = append(conds, `t.created_at <= ?`)
		args = append(args, encodeTime(*f.To))
	}
	if f.Status != "" {
		conds = append(conds, `t.status = ?`)
		args = append(args, string(f.Status))
	}
	if f.Method != "" {
		conds = append(conds, `t.method = ?`)
		args = append(args, string(f.Method))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *Store) FindTransactions(ctx context.Context, f ledger.TransactionFilter) ([]ledger.Transaction, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = ledger.DefaultPageSize
	}

	where, args := filterClauses(f)
	base := ` FROM transactions t JOIN customers c ON c.id = t.customer_id` + where

	var total int
	if err := s.q.QueryRowContext(ctx, `SELECT COUNT(*)`+base, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	pageArgs := append(append([]any{}, args...), f.PerPage, (f.Page-1)*f.PerPage)
	txs, err := s.queryTransactions(ctx,
		`SELECT `+txCols+base+` ORDER BY t.created_at DESC, t.rowid DESC LIMIT ? OFFSET ?`,
		pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

func (s *Store) TransactionsByCustomer(ctx context.Context, customerID string) ([]ledger.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+txCols+` FROM transactions t WHERE t.customer_id = ?
		 ORDER BY t.created_at DESC, t.rowid DESC`, customerID)
}

func (s *Store) CountTransactionsByCustomer(ctx context.Context, customerID string) (int, error) {
	var n int
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE customer_id = ?`, customerID).Scan(&n)
	return n, err
}

func (s *Store) TransactionsBetween(ctx context.Context, from, to time.Time) ([]ledger.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+txCols+` FROM transactions t
		 WHERE t.created_at >= ? AND t.created_at < ?
		 ORDER BY t.created_at ASC, t.rowid ASC`,
		encodeTime(from), encodeTime(to))
}

func (s *Store) RecentTransactions(ctx context.Context, n int) ([]ledger.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+txCols+` FROM transactions t
		 ORDER BY t.created_at DESC, t.rowid DESC LIMIT ?`, n)
}
