/*
Package store provides an in-memory ledger.Store implementation.

PURPOSE:
  Backs tests and local development without a database file. Semantics
  mirror the SQLite store, including WithTx rollback: the scope snapshots
  the whole state before running and restores it if the callback fails.

CONCURRENCY:
  A single RWMutex guards all state. WithTx holds the write lock for the
  duration of the scope, which serializes concurrent settlements the same
  way the SQLite store's transaction lock does.

SEE ALSO:
  - ledger/store.go: Interface definitions
  - store/sqlite/sqlite.go: Production implementation
*/
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cafekhata/credit-engine/ledger"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Memory struct {
	mu sync.RWMutex
	st state
}

type state struct {
	customers map[string]ledger.Customer
	items     map[string]ledger.MenuItem
	txs       map[string]ledger.Transaction
	txOrder   []string // insertion order of transaction IDs
}

func NewMemory() *Memory {
	return &Memory{st: state{
		customers: make(map[string]ledger.Customer),
		items:     make(map[string]ledger.MenuItem),
		txs:       make(map[string]ledger.Transaction),
	}}
}

func (s state) clone() state {
	cp := state{
		customers: make(map[string]ledger.Customer, len(s.customers)),
		items:     make(map[string]ledger.MenuItem, len(s.items)),
		txs:       make(map[string]ledger.Transaction, len(s.txs)),
		txOrder:   append([]string(nil), s.txOrder...),
	}
	for k, v := range s.customers {
		cp.customers[k] = v
	}
	for k, v := range s.items {
		cp.items[k] = v
	}
	for k, v := range s.txs {
		cp.txs[k] = cloneTx(v)
	}
	return cp
}

func cloneTx(t ledger.Transaction) ledger.Transaction {
	t.Lines = append([]ledger.LineItem(nil), t.Lines...)
	return t
}

// WithTx runs fn against a transactional view. On error the pre-scope state
// is restored, so partial writes are never observable.
func (m *Memory) WithTx(_ context.Context, fn func(ledger.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := m.st.clone()
	if err := fn(&txView{st: &m.st}); err != nil {
		m.st = saved
		return err
	}
	return nil
}

// =============================================================================
// TX VIEW - Unlocked state access, used while the scope holds the lock
// =============================================================================

type txView struct {
	st *state
}

// WithTx on a view joins the enclosing scope.
func (v *txView) WithTx(_ context.Context, fn func(ledger.Store) error) error {
	return fn(v)
}

// --- customers ---

func (v *txView) InsertCustomer(_ context.Context, c ledger.Customer) error {
	v.st.customers[c.ID] = c
	return nil
}

func (v *txView) UpdateCustomer(_ context.Context, c ledger.Customer) error {
	if _, ok := v.st.customers[c.ID]; !ok {
		return ledger.ErrCustomerNotFound
	}
	v.st.customers[c.ID] = c
	return nil
}

func (v *txView) GetCustomer(_ context.Context, id string) (*ledger.Customer, error) {
	c, ok := v.st.customers[id]
	if !ok {
		return nil, ledger.ErrCustomerNotFound
	}
	return &c, nil
}

func (v *txView) GetCustomerByPhone(_ context.Context, phone string) (*ledger.Customer, error) {
	for _, c := range v.st.customers {
		if c.Phone == phone {
			c := c
			return &c, nil
		}
	}
	return nil, ledger.ErrCustomerNotFound
}

func (v *txView) ListCustomers(_ context.Context) ([]ledger.Customer, error) {
	out := make([]ledger.Customer, 0, len(v.st.customers))
	for _, c := range v.st.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (v *txView) DeleteCustomer(_ context.Context, id string) error {
	if _, ok := v.st.customers[id]; !ok {
		return ledger.ErrCustomerNotFound
	}
	delete(v.st.customers, id)
	return nil
}

func (v *txView) CountCustomers(_ context.Context) (int, error) {
	return len(v.st.customers), nil
}

func (v *txView) SumOutstandingCredit(_ context.Context) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, c := range v.st.customers {
		sum = sum.Add(c.TotalCredit)
	}
	return sum, nil
}

// --- menu items ---

func (v *txView) InsertItem(_ context.Context, item ledger.MenuItem) error {
	v.st.items[item.ID] = item
	return nil
}

func (v *txView) UpdateItem(_ context.Context, item ledger.MenuItem) error {
	if _, ok := v.st.items[item.ID]; !ok {
		return ledger.ErrItemNotFound
	}
	v.st.items[item.ID] = item
	return nil
}

func (v *txView) GetItem(_ context.Context, id string) (*ledger.MenuItem, error) {
	item, ok := v.st.items[id]
	if !ok {
		return nil, ledger.ErrItemNotFound
	}
	return &item, nil
}

func (v *txView) GetItemByName(_ context.Context, name string) (*ledger.MenuItem, error) {
	for _, item := range v.st.items {
		if item.Name == name {
			item := item
			return &item, nil
		}
	}
	return nil, ledger.ErrItemNotFound
}

func (v *txView) ListItems(_ context.Context) ([]ledger.MenuItem, error) {
	out := make([]ledger.MenuItem, 0, len(v.st.items))
	for _, item := range v.st.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (v *txView) DeleteItem(_ context.Context, id string) error {
	if _, ok := v.st.items[id]; !ok {
		return ledger.ErrItemNotFound
	}
	delete(v.st.items, id)
	return nil
}

func (v *txView) CountItems(_ context.Context) (int, error) {
	return len(v.st.items), nil
}

// --- transactions ---

func (v *txView) InsertTransaction(_ context.Context, t ledger.Transaction) error {
	v.st.txs[t.ID] = cloneTx(t)
	v.st.txOrder = append(v.st.txOrder, t.ID)
	return nil
}

func (v *txView) UpdateTransactionPayment(_ context.Context, t ledger.Transaction) error {
	existing, ok := v.st.txs[t.ID]
	if !ok {
		return ledger.ErrTransactionNotFound
	}
	// Only the payment fields move; everything else stays as created.
	existing.AmountPaid = t.AmountPaid
	existing.Status = t.Status
	existing.Method = t.Method
	v.st.txs[t.ID] = existing
	return nil
}

func (v *txView) GetTransaction(_ context.Context, id string) (*ledger.Transaction, error) {
	t, ok := v.st.txs[id]
	if !ok {
		return nil, ledger.ErrTransactionNotFound
	}
	t = cloneTx(t)
	return &t, nil
}

// all returns every transaction in insertion order.
func (v *txView) all() []ledger.Transaction {
	out := make([]ledger.Transaction, 0, len(v.st.txOrder))
	for _, id := range v.st.txOrder {
		out = append(out, cloneTx(v.st.txs[id]))
	}
	return out
}

// newestFirst sorts by CreatedAt descending, insertion order breaking ties.
func newestFirst(txs []ledger.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	// Stable sort keeps insertion order among equal timestamps; reverse
	// those runs so the later insert wins, matching the SQLite ordering.
	for i := 0; i < len(txs); {
		j := i + 1
		for j < len(txs) && txs[j].CreatedAt.Equal(txs[i].CreatedAt) {
			j++
		}
		for a, b := i, j-1; a < b; a, b = a+1, b-1 {
			txs[a], txs[b] = txs[b], txs[a]
		}
		i = j
	}
}

func (v *txView) matchesSearch(t ledger.Transaction, search string) bool {
	c, ok := v.st.customers[t.CustomerID]
	if !ok {
		return false
	}
	s := strings.ToLower(search)
	return strings.Contains(strings.ToLower(c.Name), s) ||
		strings.Contains(strings.ToLower(c.Phone), s) ||
		strings.Contains(strings.ToLower(c.Email), s)
}

func (v *txView) FindTransactions(_ context.Context, f ledger.TransactionFilter) ([]ledger.Transaction, int, error) {
	var matched []ledger.Transaction
	for _, t := range v.all() {
		if f.Search != "" && !v.matchesSearch(t, f.Search) {
			continue
		}
		if f.From != nil && t.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && t.CreatedAt.After(*f.To) {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Method != "" && t.Method != f.Method {
			continue
		}
		matched = append(matched, t)
	}
	newestFirst(matched)

	total := len(matched)
	page, per := f.Page, f.PerPage
	if page < 1 {
		page = 1
	}
	if per < 1 {
		per = ledger.DefaultPageSize
	}
	start := (page - 1) * per
	if start >= total {
		return nil, total, nil
	}
	end := start + per
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (v *txView) TransactionsByCustomer(_ context.Context, customerID string) ([]ledger.Transaction, error) {
	var out []ledger.Transaction
	for _, t := range v.all() {
		if t.CustomerID == customerID {
			out = append(out, t)
		}
	}
	newestFirst(out)
	return out, nil
}

func (v *txView) CountTransactionsByCustomer(_ context.Context, customerID string) (int, error) {
	n := 0
	for _, id := range v.st.txOrder {
		if v.st.txs[id].CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

func (v *txView) TransactionsBetween(_ context.Context, from, to time.Time) ([]ledger.Transaction, error) {
	var out []ledger.Transaction
	for _, t := range v.all() {
		if t.CreatedAt.Before(from) || !t.CreatedAt.Before(to) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (v *txView) RecentTransactions(_ context.Context, n int) ([]ledger.Transaction, error) {
	all := v.all()
	newestFirst(all)
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

// =============================================================================
// LOCKED DELEGATION - Public Memory methods
// =============================================================================

func (m *Memory) read() *txView  { return &txView{st: &m.st} }
func (m *Memory) write() *txView { return &txView{st: &m.st} }

func (m *Memory) InsertCustomer(ctx context.Context, c ledger.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.write().InsertCustomer(ctx, c)
}

func (m *Memory) UpdateCustomer(ctx context.Context, c ledger.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.write().UpdateCustomer(ctx, c)
}

func (m *Memory) GetCustomer(ctx context.Context, id string) (*ledger.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().GetCustomer(ctx, id)
}

func (m *Memory) GetCustomerByPhone(ctx context.Context, phone string) (*ledger.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().GetCustomerByPhone(ctx, phone)
}

func (m *Memory) ListCustomers(ctx context.Context) ([]ledger.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().ListCustomers(ctx)
}

func (m *Memory) DeleteCustomer(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.write().DeleteCustomer(ctx, id)
}

func (m *Memory) CountCustomers(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().CountCustomers(ctx)
}

func (m *Memory) SumOutstandingCredit(ctx context.Context) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().SumOutstandingCredit(ctx)
}

func (m *Memory) InsertItem(ctx context.Context, item ledger.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.write().InsertItem(ctx, item)
}

func (m *Memory) UpdateItem(ctx context.Context, item ledger.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.write().UpdateItem(ctx, item)
}

func (m *Memory) GetItem(ctx context.Context, id string) (*ledger.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().GetItem(ctx, id)
}

func (m *Memory) GetItemByName(ctx context.Context, name string) (*ledger.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().GetItemByName(ctx, name)
}

func (m *Memory) ListItems(ctx context.Context) ([]ledger.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().ListItems(ctx)
}

func (m *Memory) DeleteItem(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.write().DeleteItem(ctx, id)
}

func (m *Memory) CountItems(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().CountItems(ctx)
}

func (m *Memory) InsertTransaction(ctx context.Context, t ledger.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.write().InsertTransaction(ctx, t)
}

func (m *Memory) UpdateTransactionPayment(ctx context.Context, t ledger.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.write().UpdateTransactionPayment(ctx, t)
}

func (m *Memory) GetTransaction(ctx context.Context, id string) (*ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().GetTransaction(ctx, id)
}

func (m *Memory) FindTransactions(ctx context.Context, f ledger.TransactionFilter) ([]ledger.Transaction, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().FindTransactions(ctx, f)
}

func (m *Memory) TransactionsByCustomer(ctx context.Context, customerID string) ([]ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().TransactionsByCustomer(ctx, customerID)
}

func (m *Memory) CountTransactionsByCustomer(ctx context.Context, customerID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().CountTransactionsByCustomer(ctx, customerID)
}

func (m *Memory) TransactionsBetween(ctx context.Context, from, to time.Time) ([]ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().TransactionsBetween(ctx, from, to)
}

func (m *Memory) RecentTransactions(ctx context.Context, n int) ([]ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().RecentTransactions(ctx, n)
}
