package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafekhata/credit-engine/ledger"
	"github.com/cafekhata/credit-engine/ledger/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// newTestCore returns a core over an in-memory store with a deterministic
// clock (advances one second per call) and sequential IDs.
func newTestCore(t *testing.T) (*ledger.Core, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	core := ledger.NewCore(mem)

	base := time.Date(2026, time.August, 10, 9, 0, 0, 0, time.UTC)
	tick := 0
	core.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	})
	seq := 0
	core.SetIDSource(func() string {
		seq++
		return fmt.Sprintf("id-%04d", seq)
	})
	return core, mem
}

func seedCustomer(t *testing.T, core *ledger.Core, name, phone string) *ledger.Customer {
	t.Helper()
	c, err := core.CreateCustomer(context.Background(), ledger.CustomerInput{Name: name, Phone: phone})
	require.NoError(t, err)
	return c
}

func seedItem(t *testing.T, core *ledger.Core, name string, price float64, category string) *ledger.MenuItem {
	t.Helper()
	item, err := core.CreateItem(context.Background(), ledger.ItemInput{
		Name:     name,
		Price:    decimal.NewFromFloat(price),
		Category: category,
	})
	require.NoError(t, err)
	return item
}

func money(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// assertLedgerInvariant checks TotalCredit == sum of outstanding amounts
// over the customer's transactions.
func assertLedgerInvariant(t *testing.T, core *ledger.Core, customerID string) {
	t.Helper()
	ctx := context.Background()

	customer, err := core.GetCustomer(ctx, customerID)
	require.NoError(t, err)

	txs, err := core.CustomerTransactions(ctx, customerID)
	require.NoError(t, err)

	outstanding := decimal.Zero
	for _, tx := range txs {
		require.NoError(t, tx.CheckInvariants())
		if tx.Kind == ledger.KindOrder {
			outstanding = outstanding.Add(tx.Outstanding())
		}
	}
	assert.True(t, customer.TotalCredit.Equal(outstanding),
		"TotalCredit %s != outstanding %s", customer.TotalCredit, outstanding)
}

// =============================================================================
// ORDER CREATION
// =============================================================================

func TestCreateOrder_PartialPayment_ExtendsCredit(t *testing.T) {
	// GIVEN: Coffee at 100, cake at 50
	// WHEN: Ordering 2x coffee + 1x cake with 100 paid
	// THEN: Total 250, status partial, customer owes 150

	core, _ := newTestCore(t)
	ctx := context.Background()

	customer := seedCustomer(t, core, "Asha", "9000000001")
	coffee := seedItem(t, core, "Coffee", 100, "beverages")
	cake := seedItem(t, core, "Cake", 50, "desserts")

	tx, err := core.CreateOrder(ctx, customer.ID, []ledger.OrderLine{
		{ItemID: coffee.ID, Quantity: 2},
		{ItemID: cake.ID, Quantity: 1},
	}, money(100), "")
	require.NoError(t, err)

	assert.Equal(t, ledger.KindOrder, tx.Kind)
	assert.True(t, tx.Total.Equal(money(250)), "total should be 250, got %s", tx.Total)
	assert.True(t, tx.AmountPaid.Equal(money(100)))
	assert.Equal(t, ledger.StatusPartial, tx.Status)
	assert.Len(t, tx.Lines, 2)

	updated, err := core.GetCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.True(t, updated.TotalCredit.Equal(money(150)),
		"credit should be 150, got %s", updated.TotalCredit)
	require.NotNil(t, updated.LastVisit)

	assertLedgerInvariant(t, core, customer.ID)
}

func TestCreateOrder_FullPayment_DefaultsToCash(t *testing.T) {
	// GIVEN: A fully paid order with no explicit method
	// WHEN: The order is created
	// THEN: Status paid, method defaults to cash, no credit extended

	core, _ := newTestCore(t)
	ctx := context.Background()

	customer := seedCustomer(t, core, "Asha", "9000000001")
	coffee := seedItem(t, core, "Coffee", 100, "beverages")

	tx, err := core.CreateOrder(ctx, customer.ID, []ledger.OrderLine{
		{ItemID: coffee.ID, Quantity: 1},
	}, money(100), "")
	require.NoError(t, err)

	assert.Equal(t, ledger.StatusPaid, tx.Status)
	assert.Equal(t, ledger.MethodCash, tx.Method)

	updated, _ := core.GetCustomer(ctx, customer.ID)
	assert.True(t, updated.TotalCredit.IsZero())
}

func TestCreateOrder_ZeroPayment_DefaultsToCredit(t *testing.T) {
	// GIVEN: An order with nothing paid and no explicit method
	// WHEN: The order is created
	// THEN: Status pending, method defaults to credit, full total owed

	core, _ := newTestCore(t)
	ctx := context.Background()

	customer := seedCustomer(t, core, "Asha", "9000000001")
	coffee := seedItem(t, core, "Coffee", 100, "beverages")

	tx, err := core.CreateOrder(ctx, customer.ID, []ledger.OrderLine{
		{ItemID: coffee.ID, Quantity: 3},
	}, decimal.Zero, "")
	require.NoError(t, err)

	assert.Equal(t, ledger.StatusPending, tx.Status)
	assert.Equal(t, ledger.MethodCredit, tx.Method)

	updated, _ := core.GetCustomer(ctx, customer.ID)
	assert.True(t, updated.TotalCredit.Equal(money(300)))
}

func TestCreateOrder_OverPayment_Rejected(t *testing.T) {
	// GIVEN: An order totaling 100
	// WHEN: 150 is tendered at creation
	// THEN: The order is rejected and nothing is persisted

	core, _ := newTestCore(t)
	ctx := context.Background()

	customer := seedCustomer(t, core, "Asha", "9000000001")
	coffee := seedItem(t, core, "Coffee", 100, "beverages")

	_, err := core.CreateOrder(ctx, customer.ID, []ledger.OrderLine{
		{ItemID: coffee.ID, Quantity: 1},
	}, money(150), "")

	require.Error(t, err)
	assert.True(t, ledger.IsInvalid(err), "overpayment should be invalid input")

	txs, err := core.CustomerTransactions(ctx, customer.ID)
	require.NoError(t, err)
	assert.Empty(t, txs, "rejected order must not be persisted")

	updated, _ := core.GetCustomer(ctx, customer.ID)
	assert.True(t, updated.TotalCredit.IsZero())
	assert.Nil(t, updated.LastVisit, "rejected order must not bump LastVisit")
}

func TestCreateOrder_UnavailableItem_Rejected(t *testing.T) {
	// GIVEN: A menu item toggled unavailable
	// WHEN: An order references it
	// THEN: The order is rejected naming the item

	core, _ := newTestCore(t)
	ctx := context.Background()

	customer := seedCustomer(t, core, "Asha", "9000000001")
	coffee := seedItem(t, core, "Coffee", 100, "beverages")
	_, err := core.ToggleAvailability(ctx, coffee.ID)
	require.NoError(t, err)

	_, err = core.CreateOrder(ctx, customer.ID, []ledger.OrderLine{
		{ItemID: coffee.ID, Quantity: 1},
	}, decimal.Zero, "")

	require.Error(t, err)
	assert.True(t, ledger.IsRejected(err))
	var unavailable *ledger.UnavailableItemError
	assert.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "Coffee", unavailable.Name)
}

func TestCreateOrder_MissingItem_NotFound(t *testing.T) {
	core, _ := newTestCore(t)
	ctx := context.Background()

	customer := seedCustomer(t, core, "Asha", "9000000001")

	_, err := core.CreateOrder(ctx, customer.ID, []ledger.OrderLine{
		{ItemID: "no-such-item", Quantity: 1},
	}, decimal.Zero, "")

	require.Error(t, err)
	assert.True(t, ledger.IsNotFound(err))
}

func TestCreateOrder_BadInputs(t *testing.T) {
	core, _ := newTestCore(t)
	ctx := context.Background()

	customer := seedCustomer(t, core, "Asha", "9000000001")
	coffee := seedItem(t, core, "Coffee", 100, "beverages")

	t.Run("empty lines", func(t *testing.T) {
		_, err := core.CreateOrder(ctx, customer.ID, nil, decimal.Zero, "")
		assert.True(t, ledger.IsInvalid(err))
	})

	t.Run("negative amount paid", func(t *testing.T) {
		_, err := core.CreateOrder(ctx, customer.ID, []ledger.OrderLine{
			{ItemID: coffee.ID, Quantity: 1},
		}, money(-1), "")
		assert.True(t, ledger.IsInvalid(err))
	})

	t.Run("unknown customer", func(t *testing.T) {
		_, err := core.CreateOrder(ctx, "ghost", []ledger.OrderLine{
			{ItemID: coffee.ID, Quantity: 1},
		}, decimal.Zero, "")
		assert.True(t, ledger.IsNotFound(err))
	})
}

func TestCreateOrder_QuantityBelowOne_TreatedAsOne(t *testing.T) {
	// GIVEN: Lines with zero and negative quantities
	// WHEN: The order is created
	// THEN: Each defaults to quantity 1

	core, _ := newTestCore(t)
	ctx := context.Background()

	customer := seedCustomer(t, core, "Asha", "9000000001")
	coffee := seedItem(t, core, "Coffee", 100, "beverages")
	cake := seedItem(t, core, "Cake", 50, "desserts")

	tx, err := core.CreateOrder(ctx, customer.ID, []ledger.OrderLine{
		{ItemID: coffee.ID, Quantity: 0},
		{ItemID: cake.ID, Quantity: -3},
	}, decimal.Zero, "")
	require.NoError(t, err)

	assert.True(t, tx.Total.Equal(money(150)))
	for _, line := range tx.Lines {
		assert.Equal(t, 1, line.Quantity)
	}
}

func TestCreateOrder_SnapshotsPriceAndName(t *testing.T) {
	// GIVEN: An order placed at the current catalog price
	// WHEN: The item's price and name change afterwards
	// THEN: The stored lines keep the original snapshot

	core, _ := newTestCore(t)
	ctx := context.Background()

	customer := seedCustomer(t, core, "Asha", "9000000001")
	coffee := seedItem(t, core, "Coffee", 100, "beverages")

	tx, err := core.CreateOrder(ctx, customer.ID, []ledger.OrderLine{
		{ItemID: coffee.ID, Quantity: 1},
	}, decimal.Zero, "")
	require.NoError(t, err)

	_, err = core.UpdateItem(ctx, coffee.ID, ledger.ItemInput{
		Name:     "Espresso",
		Price:    money(180),
		Category: "beverages",
	})
	require.NoError(t, err)

	stored, err := core.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "Coffee", stored.Lines[0].Name)
	assert.True(t, stored.Lines[0].Price.Equal(money(100)))
	assert.True(t, stored.Total.Equal(money(100)))
}

// =============================================================================
// STANDALONE SETTLEMENTS
// =============================================================================

func TestStandalonePayment_CapsAtOutstandingCredit(t *testing.T) {
	// GIVEN: A customer owing 150
	// WHEN: 200 is tendered against the aggregate credit
	// THEN: Only 150 is applied and the credit reaches zero

	core, _ := newTestCore(t)
	ctx := context.Background()

	customer := seedCustomer(t, core, "Asha", "9000000001")
	coffee := seedItem(t, core, "Coffee", 150, "beverages")
	_, err := core.CreateOrder(ctx, customer.ID, []ledger.OrderLine{
		{ItemID: coffee.ID, Quantity: 1},
	}, decimal.Zero, "")
	require.NoError(t, err)

	result, err := core.RecordStandalonePayment(ctx, customer.ID, money(200), "")
	require.NoError(t, err)

	assert.True(t, result.ActualPayment.Equal(money(150)))
	assert.True(t, result.RemainingCredit.IsZero())

	// The audit transaction is a fully paid payment-kind record.
	assert.Equal(t, ledger.KindPayment, result.Transaction.Kind)
	assert.Equal(t, ledger.StatusPaid, result.Transaction.Status)
	assert.Equal(t, ledger.MethodCash, result.Transaction.Method, "method defaults to cash")
	assert.True(t, result.Transaction.Total.Equal(money(150)))
	assert.Empty(t, result.Transaction.Lines)

	updated, _ := core.GetCustomer(ctx, customer.ID)
	assert.True(t, updated.TotalCredit.IsZero())
}

func TestStandalonePayment_PartialReducesCredit(t *testing.T) {
	core, _ := newTestCore(t)
	ctx := context.Background()

	customer := seedCustomer(t, core, "Asha", "9000000001")
	coffee := seedItem(t, core, "Coffee", 100, "beverages")
	_, err := core.CreateOrder(ctx, customer.ID, []ledger.OrderLine{
		{ItemID: coffee.ID, Quantity: 3},
	}, decimal.Zero, "")
	require.NoError(t, err)

	result, err := core.RecordStandalonePayment(ctx, customer.ID, money(120), ledger.MethodUPI)
	require.NoError(t, err)

	assert.True(t, result.ActualPayment.Equal(money(120)))
	assert.True(t, result.RemainingCredit.Equal(money(180)))
	assert.Equal(t, ledger.MethodUPI, result.Transaction.Method)
}

func TestStandalonePayment_NoCredit_Rejected(t *testing.T) {
	core, _ := newTestCore(t)
	ctx := context.Background()

	customer := seedCustomer(t, core, "Asha", "9000000001")

	_, err := core.RecordStandalonePayment(ctx, customer.ID, money(50), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrNoOutstandingCredit)
	assert.True(t, ledger.IsRejected(err))
}

func TestStandalonePayment_NonPositiveAmount_Invalid(t *testing.T) {
	core, _ := newTestCore(t)
	ctx := context.Background()

	customer := seedCustomer(t, core, "Asha", "9000000001")

	_, err := core.RecordStandalonePayment(ctx, customer.ID, decimal.Zero, "")
	assert.True(t, ledger.IsInvalid(err))

	_, err = core.RecordStandalonePayment(ctx, customer.ID, money(-10), "")
	assert.True(t, ledger.IsInvalid(err))
}

// =============================================================================
// PER-TRANSACTION SETTLEMENTS
// =============================================================================

func TestTransactionPayment_RepeatedPaymentsCapAtUnpaid(t *testing.T) {
	// GIVEN: An order totaling 250 with 100 already paid
	// WHEN: Payments of 100 and then 100 are applied
	// THEN: The second is capped at the 50 remaining; a third is rejected

	core, _ := newTestCore(t)
	ctx := context.Background()

	customer := seedCustomer(t, core, "Asha", "9000000001")
	coffee := seedItem(t, core, "Coffee", 125, "beverages")
	order, err := core.CreateOrder(ctx, customer.ID, []ledger.OrderLine{
		{ItemID: coffee.ID, Quantity: 2},
	}, money(100), "")
	require.NoError(t, err)

	first, err := core.RecordTransactionPayment(ctx, order.ID, money(100), "")
	require.NoError(t, err)
	assert.True(t, first.ActualPayment.Equal(money(100)))
	assert.Equal(t, ledger.StatusPartial, first.Transaction.Status)

	second, err := core.RecordTransactionPayment(ctx, order.ID, money(100), "")
	require.NoError(t, err)
	assert.True(t, second.ActualPayment.Equal(money(50)), "payment capped at unpaid portion")
	assert.Equal(t, ledger.StatusPaid, second.Transaction.Status)
	assert.True(t, second.Transaction.AmountPaid.Equal(second.Transaction.Total))

	updated, _ := core.GetCustomer(ctx, customer.ID)
	assert.True(t, updated.TotalCredit.IsZero())
	assertLedgerInvariant(t, core, customer.ID)

	_, err = core.RecordTransactionPayment(ctx, order.ID, money(1), "")
	assert.ErrorIs(t, err, ledger.ErrAlreadySettled)
}

func TestTransactionPayment_MethodOverwrite(t *testing.T) {
	// GIVEN: A pending order carried on credit
	// WHEN: A payment arrives via UPI
	// THEN: The transaction's method reflects the latest payment

	core, _ := newTestCore(t)
	ctx := context.Background()

	customer := seedCustomer(t, core, "Asha", "9000000001")
	coffee := seedItem(t, core, "Coffee", 100, "beverages")
	order, err := core.CreateOrder(ctx, customer.ID, []ledger.OrderLine{
		{ItemID: coffee.ID, Quantity: 1},
	}, decimal.Zero, "")
	require.NoError(t, err)
	assert.Equal(t, ledger.MethodCredit, order.Method)

	result, err := core.RecordTransactionPayment(ctx, order.ID, money(40), ledger.MethodUPI)
	require.NoError(t, err)
	assert.Equal(t, ledger.MethodUPI, result.Transaction.Method)

	// Empty method keeps the last one.
	result, err = core.RecordTransactionPayment(ctx, order.ID, money(40), "")
	require.NoError(t, err)
	assert.Equal(t, ledger.MethodUPI, result.Transaction.Method)
}

func TestTransactionPayment_CreditClampedAtZero(t *testing.T) {
	// GIVEN: A customer record whose TotalCredit has drifted below the
	//        sum of outstanding transactions
	// WHEN: A payment larger than the recorded credit settles a transaction
	// THEN: Credit clamps at zero and the drift is flagged, not an error

	core, mem := newTestCore(t)
	ctx := context.Background()

	customer := seedCustomer(t, core, "Asha", "9000000001")
	coffee := seedItem(t, core, "Coffee", 100, "beverages")
	order, err := core.CreateOrder(ctx, customer.ID, []ledger.OrderLine{
		{ItemID: coffee.ID, Quantity: 1},
	}, decimal.Zero, "")
	require.NoError(t, err)

	// Introduce drift directly in the store.
	drifted, err := mem.GetCustomer(ctx, customer.ID)
	require.NoError(t, err)
	drifted.TotalCredit = money(30)
	require.NoError(t, mem.UpdateCustomer(ctx, *drifted))

	result, err := core.RecordTransactionPayment(ctx, order.ID, money(100), "")
	require.NoError(t, err)
	assert.True(t, result.ActualPayment.Equal(money(100)))
	assert.True(t, result.CreditReconciled, "drift should be flagged")

	updated, _ := core.GetCustomer(ctx, customer.ID)
	assert.True(t, updated.TotalCredit.IsZero(), "credit never goes negative")
}

func TestTransactionPayment_ConcurrentSettlementsSerialize(t *testing.T) {
	// GIVEN: An order with 100 unpaid
	// WHEN: Ten payments of 60 race against the same transaction
	// THEN: The total applied is exactly 100 and credit lands at zero;
	//       late arrivals find the transaction settled

	core, _ := newTestCore(t)
	ctx := context.Background()

	customer := seedCustomer(t, core, "Asha", "9000000001")
	coffee := seedItem(t, core, "Coffee", 100, "beverages")
	order, err := core.CreateOrder(ctx, customer.ID, []ledger.OrderLine{
		{ItemID: coffee.ID, Quantity: 1},
	}, decimal.Zero, "")
	require.NoError(t, err)

	var (
		mu      sync.Mutex
		applied = decimal.Zero
		wg      sync.WaitGroup
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := core.RecordTransactionPayment(ctx, order.ID, money(60), "")
			if err != nil {
				if !errors.Is(err, ledger.ErrAlreadySettled) {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			mu.Lock()
			applied = applied.Add(result.ActualPayment)
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.True(t, applied.Equal(money(100)),
		"total applied %s must equal the prior unpaid amount", applied)

	settled, err := core.GetTransaction(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPaid, settled.Status)
	assert.True(t, settled.AmountPaid.Equal(settled.Total))

	updated, _ := core.GetCustomer(ctx, customer.ID)
	assert.True(t, updated.TotalCredit.IsZero(), "credit must land at zero, got %s", updated.TotalCredit)
	assertLedgerInvariant(t, core, customer.ID)
}

func TestStandalonePayment_ConcurrentSettlementsSerialize(t *testing.T) {
	// GIVEN: A customer owing 100
	// WHEN: Ten standalone payments of 60 race against the same customer
	// THEN: The total applied is exactly 100; late arrivals find no credit

	core, _ := newTestCore(t)
	ctx := context.Background()

	customer := seedCustomer(t, core, "Asha", "9000000001")
	coffee := seedItem(t, core, "Coffee", 100, "beverages")
	_, err := core.CreateOrder(ctx, customer.ID, []ledger.OrderLine{
		{ItemID: coffee.ID, Quantity: 1},
	}, decimal.Zero, "")
	require.NoError(t, err)

	var (
		mu      sync.Mutex
		applied = decimal.Zero
		wg      sync.WaitGroup
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := core.RecordStandalonePayment(ctx, customer.ID, money(60), "")
			if err != nil {
				if !errors.Is(err, ledger.ErrNoOutstandingCredit) {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			mu.Lock()
			applied = applied.Add(result.ActualPayment)
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.True(t, applied.Equal(money(100)),
		"total applied %s must equal the prior outstanding credit", applied)

	updated, _ := core.GetCustomer(ctx, customer.ID)
	assert.True(t, updated.TotalCredit.IsZero())
}

func TestTransactionPayment_UnknownTransaction_NotFound(t *testing.T) {
	core, _ := newTestCore(t)

	_, err := core.RecordTransactionPayment(context.Background(), "ghost", money(10), "")
	assert.True(t, ledger.IsNotFound(err))
}

// =============================================================================
// LISTING
// =============================================================================

func TestListTransactions_PaginationAndOrder(t *testing.T) {
	// GIVEN: 25 orders created in sequence
	// WHEN: Listing page by page with the default page size
	// THEN: 3 pages, newest first, stable totals

	core, _ := newTestCore(t)
	ctx := context.Background()

	customer := seedCustomer(t, core, "Asha", "9000000001")
	coffee := seedItem(t, core, "Coffee", 10, "beverages")

	var lastID string
	for i := 0; i < 25; i++ {
		tx, err := core.CreateOrder(ctx, customer.ID, []ledger.OrderLine{
			{ItemID: coffee.ID, Quantity: 1},
		}, money(10), "")
		require.NoError(t, err)
		lastID = tx.ID
	}

	page, err := core.ListTransactions(ctx, ledger.TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 25, page.TotalCount)
	require.Len(t, page.Transactions, 10)
	assert.Equal(t, lastID, page.Transactions[0].ID, "newest first")

	last, err := core.ListTransactions(ctx, ledger.TransactionFilter{Page: 3})
	require.NoError(t, err)
	assert.Len(t, last.Transactions, 5)
}

func TestListTransactions_StatusFilter(t *testing.T) {
	core, _ := newTestCore(t)
	ctx := context.Background()

	customer := seedCustomer(t, core, "Asha", "9000000001")
	coffee := seedItem(t, core, "Coffee", 100, "beverages")

	_, err := core.CreateOrder(ctx, customer.ID,
		[]ledger.OrderLine{{ItemID: coffee.ID, Quantity: 1}}, money(100), "")
	require.NoError(t, err)
	_, err = core.CreateOrder(ctx, customer.ID,
		[]ledger.OrderLine{{ItemID: coffee.ID, Quantity: 1}}, decimal.Zero, "")
	require.NoError(t, err)

	page, err := core.ListTransactions(ctx, ledger.TransactionFilter{Status: ledger.StatusPending})
	require.NoError(t, err)
	require.Len(t, page.Transactions, 1)
	assert.Equal(t, ledger.StatusPending, page.Transactions[0].Status)
}

func TestCustomerTransactions_UnknownCustomer_NotFound(t *testing.T) {
	core, _ := newTestCore(t)

	_, err := core.CustomerTransactions(context.Background(), "ghost")
	assert.True(t, ledger.IsNotFound(err))
}
