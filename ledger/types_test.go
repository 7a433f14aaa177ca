package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cafekhata/credit-engine/ledger"
)

func TestDeriveStatus(t *testing.T) {
	d := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

	cases := []struct {
		name  string
		paid  decimal.Decimal
		total decimal.Decimal
		want  ledger.PaymentStatus
	}{
		{"nothing paid", d(0), d(100), ledger.StatusPending},
		{"partially paid", d(40), d(100), ledger.StatusPartial},
		{"fully paid", d(100), d(100), ledger.StatusPaid},
		{"zero total", d(0), d(0), ledger.StatusPaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ledger.DeriveStatus(tc.paid, tc.total); got != tc.want {
				t.Errorf("DeriveStatus(%s, %s) = %s, want %s", tc.paid, tc.total, got, tc.want)
			}
		})
	}
}

func TestParsePaymentMethod(t *testing.T) {
	if m, err := ledger.ParsePaymentMethod(""); err != nil || m != "" {
		t.Errorf("empty method should parse to empty, got %q, %v", m, err)
	}
	if m, err := ledger.ParsePaymentMethod("upi"); err != nil || m != ledger.MethodUPI {
		t.Errorf("upi should parse, got %q, %v", m, err)
	}
	if _, err := ledger.ParsePaymentMethod("cheque"); !ledger.IsInvalid(err) {
		t.Errorf("unknown method should be invalid, got %v", err)
	}
}

func TestTransaction_CheckInvariants(t *testing.T) {
	now := time.Date(2026, time.August, 10, 9, 0, 0, 0, time.UTC)
	line := ledger.LineItem{ItemID: "i1", Name: "Coffee", Price: decimal.NewFromInt(100), Quantity: 2}

	valid := ledger.Transaction{
		ID:         "t1",
		CustomerID: "c1",
		Kind:       ledger.KindOrder,
		Lines:      []ledger.LineItem{line},
		Total:      decimal.NewFromInt(200),
		AmountPaid: decimal.NewFromInt(50),
		Method:     ledger.MethodCredit,
		Status:     ledger.StatusPartial,
		CreatedAt:  now,
	}
	if err := valid.CheckInvariants(); err != nil {
		t.Errorf("valid transaction rejected: %v", err)
	}

	t.Run("total mismatch", func(t *testing.T) {
		bad := valid
		bad.Total = decimal.NewFromInt(150)
		bad.Status = ledger.DeriveStatus(bad.AmountPaid, bad.Total)
		if err := bad.CheckInvariants(); err == nil {
			t.Error("total != sum of lines should be rejected")
		}
	})

	t.Run("overpaid", func(t *testing.T) {
		bad := valid
		bad.AmountPaid = decimal.NewFromInt(300)
		bad.Status = ledger.StatusPaid
		if err := bad.CheckInvariants(); err == nil {
			t.Error("amount paid above total should be rejected")
		}
	})

	t.Run("stale status", func(t *testing.T) {
		bad := valid
		bad.Status = ledger.StatusPaid
		if err := bad.CheckInvariants(); err == nil {
			t.Error("status not matching amounts should be rejected")
		}
	})

	t.Run("unknown method", func(t *testing.T) {
		bad := valid
		bad.Method = "cheque"
		if err := bad.CheckInvariants(); err == nil {
			t.Error("unknown payment method should be rejected")
		}
	})

	t.Run("empty method", func(t *testing.T) {
		bad := valid
		bad.Method = ""
		if err := bad.CheckInvariants(); err == nil {
			t.Error("empty payment method should be rejected")
		}
	})

	t.Run("payment with lines", func(t *testing.T) {
		bad := valid
		bad.Kind = ledger.KindPayment
		bad.AmountPaid = bad.Total
		bad.Status = ledger.StatusPaid
		if err := bad.CheckInvariants(); err == nil {
			t.Error("payment-kind transaction must have no lines")
		}
	})
}

func TestTransaction_Outstanding(t *testing.T) {
	tx := ledger.Transaction{
		Total:      decimal.NewFromInt(250),
		AmountPaid: decimal.NewFromInt(100),
	}
	if got := tx.Outstanding(); !got.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Outstanding() = %s, want 150", got)
	}
}
