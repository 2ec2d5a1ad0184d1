package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"smartmart-admin/internal/models"
)

func tx(amount string, status models.PaymentStatus) models.Transaction {
	return models.Transaction{Amount: decimal.RequireFromString(amount), PaymentStatus: status}
}

func TestComputeSummary_Empty(t *testing.T) {
	got := ComputeSummary(nil)

	if !got.TotalRevenue.IsZero() {
		t.Errorf("TotalRevenue = %s, want 0", got.TotalRevenue)
	}
	if got.TotalTransactions != 0 {
		t.Errorf("TotalTransactions = %d, want 0", got.TotalTransactions)
	}
	if !got.SuccessRate.IsZero() {
		t.Errorf("SuccessRate = %s, want 0", got.SuccessRate)
	}
}

func TestComputeSummary_MixedStatuses(t *testing.T) {
	got := ComputeSummary([]models.Transaction{
		tx("100", models.PaymentCompleted),
		tx("50", models.PaymentFailed),
	})

	if !got.TotalRevenue.Equal(decimal.NewFromInt(100)) {
		t.Errorf("TotalRevenue = %s, want 100", got.TotalRevenue)
	}
	if got.TotalTransactions != 2 {
		t.Errorf("TotalTransactions = %d, want 2", got.TotalTransactions)
	}
	if !got.SuccessRate.Equal(decimal.NewFromInt(50)) {
		t.Errorf("SuccessRate = %s, want 50", got.SuccessRate)
	}
}

func TestComputeSummary_OnlyCompletedCountTowardRevenue(t *testing.T) {
	got := ComputeSummary([]models.Transaction{
		tx("299.99", models.PaymentCompleted),
		tx("1199.99", models.PaymentCompleted),
		tx("89.99", models.PaymentFailed),
		tx("199.99", models.PaymentPending),
		tx("120.00", models.PaymentCompleted),
	})

	if want := decimal.RequireFromString("1619.98"); !got.TotalRevenue.Equal(want) {
		t.Errorf("TotalRevenue = %s, want %s", got.TotalRevenue, want)
	}
	if got.TotalTransactions != 5 {
		t.Errorf("TotalTransactions = %d, want 5", got.TotalTransactions)
	}
	if got.SuccessRate.StringFixed(1) != "60.0" {
		t.Errorf("SuccessRate = %s, want 60.0", got.SuccessRate.StringFixed(1))
	}
}

func TestSuccessRate_RepeatingFraction(t *testing.T) {
	if got := SuccessRate(2, 3).StringFixed(1); got != "66.7" {
		t.Errorf("SuccessRate(2,3) = %s, want 66.7", got)
	}
	if got := SuccessRate(0, 0); !got.IsZero() {
		t.Errorf("SuccessRate(0,0) = %s, want 0", got)
	}
}

func TestReverse(t *testing.T) {
	in := []string{"A", "B", "C"}
	got := Reverse(in)

	want := []string{"C", "B", "A"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Reverse() = %v, want %v", got, want)
		}
	}
	if in[0] != "A" {
		t.Error("Reverse() must not modify its input")
	}
	if out := Reverse[string](nil); out == nil || len(out) != 0 {
		t.Error("Reverse(nil) should return an empty slice")
	}
}

func TestOrderTotalsAndCounts(t *testing.T) {
	orders := []models.Order{
		{TotalAmount: decimal.RequireFromString("299.99"), DeliveryStatus: models.DeliveryDelivered},
		{TotalAmount: decimal.RequireFromString("1199.99"), DeliveryStatus: models.DeliveryPending},
		{TotalAmount: decimal.RequireFromString("120"), DeliveryStatus: models.DeliveryPending},
	}

	if got := OrderTotals(orders); !got.Equal(decimal.RequireFromString("1619.98")) {
		t.Errorf("OrderTotals() = %s", got)
	}

	counts := CountByDelivery(orders)
	if counts[models.DeliveryPending] != 2 || counts[models.DeliveryDelivered] != 1 {
		t.Errorf("CountByDelivery() = %v", counts)
	}
}

func BenchmarkComputeSummary(b *testing.B) {
	txs := make([]models.Transaction, 1000)
	for i := range txs {
		status := models.PaymentCompleted
		if i%4 == 0 {
			status = models.PaymentFailed
		}
		txs[i] = models.Transaction{Amount: decimal.NewFromInt(int64(i)), PaymentStatus: status}
	}

	b.ResetTimer()
	for b.Loop() {
		_ = ComputeSummary(txs)
	}
}
