package services

import (
	"slices"

	"github.com/shopspring/decimal"

	"smartmart-admin/internal/models"
)

var hundred = decimal.NewFromInt(100)

// ComputeSummary aggregates a filtered transaction set. Revenue counts only
// completed payments; the transaction count covers every status.
func ComputeSummary(txs []models.Transaction) models.SummaryAggregate {
	summary := models.SummaryAggregate{
		TotalRevenue:      decimal.Zero,
		TotalTransactions: len(txs),
		SuccessRate:       decimal.Zero,
	}

	completed := 0
	for _, tx := range txs {
		if tx.PaymentStatus != models.PaymentCompleted {
			continue
		}
		completed++
		summary.TotalRevenue = summary.TotalRevenue.Add(tx.Amount)
	}

	summary.SuccessRate = SuccessRate(completed, len(txs))
	return summary
}

// SuccessRate is 100 × completed / total, or zero for an empty set.
func SuccessRate(completed, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(completed)).Mul(hundred).Div(decimal.NewFromInt(int64(total)))
}

// Reverse returns a newest-first copy of records given in backend order.
// It does not sort by timestamp.
func Reverse[T any](records []T) []T {
	out := slices.Clone(records)
	if out == nil {
		out = []T{}
	}
	slices.Reverse(out)
	return out
}

// OrderTotals sums the order totals of a displayed list.
func OrderTotals(orders []models.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalAmount)
	}
	return total
}

// CountByDelivery tallies orders per delivery status for the filter badges.
func CountByDelivery(orders []models.Order) map[models.DeliveryStatus]int {
	counts := make(map[models.DeliveryStatus]int)
	for _, o := range orders {
		counts[o.DeliveryStatus]++
	}
	return counts
}
