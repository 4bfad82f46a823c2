// Package report derives read-side views from ledger and catalog snapshots.
// Every function is pure: inputs are never modified and the same input yields the same output.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"plenapos/internal/domain"
)

// DayLayout is the calendar-day key format used for ranges and buckets.
const DayLayout = "2006-01-02"

type ItemCount struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type DayRevenue struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
}

type PaymentTotal struct {
	Method  domain.PaymentMethod `json:"method"`
	Count   int                  `json:"count"`
	Revenue float64              `json:"revenue"`
}

// FilterByRange keeps sales whose calendar day lies in [start, end], both inclusive.
func FilterByRange(sales []domain.Sale, start, end string) []domain.Sale {
	out := make([]domain.Sale, 0, len(sales))
	for _, s := range sales {
		if d := s.Day(); d >= start && d <= end {
			out = append(out, s)
		}
	}
	return out
}

// TotalRevenue sums the stored sale totals.
func TotalRevenue(sales []domain.Sale) float64 {
	return sumTotals(sales).InexactFloat64()
}

func sumTotals(sales []domain.Sale) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range sales {
		sum = sum.Add(decimal.NewFromFloat(s.Total))
	}
	return sum
}

func Count(sales []domain.Sale) int { return len(sales) }

// TopItems ranks item names by quantity sold. Names are compared after NFC
// normalisation; equal quantities keep the order in which names first appeared.
func TopItems(sales []domain.Sale, n int) []ItemCount {
	idx := map[string]int{}
	var out []ItemCount
	for _, s := range sales {
		for _, it := range s.Items {
			key := norm.NFC.String(it.Name)
			i, ok := idx[key]
			if !ok {
				i = len(out)
				idx[key] = i
				out = append(out, ItemCount{Name: key})
			}
			out[i].Quantity += it.Quantity
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Quantity > out[b].Quantity })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	if out == nil {
		out = []ItemCount{}
	}
	return out
}

// DailyBucket returns revenue per day key in the given order; days without sales are 0.
func DailyBucket(sales []domain.Sale, days []string) []DayRevenue {
	sums := make(map[string]decimal.Decimal, len(days))
	for _, s := range sales {
		d := s.Day()
		sums[d] = sums[d].Add(decimal.NewFromFloat(s.Total))
	}
	out := make([]DayRevenue, len(days))
	for i, d := range days {
		out[i] = DayRevenue{Day: d, Revenue: sums[d].InexactFloat64()}
	}
	return out
}

// GrossMargin is revenue minus the cost snapshots of every sold item.
func GrossMargin(sales []domain.Sale) float64 {
	cost := decimal.Zero
	for _, s := range sales {
		for _, it := range s.Items {
			cost = cost.Add(decimal.NewFromFloat(it.Cost).Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}
	return sumTotals(sales).Sub(cost).InexactFloat64()
}

// ByPayment groups revenue by payment method, listing every known method.
func ByPayment(sales []domain.Sale) []PaymentTotal {
	counts := map[domain.PaymentMethod]int{}
	sums := map[domain.PaymentMethod]decimal.Decimal{}
	for _, s := range sales {
		counts[s.PaymentMethod]++
		sums[s.PaymentMethod] = sums[s.PaymentMethod].Add(decimal.NewFromFloat(s.Total))
	}
	out := make([]PaymentTotal, 0, len(domain.PaymentMethods))
	for _, m := range domain.PaymentMethods {
		out = append(out, PaymentTotal{Method: m, Count: counts[m], Revenue: sums[m].InexactFloat64()})
	}
	return out
}

// RecentFirst returns a copy ordered by timestamp descending, cut to limit when limit > 0.
func RecentFirst(sales []domain.Sale, limit int) []domain.Sale {
	out := make([]domain.Sale, len(sales))
	copy(out, sales)
	sort.SliceStable(out, func(a, b int) bool { return out[a].Timestamp > out[b].Timestamp })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func LowStock(products []domain.Product) []domain.Product {
	out := []domain.Product{}
	for _, p := range products {
		if p.LowStock() {
			out = append(out, p)
		}
	}
	return out
}

// Day returns the UTC day key of t.
func Day(t time.Time) string { return t.UTC().Format(DayLayout) }

// LastNDays lists n day keys ending at end, oldest first.
func LastNDays(end time.Time, n int) []string {
	out := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, Day(end.AddDate(0, 0, -i)))
	}
	return out
}

// DaysBetween lists every day key from start to end inclusive.
// It returns nil when either key is malformed or start is after end.
func DaysBetween(start, end string) []string {
	s, err := time.Parse(DayLayout, start)
	if err != nil {
		return nil
	}
	e, err := time.Parse(DayLayout, end)
	if err != nil || e.Before(s) {
		return nil
	}
	var out []string
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(DayLayout))
	}
	return out
}
