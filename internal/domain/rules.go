package domain

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func validMoney(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// Validate checks the fields a catalog save must satisfy.
func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return Invalid("id", "required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return Invalid("name", "required")
	}
	if !validMoney(p.Price) {
		return Invalid("price", "must be a finite non-negative number")
	}
	if !validMoney(p.Cost) {
		return Invalid("cost", "must be a finite non-negative number")
	}
	if !p.Category.Valid() {
		return Invalid("category", "unknown category "+quote(string(p.Category)))
	}
	return nil
}

func (i CartItem) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return Invalid("items.id", "required")
	}
	if i.Quantity <= 0 {
		return Invalid("items.quantity", "must be positive")
	}
	if !validMoney(i.Price) {
		return Invalid("items.price", "must be a finite non-negative number")
	}
	return nil
}

// LineTotal is price * quantity in exact decimal arithmetic.
func (i CartItem) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SumLines adds line totals exactly.
func SumLines(items []CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// CartTotal rounds the exact line sum to the nearest float64.
func CartTotal(items []CartItem) float64 {
	return SumLines(items).InexactFloat64()
}

// Validate checks a sale record before it may enter the ledger.
func (s Sale) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return Invalid("id", "required")
	}
	if len(s.Items) == 0 {
		return ErrEmptyCart
	}
	for _, it := range s.Items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	if !s.PaymentMethod.Valid() {
		return Invalid("paymentMethod", "unknown payment method "+quote(string(s.PaymentMethod)))
	}
	if math.Abs(CartTotal(s.Items)-s.Total) > TotalTolerance {
		return Invalid("total", "does not match the sum of line totals")
	}
	if _, err := time.Parse(time.RFC3339Nano, s.Date); err != nil {
		return Invalid("date", "must be an ISO-8601 timestamp")
	}
	return nil
}

// StockDeltas sums quantities per product id, one entry per distinct id.
func StockDeltas(items []CartItem) map[string]int {
	out := make(map[string]int, len(items))
	for _, it := range items {
		out[it.ID] += it.Quantity
	}
	return out
}
