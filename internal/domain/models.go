package domain

import (
	"strings"
	"time"
)

// DateLayout matches the millisecond ISO-8601 form browsers emit from toISOString.
const DateLayout = "2006-01-02T15:04:05.000Z"

// TotalTolerance is the largest accepted gap between a stored total and its recomputed line sum.
const TotalTolerance = 1e-6

type Product struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Price    float64  `json:"price" yaml:"price"`
	Cost     float64  `json:"cost" yaml:"cost"`
	Stock    int      `json:"stock" yaml:"stock"`
	MinStock int      `json:"minStock" yaml:"minStock"`
	Category Category `json:"category" yaml:"category"`
	Barcode  string   `json:"barcode,omitempty" yaml:"barcode,omitempty"`
}

// LowStock reports whether the product sits at or below its reorder threshold.
func (p Product) LowStock() bool { return p.Stock <= p.MinStock }

// CartItem is a product snapshot taken when it entered the cart.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

type Sale struct {
	ID            string        `json:"id"`
	Items         []CartItem    `json:"items"`
	Total         float64       `json:"total"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Date          string        `json:"date"`
	Timestamp     int64         `json:"timestamp"`
}

// Day returns the calendar date portion (YYYY-MM-DD) of the sale's ISO date.
func (s Sale) Day() string {
	day, _, _ := strings.Cut(s.Date, "T")
	return day
}

// StampSale fills date and timestamp from a single instant.
func StampSale(s *Sale, at time.Time) {
	at = at.UTC()
	s.Date = at.Format(DateLayout)
	s.Timestamp = at.UnixMilli()
}

// DashboardStats is the headline block of the overview screen.
type DashboardStats struct {
	TodaySales    int     `json:"todaySales"`
	TodayRevenue  float64 `json:"todayRevenue"`
	LowStockCount int     `json:"lowStockCount"`
	TotalProducts int     `json:"totalProducts"`
}
