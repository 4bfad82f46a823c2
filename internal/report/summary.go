package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"plenapos/internal/domain"
)

// Preset names accepted by RangeFor.
const (
	PresetToday     = "today"
	PresetYesterday = "yesterday"
	PresetLast7     = "last7"
	PresetThisMonth = "month"
)

// RangeFor resolves a named preset relative to now. "this month" ends today.
func RangeFor(preset string, now time.Time) (start, end string, err error) {
	now = now.UTC()
	today := Day(now)
	switch strings.ToLower(strings.TrimSpace(preset)) {
	case PresetToday, "":
		return today, today, nil
	case PresetYesterday:
		y := Day(now.AddDate(0, 0, -1))
		return y, y, nil
	case PresetLast7, "last7days", "week":
		return Day(now.AddDate(0, 0, -6)), today, nil
	case PresetThisMonth, "thismonth", "this_month":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return Day(first), today, nil
	default:
		return "", "", domain.Invalid("preset", fmt.Sprintf("unknown preset %q", preset))
	}
}

type Summary struct {
	Start         string         `json:"start"`
	End           string         `json:"end"`
	Revenue       float64        `json:"revenue"`
	Count         int            `json:"count"`
	AverageTicket float64        `json:"averageTicket"`
	GrossMargin   float64        `json:"grossMargin"`
	TopItems      []ItemCount    `json:"topItems"`
	ByPayment     []PaymentTotal `json:"byPayment"`
	Sales         []domain.Sale  `json:"sales"`
}

// SummaryTopN is how many items the range summary highlights.
const SummaryTopN = 3

// Summarize builds the range report; Sales is ordered most recent first.
func Summarize(sales []domain.Sale, start, end string) Summary {
	in := FilterByRange(sales, start, end)
	sum := Summary{
		Start:       start,
		End:         end,
		Revenue:     TotalRevenue(in),
		Count:       Count(in),
		GrossMargin: GrossMargin(in),
		TopItems:    TopItems(in, SummaryTopN),
		ByPayment:   ByPayment(in),
		Sales:       RecentFirst(in, 0),
	}
	if sum.Count > 0 {
		sum.AverageTicket = sumTotals(in).Div(decimal.NewFromInt(int64(sum.Count))).Round(2).InexactFloat64()
	}
	return sum
}

type Dashboard struct {
	Stats  domain.DashboardStats `json:"stats"`
	Week   []DayRevenue          `json:"week"`
	Recent []domain.Sale         `json:"recent"`
}

// Dashboard sizes.
const (
	DashboardDays   = 7
	DashboardRecent = 10
)

// BuildDashboard computes today's headline figures, the last seven days of revenue and the latest sales.
func BuildDashboard(products []domain.Product, sales []domain.Sale, now time.Time) Dashboard {
	today := Day(now)
	todays := FilterByRange(sales, today, today)
	return Dashboard{
		Stats: domain.DashboardStats{
			TodaySales:    Count(todays),
			TodayRevenue:  TotalRevenue(todays),
			LowStockCount: len(LowStock(products)),
			TotalProducts: len(products),
		},
		Week:   DailyBucket(sales, LastNDays(now, DashboardDays)),
		Recent: RecentFirst(sales, DashboardRecent),
	}
}
