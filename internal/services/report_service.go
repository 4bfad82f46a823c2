package services

import (
	"context"
	"fmt"
	"time"

	"plenapos/internal/domain"
	"plenapos/internal/repos"
	"plenapos/internal/report"
	"plenapos/internal/validate"
)

// ReportService feeds ledger and catalog snapshots to the report package.
type ReportService struct {
	Catalog *repos.CatalogRepo
	Ledger  *repos.LedgerRepo
	Now     func() time.Time
}

func NewReportService(catalog *repos.CatalogRepo, ledger *repos.LedgerRepo) *ReportService {
	return &ReportService{Catalog: catalog, Ledger: ledger, Now: now}
}

// Range resolves either a preset or an explicit start/end pair.
// An empty end defaults to start; both empty means today.
func (s *ReportService) Range(preset, start, end string) (string, string, error) {
	if preset != "" || (start == "" && end == "") {
		return report.RangeFor(preset, s.Now())
	}
	if end == "" {
		end = start
	}
	if start == "" {
		start = end
	}
	st, ok := validate.Day(start)
	if !ok {
		return "", "", domain.Invalid("start", "must be YYYY-MM-DD")
	}
	en, ok := validate.Day(end)
	if !ok {
		return "", "", domain.Invalid("end", "must be YYYY-MM-DD")
	}
	if st > en {
		return "", "", domain.Invalid("start", "must not be after end")
	}
	return st, en, nil
}

func (s *ReportService) Summary(ctx context.Context, preset, start, end string) (report.Summary, error) {
	st, en, err := s.Range(preset, start, end)
	if err != nil {
		return report.Summary{}, err
	}
	sales, err := s.Ledger.List(ctx)
	if err != nil {
		return report.Summary{}, err
	}
	return report.Summarize(sales, st, en), nil
}

// Daily buckets revenue for the days ending at end (today when empty).
func (s *ReportService) Daily(ctx context.Context, end string, days int) ([]report.DayRevenue, error) {
	endDay := s.Now()
	if end != "" {
		d, ok := validate.Day(end)
		if !ok {
			return nil, domain.Invalid("end", "must be YYYY-MM-DD")
		}
		endDay, _ = time.Parse(report.DayLayout, d)
	}
	if days < 1 || days > MaxDailyDays {
		return nil, domain.Invalid("days", "must be between 1 and 366")
	}
	sales, err := s.Ledger.List(ctx)
	if err != nil {
		return nil, err
	}
	return report.DailyBucket(sales, report.LastNDays(endDay, days)), nil
}

// MaxDailyDays bounds a daily series.
const MaxDailyDays = 366

// DailyRange buckets revenue for every day from start to end inclusive; the
// buckets sum to the revenue of the same range.
func (s *ReportService) DailyRange(ctx context.Context, start, end string) ([]report.DayRevenue, error) {
	st, en, err := s.Range("", start, end)
	if err != nil {
		return nil, err
	}
	days := report.DaysBetween(st, en)
	if len(days) > MaxDailyDays {
		return nil, domain.Invalid("start", fmt.Sprintf("range exceeds %d days", MaxDailyDays))
	}
	sales, err := s.Ledger.List(ctx)
	if err != nil {
		return nil, err
	}
	return report.DailyBucket(sales, days), nil
}

func (s *ReportService) Dashboard(ctx context.Context) (report.Dashboard, error) {
	products, err := s.Catalog.List(ctx)
	if err != nil {
		return report.Dashboard{}, err
	}
	sales, err := s.Ledger.List(ctx)
	if err != nil {
		return report.Dashboard{}, err
	}
	return report.BuildDashboard(products, sales, s.Now()), nil
}

// Recent lists sales newest first; limit <= 0 returns all.
func (s *ReportService) Recent(ctx context.Context, limit int) ([]domain.Sale, error) {
	sales, err := s.Ledger.List(ctx)
	if err != nil {
		return nil, err
	}
	return report.RecentFirst(sales, limit), nil
}
