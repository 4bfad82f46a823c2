package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"plenapos/internal/config"
	"plenapos/internal/kv"
	"plenapos/internal/repos"
)

// Services wires every service over one store. All mutating services share one
// write lock so catalog edits, commits, imports and reconciliation never interleave.
type Services struct {
	Store      kv.Store
	Catalog    *repos.CatalogRepo
	Ledger     *repos.LedgerRepo
	Marker     *repos.MarkerRepo
	Checkout   *CheckoutService
	Registers  *RegisterService
	Inventory  *InventoryService
	Backup     *BackupService
	Reconciler *Reconciler
	Reports    *ReportService
	Insights   *InsightService
}

func New(st kv.Store, cfg config.Config) *Services {
	mu := &sync.Mutex{}
	catalog := repos.NewCatalogRepo(st)
	ledger := repos.NewLedgerRepo(st)
	marker := repos.NewMarkerRepo(st)

	checkout := NewCheckoutService(mu, st, catalog, ledger, marker)

	return &Services{
		Store:      st,
		Catalog:    catalog,
		Ledger:     ledger,
		Marker:     marker,
		Checkout:   checkout,
		Registers:  NewRegisterService(catalog, checkout),
		Inventory:  NewInventoryService(mu, catalog, cfg.DefaultMinStock),
		Backup:     NewBackupService(mu, st, catalog, ledger, marker, cfg.ImportStrict),
		Reconciler: NewReconciler(mu, st, catalog, ledger, marker),
		Reports:    NewReportService(catalog, ledger),
		Insights:   NewInsightService(cfg, catalog, ledger),
	}
}

// newID returns a time-ordered UUIDv7.
func newID() string { return uuid.Must(uuid.NewV7()).String() }

func now() time.Time { return time.Now().UTC() }
