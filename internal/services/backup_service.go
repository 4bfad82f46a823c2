package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"plenapos/internal/domain"
	"plenapos/internal/kv"
	applog "plenapos/internal/log"
	"plenapos/internal/repos"
)

// Document is the portable backup format.
type Document struct {
	Products  []domain.Product `json:"products"`
	Sales     []domain.Sale    `json:"sales"`
	Timestamp string           `json:"timestamp"`
}

// SkippedRecord describes one record left out of an import.
type SkippedRecord struct {
	Collection string `json:"collection"`
	Index      int    `json:"index"`
	Reason     string `json:"reason"`
}

type ImportReport struct {
	ProductsReplaced bool            `json:"productsReplaced"`
	SalesReplaced    bool            `json:"salesReplaced"`
	Products         int             `json:"products"`
	Sales            int             `json:"sales"`
	Skipped          []SkippedRecord `json:"skipped"`
}

type BackupService struct {
	mu      *sync.Mutex
	st      kv.Store
	Catalog *repos.CatalogRepo
	Ledger  *repos.LedgerRepo
	Marker  *repos.MarkerRepo
	// Strict aborts an import on the first malformed record instead of skipping it.
	Strict bool
	Now    func() time.Time
}

func NewBackupService(mu *sync.Mutex, st kv.Store, catalog *repos.CatalogRepo, ledger *repos.LedgerRepo, marker *repos.MarkerRepo, strict bool) *BackupService {
	return &BackupService{mu: mu, st: st, Catalog: catalog, Ledger: ledger, Marker: marker, Strict: strict, Now: now}
}

// FileName is the download name for a backup taken at t.
func FileName(t time.Time) string {
	return "backup_plena_" + t.UTC().Format("2006-01-02") + ".json"
}

func (s *BackupService) Snapshot(ctx context.Context) (Document, error) {
	products, err := s.Catalog.List(ctx)
	if err != nil {
		return Document{}, err
	}
	sales, err := s.Ledger.List(ctx)
	if err != nil {
		return Document{}, err
	}
	return Document{Products: products, Sales: sales, Timestamp: s.Now().UTC().Format(domain.DateLayout)}, nil
}

// Export serialises the catalog and ledger as indented JSON.
func (s *BackupService) Export(ctx context.Context) ([]byte, error) {
	doc, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

type rawDocument struct {
	Products  json.RawMessage `json:"products"`
	Sales     json.RawMessage `json:"sales"`
	Timestamp json.RawMessage `json:"timestamp"`
}

// Import replaces each collection present in data as a JSON array.
// Records failing validation are skipped and reported unless Strict is set.
// A document that does not parse returns domain.ErrImportParse and writes nothing.
func (s *BackupService) Import(ctx context.Context, data []byte) (ImportReport, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return ImportReport{}, fmt.Errorf("%w: top-level value must be an object", domain.ErrImportParse)
	}
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return ImportReport{}, fmt.Errorf("%w: %v", domain.ErrImportParse, err)
	}

	rep := ImportReport{Skipped: []SkippedRecord{}}
	var products []domain.Product
	var sales []domain.Sale

	if elems, ok, err := splitArray(raw.Products); err != nil {
		return ImportReport{}, fmt.Errorf("%w: products: %v", domain.ErrImportParse, err)
	} else if ok {
		rep.ProductsReplaced = true
		products = make([]domain.Product, 0, len(elems))
		seen := map[string]bool{}
		for i, el := range elems {
			p, err := decodeProduct(el, seen)
			if err != nil {
				if err := s.skip(&rep, "products", i, err); err != nil {
					return ImportReport{}, err
				}
				continue
			}
			products = append(products, p)
		}
		rep.Products = len(products)
	}

	if elems, ok, err := splitArray(raw.Sales); err != nil {
		return ImportReport{}, fmt.Errorf("%w: sales: %v", domain.ErrImportParse, err)
	} else if ok {
		rep.SalesReplaced = true
		sales = make([]domain.Sale, 0, len(elems))
		seen := map[string]bool{}
		for i, el := range elems {
			sl, err := decodeSale(el, seen)
			if err != nil {
				if err := s.skip(&rep, "sales", i, err); err != nil {
					return ImportReport{}, err
				}
				continue
			}
			sales = append(sales, sl)
		}
		rep.Sales = len(sales)
	}

	if !rep.ProductsReplaced && !rep.SalesReplaced {
		return rep, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := kv.Batch{}
	if rep.ProductsReplaced {
		if err := s.Catalog.StageReplace(b, products); err != nil {
			return ImportReport{}, err
		}
	}
	if !rep.SalesReplaced {
		// the restored catalog already reflects the ledger as it stands
		current, err := s.Ledger.List(ctx)
		if err != nil {
			return ImportReport{}, err
		}
		sales = current
	} else if err := s.Ledger.StageReplace(b, sales); err != nil {
		return ImportReport{}, err
	}
	if err := s.Marker.Stage(b, repos.MarkerFor(sales)); err != nil {
		return ImportReport{}, err
	}
	if err := s.st.SetMany(ctx, b); err != nil {
		return ImportReport{}, &domain.PersistenceError{Op: "import", Key: repos.ProductsKey + "," + repos.SalesKey, Err: err}
	}
	return rep, nil
}

func (s *BackupService) skip(rep *ImportReport, collection string, i int, err error) error {
	if s.Strict {
		return domain.Invalid(fmt.Sprintf("%s[%d]", collection, i), err.Error())
	}
	rep.Skipped = append(rep.Skipped, SkippedRecord{Collection: collection, Index: i, Reason: err.Error()})
	applog.Security(nil, "backup.import.skip", map[string]any{"collection": collection, "index": i, "reason": err.Error()})
	return nil
}

// splitArray returns the elements of msg when it is a JSON array.
// ok is false for an absent key or a non-array value.
func splitArray(msg json.RawMessage) (elems []json.RawMessage, ok bool, err error) {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false, nil
	}
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, false, err
	}
	return elems, true, nil
}

func decodeProduct(el json.RawMessage, seen map[string]bool) (domain.Product, error) {
	var p domain.Product
	if err := json.Unmarshal(el, &p); err != nil {
		return domain.Product{}, err
	}
	if err := p.Validate(); err != nil {
		return domain.Product{}, err
	}
	if seen[p.ID] {
		return domain.Product{}, domain.Invalid("id", "duplicate id "+p.ID)
	}
	seen[p.ID] = true
	return p, nil
}

func decodeSale(el json.RawMessage, seen map[string]bool) (domain.Sale, error) {
	var sl domain.Sale
	if err := json.Unmarshal(el, &sl); err != nil {
		return domain.Sale{}, err
	}
	if err := sl.Validate(); err != nil {
		return domain.Sale{}, err
	}
	if seen[sl.ID] {
		return domain.Sale{}, domain.Invalid("id", "duplicate id "+sl.ID)
	}
	seen[sl.ID] = true
	return sl, nil
}
