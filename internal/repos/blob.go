package repos

import (
	"context"
	"encoding/json"
	"errors"

	"plenapos/internal/domain"
	"plenapos/internal/kv"
)

// Storage keys. They match the names the browser build used so exported data stays recognisable.
const (
	ProductsKey = "plena_bebidas_products"
	SalesKey    = "plena_bebidas_sales"
	MarkerKey   = "plena_bebidas_stock_marker"
)

// loadList decodes the JSON array stored under key. An absent key is an empty list.
func loadList[T any](ctx context.Context, st kv.Store, key string) ([]T, error) {
	raw, err := st.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get", Key: key, Err: err}
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, &domain.PersistenceError{Op: "decode", Key: key, Err: err}
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func stage(b kv.Batch, key string, v any) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return &domain.PersistenceError{Op: "encode", Key: key, Err: err}
	}
	b[key] = string(buf)
	return nil
}

func flush(ctx context.Context, st kv.Store, b kv.Batch) error {
	if err := st.SetMany(ctx, b); err != nil {
		keys := b.Keys()
		key := ""
		if len(keys) > 0 {
			key = keys[0]
		}
		if len(keys) > 1 {
			key += ",..."
		}
		return &domain.PersistenceError{Op: "set", Key: key, Err: err}
	}
	return nil
}
