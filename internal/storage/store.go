// Package storage holds per-user records as opaque JSON documents addressed by
// string keys such as "cart_7" or "orders_7".
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrEmptyKey = errors.New("empty record key")

// Store is a key to JSON document map. Get reports ok=false for absent keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// GetMany returns the records that exist among keys.
	GetMany(ctx context.Context, keys []string) (map[string][]byte, error)
	Close() error
}

// Key builds the record key for a sub-resource of a user, e.g. Key("cart", 7) == "cart_7".
func Key(resource string, userID int) string {
	return fmt.Sprintf("%s_%d", resource, userID)
}

// DecodeJSON decodes the entry for key from a GetMany result into v. It reports
// false when the key is absent.
func DecodeJSON(found map[string][]byte, key string, v any) (bool, error) {
	raw, ok := found[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode record %q: %w", key, err)
	}
	return true, nil
}

// GetJSON loads key into v. ok is false when the record does not exist.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode record %q: %w", key, err)
	}
	return true, nil
}

func PutJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode record %q: %w", key, err)
	}
	return s.Put(ctx, key, raw)
}
