package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"RocketShoes/internal/kv"
)

// StorageKey is where a single-session cart is persisted.
const StorageKey = "@RocketShoes:cart"

var ErrMalformedCart = errors.New("malformed persisted cart")

// Storage is the persistence port of a Store. Load returns an empty cart
// when nothing was saved yet; Save overwrites the whole sequence.
type Storage interface {
	Load(ctx context.Context) ([]Product, error)
	Save(ctx context.Context, products []Product) error
}

// SessionKey is the storage key for one session's cart.
func SessionKey(sessionID string) string {
	if sessionID == "" {
		return StorageKey
	}
	return StorageKey + ":" + sessionID
}

// BlobStorage keeps the cart as one JSON array under Key.
type BlobStorage struct {
	KV  kv.Store
	Key string
}

func NewBlobStorage(store kv.Store, key string) *BlobStorage {
	return &BlobStorage{KV: store, Key: key}
}

func (s *BlobStorage) Load(ctx context.Context) ([]Product, error) {
	raw, ok, err := s.KV.Get(ctx, s.Key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.Key, err)
	}
	if !ok {
		return []Product{}, nil
	}
	return decodeCart(raw)
}

func (s *BlobStorage) Save(ctx context.Context, products []Product) error {
	if products == nil {
		products = []Product{}
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.KV.Set(ctx, s.Key, raw); err != nil {
		return fmt.Errorf("save %s: %w", s.Key, err)
	}
	return nil
}

func decodeCart(raw []byte) ([]Product, error) {
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCart, err)
	}
	if err := validateCart(products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

func validateCart(products []Product) error {
	seen := make(map[int64]struct{}, len(products))
	for i, p := range products {
		if p.ID <= 0 {
			return fmt.Errorf("%w: entry %d has id %d", ErrMalformedCart, i, p.ID)
		}
		if p.Amount < 1 {
			return fmt.Errorf("%w: product %d has amount %d", ErrMalformedCart, p.ID, p.Amount)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate product %d", ErrMalformedCart, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
