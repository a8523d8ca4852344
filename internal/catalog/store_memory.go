package catalog

import (
	"context"
	"sort"
	"sync"
)

type MemStore struct {
	mu       sync.RWMutex
	products map[int64]Product
	stock    map[int64]int
}

func NewMemStore() *MemStore {
	return &MemStore{
		products: map[int64]Product{},
		stock:    map[int64]int{},
	}
}

// NewSeededMemStore returns the demo storefront catalog.
func NewSeededMemStore() *MemStore {
	s := NewMemStore()
	s.Put(Product{ID: 1, Title: "Tênis de Caminhada Leve Confortável", PriceCents: 17990, Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis1.jpg"}, 3)
	s.Put(Product{ID: 2, Title: "Tênis VR Caminhada Confortável Detalhes Couro Masculino", PriceCents: 13990, Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis2.jpg"}, 5)
	s.Put(Product{ID: 3, Title: "Tênis Adidas Duramo Lite 2.0", PriceCents: 21990, Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis3.jpg"}, 2)
	s.Put(Product{ID: 4, Title: "Tênis VR Caminhada Confortável Detalhes Couro Masculino", PriceCents: 13990, Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis2.jpg"}, 1)
	s.Put(Product{ID: 5, Title: "Tênis VR Caminhada Confortável Detalhes Couro Masculino", PriceCents: 13990, Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis2.jpg"}, 5)
	s.Put(Product{ID: 6, Title: "Tênis Adidas Duramo Lite 2.0", PriceCents: 21990, Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis3.jpg"}, 10)
	return s
}

// Put inserts or replaces a product together with its stock amount.
func (s *MemStore) Put(p Product, amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
	s.stock[p.ID] = amount
}

func (s *MemStore) SetStock(id int64, amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[id] = amount
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) ListSortedByID(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id int64) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	return p, ok, nil
}

func (s *MemStore) GetStock(ctx context.Context, id int64) (Stock, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	amount, ok := s.stock[id]
	if !ok {
		return Stock{}, false, nil
	}
	return Stock{ID: id, Amount: amount}, true, nil
}
