// Package cart holds a session's shopping cart: the product list, its
// stock-checked mutations, persistence and user-facing warnings.
package cart

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

type Deps struct {
	Catalog  Catalog
	Notifier Notifier
	Log      *zap.Logger
	Metrics  *Metrics
}

// Store owns one cart. Operations are serialized: each one holds opMu from
// the stock fetch until the new cart is committed, so two concurrent adds
// never both pass the stock check against the same snapshot.
type Store struct {
	opMu sync.Mutex

	mu       sync.RWMutex
	products []Product

	storage  Storage
	catalog  Catalog
	notifier Notifier
	log      *zap.Logger
	metrics  *Metrics
}

// New loads the persisted cart once. A malformed blob is discarded and the
// store starts empty; a storage backend failure is returned.
func New(ctx context.Context, storage Storage, deps Deps) (*Store, error) {
	s := &Store{
		storage:  storage,
		catalog:  deps.Catalog,
		notifier: deps.Notifier,
		log:      deps.Log,
		metrics:  deps.Metrics,
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}

	products, err := storage.Load(ctx)
	switch {
	case errors.Is(err, ErrMalformedCart):
		s.log.Warn("discarding persisted cart", zap.Error(err))
		products = []Product{}
	case err != nil:
		return nil, err
	}

	s.products = products
	return s, nil
}

// Products returns a copy of the cart.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProducts(s.products)
}

func (s *Store) snapshot() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products
}

// AddProduct puts one more unit of productID in the cart, or adds the product
// with amount 1 when it is not there yet.
func (s *Store) AddProduct(ctx context.Context, productID int64) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	stock, err := s.catalog.GetStock(ctx, productID)
	if err != nil {
		return s.fail(ctx, opAdd, FetchFailed, MsgAddFailed, productID, err)
	}

	current := s.snapshot()

	if i, ok := findProduct(current, productID); ok {
		if stock.Amount <= current[i].Amount {
			return s.fail(ctx, opAdd, OutOfStock, MsgOutOfStock, productID, nil)
		}

		next := cloneProducts(current)
		next[i].Amount++
		s.commit(ctx, opAdd, next)
		return nil
	}

	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return s.fail(ctx, opAdd, FetchFailed, MsgAddFailed, productID, err)
	}
	p.ID = productID
	p.Amount = 1

	next := append(cloneProducts(current), p)
	s.commit(ctx, opAdd, next)
	return nil
}

// RemoveProduct drops productID from the cart. No stock check is made.
func (s *Store) RemoveProduct(ctx context.Context, productID int64) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	current := s.snapshot()

	next := make([]Product, 0, len(current))
	for _, p := range current {
		if p.ID != productID {
			next = append(next, p.clone())
		}
	}

	if len(next) == len(current) {
		return s.fail(ctx, opRemove, NotFound, MsgRemoveFailed, productID, nil)
	}

	s.commit(ctx, opRemove, next)
	return nil
}

// UpdateProductAmount sets the amount of a product already in the cart.
// amount <= 0 is ignored without a warning.
func (s *Store) UpdateProductAmount(ctx context.Context, productID int64, amount int) error {
	if amount <= 0 {
		s.metrics.observe(opUpdate, outcomeNoop)
		return nil
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	stock, err := s.catalog.GetStock(ctx, productID)
	if err != nil {
		return s.fail(ctx, opUpdate, FetchFailed, MsgUpdateFailed, productID, err)
	}
	if stock.Amount < amount {
		return s.fail(ctx, opUpdate, OutOfStock, MsgOutOfStock, productID, nil)
	}

	current := s.snapshot()

	i, ok := findProduct(current, productID)
	if !ok {
		return s.fail(ctx, opUpdate, NotFound, MsgUpdateFailed, productID, nil)
	}
	if current[i].Amount == amount {
		s.metrics.observe(opUpdate, outcomeNoop)
		return nil
	}

	next := cloneProducts(current)
	next[i].Amount = amount
	s.commit(ctx, opUpdate, next)
	return nil
}

// commit replaces the cart and writes it through. A failed write is logged
// and counted; the in-memory cart stays committed.
func (s *Store) commit(ctx context.Context, op string, next []Product) {
	s.mu.Lock()
	s.products = next
	s.mu.Unlock()

	s.metrics.observe(op, outcomeOK)

	if err := s.storage.Save(context.WithoutCancel(ctx), next); err != nil {
		s.metrics.saveFailed()
		s.log.Warn("persist cart failed", zap.String("op", op), zap.Error(err))
	}
}

func (s *Store) fail(ctx context.Context, op string, kind Kind, msg string, productID int64, cause error) error {
	s.metrics.observe(op, kind.String())

	if cause != nil {
		s.log.Debug("cart operation failed",
			zap.String("op", op),
			zap.Int64("product_id", productID),
			zap.Error(cause),
		)
	}

	s.notifier.Notify(ctx, Notice{Kind: kind, Message: msg, ProductID: productID})

	return &Error{Kind: kind, Message: msg, ProductID: productID, Err: cause}
}
