package cart_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"RocketShoes/internal/cart"
	"RocketShoes/internal/catalog"
)

func newCatalogTS(t *testing.T) (*httptest.Server, *catalog.MemStore) {
	t.Helper()

	store := catalog.NewSeededMemStore()
	h := catalog.NewHandler(&catalog.Server{Store: store}, catalog.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "catalog",
	})

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts, store
}

func TestCatalogClient_StockAndProduct(t *testing.T) {
	ts, store := newCatalogTS(t)
	store.SetStock(2, 8)

	c := cart.NewCatalogClient(ts.URL+"/", time.Second)
	ctx := context.Background()

	st, err := c.GetStock(ctx, 2)
	if err != nil {
		t.Fatalf("GetStock: %v", err)
	}
	if st.ID != 2 || st.Amount != 8 {
		t.Fatalf("stock=%+v", st)
	}

	p, err := c.GetProduct(ctx, 2)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if p.ID != 2 {
		t.Fatalf("id=%d", p.ID)
	}

	var price int64
	if err := p.Field("price_cents", &price); err != nil || price != 13990 {
		t.Fatalf("price_cents=%d err=%v", price, err)
	}
	if _, ok := p.Fields["image"]; !ok {
		t.Fatalf("image field dropped: %v", p.Fields)
	}
}

func TestCatalogClient_Errors(t *testing.T) {
	ts, _ := newCatalogTS(t)

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(slow.Close)

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	cases := []struct {
		name string
		url  string
		want error
	}{
		{"unknown product", ts.URL, cart.ErrCatalogNotFound},
		{"server error", broken.URL, cart.ErrCatalogBadStatus},
		{"timeout", slow.URL, cart.ErrCatalogUnavailable},
		{"connection refused", closedURL, cart.ErrCatalogUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := cart.NewCatalogClient(tc.url, 100*time.Millisecond)
			if _, err := c.GetStock(context.Background(), 999); !errors.Is(err, tc.want) {
				t.Fatalf("err=%v want %v", err, tc.want)
			}
		})
	}
}
