package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

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

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp.StatusCode
}

func TestCatalog_ListSorted(t *testing.T) {
	ts, _ := newCatalogTS(t)

	var products []catalog.Product
	if code := getJSON(t, ts.URL+"/products", &products); code != http.StatusOK {
		t.Fatalf("status=%d", code)
	}
	if len(products) != 6 {
		t.Fatalf("len=%d", len(products))
	}
	for i := 1; i < len(products); i++ {
		if products[i-1].ID >= products[i].ID {
			t.Fatalf("not sorted: %d before %d", products[i-1].ID, products[i].ID)
		}
	}
}

func TestCatalog_ProductAndStock(t *testing.T) {
	ts, store := newCatalogTS(t)
	store.SetStock(3, 7)

	var p catalog.Product
	if code := getJSON(t, ts.URL+"/products/3", &p); code != http.StatusOK {
		t.Fatalf("product status=%d", code)
	}
	if p.ID != 3 || p.Title == "" || p.PriceCents <= 0 {
		t.Fatalf("product=%+v", p)
	}

	var st catalog.Stock
	if code := getJSON(t, ts.URL+"/stock/3", &st); code != http.StatusOK {
		t.Fatalf("stock status=%d", code)
	}
	if st.ID != 3 || st.Amount != 7 {
		t.Fatalf("stock=%+v", st)
	}
}

func TestCatalog_Errors(t *testing.T) {
	ts, _ := newCatalogTS(t)

	cases := []struct {
		path string
		want int
	}{
		{"/products/999", http.StatusNotFound},
		{"/stock/999", http.StatusNotFound},
		{"/products/abc", http.StatusBadRequest},
		{"/stock/-1", http.StatusBadRequest},
		{"/healthz", http.StatusOK},
		{"/readyz", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			if code := getJSON(t, ts.URL+tc.path, nil); code != tc.want {
				t.Fatalf("status=%d want=%d", code, tc.want)
			}
		})
	}
}
