//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"
)

var (
	cartURL    = getenv("E2E_CART_URL", "http://localhost:8084")
	catalogURL = getenv("E2E_CATALOG_URL", "http://localhost:3333")
)

type cartEntry struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

func TestSystem_E2E_CartAgainstCatalog(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, catalogURL+"/readyz")
	waitReady(t, ctx, cartURL+"/readyz")

	var products []map[string]any
	doJSON(t, http.MethodGet, catalogURL+"/products", "", nil, &products, 200)
	if len(products) == 0 {
		t.Fatalf("expected non-empty products")
	}

	var stock struct {
		Amount int `json:"amount"`
	}
	doJSON(t, http.MethodGet, catalogURL+"/stock/1", "", nil, &stock, 200)
	if stock.Amount < 1 {
		t.Skipf("product 1 out of stock in this environment")
	}

	var session struct {
		Token string `json:"token"`
	}
	doJSON(t, http.MethodPost, cartURL+"/session", "", nil, &session, 201)
	if session.Token == "" {
		t.Fatalf("empty token")
	}

	var cart []cartEntry
	doJSON(t, http.MethodPost, cartURL+"/cart/products/1", session.Token, nil, &cart, 200)
	if len(cart) != 1 || cart[0].ID != 1 || cart[0].Amount != 1 {
		t.Fatalf("cart after add: %+v", cart)
	}

	doJSON(t, http.MethodPut, cartURL+"/cart/products/1", session.Token, map[string]any{"amount": stock.Amount + 1}, nil, 409)

	if os.Getenv("E2E_RESTART_CART") == "1" {
		restartCartContainer(t, ctx)
		waitReady(t, ctx, cartURL+"/readyz")

		doJSON(t, http.MethodGet, cartURL+"/cart", session.Token, nil, &cart, 200)
		if len(cart) != 1 || cart[0].Amount != 1 {
			t.Fatalf("cart lost across restart: %+v", cart)
		}
	}

	doJSON(t, http.MethodDelete, cartURL+"/cart/products/1", session.Token, nil, &cart, 200)
	if len(cart) != 0 {
		t.Fatalf("cart after remove: %+v", cart)
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func doJSON(t *testing.T, method, url, token string, body any, out any, want int) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		t.Fatalf("%s %s: status=%d want=%d", method, url, resp.StatusCode, want)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
