package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Catalog is the remote stock-and-catalog service.
type Catalog interface {
	GetStock(ctx context.Context, productID int64) (Stock, error)
	GetProduct(ctx context.Context, productID int64) (Product, error)
}

var (
	ErrCatalogNotFound    = errors.New("catalog product not found")
	ErrCatalogBadStatus   = errors.New("catalog bad status")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

const (
	defaultCatalogTimeout = 3 * time.Second
	maxCatalogBody        = 1 << 20
)

type CatalogClient struct {
	BaseURL string
	Client  *http.Client
}

func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	if timeout <= 0 {
		timeout = defaultCatalogTimeout
	}
	return &CatalogClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (c *CatalogClient) GetStock(ctx context.Context, productID int64) (Stock, error) {
	var s Stock
	if err := c.getJSON(ctx, "stock", productID, &s); err != nil {
		return Stock{}, err
	}
	return s, nil
}

func (c *CatalogClient) GetProduct(ctx context.Context, productID int64) (Product, error) {
	var p Product
	if err := c.getJSON(ctx, "products", productID, &p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (c *CatalogClient) getJSON(ctx context.Context, resource string, id int64, out any) error {
	u := fmt.Sprintf("%s/%s/%s", c.BaseURL, resource, strconv.FormatInt(id, 10))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s %d", ErrCatalogNotFound, resource, id)
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s status=%d", ErrCatalogBadStatus, resource, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxCatalogBody)).Decode(out); err != nil {
		return fmt.Errorf("decode %s %d: %w", resource, id, err)
	}
	return nil
}
