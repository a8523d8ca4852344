package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Product is one cart entry: a catalog record plus the requested amount.
// Catalog fields other than id are opaque to the cart and are kept as raw
// JSON so they round-trip unchanged.
type Product struct {
	ID     int64
	Amount int
	Fields map[string]json.RawMessage
}

// Stock is the available quantity for a product.
type Stock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

var errMissingID = errors.New("product id missing")

// Field decodes one catalog field into v.
func (p Product) Field(name string, v any) error {
	raw, ok := p.Fields[name]
	if !ok {
		return fmt.Errorf("field %q not present", name)
	}
	return json.Unmarshal(raw, v)
}

func (p Product) clone() Product {
	out := p
	if p.Fields != nil {
		out.Fields = make(map[string]json.RawMessage, len(p.Fields))
		for k, v := range p.Fields {
			out.Fields[k] = v
		}
	}
	return out
}

func (p Product) MarshalJSON() ([]byte, error) {
	m := make(map[string]json.RawMessage, len(p.Fields)+2)
	for k, v := range p.Fields {
		m[k] = v
	}

	id, err := json.Marshal(p.ID)
	if err != nil {
		return nil, err
	}
	amount, err := json.Marshal(p.Amount)
	if err != nil {
		return nil, err
	}
	m["id"] = id
	m["amount"] = amount

	return json.Marshal(m)
}

func (p *Product) UnmarshalJSON(b []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	if m == nil {
		return errMissingID
	}

	rawID, ok := m["id"]
	if !ok {
		return errMissingID
	}
	var id int64
	if err := json.Unmarshal(rawID, &id); err != nil {
		return fmt.Errorf("product id: %w", err)
	}

	var amount int
	if raw, ok := m["amount"]; ok && !bytes.Equal(raw, []byte("null")) {
		if err := json.Unmarshal(raw, &amount); err != nil {
			return fmt.Errorf("product amount: %w", err)
		}
	}

	delete(m, "id")
	delete(m, "amount")

	*p = Product{ID: id, Amount: amount, Fields: m}
	return nil
}

func cloneProducts(in []Product) []Product {
	out := make([]Product, len(in))
	for i, p := range in {
		out[i] = p.clone()
	}
	return out
}

func findProduct(products []Product, id int64) (int, bool) {
	for i, p := range products {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}
