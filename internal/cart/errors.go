package cart

import (
	"fmt"
)

// Kind classifies why an operation did not change the cart. The user-facing
// message stays one of the fixed literals regardless of kind.
type Kind int

const (
	OutOfStock Kind = iota + 1
	NotFound
	FetchFailed
)

func (k Kind) String() string {
	switch k {
	case OutOfStock:
		return "out_of_stock"
	case NotFound:
		return "not_found"
	case FetchFailed:
		return "fetch_failed"
	default:
		return "unknown"
	}
}

const (
	MsgOutOfStock   = "Quantidade solicitada fora de estoque"
	MsgAddFailed    = "Erro na adição do produto"
	MsgRemoveFailed = "Erro na remoção do produto"
	MsgUpdateFailed = "Erro na alteração de quantidade do produto"
)

// Error is returned by the cart operations after the failure has been sent
// to the Notifier.
type Error struct {
	Kind      Kind
	Message   string
	ProductID int64
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cart: %s (product %d): %v", e.Kind, e.ProductID, e.Err)
	}
	return fmt.Sprintf("cart: %s (product %d)", e.Kind, e.ProductID)
}

func (e *Error) Unwrap() error { return e.Err }
