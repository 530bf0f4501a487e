package cart

import (
	"errors"
	"fmt"
)

// User-facing messages, one per failure the storefront distinguishes.
const (
	MsgOutOfStock   = "Quantidade solicitada fora de estoque"
	MsgAddFailed    = "Erro na adição do produto"
	MsgRemoveFailed = "Erro na remoção do produto"
	MsgUpdateFailed = "Erro na alteração de quantidade do produto"
)

type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
	OpUpdate Op = "update"
)

type Kind int

const (
	KindTransient Kind = iota
	KindOutOfStock
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindOutOfStock:
		return "out_of_stock"
	case KindNotFound:
		return "not_found"
	default:
		return "transient"
	}
}

var (
	ErrOutOfStock = errors.New("requested amount exceeds stock")
	ErrNotInCart  = errors.New("product not in cart")
	// ErrTransient matches any failure of the inventory service or the store.
	ErrTransient = errors.New("transient failure")
)

// Error describes a failed cart operation. The cart is unchanged whenever an
// operation returns one.
type Error struct {
	Op        Op
	Kind      Kind
	ProductID int64
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cart %s product %d: %s: %v", e.Op, e.ProductID, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets callers match on the kind sentinels with errors.Is.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrOutOfStock:
		return e.Kind == KindOutOfStock
	case ErrNotInCart:
		return e.Kind == KindNotFound
	case ErrTransient:
		return e.Kind == KindTransient
	}
	return false
}

func KindOf(err error) (Kind, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return KindTransient, false
}

// Message returns the notification text for err, or "" when err did not
// come from a cart operation.
func Message(err error) string {
	var ce *Error
	if !errors.As(err, &ce) {
		return ""
	}
	if ce.Kind == KindOutOfStock {
		return MsgOutOfStock
	}
	switch ce.Op {
	case OpRemove:
		return MsgRemoveFailed
	case OpUpdate:
		return MsgUpdateFailed
	default:
		return MsgAddFailed
	}
}

func transient(op Op, productID int64, err error) *Error {
	return &Error{Op: op, Kind: KindTransient, ProductID: productID, Err: err}
}

func outOfStock(op Op, productID int64, requested, available int) *Error {
	return &Error{
		Op:        op,
		Kind:      KindOutOfStock,
		ProductID: productID,
		Err:       fmt.Errorf("%w: requested %d, available %d", ErrOutOfStock, requested, available),
	}
}
