package cart

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &Error{Op: OpRemove, Kind: KindNotFound, ProductID: 1, Err: ErrNotInCart})

	assert.ErrorIs(t, err, ErrNotInCart)
	assert.NotErrorIs(t, err, ErrOutOfStock)
	assert.NotErrorIs(t, err, ErrTransient)

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindNotFound, kind)
}

func TestError_UnwrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := transient(OpAdd, 1, cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrTransient)
	assert.Contains(t, err.Error(), "cart add product 1: transient")
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"foreign error", errors.New("x"), ""},
		{"out of stock on add", outOfStock(OpAdd, 1, 1, 0), MsgOutOfStock},
		{"out of stock on update", outOfStock(OpUpdate, 1, 5, 2), MsgOutOfStock},
		{"add failed", transient(OpAdd, 1, errors.New("x")), MsgAddFailed},
		{"remove not found", &Error{Op: OpRemove, Kind: KindNotFound, Err: ErrNotInCart}, MsgRemoveFailed},
		{"update failed", transient(OpUpdate, 1, errors.New("x")), MsgUpdateFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "out_of_stock", KindOutOfStock.String())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "transient", KindTransient.String())
}
