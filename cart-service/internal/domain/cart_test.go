package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCart() Cart {
	return Cart{
		{ID: 1, Title: "Tênis de Caminhada Leve Confortável", Price: 179.9, Image: "https://example.com/1.jpg", Amount: 2},
		{ID: 3, Title: "Tênis Adidas Duramo Lite 2.0", Price: 219.9, Image: "https://example.com/3.jpg", Amount: 1},
	}
}

func TestMarshalUnmarshal_RoundTrip(t *testing.T) {
	cart := sampleCart()

	data, err := MarshalCart(cart)
	require.NoError(t, err)

	decoded, err := UnmarshalCart(data)
	require.NoError(t, err)
	assert.Equal(t, cart, decoded)
}

func TestMarshal_EmptyCartIsArray(t *testing.T) {
	data, err := MarshalCart(nil)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestMarshal_FieldNames(t *testing.T) {
	data, err := MarshalCart(Cart{{ID: 7, Title: "x", Price: 1.5, Image: "i", Amount: 3}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":7,"title":"x","price":1.5,"image":"i","amount":3}]`, string(data))
}

func TestUnmarshal_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":       `{"id":`,
		"object":         `{"id":1}`,
		"zero amount":    `[{"id":1,"amount":0}]`,
		"duplicate line": `[{"id":1,"amount":1},{"id":1,"amount":2}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := UnmarshalCart([]byte(raw))
			assert.ErrorIs(t, err, ErrMalformedCart)
		})
	}
}

func TestUnmarshal_NullIsEmpty(t *testing.T) {
	c, err := UnmarshalCart([]byte("null"))
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Empty(t, c)
}

func TestCart_Views(t *testing.T) {
	cart := sampleCart()

	assert.Equal(t, 1, cart.Index(3))
	assert.Equal(t, -1, cart.Index(99))

	p, ok := cart.Find(1)
	require.True(t, ok)
	assert.Equal(t, 2, p.Amount)

	assert.InDelta(t, 179.9*2+219.9, cart.Total(), 1e-9)
	assert.Equal(t, map[int64]int{1: 2, 3: 1}, cart.Amounts())
}

func TestCart_WithoutAndCloneDoNotAlias(t *testing.T) {
	cart := sampleCart()

	clone := cart.Clone()
	clone[0].Amount = 10
	assert.Equal(t, 2, cart[0].Amount)

	rest := cart.Without(1)
	require.Len(t, rest, 1)
	assert.Equal(t, int64(3), rest[0].ID)
	assert.Len(t, cart, 2)
}
