package cart

import (
	"testing"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_CarriesNamespaceAndVersion(t *testing.T) {
	payload := encodeEnvelope([]Item{{Product: watch("w1", "Fernet Royale", "1200.00", 0), Quantity: 2}})

	var ns string
	var version int
	d := jx.DecodeBytes(payload)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "namespace":
			v, err := d.Str()
			ns = v
			return err
		case "version":
			v, err := d.Int()
			version = v
			return err
		default:
			return d.Skip()
		}
	})
	require.NoError(t, err)
	assert.Equal(t, Namespace, ns)
	assert.Equal(t, schemaVersion, version)
}

func TestDecodeEnvelope_SkipsUnknownFields(t *testing.T) {
	payload := []byte(`{
		"namespace": "royal-fernet-cart",
		"version": 1,
		"future_field": {"nested": true},
		"items": [
			{"product": {"id": "w1", "name": "Fernet Royale", "price": "1200.00", "extra": 42}, "quantity": 3}
		]
	}`)

	items, ok := decodeEnvelope(payload)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "w1", items[0].Product.ID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.True(t, decimal.RequireFromString("1200.00").Equal(items[0].Product.Price))
}

func TestDecodeEnvelope_RejectsBadPrice(t *testing.T) {
	payload := []byte(`{
		"version": 1,
		"items": [{"product": {"id": "w1", "price": "not-a-number"}, "quantity": 1}]
	}`)

	_, ok := decodeEnvelope(payload)
	assert.False(t, ok)
}
