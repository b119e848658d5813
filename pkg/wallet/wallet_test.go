package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		parsed, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	_, err := ParseKind("trust")
	assert.Error(t, err)
	_, err = ParseKind("")
	assert.Error(t, err)
}

func TestKind_Injected(t *testing.T) {
	assert.True(t, KindMetamask.Injected())
	assert.False(t, KindWeb3.Injected())
	assert.False(t, KindLedger.Injected())
	assert.False(t, KindPrivateKey.Injected())
}

func TestAvailabilityMap_Equal(t *testing.T) {
	a := AvailabilityMap{KindMetamask: true, VendorTrust: false}
	b := AvailabilityMap{KindMetamask: true}

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.False(t, a.Equal(AvailabilityMap{}))
	assert.True(t, AvailabilityMap(nil).Equal(AvailabilityMap{VendorTrust: false}))

	c := a.Clone()
	c[KindMetamask] = false
	assert.True(t, a[KindMetamask], "clone must not alias the original")
}

func TestDecodedAction_Display(t *testing.T) {
	d := &DecodedAction{
		Name: "approve",
		Parameters: []Parameter{
			{Name: "spender", Display: "0xabc"},
			{Name: "value", Display: "10"},
		},
	}
	assert.Equal(t, map[string]string{"spender": "0xabc", "value": "10"}, d.Display())

	p, ok := d.Param("value")
	require.True(t, ok)
	assert.Equal(t, "10", p.Display)

	_, ok = d.Param("missing")
	assert.False(t, ok)
}
