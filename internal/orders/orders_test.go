package orders

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, 2, c.Len())

	o, ok := c.Lookup("ORD123")
	require.True(t, ok)
	assert.Equal(t, "ORD123", o.ID)
	assert.Equal(t, "Shipped", o.Status)
	assert.Equal(t, "June 20, 2025", o.Delivery)
	assert.Equal(t, []string{"Silk Maxi Dress (Size M)", "Gold Hoop Earrings"}, o.Items)
	assert.Equal(t, "$89.98", o.Total)

	o, ok = c.Lookup("ORD456")
	require.True(t, ok)
	assert.Equal(t, "Processing", o.Status)
	assert.Equal(t, "$42.50", o.Total)
}

func TestLookup_Unknown(t *testing.T) {
	_, ok := Default().Lookup("ORD999")
	assert.False(t, ok)

	_, ok = Default().Lookup("ord123")
	assert.False(t, ok, "lookup is exact, callers normalize case")
}

func TestLookup_ReturnsCopy(t *testing.T) {
	c := Default()
	o, _ := c.Lookup("ORD123")
	o.Items[0] = "Changed"

	again, _ := c.Lookup("ORD123")
	assert.Equal(t, "Silk Maxi Dress (Size M)", again.Items[0])
}

func TestLoadFile(t *testing.T) {
	c, err := LoadFile(filepath.Join("testdata", "orders.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	o, ok := c.Lookup("ORD1001")
	require.True(t, ok)
	assert.Equal(t, "ORD1001", o.ID)
	assert.Equal(t, []string{"Pearl Drop Necklace", "Rose Clay Mask"}, o.Items)
	assert.Equal(t, "$61.25", o.Total)

	_, ok = c.Lookup("ORD123")
	assert.False(t, ok, "fixture file replaces the built-in orders")
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join("testdata", "bad_id.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order-1")
}
