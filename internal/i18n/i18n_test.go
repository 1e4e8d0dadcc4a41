package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogComplete(t *testing.T) {
	require.NoError(t, Validate())
}

func TestLookup(t *testing.T) {
	m, ok := Lookup(Russian)
	require.True(t, ok)
	assert.Equal(t, "Русский", m.NativeName)

	_, ok = Lookup(Language("de"))
	assert.False(t, ok)
}

func TestSupportedOrder(t *testing.T) {
	assert.Equal(t, []Language{Ukrainian, Russian}, Supported())
}
