package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomGenerator_PrefixAndUniqueness(t *testing.T) {
	gen := NewRandomGenerator("sess_")

	a, err := gen.NewID()
	require.NoError(t, err)
	b, err := gen.NewID()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a, "sess_"))
	assert.Len(t, a, len("sess_")+32)
	assert.NotEqual(t, a, b)
}
