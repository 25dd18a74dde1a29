package uid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsUnique(t *testing.T) {
	require.NoError(t, Init(1))

	seen := make(map[int64]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := Generate()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %d", id)
		seen[id] = struct{}{}
	}
}

func TestInitIsIdempotent(t *testing.T) {
	require.NoError(t, Init(1))
	assert.NoError(t, Init(7))
	assert.Positive(t, Generate())
}
