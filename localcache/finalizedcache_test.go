package localcache

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalizedCache(t *testing.T) {
	cache, err := NewFinalizedCache(2)
	require.NoError(t, err)

	a, b, c := common.HexToHash("0x0a"), common.HexToHash("0x0b"), common.HexToHash("0x0c")
	cache.MarkFinalized(a, 0, common.HexToHash("0x01"))
	cache.MarkFinalized(b, 0, common.Hash{})

	assert.True(t, cache.IsFinalized(a, 0))
	assert.False(t, cache.IsFinalized(a, 1))
	tx, ok := cache.FinalizeTx(a, 0)
	require.True(t, ok)
	assert.Equal(t, common.HexToHash("0x01"), tx)

	// reading a made b the least recently used entry
	cache.MarkFinalized(c, 0, common.Hash{})
	assert.Equal(t, 2, cache.Len())
	assert.True(t, cache.IsFinalized(a, 0))
	assert.False(t, cache.IsFinalized(b, 0))
	assert.True(t, cache.IsFinalized(c, 0))
}

func TestFinalizedCacheDefaultSize(t *testing.T) {
	cache, err := NewFinalizedCache(0)
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Len())
}
