package localcache

import (
	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/zkstack-labs/bridgehub-sdk/models"
)

const defaultFinalizedCacheSize = 1000

// FinalizedCache remembers the withdrawals already finalized on L1, so the
// finalizer does not query the L1 bridge for them again.
type FinalizedCache struct {
	cache *lru.Cache[string, common.Hash]
}

// NewFinalizedCache creates a cache holding up to size withdrawals
func NewFinalizedCache(size int) (*FinalizedCache, error) {
	if size <= 0 {
		size = defaultFinalizedCacheSize
	}
	cache, err := lru.New[string, common.Hash](size)
	if err != nil {
		return nil, errors.Wrap(err, "NewFinalizedCache lru.New error")
	}
	return &FinalizedCache{cache: cache}, nil
}

// MarkFinalized records the withdrawal as finalized. finalizeTx may be empty
// when the withdrawal was finalized by someone else.
func (c *FinalizedCache) MarkFinalized(txHash common.Hash, index uint, finalizeTx common.Hash) {
	c.cache.Add(models.WithdrawalKey(txHash, index), finalizeTx)
}

// IsFinalized reports whether the withdrawal is known to be finalized
func (c *FinalizedCache) IsFinalized(txHash common.Hash, index uint) bool {
	return c.cache.Contains(models.WithdrawalKey(txHash, index))
}

// FinalizeTx returns the L1 tx that finalized the withdrawal, if known
func (c *FinalizedCache) FinalizeTx(txHash common.Hash, index uint) (common.Hash, bool) {
	return c.cache.Get(models.WithdrawalKey(txHash, index))
}

// Len returns the number of cached withdrawals
func (c *FinalizedCache) Len() int {
	return c.cache.Len()
}
