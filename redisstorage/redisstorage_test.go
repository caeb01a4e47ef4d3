package redisstorage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zkstack-labs/bridgehub-sdk/gerror"
	"github.com/zkstack-labs/bridgehub-sdk/models"
)

// fakeRedisClient keeps hashes in memory
type fakeRedisClient struct {
	hashes map[string]map[string]string
}

func newFakeRedisClient() *fakeRedisClient {
	return &fakeRedisClient{hashes: make(map[string]map[string]string)}
}

func (c *fakeRedisClient) hash(key string) map[string]string {
	h, ok := c.hashes[key]
	if !ok {
		h = make(map[string]string)
		c.hashes[key] = h
	}
	return h
}

func toString(v interface{}) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprint(v)
}

func (c *fakeRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (c *fakeRedisClient) HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	h := c.hash(key)
	var added int64
	for i := 0; i+1 < len(values); i += 2 {
		field := toString(values[i])
		if _, ok := h[field]; !ok {
			added++
		}
		h[field] = toString(values[i+1])
	}
	return redis.NewIntResult(added, nil)
}

func (c *fakeRedisClient) HSetNX(ctx context.Context, key, field string, value interface{}) *redis.BoolCmd {
	h := c.hash(key)
	if _, ok := h[field]; ok {
		return redis.NewBoolResult(false, nil)
	}
	h[field] = toString(value)
	return redis.NewBoolResult(true, nil)
}

func (c *fakeRedisClient) HGet(ctx context.Context, key, field string) *redis.StringCmd {
	v, ok := c.hash(key)[field]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (c *fakeRedisClient) HMGet(ctx context.Context, key string, fields ...string) *redis.SliceCmd {
	h := c.hash(key)
	res := make([]interface{}, len(fields))
	for i, field := range fields {
		if v, ok := h[field]; ok {
			res[i] = v
		}
	}
	return redis.NewSliceResult(res, nil)
}

func (c *fakeRedisClient) HKeys(ctx context.Context, key string) *redis.StringSliceCmd {
	var keys []string
	for k := range c.hash(key) {
		keys = append(keys, k)
	}
	return redis.NewStringSliceResult(keys, nil)
}

func (c *fakeRedisClient) HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd {
	h := c.hash(key)
	var removed int64
	for _, field := range fields {
		if _, ok := h[field]; ok {
			delete(h, field)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func TestNewRedisStorageEmptyAddress(t *testing.T) {
	_, err := NewRedisStorage(Config{})
	require.Error(t, err)
}

func TestWithdrawalStorage(t *testing.T) {
	client := newFakeRedisClient()
	s := NewRedisStorageWithClient(client, "")
	ctx := context.Background()
	now := time.Unix(1700000000, 0).UTC()

	first := models.NewPendingWithdrawal(common.HexToHash("0x01"), 0, now)
	second := models.NewPendingWithdrawal(common.HexToHash("0x02"), 1, now.Add(time.Second))
	third := models.NewPendingWithdrawal(common.HexToHash("0x03"), 0, now.Add(2*time.Second))
	require.NoError(t, s.AddWithdrawal(ctx, third))
	require.NoError(t, s.AddWithdrawal(ctx, first))
	require.NoError(t, s.AddWithdrawal(ctx, second))

	// tracking twice keeps the first record
	dup := *first
	dup.Attempts = 9
	require.NoError(t, s.AddWithdrawal(ctx, &dup))
	got, err := s.GetWithdrawal(ctx, first.TxHash, first.Index)
	require.NoError(t, err)
	assert.Equal(t, uint(0), got.Attempts)

	pending, err := s.GetWithdrawalsByStatus(ctx, models.WithdrawalStatusPending, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.TxHash, pending[0].TxHash)
	assert.Equal(t, second.TxHash, pending[1].TxHash)

	second.Status = models.WithdrawalStatusFinalized
	second.Attempts = 1
	second.FinalizeTxHash = common.HexToHash("0xaa")
	require.NoError(t, s.UpdateWithdrawal(ctx, second))

	got, err = s.GetWithdrawal(ctx, second.TxHash, second.Index)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusFinalized, got.Status)
	assert.Equal(t, second.FinalizeTxHash, got.FinalizeTxHash)

	pending, err = s.GetWithdrawalsByStatus(ctx, models.WithdrawalStatusPending, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	finalized, err := s.GetWithdrawalsByStatus(ctx, models.WithdrawalStatusFinalized, 10)
	require.NoError(t, err)
	require.Len(t, finalized, 1)
	failed, err := s.GetWithdrawalsByStatus(ctx, models.WithdrawalStatusFailed, 10)
	require.NoError(t, err)
	assert.Empty(t, failed)

	_, err = s.GetWithdrawal(ctx, common.HexToHash("0x04"), 0)
	assert.ErrorIs(t, err, gerror.ErrStorageNotFound)
	err = s.UpdateWithdrawal(ctx, models.NewPendingWithdrawal(common.HexToHash("0x04"), 0, now))
	assert.ErrorIs(t, err, gerror.ErrStorageNotFound)

	_, ok := client.hashes["bridgehub:withdrawals"]
	assert.True(t, ok)
}
