package redisstorage

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/zkstack-labs/bridgehub-sdk/gerror"
	"github.com/zkstack-labs/bridgehub-sdk/models"
)

const (
	defaultKeyPrefix      = "bridgehub"
	withdrawalRecordsHash = "withdrawals"
	withdrawalStatusHash  = "withdrawals_status"
)

// RedisStorage keeps the tracked withdrawals in redis. Records live in one hash
// keyed by handle, and every status has its own hash indexing the handles in it.
type RedisStorage struct {
	client RedisClient
	prefix string
}

// NewRedisStorage connects to redis and checks the connection
func NewRedisStorage(cfg Config) (*RedisStorage, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("redis address is empty")
	}
	var client RedisClient
	if cfg.IsClusterMode {
		client = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Addrs[0],
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}
	res, err := client.Ping(context.Background()).Result()
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to redis server")
	}
	log.Debugf("redis health check done, result: %v", res)
	return NewRedisStorageWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisStorageWithClient builds the storage on an existing client
func NewRedisStorageWithClient(client RedisClient, prefix string) *RedisStorage {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStorage{client: client, prefix: prefix}
}

func (s *RedisStorage) recordsKey() string {
	return s.prefix + ":" + withdrawalRecordsHash
}

func (s *RedisStorage) statusKey(status models.WithdrawalStatus) string {
	return s.prefix + ":" + withdrawalStatusHash + ":" + string(status)
}

// AddWithdrawal stores a withdrawal. Adding an already tracked handle is a no-op.
func (s *RedisStorage) AddWithdrawal(ctx context.Context, w *models.Withdrawal) error {
	log.Debugf("AddWithdrawal key[%v]", w.Key())
	value, err := json.Marshal(w)
	if err != nil {
		return errors.Wrap(err, "marshal withdrawal error")
	}
	added, err := s.client.HSetNX(ctx, s.recordsKey(), w.Key(), value).Result()
	if err != nil {
		return errors.Wrap(err, "AddWithdrawal redis HSetNX error")
	}
	if !added {
		return nil
	}
	if err := s.client.HSet(ctx, s.statusKey(w.Status), w.Key(), w.CreatedAt.UnixNano()).Err(); err != nil {
		return errors.Wrap(err, "AddWithdrawal redis HSet status error")
	}
	return nil
}

// GetWithdrawal returns the withdrawal tracked under the handle.
func (s *RedisStorage) GetWithdrawal(ctx context.Context, txHash common.Hash, index uint) (*models.Withdrawal, error) {
	res, err := s.client.HGet(ctx, s.recordsKey(), models.WithdrawalKey(txHash, index)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, gerror.ErrStorageNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "GetWithdrawal redis HGet error")
	}
	var w models.Withdrawal
	if err := json.Unmarshal([]byte(res), &w); err != nil {
		return nil, errors.Wrap(err, "unmarshal withdrawal error")
	}
	return &w, nil
}

// GetWithdrawalsByStatus returns up to limit withdrawals in the status, oldest first.
func (s *RedisStorage) GetWithdrawalsByStatus(ctx context.Context, status models.WithdrawalStatus, limit uint) ([]*models.Withdrawal, error) {
	keys, err := s.client.HKeys(ctx, s.statusKey(status)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "GetWithdrawalsByStatus redis HKeys error")
	}
	if len(keys) == 0 {
		return []*models.Withdrawal{}, nil
	}
	values, err := s.client.HMGet(ctx, s.recordsKey(), keys...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "GetWithdrawalsByStatus redis HMGet error")
	}

	withdrawals := make([]*models.Withdrawal, 0, len(values))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			log.Warnf("withdrawal %s indexed as %s has no record", keys[i], status)
			continue
		}
		var w models.Withdrawal
		if err := json.Unmarshal([]byte(raw), &w); err != nil {
			log.Warnf("cannot unmarshal withdrawal %s: %v", keys[i], err)
			continue
		}
		withdrawals = append(withdrawals, &w)
	}
	sort.SliceStable(withdrawals, func(i, j int) bool {
		return withdrawals[i].CreatedAt.Before(withdrawals[j].CreatedAt)
	})
	if limit > 0 && uint(len(withdrawals)) > limit {
		withdrawals = withdrawals[:limit]
	}
	return withdrawals, nil
}

// UpdateWithdrawal persists the mutable fields of a tracked withdrawal.
func (s *RedisStorage) UpdateWithdrawal(ctx context.Context, w *models.Withdrawal) error {
	current, err := s.GetWithdrawal(ctx, w.TxHash, w.Index)
	if err != nil {
		return err
	}
	value, err := json.Marshal(w)
	if err != nil {
		return errors.Wrap(err, "marshal withdrawal error")
	}
	if err := s.client.HSet(ctx, s.recordsKey(), w.Key(), value).Err(); err != nil {
		return errors.Wrap(err, "UpdateWithdrawal redis HSet error")
	}
	if current.Status == w.Status {
		return nil
	}
	if err := s.client.HDel(ctx, s.statusKey(current.Status), w.Key()).Err(); err != nil {
		return errors.Wrap(err, "UpdateWithdrawal redis HDel status error")
	}
	if err := s.client.HSet(ctx, s.statusKey(w.Status), w.Key(), w.CreatedAt.UnixNano()).Err(); err != nil {
		return errors.Wrap(err, "UpdateWithdrawal redis HSet status error")
	}
	return nil
}
