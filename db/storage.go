package db

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zkstack-labs/bridgehub-sdk/db/pgstorage"
	"github.com/zkstack-labs/bridgehub-sdk/gerror"
	"github.com/zkstack-labs/bridgehub-sdk/models"
	"github.com/zkstack-labs/bridgehub-sdk/redisstorage"
)

const (
	// DatabasePostgres selects the postgres storage
	DatabasePostgres = "postgres"
	// DatabaseRedis selects the redis storage
	DatabaseRedis = "redis"
)

// Storage keeps the withdrawals tracked for automatic finalization
type Storage interface {
	AddWithdrawal(ctx context.Context, w *models.Withdrawal) error
	GetWithdrawal(ctx context.Context, txHash common.Hash, index uint) (*models.Withdrawal, error)
	GetWithdrawalsByStatus(ctx context.Context, status models.WithdrawalStatus, limit uint) ([]*models.Withdrawal, error)
	UpdateWithdrawal(ctx context.Context, w *models.Withdrawal) error
}

// NewStorage creates a new Storage
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Database {
	case DatabasePostgres:
		return pgstorage.NewPostgresStorage(pgConfig(cfg))
	case DatabaseRedis:
		return redisstorage.NewRedisStorage(cfg.Redis)
	}
	return nil, gerror.ErrStorageNotRegister
}

// RunMigrations will execute pending migrations if needed to keep
// the database updated with the latest changes
func RunMigrations(cfg Config) error {
	if cfg.Database != DatabasePostgres {
		return nil
	}
	return pgstorage.RunMigrations(pgConfig(cfg))
}

func pgConfig(cfg Config) pgstorage.Config {
	return pgstorage.Config{
		Name:     cfg.Name,
		User:     cfg.User,
		Password: cfg.Password,
		Host:     cfg.Host,
		Port:     cfg.Port,
		MaxConns: cfg.MaxConns,
	}
}
