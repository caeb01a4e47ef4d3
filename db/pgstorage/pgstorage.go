package pgstorage

import (
	"context"
	"errors"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/zkstack-labs/bridgehub-sdk/gerror"
	"github.com/zkstack-labs/bridgehub-sdk/models"
)

const (
	addWithdrawalSQL = `INSERT INTO bridgehub.withdrawal (tx_hash, log_index, status, attempts, finalize_tx_hash, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (tx_hash, log_index) DO NOTHING`
	getWithdrawalSQL = `SELECT tx_hash, log_index, status, attempts, finalize_tx_hash, last_error, created_at, updated_at
		FROM bridgehub.withdrawal WHERE tx_hash = $1 AND log_index = $2`
	getWithdrawalsByStatusSQL = `SELECT tx_hash, log_index, status, attempts, finalize_tx_hash, last_error, created_at, updated_at
		FROM bridgehub.withdrawal WHERE status = $1 ORDER BY created_at ASC LIMIT $2`
	updateWithdrawalSQL = `UPDATE bridgehub.withdrawal SET status = $3, attempts = $4, finalize_tx_hash = $5, last_error = $6, updated_at = $7
		WHERE tx_hash = $1 AND log_index = $2`
)

type execQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// PostgresStorage keeps the tracked withdrawals in postgres
type PostgresStorage struct {
	*pgxpool.Pool
}

// NewPostgresStorage creates a new Storage DB
func NewPostgresStorage(cfg Config) (*PostgresStorage, error) {
	log.Debugf("Create PostgresStorage with host %s:%s db %s", cfg.Host, cfg.Port, cfg.Name)
	config, err := pgxpool.ParseConfig(cfg.connString())
	if err != nil {
		log.Errorf("Unable to parse DB config: %v", err)
		return nil, err
	}
	if cfg.MaxConns > 0 {
		config.MaxConns = int32(cfg.MaxConns)
	}
	db, err := pgxpool.ConnectConfig(context.Background(), config)
	if err != nil {
		log.Errorf("Unable to connect to database: %v", err)
		return nil, err
	}
	return &PostgresStorage{db}, nil
}

func (p *PostgresStorage) querier() execQuerier {
	return &execQuerierWrapper{execQuerier: p.Pool}
}

// AddWithdrawal stores a withdrawal. Adding an already tracked handle is a no-op.
func (p *PostgresStorage) AddWithdrawal(ctx context.Context, w *models.Withdrawal) error {
	_, err := p.querier().Exec(ctx, addWithdrawalSQL, w.TxHash.Bytes(), w.Index, string(w.Status), w.Attempts,
		hashOrNil(w.FinalizeTxHash), w.LastError, w.CreatedAt, w.UpdatedAt)
	return err
}

// GetWithdrawal returns the withdrawal tracked under the handle.
func (p *PostgresStorage) GetWithdrawal(ctx context.Context, txHash common.Hash, index uint) (*models.Withdrawal, error) {
	w, err := scanWithdrawal(p.querier().QueryRow(ctx, getWithdrawalSQL, txHash.Bytes(), index))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, gerror.ErrStorageNotFound
	}
	return w, err
}

// GetWithdrawalsByStatus returns up to limit withdrawals in the status, oldest first.
func (p *PostgresStorage) GetWithdrawalsByStatus(ctx context.Context, status models.WithdrawalStatus, limit uint) ([]*models.Withdrawal, error) {
	rows, err := p.querier().Query(ctx, getWithdrawalsByStatusSQL, string(status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	withdrawals := make([]*models.Withdrawal, 0, limit)
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, rows.Err()
}

// UpdateWithdrawal persists the mutable fields of a tracked withdrawal.
func (p *PostgresStorage) UpdateWithdrawal(ctx context.Context, w *models.Withdrawal) error {
	tag, err := p.querier().Exec(ctx, updateWithdrawalSQL, w.TxHash.Bytes(), w.Index, string(w.Status), w.Attempts,
		hashOrNil(w.FinalizeTxHash), w.LastError, w.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return gerror.ErrStorageNotFound
	}
	return nil
}

func scanWithdrawal(row pgx.Row) (*models.Withdrawal, error) {
	var (
		w                      models.Withdrawal
		txHash, finalizeTxHash []byte
		index, attempts        int64
		status                 string
	)
	err := row.Scan(&txHash, &index, &status, &attempts, &finalizeTxHash, &w.LastError, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	w.TxHash = common.BytesToHash(txHash)
	w.Index = uint(index)
	w.Status = models.WithdrawalStatus(status)
	w.Attempts = uint(attempts)
	if len(finalizeTxHash) > 0 {
		w.FinalizeTxHash = common.BytesToHash(finalizeTxHash)
	}
	return &w, nil
}

func hashOrNil(hash common.Hash) []byte {
	if hash == (common.Hash{}) {
		return nil
	}
	return hash.Bytes()
}
