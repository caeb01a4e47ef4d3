package autofinalizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/zkstack-labs/bridgehub-sdk/db"
	"github.com/zkstack-labs/bridgehub-sdk/gerror"
	"github.com/zkstack-labs/bridgehub-sdk/localcache"
	"github.com/zkstack-labs/bridgehub-sdk/messagepush"
	"github.com/zkstack-labs/bridgehub-sdk/metrics"
	"github.com/zkstack-labs/bridgehub-sdk/models"
	"github.com/zkstack-labs/bridgehub-sdk/utils"
)

const (
	defaultFinalizeInterval  = time.Minute
	defaultFinalizeTxTimeout = 10 * time.Minute
	defaultMaxAttempts       = 5
	defaultBatchSize         = 100
)

// AutoFinalizer finalizes the tracked withdrawals on L1 once their proofs are available
type AutoFinalizer struct {
	ctx          context.Context
	cfg          Config
	finalizer    withdrawalFinalizer
	storage      db.Storage
	cache        *localcache.FinalizedCache
	producer     messagepush.KafkaProducer
	timeProvider utils.TimeProvider
}

// NewAutoFinalizer creates the finalizer. producer may be nil when notifications are disabled.
func NewAutoFinalizer(ctx context.Context, cfg Config, finalizer withdrawalFinalizer, storage db.Storage, producer messagepush.KafkaProducer) (*AutoFinalizer, error) {
	if cfg.FinalizeInterval.Duration == 0 {
		cfg.FinalizeInterval.Duration = defaultFinalizeInterval
	}
	if cfg.FinalizeTxTimeout.Duration == 0 {
		cfg.FinalizeTxTimeout.Duration = defaultFinalizeTxTimeout
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = defaultBatchSize
	}
	cache, err := localcache.NewFinalizedCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &AutoFinalizer{
		ctx:          ctx,
		cfg:          cfg,
		finalizer:    finalizer,
		storage:      storage,
		cache:        cache,
		producer:     producer,
		timeProvider: utils.NewSystemTimeProvider(),
	}, nil
}

// TrackWithdrawal registers a withdrawal for automatic finalization. Tracking it twice is a no-op.
func (af *AutoFinalizer) TrackWithdrawal(ctx context.Context, withdrawalHash common.Hash, index uint) error {
	w := models.NewPendingWithdrawal(withdrawalHash, index, af.timeProvider.Now())
	if err := af.storage.AddWithdrawal(ctx, w); err != nil {
		log.Errorf("error tracking withdrawal %s: %v", w.Key(), err)
		return err
	}
	log.Infof("withdrawal %s tracked", w.Key())
	return nil
}

// Start runs the finalization loop until the context is done
func (af *AutoFinalizer) Start() {
	ticker := time.NewTicker(af.cfg.FinalizeInterval.Duration)
	defer ticker.Stop()
	for {
		select {
		case <-af.ctx.Done():
			return
		case <-ticker.C:
			if err := af.processPendingWithdrawals(af.ctx); err != nil {
				log.Error("error processing pending withdrawals. Error: ", err)
			}
		}
	}
}

func (af *AutoFinalizer) processPendingWithdrawals(ctx context.Context) error {
	// both lists are read upfront so a withdrawal sent back to pending is not resent in the same iteration
	finalizing, err := af.storage.GetWithdrawalsByStatus(ctx, models.WithdrawalStatusFinalizing, af.cfg.BatchSize)
	if err != nil {
		log.Errorf("error getting finalizing withdrawals. Error: %v", err)
		return err
	}
	pending, err := af.storage.GetWithdrawalsByStatus(ctx, models.WithdrawalStatusPending, af.cfg.BatchSize)
	if err != nil {
		log.Errorf("error getting pending withdrawals. Error: %v", err)
		return err
	}
	if len(finalizing) == 0 && len(pending) == 0 {
		log.Debug("No pending withdrawals were found")
		metrics.RecordPendingWithdrawals(0)
		return nil
	}
	waiting := 0
	for _, w := range finalizing {
		if err := af.checkFinalizeTx(ctx, w); err != nil {
			// A single withdrawal must not block the others
			log.Errorf("error checking finalize tx of withdrawal %s: %v", w.Key(), err)
		}
		if w.Status != models.WithdrawalStatusFinalized && w.Status != models.WithdrawalStatusFailed {
			waiting++
		}
	}
	for _, w := range pending {
		if err := af.processWithdrawal(ctx, w); err != nil {
			log.Errorf("error processing withdrawal %s: %v", w.Key(), err)
		}
		if w.Status != models.WithdrawalStatusFinalized && w.Status != models.WithdrawalStatusFailed {
			waiting++
		}
	}
	metrics.RecordPendingWithdrawals(waiting)
	return nil
}

func (af *AutoFinalizer) processWithdrawal(ctx context.Context, w *models.Withdrawal) error {
	logger := log.WithFields("withdrawal", w.Key())

	if finalizeTx, ok := af.cache.FinalizeTx(w.TxHash, w.Index); ok {
		logger.Debug("withdrawal known as finalized")
		return af.markFinalized(ctx, w, finalizeTx)
	}

	finalized, err := af.finalizer.IsWithdrawalFinalized(ctx, w.TxHash, int(w.Index))
	if err != nil {
		if isNotReady(err) {
			logger.Debugf("withdrawal not ready to be finalized: %v", err)
			return nil
		}
		if errors.Is(err, gerror.ErrWithdrawalLogNotFound) {
			logger.Warnf("withdrawal can never be finalized: %v", err)
			return af.markFailed(ctx, w, err)
		}
		return err
	}
	if finalized {
		logger.Info("withdrawal already finalized")
		return af.markFinalized(ctx, w, common.Hash{})
	}

	tx, err := af.finalizer.FinalizeWithdrawal(ctx, w.TxHash, int(w.Index), nil)
	w.Attempts++
	if err != nil {
		logger.Errorf("error sending finalize tx, attempt %d/%d: %v", w.Attempts, af.cfg.MaxAttempts, err)
		return af.retryOrFail(ctx, w, err)
	}
	logger.Infof("finalize tx %s sent, attempt %d/%d", tx.Hash(), w.Attempts, af.cfg.MaxAttempts)
	w.Status = models.WithdrawalStatusFinalizing
	w.FinalizeTxHash = tx.Hash()
	w.LastError = ""
	w.UpdatedAt = af.timeProvider.Now()
	return af.storage.UpdateWithdrawal(ctx, w)
}

// checkFinalizeTx settles a finalizing withdrawal from the receipt of its finalize tx. A reverted tx, or one
// not mined within FinalizeTxTimeout, sends the withdrawal back to pending unless it got finalized meanwhile.
func (af *AutoFinalizer) checkFinalizeTx(ctx context.Context, w *models.Withdrawal) error {
	logger := log.WithFields("withdrawal", w.Key(), "finalizeTx", w.FinalizeTxHash.String())

	mined, receipt, err := utils.CheckTxWasMined(ctx, receiptReaderFunc(af.finalizer.L1TransactionReceipt), w.FinalizeTxHash)
	if err != nil {
		return err
	}
	var cause error
	switch {
	case mined && receipt.Status == types.ReceiptStatusSuccessful:
		logger.Info("finalize tx mined")
		return af.markFinalized(ctx, w, w.FinalizeTxHash)
	case mined:
		cause = fmt.Errorf("finalize tx %s: %w", w.FinalizeTxHash, gerror.ErrTxReverted)
	case utils.Elapsed(af.timeProvider, w.UpdatedAt) >= af.cfg.FinalizeTxTimeout.Duration:
		cause = fmt.Errorf("finalize tx %s not mined after %s", w.FinalizeTxHash, af.cfg.FinalizeTxTimeout.Duration)
	default:
		logger.Debug("finalize tx not mined yet")
		return nil
	}

	// the tx may have failed because another account finalized the withdrawal first
	finalized, err := af.finalizer.IsWithdrawalFinalized(ctx, w.TxHash, int(w.Index))
	if err != nil {
		return err
	}
	if finalized {
		logger.Info("withdrawal finalized by another tx")
		return af.markFinalized(ctx, w, common.Hash{})
	}
	logger.Warnf("%v, attempt %d/%d", cause, w.Attempts, af.cfg.MaxAttempts)
	return af.retryOrFail(ctx, w, cause)
}

// retryOrFail returns the withdrawal to pending, or marks it failed once every attempt is spent.
func (af *AutoFinalizer) retryOrFail(ctx context.Context, w *models.Withdrawal, cause error) error {
	if w.Attempts >= af.cfg.MaxAttempts {
		return af.markFailed(ctx, w, cause)
	}
	w.Status = models.WithdrawalStatusPending
	w.LastError = cause.Error()
	w.UpdatedAt = af.timeProvider.Now()
	return af.storage.UpdateWithdrawal(ctx, w)
}

func isNotReady(err error) bool {
	return errors.Is(err, gerror.ErrLogProofNotFound) || errors.Is(err, gerror.ErrTxNotMined)
}

func (af *AutoFinalizer) markFinalized(ctx context.Context, w *models.Withdrawal, finalizeTx common.Hash) error {
	now := af.timeProvider.Now()
	w.Status = models.WithdrawalStatusFinalized
	w.FinalizeTxHash = finalizeTx
	w.LastError = ""
	w.UpdatedAt = now
	af.cache.MarkFinalized(w.TxHash, w.Index, finalizeTx)
	if err := af.storage.UpdateWithdrawal(ctx, w); err != nil {
		return err
	}
	metrics.RecordWithdrawalFinalized(utils.Elapsed(af.timeProvider, w.CreatedAt))
	af.push(w)
	return nil
}

func (af *AutoFinalizer) markFailed(ctx context.Context, w *models.Withdrawal, cause error) error {
	w.Status = models.WithdrawalStatusFailed
	w.LastError = cause.Error()
	w.UpdatedAt = af.timeProvider.Now()
	if err := af.storage.UpdateWithdrawal(ctx, w); err != nil {
		return err
	}
	metrics.RecordWithdrawalFailed()
	af.push(w)
	return nil
}

func (af *AutoFinalizer) push(w *models.Withdrawal) {
	if af.producer == nil {
		return
	}
	if err := af.producer.PushWithdrawalUpdate(w); err != nil {
		log.Errorf("error pushing update of withdrawal %s: %v", w.Key(), err)
	}
}
