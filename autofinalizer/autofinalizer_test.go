package autofinalizer

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/0xPolygonHermez/zkevm-node/config/types"
	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zkstack-labs/bridgehub-sdk/bridge"
	"github.com/zkstack-labs/bridgehub-sdk/gerror"
	"github.com/zkstack-labs/bridgehub-sdk/messagepush"
	"github.com/zkstack-labs/bridgehub-sdk/models"
	"github.com/zkstack-labs/bridgehub-sdk/utils"
)

func init() {
	log.Init(log.Config{
		Level:   "debug",
		Outputs: []string{"stderr"},
	})
}

type finalizerMock struct {
	mock.Mock
}

func (m *finalizerMock) IsWithdrawalFinalized(ctx context.Context, withdrawalHash common.Hash, index int) (bool, error) {
	args := m.Called(ctx, withdrawalHash, index)
	return args.Bool(0), args.Error(1)
}

func (m *finalizerMock) FinalizeWithdrawal(ctx context.Context, withdrawalHash common.Hash, index int, overrides *bridge.Overrides) (*ethtypes.Transaction, error) {
	args := m.Called(ctx, withdrawalHash, index, overrides)
	tx, _ := args.Get(0).(*ethtypes.Transaction)
	return tx, args.Error(1)
}

func (m *finalizerMock) L1TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	args := m.Called(ctx, txHash)
	receipt, _ := args.Get(0).(*ethtypes.Receipt)
	return receipt, args.Error(1)
}

type memStorage struct {
	mu          sync.Mutex
	withdrawals map[string]models.Withdrawal
}

func newMemStorage() *memStorage {
	return &memStorage{withdrawals: make(map[string]models.Withdrawal)}
}

func (s *memStorage) AddWithdrawal(ctx context.Context, w *models.Withdrawal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.withdrawals[w.Key()]; !ok {
		s.withdrawals[w.Key()] = *w
	}
	return nil
}

func (s *memStorage) GetWithdrawal(ctx context.Context, txHash common.Hash, index uint) (*models.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.withdrawals[models.WithdrawalKey(txHash, index)]
	if !ok {
		return nil, gerror.ErrStorageNotFound
	}
	return &w, nil
}

func (s *memStorage) GetWithdrawalsByStatus(ctx context.Context, status models.WithdrawalStatus, limit uint) ([]*models.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*models.Withdrawal
	for _, w := range s.withdrawals {
		if w.Status == status {
			w := w
			res = append(res, &w)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	if uint(len(res)) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (s *memStorage) UpdateWithdrawal(ctx context.Context, w *models.Withdrawal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.withdrawals[w.Key()]; !ok {
		return gerror.ErrStorageNotFound
	}
	s.withdrawals[w.Key()] = *w
	return nil
}

var (
	testWithdrawalHash = common.HexToHash("0x5a")
	testNow            = time.Unix(1700000000, 0)
)

type testEnv struct {
	af        *AutoFinalizer
	finalizer *finalizerMock
	storage   *memStorage
	producer  messagepush.KafkaProducer
}

func newTestEnv(t *testing.T, maxAttempts uint) *testEnv {
	finalizer := new(finalizerMock)
	storage := newMemStorage()
	producer, err := messagepush.NewKafkaProducer(messagepush.Config{UseFakeProducer: true, Topic: "withdrawals"})
	require.NoError(t, err)
	cfg := Config{
		FinalizeInterval: types.Duration{Duration: time.Second},
		MaxAttempts:      maxAttempts,
		CacheSize:        10,
	}
	af, err := NewAutoFinalizer(context.Background(), cfg, finalizer, storage, producer)
	require.NoError(t, err)
	af.timeProvider = utils.FixedTimeProvider{FixedTime: testNow}
	t.Cleanup(func() { finalizer.AssertExpectations(t) })
	return &testEnv{af: af, finalizer: finalizer, storage: storage, producer: producer}
}

func (e *testEnv) stored(t *testing.T, index uint) *models.Withdrawal {
	w, err := e.storage.GetWithdrawal(context.Background(), testWithdrawalHash, index)
	require.NoError(t, err)
	return w
}

func TestTrackWithdrawalTwice(t *testing.T) {
	env := newTestEnv(t, 3)
	ctx := context.Background()
	require.NoError(t, env.af.TrackWithdrawal(ctx, testWithdrawalHash, 0))
	require.NoError(t, env.af.TrackWithdrawal(ctx, testWithdrawalHash, 0))

	pending, err := env.storage.GetWithdrawalsByStatus(ctx, models.WithdrawalStatusPending, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, testNow, pending[0].CreatedAt)
}

func TestProcessFinalizesReadyWithdrawal(t *testing.T) {
	env := newTestEnv(t, 3)
	ctx := context.Background()
	require.NoError(t, env.af.TrackWithdrawal(ctx, testWithdrawalHash, 1))

	tx := ethtypes.NewTx(&ethtypes.LegacyTx{Nonce: 1})
	env.finalizer.On("IsWithdrawalFinalized", mock.Anything, testWithdrawalHash, 1).Return(false, nil).Once()
	env.finalizer.On("FinalizeWithdrawal", mock.Anything, testWithdrawalHash, 1, (*bridge.Overrides)(nil)).Return(tx, nil).Once()

	require.NoError(t, env.af.processPendingWithdrawals(ctx))

	w := env.stored(t, 1)
	assert.Equal(t, models.WithdrawalStatusFinalizing, w.Status)
	assert.Equal(t, tx.Hash(), w.FinalizeTxHash)
	assert.Equal(t, uint(1), w.Attempts)
	assert.False(t, env.af.cache.IsFinalized(testWithdrawalHash, 1))
	assert.Empty(t, env.producer.GetFakeMessages("withdrawals"))

	env.finalizer.On("L1TransactionReceipt", mock.Anything, tx.Hash()).Return(nil, ethereum.NotFound).Once()
	require.NoError(t, env.af.processPendingWithdrawals(ctx))
	assert.Equal(t, models.WithdrawalStatusFinalizing, env.stored(t, 1).Status)

	env.finalizer.On("L1TransactionReceipt", mock.Anything, tx.Hash()).Return(&ethtypes.Receipt{Status: ethtypes.ReceiptStatusSuccessful}, nil).Once()
	require.NoError(t, env.af.processPendingWithdrawals(ctx))

	w = env.stored(t, 1)
	assert.Equal(t, models.WithdrawalStatusFinalized, w.Status)
	assert.Equal(t, tx.Hash(), w.FinalizeTxHash)
	assert.True(t, env.af.cache.IsFinalized(testWithdrawalHash, 1))
	assert.Len(t, env.producer.GetFakeMessages("withdrawals"), 1)

	// finalized withdrawals are not processed again
	require.NoError(t, env.af.processPendingWithdrawals(ctx))
}

func TestProcessRetriesRevertedFinalizeTx(t *testing.T) {
	env := newTestEnv(t, 2)
	ctx := context.Background()
	require.NoError(t, env.af.TrackWithdrawal(ctx, testWithdrawalHash, 0))

	reverted := ethtypes.NewTx(&ethtypes.LegacyTx{Nonce: 1})
	env.finalizer.On("IsWithdrawalFinalized", mock.Anything, testWithdrawalHash, 0).Return(false, nil).Twice()
	env.finalizer.On("FinalizeWithdrawal", mock.Anything, testWithdrawalHash, 0, (*bridge.Overrides)(nil)).Return(reverted, nil).Once()
	require.NoError(t, env.af.processPendingWithdrawals(ctx))

	env.finalizer.On("L1TransactionReceipt", mock.Anything, reverted.Hash()).Return(&ethtypes.Receipt{Status: ethtypes.ReceiptStatusFailed}, nil).Once()
	require.NoError(t, env.af.processPendingWithdrawals(ctx))

	w := env.stored(t, 0)
	assert.Equal(t, models.WithdrawalStatusPending, w.Status)
	assert.Equal(t, uint(1), w.Attempts)
	assert.Contains(t, w.LastError, gerror.ErrTxReverted.Error())
	assert.False(t, env.af.cache.IsFinalized(testWithdrawalHash, 0))
	assert.Empty(t, env.producer.GetFakeMessages("withdrawals"))

	// the next iteration sends a new finalize tx
	retry := ethtypes.NewTx(&ethtypes.LegacyTx{Nonce: 2})
	env.finalizer.On("IsWithdrawalFinalized", mock.Anything, testWithdrawalHash, 0).Return(false, nil).Once()
	env.finalizer.On("FinalizeWithdrawal", mock.Anything, testWithdrawalHash, 0, (*bridge.Overrides)(nil)).Return(retry, nil).Once()
	require.NoError(t, env.af.processPendingWithdrawals(ctx))

	w = env.stored(t, 0)
	assert.Equal(t, models.WithdrawalStatusFinalizing, w.Status)
	assert.Equal(t, retry.Hash(), w.FinalizeTxHash)
	assert.Equal(t, uint(2), w.Attempts)

	// a second revert spends the last attempt
	env.finalizer.On("IsWithdrawalFinalized", mock.Anything, testWithdrawalHash, 0).Return(false, nil).Once()
	env.finalizer.On("L1TransactionReceipt", mock.Anything, retry.Hash()).Return(&ethtypes.Receipt{Status: ethtypes.ReceiptStatusFailed}, nil).Once()
	require.NoError(t, env.af.processPendingWithdrawals(ctx))
	assert.Equal(t, models.WithdrawalStatusFailed, env.stored(t, 0).Status)
	assert.Len(t, env.producer.GetFakeMessages("withdrawals"), 1)
}

func TestProcessRetriesDroppedFinalizeTx(t *testing.T) {
	env := newTestEnv(t, 3)
	ctx := context.Background()
	require.NoError(t, env.af.TrackWithdrawal(ctx, testWithdrawalHash, 0))

	dropped := ethtypes.NewTx(&ethtypes.LegacyTx{Nonce: 1})
	env.finalizer.On("IsWithdrawalFinalized", mock.Anything, testWithdrawalHash, 0).Return(false, nil).Twice()
	env.finalizer.On("FinalizeWithdrawal", mock.Anything, testWithdrawalHash, 0, (*bridge.Overrides)(nil)).Return(dropped, nil).Once()
	require.NoError(t, env.af.processPendingWithdrawals(ctx))

	env.af.timeProvider = utils.FixedTimeProvider{FixedTime: testNow.Add(defaultFinalizeTxTimeout)}
	env.finalizer.On("L1TransactionReceipt", mock.Anything, dropped.Hash()).Return(nil, ethereum.NotFound).Once()
	require.NoError(t, env.af.processPendingWithdrawals(ctx))

	w := env.stored(t, 0)
	assert.Equal(t, models.WithdrawalStatusPending, w.Status)
	assert.Contains(t, w.LastError, "not mined")
}

func TestProcessFinalizeTxRevertedByCompetingFinalization(t *testing.T) {
	env := newTestEnv(t, 3)
	ctx := context.Background()
	require.NoError(t, env.af.TrackWithdrawal(ctx, testWithdrawalHash, 0))

	tx := ethtypes.NewTx(&ethtypes.LegacyTx{Nonce: 1})
	env.finalizer.On("IsWithdrawalFinalized", mock.Anything, testWithdrawalHash, 0).Return(false, nil).Once()
	env.finalizer.On("FinalizeWithdrawal", mock.Anything, testWithdrawalHash, 0, (*bridge.Overrides)(nil)).Return(tx, nil).Once()
	require.NoError(t, env.af.processPendingWithdrawals(ctx))

	env.finalizer.On("L1TransactionReceipt", mock.Anything, tx.Hash()).Return(&ethtypes.Receipt{Status: ethtypes.ReceiptStatusFailed}, nil).Once()
	env.finalizer.On("IsWithdrawalFinalized", mock.Anything, testWithdrawalHash, 0).Return(true, nil).Once()
	require.NoError(t, env.af.processPendingWithdrawals(ctx))

	w := env.stored(t, 0)
	assert.Equal(t, models.WithdrawalStatusFinalized, w.Status)
	assert.Equal(t, common.Hash{}, w.FinalizeTxHash)
}

func TestProcessKeepsFinalizingOnReceiptError(t *testing.T) {
	env := newTestEnv(t, 3)
	ctx := context.Background()
	require.NoError(t, env.af.TrackWithdrawal(ctx, testWithdrawalHash, 0))

	tx := ethtypes.NewTx(&ethtypes.LegacyTx{Nonce: 1})
	env.finalizer.On("IsWithdrawalFinalized", mock.Anything, testWithdrawalHash, 0).Return(false, nil).Once()
	env.finalizer.On("FinalizeWithdrawal", mock.Anything, testWithdrawalHash, 0, (*bridge.Overrides)(nil)).Return(tx, nil).Once()
	require.NoError(t, env.af.processPendingWithdrawals(ctx))

	env.finalizer.On("L1TransactionReceipt", mock.Anything, tx.Hash()).Return(nil, errors.New("connection reset")).Once()
	require.NoError(t, env.af.processPendingWithdrawals(ctx))

	w := env.stored(t, 0)
	assert.Equal(t, models.WithdrawalStatusFinalizing, w.Status)
	assert.Equal(t, uint(1), w.Attempts)
}

func TestProcessKeepsNotReadyWithdrawalPending(t *testing.T) {
	env := newTestEnv(t, 3)
	ctx := context.Background()
	require.NoError(t, env.af.TrackWithdrawal(ctx, testWithdrawalHash, 0))

	env.finalizer.On("IsWithdrawalFinalized", mock.Anything, testWithdrawalHash, 0).Return(false, gerror.ErrLogProofNotFound).Once()
	env.finalizer.On("IsWithdrawalFinalized", mock.Anything, testWithdrawalHash, 0).Return(false, gerror.ErrTxNotMined).Once()

	require.NoError(t, env.af.processPendingWithdrawals(ctx))
	require.NoError(t, env.af.processPendingWithdrawals(ctx))

	w := env.stored(t, 0)
	assert.Equal(t, models.WithdrawalStatusPending, w.Status)
	assert.Equal(t, uint(0), w.Attempts)
	assert.Empty(t, env.producer.GetFakeMessages("withdrawals"))
}

func TestProcessMarksAlreadyFinalized(t *testing.T) {
	env := newTestEnv(t, 3)
	ctx := context.Background()
	require.NoError(t, env.af.TrackWithdrawal(ctx, testWithdrawalHash, 0))

	env.finalizer.On("IsWithdrawalFinalized", mock.Anything, testWithdrawalHash, 0).Return(true, nil).Once()

	require.NoError(t, env.af.processPendingWithdrawals(ctx))

	w := env.stored(t, 0)
	assert.Equal(t, models.WithdrawalStatusFinalized, w.Status)
	assert.Equal(t, common.Hash{}, w.FinalizeTxHash)
	assert.Equal(t, uint(0), w.Attempts)
}

func TestProcessFailsAfterMaxAttempts(t *testing.T) {
	env := newTestEnv(t, 2)
	ctx := context.Background()
	require.NoError(t, env.af.TrackWithdrawal(ctx, testWithdrawalHash, 0))

	sendErr := errors.New("insufficient funds")
	env.finalizer.On("IsWithdrawalFinalized", mock.Anything, testWithdrawalHash, 0).Return(false, nil).Twice()
	env.finalizer.On("FinalizeWithdrawal", mock.Anything, testWithdrawalHash, 0, (*bridge.Overrides)(nil)).Return(nil, sendErr).Twice()

	require.NoError(t, env.af.processPendingWithdrawals(ctx))
	w := env.stored(t, 0)
	assert.Equal(t, models.WithdrawalStatusPending, w.Status)
	assert.Equal(t, uint(1), w.Attempts)
	assert.Equal(t, sendErr.Error(), w.LastError)

	require.NoError(t, env.af.processPendingWithdrawals(ctx))
	w = env.stored(t, 0)
	assert.Equal(t, models.WithdrawalStatusFailed, w.Status)
	assert.Equal(t, uint(2), w.Attempts)
	assert.Len(t, env.producer.GetFakeMessages("withdrawals"), 1)

	// failed withdrawals are not retried
	require.NoError(t, env.af.processPendingWithdrawals(ctx))
}

func TestProcessFailsWithdrawalWithoutLog(t *testing.T) {
	env := newTestEnv(t, 3)
	ctx := context.Background()
	require.NoError(t, env.af.TrackWithdrawal(ctx, testWithdrawalHash, 4))

	env.finalizer.On("IsWithdrawalFinalized", mock.Anything, testWithdrawalHash, 4).Return(false, gerror.ErrWithdrawalLogNotFound).Once()

	require.NoError(t, env.af.processPendingWithdrawals(ctx))
	assert.Equal(t, models.WithdrawalStatusFailed, env.stored(t, 4).Status)
}

func TestProcessUsesFinalizedCache(t *testing.T) {
	env := newTestEnv(t, 3)
	ctx := context.Background()
	require.NoError(t, env.af.TrackWithdrawal(ctx, testWithdrawalHash, 0))
	finalizeTx := common.HexToHash("0xf1")
	env.af.cache.MarkFinalized(testWithdrawalHash, 0, finalizeTx)

	require.NoError(t, env.af.processPendingWithdrawals(ctx))

	w := env.stored(t, 0)
	assert.Equal(t, models.WithdrawalStatusFinalized, w.Status)
	assert.Equal(t, finalizeTx, w.FinalizeTxHash)
}

func TestStartStopsWithContext(t *testing.T) {
	finalizer := new(finalizerMock)
	ctx, cancel := context.WithCancel(context.Background())
	af, err := NewAutoFinalizer(ctx, Config{FinalizeInterval: types.Duration{Duration: 10 * time.Millisecond}}, finalizer, newMemStorage(), nil)
	require.NoError(t, err)
	assert.Equal(t, uint(defaultMaxAttempts), af.cfg.MaxAttempts)
	assert.Equal(t, uint(defaultBatchSize), af.cfg.BatchSize)

	done := make(chan struct{})
	go func() {
		af.Start()
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("finalizer did not stop")
	}
}
