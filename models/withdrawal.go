package models

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// WithdrawalStatus is the tracking state of a withdrawal
type WithdrawalStatus string

const (
	// WithdrawalStatusPending means the withdrawal still has to be finalized on L1
	WithdrawalStatusPending WithdrawalStatus = "pending"
	// WithdrawalStatusFinalizing means a finalize tx was sent and its receipt is awaited
	WithdrawalStatusFinalizing WithdrawalStatus = "finalizing"
	// WithdrawalStatusFinalized means the withdrawal was finalized on L1
	WithdrawalStatusFinalized WithdrawalStatus = "finalized"
	// WithdrawalStatusFailed means the finalization ran out of attempts
	WithdrawalStatusFailed WithdrawalStatus = "failed"
)

// Withdrawal is a tracked L2 withdrawal, identified by the L2 tx hash and the
// index of the withdrawal inside that tx.
type Withdrawal struct {
	TxHash         common.Hash
	Index          uint
	Status         WithdrawalStatus
	Attempts       uint
	FinalizeTxHash common.Hash
	LastError      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewPendingWithdrawal returns a pending record for the handle.
func NewPendingWithdrawal(txHash common.Hash, index uint, now time.Time) *Withdrawal {
	return &Withdrawal{
		TxHash:    txHash,
		Index:     index,
		Status:    WithdrawalStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Key identifies the withdrawal in key value stores and caches.
func (w *Withdrawal) Key() string {
	return WithdrawalKey(w.TxHash, w.Index)
}

// WithdrawalKey builds the key of a withdrawal handle.
func WithdrawalKey(txHash common.Hash, index uint) string {
	return fmt.Sprintf("%s_%d", txHash.Hex(), index)
}

// IsValid reports whether the status is one of the known ones
func (s WithdrawalStatus) IsValid() bool {
	switch s {
	case WithdrawalStatusPending, WithdrawalStatusFinalizing, WithdrawalStatusFinalized, WithdrawalStatusFailed:
		return true
	}
	return false
}
