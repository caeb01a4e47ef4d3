package autofinalizer

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/zkstack-labs/bridgehub-sdk/bridge"
)

type withdrawalFinalizer interface {
	IsWithdrawalFinalized(ctx context.Context, withdrawalHash common.Hash, index int) (bool, error)
	FinalizeWithdrawal(ctx context.Context, withdrawalHash common.Hash, index int, overrides *bridge.Overrides) (*types.Transaction, error)
	L1TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// receiptReaderFunc adapts a receipt lookup function to utils.ReceiptReader
type receiptReaderFunc func(ctx context.Context, txHash common.Hash) (*types.Receipt, error)

func (f receiptReaderFunc) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return f(ctx, txHash)
}
