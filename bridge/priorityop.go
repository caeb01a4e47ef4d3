package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/zkstack-labs/bridgehub-sdk/etherman"
	"github.com/zkstack-labs/bridgehub-sdk/utils"
)

var l2ReceiptPollingInterval = time.Second

// PriorityOpResponse is a submitted L1 transaction requesting an L2 transaction.
type PriorityOpResponse struct {
	L1Tx    *types.Transaction
	adapter *Adapter
}

// WaitL1Commit waits for the L1 transaction to be mined.
func (r *PriorityOpResponse) WaitL1Commit(ctx context.Context) (*types.Receipt, error) {
	return utils.WaitTxToBeMined(ctx, r.adapter.l1, r.L1Tx.Hash(), r.adapter.cfg.TxMinedTimeout.Duration)
}

// L2TxHash returns the hash of the L2 transaction the priority operation is executed as.
func (r *PriorityOpResponse) L2TxHash(ctx context.Context) (common.Hash, error) {
	receipt, err := r.WaitL1Commit(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	mainContract, err := r.adapter.l2.MainContractAddress(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	return etherman.L2HashFromPriorityOp(receipt, mainContract)
}

// WaitL2 waits until the L2 transaction of the priority operation is executed.
func (r *PriorityOpResponse) WaitL2(ctx context.Context) (*etherman.L2Receipt, error) {
	l2Hash, err := r.L2TxHash(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, r.adapter.cfg.TxMinedTimeout.Duration)
	defer cancel()
	ticker := time.NewTicker(l2ReceiptPollingInterval)
	defer ticker.Stop()
	for {
		receipt, err := r.adapter.l2.L2Receipt(ctx, l2Hash)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			return receipt, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for L2 tx %s: %w", l2Hash, ctx.Err())
		case <-ticker.C:
		}
	}
}
