package bridge

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/zkstack-labs/bridgehub-sdk/etherman"
	"github.com/zkstack-labs/bridgehub-sdk/gerror"
	"github.com/zkstack-labs/bridgehub-sdk/utils"
)

// ClaimFailedDeposit returns to the depositor on L1 the funds of a deposit whose L2 transaction failed.
func (a *Adapter) ClaimFailedDeposit(ctx context.Context, depositHash common.Hash, overrides *Overrides) (*types.Transaction, error) {
	receipt, err := a.l2Receipt(ctx, depositHash)
	if err != nil {
		return nil, err
	}
	position := -1
	for i, l := range receipt.L2ToL1Logs {
		if l.Sender == utils.BootloaderFormalAddress && l.Key == depositHash {
			position = i
			break
		}
	}
	if position < 0 {
		return nil, fmt.Errorf("tx %s: %w", depositHash, gerror.ErrDepositLogNotFound)
	}
	if receipt.L2ToL1Logs[position].Value != (common.Hash{}) {
		return nil, fmt.Errorf("tx %s: %w", depositHash, gerror.ErrCannotClaimSuccessfulDeposit)
	}

	tx, err := a.l2.L2Transaction(ctx, depositHash)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("tx %s: %w", depositHash, gerror.ErrTxNotMined)
	}
	if receipt.To == nil {
		return nil, fmt.Errorf("tx %s: %w", depositHash, gerror.ErrL2BridgeNotFound)
	}
	l2Bridge := *receipt.To
	l1Bridge := utils.UndoL1ToL2Alias(receipt.From)
	legacy, err := a.l2.IsL2BridgeLegacy(ctx, l2Bridge)
	if err != nil {
		return nil, err
	}
	call, err := etherman.UnpackFinalizeDeposit(tx.Input)
	if err != nil {
		return nil, err
	}

	proof, err := a.l2.LogProof(ctx, depositHash, position)
	if err != nil {
		return nil, err
	}
	if proof == nil {
		return nil, fmt.Errorf("tx %s, log %d: %w", depositHash, position, gerror.ErrLogProofNotFound)
	}
	if receipt.L1BatchNumber == nil || receipt.L1BatchTxIndex == nil {
		return nil, fmt.Errorf("tx %s is not included in an L1 batch yet: %w", depositHash, gerror.ErrLogProofNotFound)
	}
	chainID, err := a.l2.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	data, err := etherman.PackClaimFailedDeposit(legacy, chainID, call.L1Sender, call.L1Token, call.Amount, depositHash,
		new(big.Int).SetUint64(uint64(*receipt.L1BatchNumber)), new(big.Int).SetUint64(proof.ID),
		uint16(*receipt.L1BatchTxIndex), proof.Proof)
	if err != nil {
		return nil, err
	}

	opts := overrides.Copy()
	if err := InsertGasPrice(ctx, a.l1, opts); err != nil {
		return nil, err
	}
	sent, err := a.l1Signer.SendTransaction(ctx, opts.txRequest(a.Address(), l1Bridge, data))
	if err != nil {
		a.logger.Errorf("error claiming failed deposit %s on %s: %v", depositHash, l1Bridge, err)
		return nil, err
	}
	a.logger.Infof("failed deposit %s claim sent: %s", depositHash, sent.Hash())
	return sent, nil
}
