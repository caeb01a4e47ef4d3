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

const (
	selectorLength         = 4
	baseTokenMessageLength = selectorLength + common.AddressLength + common.HashLength
	tokenMessageLength     = selectorLength + 2*common.AddressLength + common.HashLength
)

// l2Receipt fetches the receipt of an L2 transaction, failing when it is not mined yet.
func (a *Adapter) l2Receipt(ctx context.Context, txHash common.Hash) (*etherman.L2Receipt, error) {
	receipt, err := a.l2.L2Receipt(ctx, txHash)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, fmt.Errorf("tx %s: %w", txHash, gerror.ErrTxNotMined)
	}
	return receipt, nil
}

// withdrawalLog returns the index-th L1MessageSent event of the L1 messenger in the receipt.
func withdrawalLog(receipt *etherman.L2Receipt, index int) (*etherman.L2Log, error) {
	found := 0
	for _, l := range receipt.Logs {
		if l.Address != utils.L1MessengerAddress || len(l.Topics) == 0 || l.Topics[0] != etherman.L1MessageSentSignatureHash {
			continue
		}
		if found == index {
			return l, nil
		}
		found++
	}
	return nil, fmt.Errorf("tx %s, index %d: %w", receipt.TxHash, index, gerror.ErrWithdrawalLogNotFound)
}

// withdrawalL2ToL1Log returns the index-th L2 to L1 log sent by the L1 messenger and its position among all the L2 to L1 logs.
func withdrawalL2ToL1Log(receipt *etherman.L2Receipt, index int) (int, *etherman.L2ToL1Log, error) {
	found := 0
	for position, l := range receipt.L2ToL1Logs {
		if l.Sender != utils.L1MessengerAddress {
			continue
		}
		if found == index {
			return position, l, nil
		}
		found++
	}
	return 0, nil, fmt.Errorf("tx %s, index %d: %w", receipt.TxHash, index, gerror.ErrWithdrawalLogNotFound)
}

// FinalizeWithdrawalParams resolves everything finalizeWithdrawal needs on L1 from the L2 withdrawal transaction.
// index selects the withdrawal when the transaction initiated several of them.
func (a *Adapter) FinalizeWithdrawalParams(ctx context.Context, withdrawalHash common.Hash, index int) (*FinalizeParams, error) {
	receipt, err := a.l2Receipt(ctx, withdrawalHash)
	if err != nil {
		return nil, err
	}
	l, err := withdrawalLog(receipt, index)
	if err != nil {
		return nil, err
	}
	if len(l.Topics) < 2 { //nolint:gomnd
		return nil, fmt.Errorf("L1MessageSent event without sender topic in tx %s: %w", withdrawalHash, gerror.ErrWithdrawalLogNotFound)
	}
	position, _, err := withdrawalL2ToL1Log(receipt, index)
	if err != nil {
		return nil, err
	}
	proof, err := a.l2.LogProof(ctx, withdrawalHash, position)
	if err != nil {
		return nil, err
	}
	if proof == nil {
		return nil, fmt.Errorf("tx %s, log %d: %w", withdrawalHash, position, gerror.ErrLogProofNotFound)
	}
	message, err := etherman.UnpackL1Message(l.Data)
	if err != nil {
		return nil, err
	}

	batch := l.L1BatchNumber
	if batch == nil {
		batch = receipt.L1BatchNumber
	}
	if batch == nil || receipt.L1BatchTxIndex == nil {
		return nil, fmt.Errorf("tx %s is not included in an L1 batch yet: %w", withdrawalHash, gerror.ErrLogProofNotFound)
	}
	return &FinalizeParams{
		L1BatchNumber:     uint64(*batch),
		L2MessageIndex:    proof.ID,
		L2TxNumberInBlock: uint16(*receipt.L1BatchTxIndex),
		Message:           message,
		Sender:            common.BytesToAddress(l.Topics[1].Bytes()),
		Proof:             proof.Proof,
	}, nil
}

// resolveL1Bridge returns the L1 bridge that releases the funds sent by the given L2 sender, and whether it uses the legacy interface.
func (a *Adapter) resolveL1Bridge(ctx context.Context, sender common.Address) (common.Address, bool, error) {
	if sender == utils.L2BaseTokenAddress {
		bridges, err := a.defaultBridges(ctx)
		if err != nil {
			return common.Address{}, false, err
		}
		return bridges.L1SharedDefaultBridge, false, nil
	}
	legacy, err := a.l2.IsL2BridgeLegacy(ctx, sender)
	if err != nil {
		return common.Address{}, false, err
	}
	if legacy {
		l1Bridge, err := a.l2.L1Bridge(ctx, sender)
		return l1Bridge, true, err
	}
	l1Bridge, err := a.l2.L1SharedBridge(ctx, sender)
	return l1Bridge, false, err
}

// FinalizeWithdrawal releases the withdrawn funds on L1.
func (a *Adapter) FinalizeWithdrawal(ctx context.Context, withdrawalHash common.Hash, index int, overrides *Overrides) (*types.Transaction, error) {
	params, err := a.FinalizeWithdrawalParams(ctx, withdrawalHash, index)
	if err != nil {
		return nil, err
	}
	l1Bridge, legacy, err := a.resolveL1Bridge(ctx, params.Sender)
	if err != nil {
		return nil, err
	}
	chainID, err := a.l2.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	data, err := etherman.PackFinalizeWithdrawal(legacy, chainID, new(big.Int).SetUint64(params.L1BatchNumber),
		new(big.Int).SetUint64(params.L2MessageIndex), params.L2TxNumberInBlock, params.Message, params.Proof)
	if err != nil {
		return nil, err
	}
	opts := overrides.Copy()
	if err := InsertGasPrice(ctx, a.l1, opts); err != nil {
		return nil, err
	}
	tx, err := a.l1Signer.SendTransaction(ctx, opts.txRequest(a.Address(), l1Bridge, data))
	if err != nil {
		a.logger.Errorf("error finalizing withdrawal %s (%d) on %s: %v", withdrawalHash, index, l1Bridge, err)
		return nil, err
	}
	a.logger.Infof("withdrawal %s (%d) finalization sent: %s", withdrawalHash, index, tx.Hash())
	return tx, nil
}

// IsWithdrawalFinalized reports whether the withdrawal was already finalized on L1.
func (a *Adapter) IsWithdrawalFinalized(ctx context.Context, withdrawalHash common.Hash, index int) (bool, error) {
	params, err := a.FinalizeWithdrawalParams(ctx, withdrawalHash, index)
	if err != nil {
		return false, err
	}
	l1Bridge, legacy, err := a.resolveL1Bridge(ctx, params.Sender)
	if err != nil {
		return false, err
	}
	chainID, err := a.l2.ChainID(ctx)
	if err != nil {
		return false, err
	}
	return a.l1.IsWithdrawalFinalized(ctx, l1Bridge, legacy, chainID,
		new(big.Int).SetUint64(params.L1BatchNumber), new(big.Int).SetUint64(params.L2MessageIndex))
}

// DecodeWithdrawalMessage decodes the message a withdrawal sent to L1.
func DecodeWithdrawalMessage(message []byte) (*WithdrawalMessage, error) {
	m := &WithdrawalMessage{}
	switch len(message) {
	case baseTokenMessageLength:
		copy(m.Selector[:], message[:selectorLength])
		m.Receiver = common.BytesToAddress(message[selectorLength : selectorLength+common.AddressLength])
		m.Amount = new(big.Int).SetBytes(message[selectorLength+common.AddressLength:])
	case tokenMessageLength:
		copy(m.Selector[:], message[:selectorLength])
		offset := selectorLength
		m.Receiver = common.BytesToAddress(message[offset : offset+common.AddressLength])
		offset += common.AddressLength
		l1Token := common.BytesToAddress(message[offset : offset+common.AddressLength])
		m.L1Token = &l1Token
		offset += common.AddressLength
		m.Amount = new(big.Int).SetBytes(message[offset:])
	default:
		return nil, fmt.Errorf("unexpected withdrawal message length %d", len(message))
	}
	return m, nil
}
