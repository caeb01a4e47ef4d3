package bridge

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/zkstack-labs/bridgehub-sdk/etherman"
	"github.com/zkstack-labs/bridgehub-sdk/gerror"
	"github.com/zkstack-labs/bridgehub-sdk/utils"
)

var errWithdrawAmountRequired = errors.New("withdrawal amount is required")

// L2TokenAddress returns the L2 address of an L1 token.
func (a *Adapter) L2TokenAddress(ctx context.Context, l1Token common.Address) (common.Address, error) {
	l1Token = utils.NormalizeToken(l1Token)
	baseToken, err := a.l2.BaseTokenL1Address(ctx)
	if err != nil {
		return common.Address{}, err
	}
	if l1Token == baseToken {
		return utils.L2BaseTokenAddress, nil
	}
	bridges, err := a.defaultBridges(ctx)
	if err != nil {
		return common.Address{}, err
	}
	return a.l2.L2TokenAddress(ctx, bridges.L2SharedDefaultBridge, l1Token)
}

// withdrawToken maps the ETH sentinels and the L1 base token to the L2 token being withdrawn.
func (a *Adapter) withdrawToken(ctx context.Context, token common.Address) (common.Address, error) {
	if utils.IsETH(token) {
		return a.L2TokenAddress(ctx, utils.ETHAddressInContracts)
	}
	if token == utils.L2BaseTokenAddress {
		return token, nil
	}
	baseToken, err := a.l2.BaseTokenL1Address(ctx)
	if err != nil {
		return common.Address{}, err
	}
	if token == baseToken {
		return utils.L2BaseTokenAddress, nil
	}
	return token, nil
}

// GetWithdrawTx builds the unsigned L2 withdrawal transaction.
func (a *Adapter) GetWithdrawTx(ctx context.Context, req WithdrawRequest) (*etherman.TxRequest, error) {
	if req.Amount == nil {
		return nil, errWithdrawAmountRequired
	}
	from := a.l2Signer.Address()
	token, err := a.withdrawToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	to := from
	if req.To != nil {
		to = *req.To
	}
	overrides := req.Overrides.Copy()

	var (
		target common.Address
		data   []byte
	)
	if token == utils.L2BaseTokenAddress {
		if overrides.Value == nil || overrides.Value.Sign() == 0 {
			overrides.Value = copyBig(req.Amount)
		}
		if overrides.Value.Cmp(req.Amount) != 0 {
			return nil, fmt.Errorf("value %s, amount %s: %w", overrides.Value, req.Amount, gerror.ErrWithdrawValueMismatch)
		}
		target = utils.L2BaseTokenAddress
		if data, err = etherman.PackBaseTokenWithdraw(to); err != nil {
			return nil, err
		}
	} else {
		if req.BridgeAddress != nil {
			target = *req.BridgeAddress
		} else {
			bridges, err := a.defaultBridges(ctx)
			if err != nil {
				return nil, err
			}
			target = bridges.L2SharedDefaultBridge
		}
		if data, err = etherman.PackL2BridgeWithdraw(to, token, req.Amount); err != nil {
			return nil, err
		}
	}

	tx := overrides.txRequest(from, target, data)
	if tx.GasLimit == 0 {
		value := tx.Value
		if value == nil {
			value = new(big.Int)
		}
		gas, err := a.l2.EstimateGas(ctx, ethereum.CallMsg{From: from, To: tx.To, Value: value, Data: data})
		if err != nil {
			return nil, err
		}
		tx.GasLimit = gas
	}
	return tx, nil
}

// Withdraw sends the L2 transaction starting a withdrawal. The funds are released on L1 by FinalizeWithdrawal.
func (a *Adapter) Withdraw(ctx context.Context, req WithdrawRequest) (*types.Transaction, error) {
	tx, err := a.GetWithdrawTx(ctx, req)
	if err != nil {
		return nil, err
	}
	sent, err := a.l2Signer.SendTransaction(ctx, tx)
	if err != nil {
		a.logger.Errorf("error sending withdrawal of %s: %v", req.Amount, err)
		return nil, err
	}
	a.logger.Infof("withdrawal of %s sent: %s", req.Amount, sent.Hash())
	return sent, nil
}
