package bridge

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/zkstack-labs/bridgehub-sdk/etherman"
	"github.com/zkstack-labs/bridgehub-sdk/gerror"
	"github.com/zkstack-labs/bridgehub-sdk/utils"
)

// GetAllowanceL1 returns the amount of token the bridge may spend on behalf of the signer.
func (a *Adapter) GetAllowanceL1(ctx context.Context, token, bridge common.Address) (*big.Int, error) {
	return a.l1.Allowance(ctx, token, a.Address(), bridge)
}

// ApproveERC20 lets the bridge spend amount of token. ETH cannot be approved.
func (a *Adapter) ApproveERC20(ctx context.Context, token common.Address, amount *big.Int, bridge common.Address, overrides *Overrides) (*types.Transaction, error) {
	if utils.IsETH(token) {
		return nil, gerror.ErrCannotApproveETH
	}
	data, err := etherman.PackApprove(bridge, amount)
	if err != nil {
		return nil, err
	}
	opts := overrides.Copy()
	if err := InsertGasPrice(ctx, a.l1, opts); err != nil {
		return nil, err
	}
	tx, err := a.l1Signer.SendTransaction(ctx, opts.txRequest(a.Address(), token, data))
	if err != nil {
		a.logger.Errorf("error approving %s of token %s for %s: %v", amount, token, bridge, err)
		return nil, err
	}
	a.logger.Debugf("approval %s sent: %s of token %s for %s", tx.Hash(), amount, token, bridge)
	return tx, nil
}

// EnsureAllowance approves exactly the required amount when the current allowance is lower and waits for the approval to be mined.
func (a *Adapter) EnsureAllowance(ctx context.Context, token, spender common.Address, required *big.Int, overrides *Overrides) error {
	allowance, err := a.GetAllowanceL1(ctx, token, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(required) >= 0 {
		return nil
	}
	tx, err := a.ApproveERC20(ctx, token, required, spender, overrides)
	if err != nil {
		return err
	}
	_, err = utils.WaitTxToBeMined(ctx, a.l1, tx.Hash(), a.cfg.TxMinedTimeout.Duration)
	return err
}
