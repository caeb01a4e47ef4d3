package bridge

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zkstack-labs/bridgehub-sdk/gerror"
	"github.com/zkstack-labs/bridgehub-sdk/utils"
)

// fullDepositFeeDummyAmount is the amount deposits are simulated with when only the fee is wanted.
var fullDepositFeeDummyAmount = big.NewInt(1)

// GetBaseCost returns the base token amount the bridgehub charges for an L2 transaction.
// A nil chain is fetched, a nil gas price is read from the L1 fee market and a nil gasPerPubdataByte defaults to 800.
func (a *Adapter) GetBaseCost(ctx context.Context, chain *ChainContext, gasPrice, l2GasLimit, gasPerPubdataByte *big.Int) (*big.Int, error) {
	if chain == nil {
		var err error
		if chain, err = a.ChainContext(ctx); err != nil {
			return nil, err
		}
	}
	if gasPrice == nil {
		overrides := &Overrides{}
		if err := InsertGasPrice(ctx, a.l1, overrides); err != nil {
			return nil, err
		}
		gasPrice = overrides.gasPriceForEstimation()
	}
	if gasPerPubdataByte == nil {
		gasPerPubdataByte = new(big.Int).SetUint64(utils.RequiredL1ToL2GasPerPubdataLimit)
	}
	return a.l1.L2TransactionBaseCost(ctx, chain.Bridgehub, chain.ChainID, gasPrice, l2GasLimit, gasPerPubdataByte)
}

// checkBaseCost fails when the supplied value does not cover the base cost.
func checkBaseCost(baseCost, value *big.Int) error {
	if baseCost.Cmp(orZero(value)) > 0 {
		return fmt.Errorf("base cost %s, value %s: %w", baseCost, orZero(value), gerror.ErrInsufficientMintValue)
	}
	return nil
}

// GetFullRequiredDepositFee returns the L1 and L2 fees of a deposit, checking beforehand that
// the signer holds enough balance and allowance to perform it.
func (a *Adapter) GetFullRequiredDepositFee(ctx context.Context, req DepositRequest) (*FullDepositFee, error) {
	chain, err := a.ChainContext(ctx)
	if err != nil {
		return nil, err
	}
	req.Amount = fullDepositFeeDummyAmount
	n, err := a.normalizeDeposit(ctx, chain, req)
	if err != nil {
		return nil, err
	}
	baseCost, err := a.GetBaseCost(ctx, chain, n.Overrides.gasPriceForEstimation(), n.L2GasLimit, n.GasPerPubdataByte)
	if err != nil {
		return nil, err
	}

	if chain.IsETHBasedChain {
		if err := a.checkETHBasedDepositFunds(ctx, n, baseCost); err != nil {
			return nil, err
		}
	} else {
		if err := a.checkNonETHBasedDepositFunds(ctx, chain, n, baseCost); err != nil {
			return nil, err
		}
	}

	estimation := req
	estimation.L2GasLimit = n.L2GasLimit
	estimation.Overrides = n.Overrides.withoutFees()
	l1GasLimit, err := a.EstimateGasDeposit(ctx, estimation)
	if err != nil {
		return nil, err
	}

	fee := &FullDepositFee{
		BaseCost:   baseCost,
		L1GasLimit: l1GasLimit,
		L2GasLimit: n.L2GasLimit,
	}
	if n.Overrides.GasPrice != nil {
		fee.GasPrice = copyBig(n.Overrides.GasPrice)
	} else {
		fee.MaxFeePerGas = copyBig(n.Overrides.MaxFeePerGas)
		fee.MaxPriorityFeePerGas = copyBig(n.Overrides.MaxPriorityFeePerGas)
	}
	return fee, nil
}

func (a *Adapter) checkETHBasedDepositFunds(ctx context.Context, n *normalizedDeposit, baseCost *big.Int) error {
	balance, err := a.l1.BalanceAt(ctx, a.Address(), nil)
	if err != nil {
		return err
	}
	if baseCost.Cmp(new(big.Int).Add(balance, fullDepositFeeDummyAmount)) >= 0 {
		recommendedL1GasLimit := utils.L1RecommendedMinERC20DepositGasLimit
		if utils.IsETH(n.Token) {
			recommendedL1GasLimit = utils.L1RecommendedMinETHDepositGasLimit
		}
		recommendedBalance, err := utils.MulUint256(new(big.Int).SetUint64(recommendedL1GasLimit), n.Overrides.gasPriceForEstimation())
		if err != nil {
			return err
		}
		if recommendedBalance, err = utils.SumUint256(recommendedBalance, baseCost); err != nil {
			return err
		}
		return fmt.Errorf("under the provided gas price, the recommended balance to perform a deposit is %s ETH: %w",
			utils.FormatEther(recommendedBalance), gerror.ErrNotEnoughBalance)
	}
	if !utils.IsETH(n.Token) {
		return a.checkTokenAllowance(ctx, n.Token, n.BridgeAddress, fullDepositFeeDummyAmount, gerror.ErrNotEnoughAllowance)
	}
	return nil
}

func (a *Adapter) checkNonETHBasedDepositFunds(ctx context.Context, chain *ChainContext, n *normalizedDeposit, baseCost *big.Int) error {
	mintValue, err := utils.SumUint256(baseCost, n.OperatorTip)
	if err != nil {
		return err
	}
	if err := a.checkTokenAllowance(ctx, chain.BaseToken, chain.SharedBridge, mintValue, gerror.ErrNotEnoughBaseTokenAllowance); err != nil {
		return err
	}
	if utils.IsETH(n.Token) || n.Token == chain.BaseToken {
		return nil
	}
	return a.checkTokenAllowance(ctx, n.Token, n.BridgeAddress, fullDepositFeeDummyAmount, gerror.ErrNotEnoughAllowance)
}

func (a *Adapter) checkTokenAllowance(ctx context.Context, token, spender common.Address, required *big.Int, insufficient error) error {
	allowance, err := a.GetAllowanceL1(ctx, token, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(required) < 0 {
		return fmt.Errorf("token %s allowance %s, required %s: %w", token, allowance, required, insufficient)
	}
	return nil
}
