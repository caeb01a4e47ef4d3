package bridge

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zkstack-labs/bridgehub-sdk/etherman"
	"github.com/zkstack-labs/bridgehub-sdk/gerror"
	"github.com/zkstack-labs/bridgehub-sdk/utils"
)

// GetDepositTx builds the unsigned L1 deposit transaction without sending it.
func (a *Adapter) GetDepositTx(ctx context.Context, req DepositRequest) (*DepositTx, error) {
	chain, err := a.ChainContext(ctx)
	if err != nil {
		return nil, err
	}
	n, err := a.normalizeDeposit(ctx, chain, req)
	if err != nil {
		return nil, err
	}
	return a.buildDepositTx(ctx, chain, n)
}

func (a *Adapter) buildDepositTx(ctx context.Context, chain *ChainContext, n *normalizedDeposit) (*DepositTx, error) {
	path := chain.classify(n.Token)
	baseCost, err := a.GetBaseCost(ctx, chain, n.Overrides.gasPriceForEstimation(), n.L2GasLimit, n.GasPerPubdataByte)
	if err != nil {
		return nil, err
	}
	var dtx *DepositTx
	switch path {
	case PathETHOnETHBasedChain:
		dtx, err = a.depositETHOnETHBasedChainTx(chain, n, baseCost)
	case PathTokenOnETHBasedChain:
		dtx, err = a.depositTokenOnETHBasedChainTx(chain, n, baseCost)
	case PathETHOnNonETHBasedChain:
		dtx, err = a.depositETHOnNonETHBasedChainTx(chain, n, baseCost)
	case PathBaseTokenOnNonETHBasedChain:
		dtx, err = a.depositBaseTokenOnNonETHBasedChainTx(chain, n, baseCost)
	default:
		dtx, err = a.depositNonBaseTokenOnNonETHBasedChainTx(chain, n, baseCost)
	}
	if err != nil {
		return nil, err
	}
	dtx.Path = path
	dtx.BaseCost = baseCost
	dtx.L2GasLimit = n.L2GasLimit
	return dtx, nil
}

// directRefundRecipient defaults the refund recipient of a direct request to the signer.
func (a *Adapter) directRefundRecipient(n *normalizedDeposit) *normalizedDeposit {
	if n.RefundRecipient == (common.Address{}) {
		n.RefundRecipient = a.Address()
	}
	return n
}

func (a *Adapter) depositETHOnETHBasedChainTx(chain *ChainContext, n *normalizedDeposit, baseCost *big.Int) (*DepositTx, error) {
	value := n.Overrides.Value
	if value == nil {
		var err error
		if value, err = utils.SumUint256(baseCost, n.OperatorTip, n.Amount); err != nil {
			return nil, err
		}
		n.Overrides.Value = value
	}
	if err := checkBaseCost(baseCost, value); err != nil {
		return nil, err
	}
	return a.directDepositTx(chain, a.directRefundRecipient(n), value)
}

func (a *Adapter) depositBaseTokenOnNonETHBasedChainTx(chain *ChainContext, n *normalizedDeposit, baseCost *big.Int) (*DepositTx, error) {
	mintValue, err := utils.SumUint256(baseCost, n.OperatorTip, n.Amount)
	if err != nil {
		return nil, err
	}
	if err := checkBaseCost(baseCost, mintValue); err != nil {
		return nil, err
	}
	n.Overrides.Value = new(big.Int)
	return a.directDepositTx(chain, a.directRefundRecipient(n), mintValue)
}

func (a *Adapter) directDepositTx(chain *ChainContext, n *normalizedDeposit, mintValue *big.Int) (*DepositTx, error) {
	tx, err := a.directTx(chain, directRequest{
		contract:          n.To,
		l2Value:           n.Amount,
		mintValue:         mintValue,
		l2GasLimit:        n.L2GasLimit,
		gasPerPubdataByte: n.GasPerPubdataByte,
		refundRecipient:   n.RefundRecipient,
		overrides:         n.Overrides,
	})
	if err != nil {
		return nil, err
	}
	return &DepositTx{Tx: tx, MintValue: mintValue}, nil
}

func (a *Adapter) depositTokenOnETHBasedChainTx(chain *ChainContext, n *normalizedDeposit, baseCost *big.Int) (*DepositTx, error) {
	mintValue, err := utils.SumUint256(baseCost, n.OperatorTip)
	if err != nil {
		return nil, err
	}
	if n.Overrides.Value == nil {
		n.Overrides.Value = copyBig(mintValue)
	}
	calldata := n.CustomBridgeData
	if !n.CustomBridge || calldata == nil {
		if calldata, err = etherman.EncodeDepositCalldata(n.Token, n.Amount, n.To); err != nil {
			return nil, err
		}
	}
	if err := checkBaseCost(baseCost, mintValue); err != nil {
		return nil, err
	}
	return a.twoBridgesDepositTx(chain, n, mintValue, new(big.Int), calldata)
}

func (a *Adapter) depositETHOnNonETHBasedChainTx(chain *ChainContext, n *normalizedDeposit, baseCost *big.Int) (*DepositTx, error) {
	mintValue, err := utils.SumUint256(baseCost, n.OperatorTip)
	if err != nil {
		return nil, err
	}
	if n.Overrides.Value == nil {
		n.Overrides.Value = copyBig(n.Amount)
	}
	calldata, err := etherman.EncodeDepositCalldata(utils.ETHAddressInContracts, new(big.Int), n.To)
	if err != nil {
		return nil, err
	}
	if err := checkBaseCost(baseCost, mintValue); err != nil {
		return nil, err
	}
	n.BridgeAddress = chain.SharedBridge
	return a.twoBridgesDepositTx(chain, n, mintValue, n.Amount, calldata)
}

func (a *Adapter) depositNonBaseTokenOnNonETHBasedChainTx(chain *ChainContext, n *normalizedDeposit, baseCost *big.Int) (*DepositTx, error) {
	mintValue, err := utils.SumUint256(baseCost, n.OperatorTip)
	if err != nil {
		return nil, err
	}
	if n.Overrides.Value == nil {
		n.Overrides.Value = new(big.Int)
	}
	calldata, err := etherman.EncodeDepositCalldata(n.Token, n.Amount, n.To)
	if err != nil {
		return nil, err
	}
	if err := checkBaseCost(baseCost, mintValue); err != nil {
		return nil, err
	}
	return a.twoBridgesDepositTx(chain, n, mintValue, new(big.Int), calldata)
}

func (a *Adapter) twoBridgesDepositTx(chain *ChainContext, n *normalizedDeposit, mintValue, secondBridgeValue *big.Int, calldata []byte) (*DepositTx, error) {
	data, err := etherman.PackRequestL2TransactionTwoBridges(etherman.L2TransactionRequestTwoBridges{
		ChainId:                  chain.ChainID,
		MintValue:                mintValue,
		L2Value:                  new(big.Int),
		L2GasLimit:               n.L2GasLimit,
		L2GasPerPubdataByteLimit: n.GasPerPubdataByte,
		RefundRecipient:          n.RefundRecipient,
		SecondBridgeAddress:      n.BridgeAddress,
		SecondBridgeValue:        secondBridgeValue,
		SecondBridgeCalldata:     calldata,
	})
	if err != nil {
		return nil, err
	}
	return &DepositTx{
		Tx:        n.Overrides.txRequest(a.Address(), chain.Bridgehub, data),
		MintValue: mintValue,
	}, nil
}

// EstimateGasDeposit returns the scaled L1 gas limit of the deposit.
func (a *Adapter) EstimateGasDeposit(ctx context.Context, req DepositRequest) (uint64, error) {
	dtx, err := a.GetDepositTx(ctx, req)
	if err != nil {
		return 0, err
	}
	return a.estimateL1Gas(ctx, dtx.Tx)
}

// Deposit moves funds from L1 to L2. The approvals the path needs are sent first when requested,
// each one only if the current allowance is too low.
func (a *Adapter) Deposit(ctx context.Context, req DepositRequest) (*PriorityOpResponse, error) {
	chain, err := a.ChainContext(ctx)
	if err != nil {
		return nil, err
	}
	n, err := a.normalizeDeposit(ctx, chain, req)
	if err != nil {
		return nil, err
	}
	dtx, err := a.buildDepositTx(ctx, chain, n)
	if err != nil {
		return nil, err
	}
	logger := a.logger.WithFields("path", dtx.Path.String(), "token", n.Token.String())

	switch dtx.Path {
	case PathTokenOnETHBasedChain:
		if req.ApproveERC20 {
			if err := a.EnsureAllowance(ctx, n.Token, n.BridgeAddress, n.Amount, req.ApproveOverrides); err != nil {
				return nil, err
			}
		}
	case PathETHOnNonETHBasedChain:
		if req.ApproveBaseERC20 {
			if err := a.EnsureAllowance(ctx, chain.BaseToken, chain.SharedBridge, dtx.MintValue, req.ApproveBaseOverrides); err != nil {
				return nil, err
			}
		}
	case PathBaseTokenOnNonETHBasedChain:
		if req.ApproveERC20 || req.ApproveBaseERC20 {
			overrides := req.ApproveBaseOverrides
			if overrides == nil {
				overrides = req.ApproveOverrides
			}
			if err := a.EnsureAllowance(ctx, chain.BaseToken, chain.SharedBridge, dtx.MintValue, overrides); err != nil {
				return nil, err
			}
		}
	case PathNonBaseTokenOnNonETHBasedChain:
		if req.ApproveBaseERC20 {
			if err := a.EnsureAllowance(ctx, chain.BaseToken, chain.SharedBridge, dtx.MintValue, req.ApproveBaseOverrides); err != nil {
				return nil, err
			}
		}
		if req.ApproveERC20 {
			if err := a.EnsureAllowance(ctx, n.Token, n.BridgeAddress, n.Amount, req.ApproveOverrides); err != nil {
				return nil, err
			}
		}
	}

	resp, err := a.sendL1(ctx, dtx.Tx)
	if err != nil {
		logger.Errorf("error sending deposit: %v", err)
		return nil, err
	}
	if a.onDepositSent != nil {
		a.onDepositSent(dtx.Path)
	}
	logger.Infof("deposit of %s sent, mint value %s: %s", n.Amount, dtx.MintValue, resp.L1Tx.Hash())
	return resp, nil
}

// GetDepositAllowanceParams returns the approvals a deposit needs, base token first.
func (a *Adapter) GetDepositAllowanceParams(ctx context.Context, token common.Address, amount *big.Int) ([]AllowanceParams, error) {
	chain, err := a.ChainContext(ctx)
	if err != nil {
		return nil, err
	}
	token = utils.NormalizeToken(token)
	path := chain.classify(token)
	switch path {
	case PathETHOnETHBasedChain:
		return nil, fmt.Errorf("deposit allowance of %s: %w", token, gerror.ErrCannotApproveETH)
	case PathTokenOnETHBasedChain:
		return []AllowanceParams{{Token: token, Allowance: copyBig(amount)}}, nil
	}

	n, err := a.normalizeDeposit(ctx, chain, DepositRequest{Token: token, Amount: amount})
	if err != nil {
		return nil, err
	}
	dtx, err := a.buildDepositTx(ctx, chain, n)
	if err != nil {
		return nil, err
	}
	params := []AllowanceParams{{Token: chain.BaseToken, Allowance: dtx.MintValue}}
	if path == PathNonBaseTokenOnNonETHBasedChain {
		params = append(params, AllowanceParams{Token: token, Allowance: copyBig(amount)})
	}
	return params, nil
}
