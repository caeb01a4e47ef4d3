package bridge

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zkstack-labs/bridgehub-sdk/etherman"
	"github.com/zkstack-labs/bridgehub-sdk/utils"
)

var errDepositAmountRequired = errors.New("deposit amount is required")

// normalizeDeposit resolves every default of the request once, so that the builders only branch on the path.
func (a *Adapter) normalizeDeposit(ctx context.Context, chain *ChainContext, req DepositRequest) (*normalizedDeposit, error) {
	if req.Amount == nil {
		return nil, errDepositAmountRequired
	}
	if _, err := utils.ToUint256(req.Amount); err != nil {
		return nil, err
	}
	n := &normalizedDeposit{
		Token:             utils.NormalizeToken(req.Token),
		Amount:            copyBig(req.Amount),
		To:                a.Address(),
		BridgeAddress:     chain.SharedBridge,
		CustomBridgeData:  req.CustomBridgeData,
		OperatorTip:       copyBig(orZero(req.OperatorTip)),
		GasPerPubdataByte: new(big.Int).SetUint64(utils.RequiredL1ToL2GasPerPubdataLimit),
		Overrides:         req.Overrides.Copy(),
	}
	if req.To != nil {
		n.To = *req.To
	}
	if req.BridgeAddress != nil {
		n.BridgeAddress = *req.BridgeAddress
		n.CustomBridge = true
	}
	if req.GasPerPubdataByte != nil {
		n.GasPerPubdataByte = copyBig(req.GasPerPubdataByte)
	}
	if req.RefundRecipient != nil {
		n.RefundRecipient = *req.RefundRecipient
	}
	if err := InsertGasPrice(ctx, a.l1, n.Overrides); err != nil {
		return nil, err
	}
	if req.L2GasLimit != nil {
		n.L2GasLimit = copyBig(req.L2GasLimit)
		return n, nil
	}
	l2GasLimit, err := a.estimateDepositL2GasLimit(ctx, chain, n)
	if err != nil {
		return nil, err
	}
	n.L2GasLimit = new(big.Int).SetUint64(l2GasLimit)
	return n, nil
}

func (a *Adapter) estimateDepositL2GasLimit(ctx context.Context, chain *ChainContext, n *normalizedDeposit) (uint64, error) {
	from := a.Address()
	if n.CustomBridge {
		l2Bridge, err := a.l1.L2BridgeAddress(ctx, n.BridgeAddress, chain.ChainID)
		if err != nil {
			return 0, err
		}
		bridgeData := n.CustomBridgeData
		if bridgeData == nil {
			if bridgeData, err = a.erc20BridgeData(ctx, n.Token); err != nil {
				return 0, err
			}
		}
		return a.estimateFinalizeDepositGas(ctx, n, from, n.BridgeAddress, l2Bridge, bridgeData, nil)
	}

	if n.Token == chain.BaseToken {
		return a.l2.EstimateGasL1ToL2(ctx, etherman.L1ToL2Call{
			From:              from,
			To:                n.To,
			Value:             n.Amount,
			GasPerPubdataByte: n.GasPerPubdataByte.Uint64(),
		})
	}

	bridges, err := a.defaultBridges(ctx)
	if err != nil {
		return 0, err
	}
	if utils.IsETH(n.Token) {
		return a.estimateFinalizeDepositGas(ctx, n, from, bridges.L1SharedDefaultBridge, bridges.L2SharedDefaultBridge, []byte{}, n.Amount)
	}
	bridgeData, err := a.erc20BridgeData(ctx, n.Token)
	if err != nil {
		return 0, err
	}
	return a.estimateFinalizeDepositGas(ctx, n, from, bridges.L1SharedDefaultBridge, bridges.L2SharedDefaultBridge, bridgeData, nil)
}

// estimateFinalizeDepositGas simulates finalizeDeposit on the L2 bridge as if it was called by the aliased L1 bridge.
func (a *Adapter) estimateFinalizeDepositGas(ctx context.Context, n *normalizedDeposit, from, l1Bridge, l2Bridge common.Address, bridgeData []byte, l2Value *big.Int) (uint64, error) {
	calldata, err := etherman.PackFinalizeDeposit(etherman.FinalizeDepositCall{
		L1Sender:   from,
		L2Receiver: n.To,
		L1Token:    n.Token,
		Amount:     n.Amount,
		Data:       bridgeData,
	})
	if err != nil {
		return 0, err
	}
	return a.l2.EstimateGasL1ToL2(ctx, etherman.L1ToL2Call{
		From:              utils.ApplyL1ToL2Alias(l1Bridge),
		To:                l2Bridge,
		Data:              calldata,
		Value:             l2Value,
		GasPerPubdataByte: n.GasPerPubdataByte.Uint64(),
	})
}

// erc20BridgeData is the token metadata the L2 bridge needs to deploy the bridged token.
func (a *Adapter) erc20BridgeData(ctx context.Context, token common.Address) ([]byte, error) {
	if utils.IsETH(token) {
		return etherman.EncodeERC20BridgeData("Ether", "ETH", 18) //nolint:gomnd
	}
	name, symbol, decimals, err := a.l1.TokenMetadata(ctx, token)
	if err != nil {
		return nil, err
	}
	return etherman.EncodeERC20BridgeData(name, symbol, decimals)
}
