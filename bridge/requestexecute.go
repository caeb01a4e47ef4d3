package bridge

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/zkstack-labs/bridgehub-sdk/etherman"
	"github.com/zkstack-labs/bridgehub-sdk/utils"
)

// directRequest holds the resolved arguments of requestL2TransactionDirect.
type directRequest struct {
	contract          common.Address
	calldata          []byte
	l2Value           *big.Int
	mintValue         *big.Int
	l2GasLimit        *big.Int
	gasPerPubdataByte *big.Int
	refundRecipient   common.Address
	factoryDeps       [][]byte
	overrides         *Overrides
}

func (a *Adapter) directTx(chain *ChainContext, r directRequest) (*etherman.TxRequest, error) {
	data, err := etherman.PackRequestL2TransactionDirect(etherman.L2TransactionRequestDirect{
		ChainId:                  chain.ChainID,
		MintValue:                r.mintValue,
		L2Contract:               r.contract,
		L2Value:                  r.l2Value,
		L2Calldata:               r.calldata,
		L2GasLimit:               r.l2GasLimit,
		L2GasPerPubdataByteLimit: r.gasPerPubdataByte,
		FactoryDeps:              r.factoryDeps,
		RefundRecipient:          r.refundRecipient,
	})
	if err != nil {
		return nil, err
	}
	return r.overrides.txRequest(a.Address(), chain.Bridgehub, data), nil
}

// GetRequestExecuteTx builds the L1 transaction requesting an arbitrary L2 call.
func (a *Adapter) GetRequestExecuteTx(ctx context.Context, req RequestExecuteRequest) (*etherman.TxRequest, error) {
	chain, err := a.ChainContext(ctx)
	if err != nil {
		return nil, err
	}
	tx, _, err := a.requestExecuteTx(ctx, chain, req)
	return tx, err
}

// requestExecuteTx returns the transaction and the mint value it carries.
func (a *Adapter) requestExecuteTx(ctx context.Context, chain *ChainContext, req RequestExecuteRequest) (*etherman.TxRequest, *big.Int, error) {
	overrides := req.Overrides.Copy()
	l2Value := orZero(req.L2Value)
	operatorTip := orZero(req.OperatorTip)
	gasPerPubdataByte := req.GasPerPubdataByte
	if gasPerPubdataByte == nil {
		gasPerPubdataByte = new(big.Int).SetUint64(utils.RequiredL1ToL2GasPerPubdataLimit)
	}
	refundRecipient := a.Address()
	if req.RefundRecipient != nil {
		refundRecipient = *req.RefundRecipient
	}
	l2GasLimit := copyBig(req.L2GasLimit)
	if l2GasLimit == nil {
		estimated, err := a.l2.EstimateGasL1ToL2(ctx, etherman.L1ToL2Call{
			From:              a.Address(),
			To:                req.ContractAddress,
			Data:              req.Calldata,
			Value:             l2Value,
			GasPerPubdataByte: gasPerPubdataByte.Uint64(),
		})
		if err != nil {
			return nil, nil, err
		}
		l2GasLimit = new(big.Int).SetUint64(estimated)
	}
	if err := InsertGasPrice(ctx, a.l1, overrides); err != nil {
		return nil, nil, err
	}
	baseCost, err := a.GetBaseCost(ctx, chain, overrides.gasPriceForEstimation(), l2GasLimit, gasPerPubdataByte)
	if err != nil {
		return nil, nil, err
	}
	l2Costs, err := utils.SumUint256(baseCost, operatorTip, l2Value)
	if err != nil {
		return nil, nil, err
	}

	providedValue := req.MintValue
	if chain.IsETHBasedChain {
		providedValue = overrides.Value
	}
	if providedValue == nil || providedValue.Sign() == 0 {
		providedValue = l2Costs
		if chain.IsETHBasedChain {
			overrides.Value = copyBig(providedValue)
		}
	}
	if err := checkBaseCost(baseCost, providedValue); err != nil {
		return nil, nil, err
	}
	tx, err := a.directTx(chain, directRequest{
		contract:          req.ContractAddress,
		calldata:          req.Calldata,
		l2Value:           l2Value,
		mintValue:         providedValue,
		l2GasLimit:        l2GasLimit,
		gasPerPubdataByte: gasPerPubdataByte,
		refundRecipient:   refundRecipient,
		factoryDeps:       req.FactoryDeps,
		overrides:         overrides,
	})
	if err != nil {
		return nil, nil, err
	}
	return tx, providedValue, nil
}

// EstimateGasRequestExecute returns the scaled L1 gas limit of a request execute transaction.
func (a *Adapter) EstimateGasRequestExecute(ctx context.Context, req RequestExecuteRequest) (uint64, error) {
	tx, err := a.GetRequestExecuteTx(ctx, req)
	if err != nil {
		return 0, err
	}
	return a.estimateL1Gas(ctx, tx)
}

// RequestExecute requests an L2 call from L1. On chains with a custom base token the base token
// allowance is ensured first when ApproveBaseERC20 is set.
func (a *Adapter) RequestExecute(ctx context.Context, req RequestExecuteRequest) (*PriorityOpResponse, error) {
	chain, err := a.ChainContext(ctx)
	if err != nil {
		return nil, err
	}
	tx, mintValue, err := a.requestExecuteTx(ctx, chain, req)
	if err != nil {
		return nil, err
	}
	if !chain.IsETHBasedChain && req.ApproveBaseERC20 {
		if err := a.EnsureAllowance(ctx, chain.BaseToken, chain.SharedBridge, mintValue, req.ApproveBaseOverrides); err != nil {
			return nil, err
		}
	}
	return a.sendL1(ctx, tx)
}

// estimateL1Gas estimates the transaction without its fee fields and applies the L1 gas buffer.
func (a *Adapter) estimateL1Gas(ctx context.Context, tx *etherman.TxRequest) (uint64, error) {
	gas, err := a.l1.EstimateGas(ctx, ethereum.CallMsg{
		From:  tx.From,
		To:    tx.To,
		Value: orZero(tx.Value),
		Data:  tx.Data,
	})
	if err != nil {
		return 0, err
	}
	return utils.ScaleGasLimit(gas), nil
}

// sendL1 fills the gas limit when unset and submits the transaction with the L1 signer.
func (a *Adapter) sendL1(ctx context.Context, tx *etherman.TxRequest) (*PriorityOpResponse, error) {
	if tx.GasLimit == 0 {
		gas, err := a.estimateL1Gas(ctx, tx)
		if err != nil {
			return nil, err
		}
		tx.GasLimit = gas
	}
	sent, err := a.l1Signer.SendTransaction(ctx, tx)
	if err != nil {
		a.logger.Errorf("error sending L1 transaction to %s: %v", tx.To, err)
		return nil, err
	}
	a.logger.Infof("L1 transaction sent: %s", sent.Hash())
	return &PriorityOpResponse{L1Tx: sent, adapter: a}, nil
}
