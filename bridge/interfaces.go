package bridge

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/zkstack-labs/bridgehub-sdk/etherman"
)

// L1Reader gathers the settlement layer reads, including the bridgehub, bridge and token contract views.
type L1Reader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	FeeData(ctx context.Context) (*etherman.FeeData, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)

	BaseToken(ctx context.Context, bridgehub common.Address, chainID *big.Int) (common.Address, error)
	SharedBridge(ctx context.Context, bridgehub common.Address) (common.Address, error)
	L2BridgeAddress(ctx context.Context, l1Bridge common.Address, chainID *big.Int) (common.Address, error)
	L2TransactionBaseCost(ctx context.Context, bridgehub common.Address, chainID, gasPrice, l2GasLimit, gasPerPubdataByte *big.Int) (*big.Int, error)
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
	TokenBalance(ctx context.Context, token, owner common.Address) (*big.Int, error)
	TokenMetadata(ctx context.Context, token common.Address) (string, string, uint8, error)
	IsWithdrawalFinalized(ctx context.Context, l1Bridge common.Address, legacy bool, chainID, l1BatchNumber, l2MessageIndex *big.Int) (bool, error)
}

// L2Reader gathers the rollup node reads, including the zks namespace.
type L2Reader interface {
	ChainID(ctx context.Context) (*big.Int, error)
	MainContractAddress(ctx context.Context) (common.Address, error)
	BridgehubContractAddress(ctx context.Context) (common.Address, error)
	BaseTokenL1Address(ctx context.Context) (common.Address, error)
	BridgeContracts(ctx context.Context) (*etherman.BridgeContracts, error)
	L2Receipt(ctx context.Context, txHash common.Hash) (*etherman.L2Receipt, error)
	L2Transaction(ctx context.Context, txHash common.Hash) (*etherman.L2Transaction, error)
	LogProof(ctx context.Context, txHash common.Hash, index int) (*etherman.LogProof, error)
	EstimateGasL1ToL2(ctx context.Context, call etherman.L1ToL2Call) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	IsL2BridgeLegacy(ctx context.Context, l2Bridge common.Address) (bool, error)
	L1SharedBridge(ctx context.Context, l2Bridge common.Address) (common.Address, error)
	L1Bridge(ctx context.Context, l2Bridge common.Address) (common.Address, error)
	L2TokenAddress(ctx context.Context, l2Bridge, l1Token common.Address) (common.Address, error)
}

// Signer signs and broadcasts transactions on one layer.
type Signer interface {
	Address() common.Address
	SendTransaction(ctx context.Context, req *etherman.TxRequest) (*types.Transaction, error)
}
