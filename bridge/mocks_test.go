package bridge

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
	"github.com/zkstack-labs/bridgehub-sdk/etherman"
)

type l1ReaderMock struct {
	mock.Mock
}

func (_m *l1ReaderMock) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	ret := _m.Called(ctx, account, blockNumber)
	return bigAt(ret, 0), ret.Error(1)
}

func (_m *l1ReaderMock) FeeData(ctx context.Context) (*etherman.FeeData, error) {
	ret := _m.Called(ctx)
	fd, _ := ret.Get(0).(*etherman.FeeData)
	return fd, ret.Error(1)
}

func (_m *l1ReaderMock) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	ret := _m.Called(ctx, msg)
	return ret.Get(0).(uint64), ret.Error(1)
}

func (_m *l1ReaderMock) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ret := _m.Called(ctx, txHash)
	receipt, _ := ret.Get(0).(*types.Receipt)
	return receipt, ret.Error(1)
}

func (_m *l1ReaderMock) BaseToken(ctx context.Context, bridgehub common.Address, chainID *big.Int) (common.Address, error) {
	ret := _m.Called(ctx, bridgehub, chainID)
	return ret.Get(0).(common.Address), ret.Error(1)
}

func (_m *l1ReaderMock) SharedBridge(ctx context.Context, bridgehub common.Address) (common.Address, error) {
	ret := _m.Called(ctx, bridgehub)
	return ret.Get(0).(common.Address), ret.Error(1)
}

func (_m *l1ReaderMock) L2BridgeAddress(ctx context.Context, l1Bridge common.Address, chainID *big.Int) (common.Address, error) {
	ret := _m.Called(ctx, l1Bridge, chainID)
	return ret.Get(0).(common.Address), ret.Error(1)
}

func (_m *l1ReaderMock) L2TransactionBaseCost(ctx context.Context, bridgehub common.Address, chainID, gasPrice, l2GasLimit, gasPerPubdataByte *big.Int) (*big.Int, error) {
	ret := _m.Called(ctx, bridgehub, chainID, gasPrice, l2GasLimit, gasPerPubdataByte)
	return bigAt(ret, 0), ret.Error(1)
}

func (_m *l1ReaderMock) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	ret := _m.Called(ctx, token, owner, spender)
	return bigAt(ret, 0), ret.Error(1)
}

func (_m *l1ReaderMock) TokenBalance(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	ret := _m.Called(ctx, token, owner)
	return bigAt(ret, 0), ret.Error(1)
}

func (_m *l1ReaderMock) TokenMetadata(ctx context.Context, token common.Address) (string, string, uint8, error) {
	ret := _m.Called(ctx, token)
	return ret.String(0), ret.String(1), ret.Get(2).(uint8), ret.Error(3)
}

func (_m *l1ReaderMock) IsWithdrawalFinalized(ctx context.Context, l1Bridge common.Address, legacy bool, chainID, l1BatchNumber, l2MessageIndex *big.Int) (bool, error) {
	ret := _m.Called(ctx, l1Bridge, legacy, chainID, l1BatchNumber, l2MessageIndex)
	return ret.Bool(0), ret.Error(1)
}

type l2ReaderMock struct {
	mock.Mock
}

func (_m *l2ReaderMock) ChainID(ctx context.Context) (*big.Int, error) {
	ret := _m.Called(ctx)
	return bigAt(ret, 0), ret.Error(1)
}

func (_m *l2ReaderMock) MainContractAddress(ctx context.Context) (common.Address, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(common.Address), ret.Error(1)
}

func (_m *l2ReaderMock) BridgehubContractAddress(ctx context.Context) (common.Address, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(common.Address), ret.Error(1)
}

func (_m *l2ReaderMock) BaseTokenL1Address(ctx context.Context) (common.Address, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(common.Address), ret.Error(1)
}

func (_m *l2ReaderMock) BridgeContracts(ctx context.Context) (*etherman.BridgeContracts, error) {
	ret := _m.Called(ctx)
	bridges, _ := ret.Get(0).(*etherman.BridgeContracts)
	return bridges, ret.Error(1)
}

func (_m *l2ReaderMock) L2Receipt(ctx context.Context, txHash common.Hash) (*etherman.L2Receipt, error) {
	ret := _m.Called(ctx, txHash)
	receipt, _ := ret.Get(0).(*etherman.L2Receipt)
	return receipt, ret.Error(1)
}

func (_m *l2ReaderMock) L2Transaction(ctx context.Context, txHash common.Hash) (*etherman.L2Transaction, error) {
	ret := _m.Called(ctx, txHash)
	tx, _ := ret.Get(0).(*etherman.L2Transaction)
	return tx, ret.Error(1)
}

func (_m *l2ReaderMock) LogProof(ctx context.Context, txHash common.Hash, index int) (*etherman.LogProof, error) {
	ret := _m.Called(ctx, txHash, index)
	proof, _ := ret.Get(0).(*etherman.LogProof)
	return proof, ret.Error(1)
}

func (_m *l2ReaderMock) EstimateGasL1ToL2(ctx context.Context, call etherman.L1ToL2Call) (uint64, error) {
	ret := _m.Called(ctx, call)
	return ret.Get(0).(uint64), ret.Error(1)
}

func (_m *l2ReaderMock) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	ret := _m.Called(ctx, msg)
	return ret.Get(0).(uint64), ret.Error(1)
}

func (_m *l2ReaderMock) IsL2BridgeLegacy(ctx context.Context, l2Bridge common.Address) (bool, error) {
	ret := _m.Called(ctx, l2Bridge)
	return ret.Bool(0), ret.Error(1)
}

func (_m *l2ReaderMock) L1SharedBridge(ctx context.Context, l2Bridge common.Address) (common.Address, error) {
	ret := _m.Called(ctx, l2Bridge)
	return ret.Get(0).(common.Address), ret.Error(1)
}

func (_m *l2ReaderMock) L1Bridge(ctx context.Context, l2Bridge common.Address) (common.Address, error) {
	ret := _m.Called(ctx, l2Bridge)
	return ret.Get(0).(common.Address), ret.Error(1)
}

func (_m *l2ReaderMock) L2TokenAddress(ctx context.Context, l2Bridge, l1Token common.Address) (common.Address, error) {
	ret := _m.Called(ctx, l2Bridge, l1Token)
	return ret.Get(0).(common.Address), ret.Error(1)
}

type signerMock struct {
	mock.Mock
	address common.Address
}

func (_m *signerMock) Address() common.Address {
	return _m.address
}

func (_m *signerMock) SendTransaction(ctx context.Context, req *etherman.TxRequest) (*types.Transaction, error) {
	ret := _m.Called(ctx, req)
	tx, _ := ret.Get(0).(*types.Transaction)
	return tx, ret.Error(1)
}

func bigAt(args mock.Arguments, index int) *big.Int {
	v, _ := args.Get(index).(*big.Int)
	return v
}
