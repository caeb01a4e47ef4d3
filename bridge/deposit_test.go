package bridge

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zkstack-labs/bridgehub-sdk/etherman"
	"github.com/zkstack-labs/bridgehub-sdk/gerror"
	"github.com/zkstack-labs/bridgehub-sdk/utils"
)

func directDepositData(t *testing.T, mintValue, l2Value int64, to, refund common.Address) []byte {
	data, err := etherman.PackRequestL2TransactionDirect(etherman.L2TransactionRequestDirect{
		ChainId:                  testChainID,
		MintValue:                big.NewInt(mintValue),
		L2Contract:               to,
		L2Value:                  big.NewInt(l2Value),
		L2GasLimit:               big.NewInt(testL2GasLimit),
		L2GasPerPubdataByteLimit: big.NewInt(800),
		RefundRecipient:          refund,
	})
	require.NoError(t, err)
	return data
}

func twoBridgesDepositData(t *testing.T, mintValue int64, secondBridge common.Address, secondBridgeValue int64, calldata []byte) []byte {
	data, err := etherman.PackRequestL2TransactionTwoBridges(etherman.L2TransactionRequestTwoBridges{
		ChainId:                  testChainID,
		MintValue:                big.NewInt(mintValue),
		L2Value:                  big.NewInt(0),
		L2GasLimit:               big.NewInt(testL2GasLimit),
		L2GasPerPubdataByteLimit: big.NewInt(800),
		SecondBridgeAddress:      secondBridge,
		SecondBridgeValue:        big.NewInt(secondBridgeValue),
		SecondBridgeCalldata:     calldata,
	})
	require.NoError(t, err)
	return data
}

func TestGetDepositTxETHOnETHBasedChain(t *testing.T) {
	e := newTestEnv(t, utils.ETHAddressInContracts)
	e.expectBaseCost(testL2GasLimit, testBaseCost)
	e.l2.On("EstimateGasL1ToL2", mock.Anything, mock.MatchedBy(func(call etherman.L1ToL2Call) bool {
		// a plain value transfer to the receiver
		return call.To == testSigner && call.Value.Int64() == 1000 && len(call.Data) == 0 && call.GasPerPubdataByte == 800
	})).Return(uint64(testL2GasLimit), nil)

	dtx, err := e.adapter.GetDepositTx(context.Background(), DepositRequest{Token: utils.LegacyETHAddress, Amount: big.NewInt(1000)})
	require.NoError(t, err)
	assert.Equal(t, PathETHOnETHBasedChain, dtx.Path)
	assert.Equal(t, int64(testBaseCost), dtx.BaseCost.Int64())
	assert.Equal(t, int64(testBaseCost+1000), dtx.MintValue.Int64())
	assert.Equal(t, int64(testBaseCost+1000), dtx.Tx.Value.Int64())
	assert.Equal(t, testBridgehub, *dtx.Tx.To)
	assert.Equal(t, testSigner, dtx.Tx.From)
	assert.Equal(t, int64(testMaxFee), dtx.Tx.MaxFeePerGas.Int64())
	assert.Equal(t, int64(2), dtx.Tx.MaxPriorityFeePerGas.Int64())
	assert.Equal(t, directDepositData(t, testBaseCost+1000, 1000, testSigner, testSigner), dtx.Tx.Data)

	again, err := e.adapter.GetDepositTx(context.Background(), DepositRequest{Token: utils.LegacyETHAddress, Amount: big.NewInt(1000)})
	require.NoError(t, err)
	assert.Equal(t, dtx, again)
}

func TestGetDepositTxOperatorTipAndOverrides(t *testing.T) {
	e := newTestEnv(t, utils.ETHAddressInContracts)
	e.expectBaseCost(testL2GasLimit, testBaseCost)
	to := common.HexToAddress("0x0000000000000000000000000000000000000abc")
	overrides := &Overrides{Value: big.NewInt(20000)}

	dtx, err := e.adapter.GetDepositTx(context.Background(), DepositRequest{
		Token:       utils.ETHAddressInContracts,
		Amount:      big.NewInt(1000),
		To:          &to,
		OperatorTip: big.NewInt(5),
		L2GasLimit:  big.NewInt(testL2GasLimit),
		Overrides:   overrides,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20000), dtx.MintValue.Int64())
	assert.Equal(t, directDepositData(t, 20000, 1000, to, testSigner), dtx.Tx.Data)
	// the caller overrides are not mutated
	assert.Nil(t, overrides.MaxFeePerGas)
}

func TestGetDepositTxInsufficientValue(t *testing.T) {
	e := newTestEnv(t, utils.ETHAddressInContracts)
	e.expectBaseCost(testL2GasLimit, testBaseCost)

	_, err := e.adapter.GetDepositTx(context.Background(), DepositRequest{
		Token:      utils.ETHAddressInContracts,
		Amount:     big.NewInt(1000),
		L2GasLimit: big.NewInt(testL2GasLimit),
		Overrides:  &Overrides{Value: big.NewInt(testBaseCost - 1)},
	})
	require.ErrorIs(t, err, gerror.ErrInsufficientMintValue)
}

func TestGetDepositTxTokenOnETHBasedChain(t *testing.T) {
	e := newTestEnv(t, utils.ETHAddressInContracts)
	e.expectBaseCost(testL2GasLimit, testBaseCost)
	e.l1.On("TokenMetadata", mock.Anything, testToken).Return("Token", "TKN", uint8(18), nil).Once()
	bridgeData, err := etherman.EncodeERC20BridgeData("Token", "TKN", 18)
	require.NoError(t, err)
	e.l2.On("EstimateGasL1ToL2", mock.Anything, mock.MatchedBy(func(call etherman.L1ToL2Call) bool {
		finalize, err := etherman.UnpackFinalizeDeposit(call.Data)
		return err == nil && call.From == utils.ApplyL1ToL2Alias(testSharedBridge) && call.To == testL2SharedBridge &&
			finalize.L1Token == testToken && finalize.Amount.Int64() == 1000 && string(finalize.Data) == string(bridgeData)
	})).Return(uint64(testL2GasLimit), nil).Once()

	dtx, err := e.adapter.GetDepositTx(context.Background(), DepositRequest{Token: testToken, Amount: big.NewInt(1000)})
	require.NoError(t, err)
	assert.Equal(t, PathTokenOnETHBasedChain, dtx.Path)
	assert.Equal(t, int64(testBaseCost), dtx.MintValue.Int64())
	assert.Equal(t, int64(testBaseCost), dtx.Tx.Value.Int64())

	calldata, err := etherman.EncodeDepositCalldata(testToken, big.NewInt(1000), testSigner)
	require.NoError(t, err)
	assert.Equal(t, twoBridgesDepositData(t, testBaseCost, testSharedBridge, 0, calldata), dtx.Tx.Data)
}

func TestGetDepositTxCustomBridge(t *testing.T) {
	e := newTestEnv(t, utils.ETHAddressInContracts)
	e.expectBaseCost(testL2GasLimit, testBaseCost)
	customL1Bridge := common.HexToAddress("0x00000000000000000000000000000000000c0571")
	customL2Bridge := common.HexToAddress("0x00000000000000000000000000000000000c0572")
	e.l1.On("L2BridgeAddress", mock.Anything, customL1Bridge, testChainID).Return(customL2Bridge, nil).Once()
	e.l2.On("EstimateGasL1ToL2", mock.Anything, mock.MatchedBy(func(call etherman.L1ToL2Call) bool {
		return call.From == utils.ApplyL1ToL2Alias(customL1Bridge) && call.To == customL2Bridge
	})).Return(uint64(testL2GasLimit), nil).Once()

	dtx, err := e.adapter.GetDepositTx(context.Background(), DepositRequest{
		Token:            testToken,
		Amount:           big.NewInt(1000),
		BridgeAddress:    &customL1Bridge,
		CustomBridgeData: []byte{0xca, 0xfe},
	})
	require.NoError(t, err)
	assert.Equal(t, twoBridgesDepositData(t, testBaseCost, customL1Bridge, 0, []byte{0xca, 0xfe}), dtx.Tx.Data)
}

func TestGetDepositTxETHOnNonETHBasedChain(t *testing.T) {
	e := newTestEnv(t, testCustomBase)
	e.expectBaseCost(testL2GasLimit, testBaseCost)
	e.l2.On("EstimateGasL1ToL2", mock.Anything, mock.MatchedBy(func(call etherman.L1ToL2Call) bool {
		finalize, err := etherman.UnpackFinalizeDeposit(call.Data)
		return err == nil && call.Value.Int64() == 1000 && len(finalize.Data) == 0 && finalize.L1Token == utils.ETHAddressInContracts
	})).Return(uint64(testL2GasLimit), nil).Once()

	dtx, err := e.adapter.GetDepositTx(context.Background(), DepositRequest{Token: utils.LegacyETHAddress, Amount: big.NewInt(1000)})
	require.NoError(t, err)
	assert.Equal(t, PathETHOnNonETHBasedChain, dtx.Path)
	assert.Equal(t, int64(testBaseCost), dtx.MintValue.Int64())
	assert.Equal(t, int64(1000), dtx.Tx.Value.Int64())

	calldata, err := etherman.EncodeDepositCalldata(utils.ETHAddressInContracts, big.NewInt(0), testSigner)
	require.NoError(t, err)
	assert.Equal(t, twoBridgesDepositData(t, testBaseCost, testSharedBridge, 1000, calldata), dtx.Tx.Data)
}

func TestGetDepositTxBaseTokenOnNonETHBasedChain(t *testing.T) {
	e := newTestEnv(t, testCustomBase)
	e.expectBaseCost(testL2GasLimit, testBaseCost)
	e.expectL2GasEstimate()

	dtx, err := e.adapter.GetDepositTx(context.Background(), DepositRequest{
		Token:     testCustomBase,
		Amount:    big.NewInt(1000),
		Overrides: &Overrides{Value: big.NewInt(123)},
	})
	require.NoError(t, err)
	assert.Equal(t, PathBaseTokenOnNonETHBasedChain, dtx.Path)
	assert.Equal(t, int64(testBaseCost+1000), dtx.MintValue.Int64())
	assert.Equal(t, int64(0), dtx.Tx.Value.Int64())
	assert.Equal(t, directDepositData(t, testBaseCost+1000, 1000, testSigner, testSigner), dtx.Tx.Data)
}

func TestGetDepositTxNonBaseTokenOnNonETHBasedChain(t *testing.T) {
	e := newTestEnv(t, testCustomBase)
	e.expectBaseCost(testL2GasLimit, testBaseCost)
	e.expectL2GasEstimate()
	e.l1.On("TokenMetadata", mock.Anything, testToken).Return("Token", "TKN", uint8(6), nil)

	dtx, err := e.adapter.GetDepositTx(context.Background(), DepositRequest{Token: testToken, Amount: big.NewInt(1000), OperatorTip: big.NewInt(3)})
	require.NoError(t, err)
	assert.Equal(t, PathNonBaseTokenOnNonETHBasedChain, dtx.Path)
	assert.Equal(t, int64(testBaseCost+3), dtx.MintValue.Int64())
	assert.Equal(t, int64(0), dtx.Tx.Value.Int64())

	calldata, err := etherman.EncodeDepositCalldata(testToken, big.NewInt(1000), testSigner)
	require.NoError(t, err)
	assert.Equal(t, twoBridgesDepositData(t, testBaseCost+3, testSharedBridge, 0, calldata), dtx.Tx.Data)
}

func TestGetDepositTxAmountRequired(t *testing.T) {
	e := newTestEnv(t, utils.ETHAddressInContracts)
	_, err := e.adapter.GetDepositTx(context.Background(), DepositRequest{Token: testToken})
	require.ErrorIs(t, err, errDepositAmountRequired)
}

func TestDepositETHOnETHBasedChain(t *testing.T) {
	e := newTestEnv(t, utils.ETHAddressInContracts)
	e.expectBaseCost(testL2GasLimit, testBaseCost)
	e.l1.On("EstimateGas", mock.Anything, mock.MatchedBy(func(msg ethereum.CallMsg) bool {
		return *msg.To == testBridgehub && msg.Value.Int64() == testBaseCost+1000 && msg.GasFeeCap == nil && msg.GasPrice == nil
	})).Return(uint64(100000), nil).Once()
	tx := sentTx(1)
	e.l1Signer.On("SendTransaction", mock.Anything, mock.MatchedBy(func(req *etherman.TxRequest) bool {
		return req.GasLimit == 120000 && req.Value.Int64() == testBaseCost+1000 && req.MaxFeePerGas.Int64() == testMaxFee
	})).Return(tx, nil).Once()

	var paths []DepositPath
	e.adapter.OnDepositSent(func(path DepositPath) { paths = append(paths, path) })

	resp, err := e.adapter.Deposit(context.Background(), DepositRequest{
		Token:        utils.ETHAddressInContracts,
		Amount:       big.NewInt(1000),
		L2GasLimit:   big.NewInt(testL2GasLimit),
		ApproveERC20: true,
	})
	require.NoError(t, err)
	assert.Equal(t, tx.Hash(), resp.L1Tx.Hash())
	assert.Equal(t, []DepositPath{PathETHOnETHBasedChain}, paths)
	// no allowance is read for ETH, an unexpected Allowance call would fail the mock
}

func TestDepositNonBaseTokenApprovesBothTokens(t *testing.T) {
	e := newTestEnv(t, testCustomBase)
	e.expectBaseCost(testL2GasLimit, testBaseCost)
	e.l1.On("Allowance", mock.Anything, testCustomBase, testSigner, testSharedBridge).Return(big.NewInt(0), nil).Once()
	e.l1.On("Allowance", mock.Anything, testToken, testSigner, testSharedBridge).Return(big.NewInt(5000), nil).Once()

	approveData, err := etherman.PackApprove(testSharedBridge, big.NewInt(testBaseCost))
	require.NoError(t, err)
	approval := sentTx(1)
	deposit := sentTx(2)
	e.l1Signer.On("SendTransaction", mock.Anything, mock.MatchedBy(func(req *etherman.TxRequest) bool {
		return *req.To == testCustomBase && string(req.Data) == string(approveData)
	})).Return(approval, nil).Once()
	e.l1.On("TransactionReceipt", mock.Anything, approval.Hash()).Return(&ethtypes.Receipt{Status: ethtypes.ReceiptStatusSuccessful}, nil).Once()
	e.l1.On("EstimateGas", mock.Anything, mock.Anything).Return(uint64(200000), nil).Once()
	e.l1Signer.On("SendTransaction", mock.Anything, mock.MatchedBy(func(req *etherman.TxRequest) bool {
		return *req.To == testBridgehub && req.GasLimit == 240000
	})).Return(deposit, nil).Once()

	resp, err := e.adapter.Deposit(context.Background(), DepositRequest{
		Token:            testToken,
		Amount:           big.NewInt(1000),
		L2GasLimit:       big.NewInt(testL2GasLimit),
		ApproveERC20:     true,
		ApproveBaseERC20: true,
	})
	require.NoError(t, err)
	assert.Equal(t, deposit.Hash(), resp.L1Tx.Hash())
}

func TestEstimateGasDeposit(t *testing.T) {
	e := newTestEnv(t, utils.ETHAddressInContracts)
	e.expectBaseCost(testL2GasLimit, testBaseCost)
	e.l1.On("EstimateGas", mock.Anything, mock.Anything).Return(uint64(100000), nil).Once()

	gas, err := e.adapter.EstimateGasDeposit(context.Background(), DepositRequest{
		Token:      utils.ETHAddressInContracts,
		Amount:     big.NewInt(1000),
		L2GasLimit: big.NewInt(testL2GasLimit),
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(120000), gas)
}

func TestGetDepositAllowanceParams(t *testing.T) {
	ctx := context.Background()

	t.Run("eth on eth based chain", func(t *testing.T) {
		e := newTestEnv(t, utils.ETHAddressInContracts)
		_, err := e.adapter.GetDepositAllowanceParams(ctx, utils.LegacyETHAddress, big.NewInt(1000))
		require.ErrorIs(t, err, gerror.ErrCannotApproveETH)
	})

	t.Run("token on eth based chain", func(t *testing.T) {
		e := newTestEnv(t, utils.ETHAddressInContracts)
		params, err := e.adapter.GetDepositAllowanceParams(ctx, testToken, big.NewInt(1000))
		require.NoError(t, err)
		require.Len(t, params, 1)
		assert.Equal(t, testToken, params[0].Token)
		assert.Equal(t, int64(1000), params[0].Allowance.Int64())
	})

	t.Run("base token on non eth based chain", func(t *testing.T) {
		e := newTestEnv(t, testCustomBase)
		e.expectBaseCost(testL2GasLimit, testBaseCost)
		e.expectL2GasEstimate()
		params, err := e.adapter.GetDepositAllowanceParams(ctx, testCustomBase, big.NewInt(1000))
		require.NoError(t, err)
		require.Len(t, params, 1)
		assert.Equal(t, testCustomBase, params[0].Token)
		assert.Equal(t, int64(testBaseCost+1000), params[0].Allowance.Int64())
	})

	t.Run("non base token on non eth based chain", func(t *testing.T) {
		e := newTestEnv(t, testCustomBase)
		e.expectBaseCost(testL2GasLimit, testBaseCost)
		e.expectL2GasEstimate()
		e.l1.On("TokenMetadata", mock.Anything, testToken).Return("Token", "TKN", uint8(18), nil)
		params, err := e.adapter.GetDepositAllowanceParams(ctx, testToken, big.NewInt(1000))
		require.NoError(t, err)
		require.Len(t, params, 2)
		assert.Equal(t, testCustomBase, params[0].Token)
		assert.Equal(t, int64(testBaseCost), params[0].Allowance.Int64())
		assert.Equal(t, testToken, params[1].Token)
		assert.Equal(t, int64(1000), params[1].Allowance.Int64())
	})
}

func TestDepositETHOnNonETHBasedChainApprovesBaseTokenOnly(t *testing.T) {
	e := newTestEnv(t, testCustomBase)
	e.expectBaseCost(testL2GasLimit, testBaseCost)
	e.l1.On("Allowance", mock.Anything, testCustomBase, testSigner, testSharedBridge).Return(big.NewInt(0), nil).Once()

	var sent []string
	approveData, err := etherman.PackApprove(testSharedBridge, big.NewInt(testBaseCost))
	require.NoError(t, err)
	approval := sentTx(1)
	deposit := sentTx(2)
	e.l1Signer.On("SendTransaction", mock.Anything, mock.MatchedBy(func(req *etherman.TxRequest) bool {
		return *req.To == testCustomBase && string(req.Data) == string(approveData)
	})).Run(func(mock.Arguments) { sent = append(sent, "approve") }).Return(approval, nil).Once()
	e.l1.On("TransactionReceipt", mock.Anything, approval.Hash()).Return(&ethtypes.Receipt{Status: ethtypes.ReceiptStatusSuccessful}, nil).Once()
	e.l1.On("EstimateGas", mock.Anything, mock.Anything).Return(uint64(200000), nil).Once()
	e.l1Signer.On("SendTransaction", mock.Anything, mock.MatchedBy(func(req *etherman.TxRequest) bool {
		return *req.To == testBridgehub && req.Value.Int64() == 1000
	})).Run(func(mock.Arguments) { sent = append(sent, "deposit") }).Return(deposit, nil).Once()

	resp, err := e.adapter.Deposit(context.Background(), DepositRequest{
		Token:            utils.LegacyETHAddress,
		Amount:           big.NewInt(1000),
		L2GasLimit:       big.NewInt(testL2GasLimit),
		ApproveERC20:     true,
		ApproveBaseERC20: true,
	})
	require.NoError(t, err)
	assert.Equal(t, deposit.Hash(), resp.L1Tx.Hash())
	assert.Equal(t, []string{"approve", "deposit"}, sent)
}

func TestDepositBaseTokenOnNonETHBasedChainApprovesMintValue(t *testing.T) {
	e := newTestEnv(t, testCustomBase)
	e.expectBaseCost(testL2GasLimit, testBaseCost)
	e.l1.On("Allowance", mock.Anything, testCustomBase, testSigner, testSharedBridge).Return(big.NewInt(10), nil).Once()

	var sent []string
	approveData, err := etherman.PackApprove(testSharedBridge, big.NewInt(testBaseCost+1000))
	require.NoError(t, err)
	approval := sentTx(1)
	deposit := sentTx(2)
	e.l1Signer.On("SendTransaction", mock.Anything, mock.MatchedBy(func(req *etherman.TxRequest) bool {
		return *req.To == testCustomBase && string(req.Data) == string(approveData)
	})).Run(func(mock.Arguments) { sent = append(sent, "approve") }).Return(approval, nil).Once()
	e.l1.On("TransactionReceipt", mock.Anything, approval.Hash()).Return(&ethtypes.Receipt{Status: ethtypes.ReceiptStatusSuccessful}, nil).Once()
	e.l1.On("EstimateGas", mock.Anything, mock.Anything).Return(uint64(200000), nil).Once()
	e.l1Signer.On("SendTransaction", mock.Anything, mock.MatchedBy(func(req *etherman.TxRequest) bool {
		return *req.To == testBridgehub && orZero(req.Value).Sign() == 0 &&
			string(req.Data) == string(directDepositData(t, testBaseCost+1000, 1000, testSigner, testSigner))
	})).Run(func(mock.Arguments) { sent = append(sent, "deposit") }).Return(deposit, nil).Once()

	resp, err := e.adapter.Deposit(context.Background(), DepositRequest{
		Token:        testCustomBase,
		Amount:       big.NewInt(1000),
		L2GasLimit:   big.NewInt(testL2GasLimit),
		ApproveERC20: true,
	})
	require.NoError(t, err)
	assert.Equal(t, deposit.Hash(), resp.L1Tx.Hash())
	assert.Equal(t, []string{"approve", "deposit"}, sent)
}
