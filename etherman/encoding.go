package etherman

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// L2TransactionRequestDirect is the argument of Bridgehub.requestL2TransactionDirect.
type L2TransactionRequestDirect struct {
	ChainId                  *big.Int //nolint:revive,stylecheck
	MintValue                *big.Int
	L2Contract               common.Address
	L2Value                  *big.Int
	L2Calldata               []byte
	L2GasLimit               *big.Int
	L2GasPerPubdataByteLimit *big.Int
	FactoryDeps              [][]byte
	RefundRecipient          common.Address
}

// L2TransactionRequestTwoBridges is the argument of Bridgehub.requestL2TransactionTwoBridges.
type L2TransactionRequestTwoBridges struct {
	ChainId                  *big.Int //nolint:revive,stylecheck
	MintValue                *big.Int
	L2Value                  *big.Int
	L2GasLimit               *big.Int
	L2GasPerPubdataByteLimit *big.Int
	RefundRecipient          common.Address
	SecondBridgeAddress      common.Address
	SecondBridgeValue        *big.Int
	SecondBridgeCalldata     []byte
}

// FinalizeDepositCall holds the decoded arguments of IL2Bridge.finalizeDeposit.
type FinalizeDepositCall struct {
	L1Sender   common.Address
	L2Receiver common.Address
	L1Token    common.Address
	Amount     *big.Int
	Data       []byte
}

// PackRequestL2TransactionDirect encodes a direct L1 to L2 request.
func PackRequestL2TransactionDirect(req L2TransactionRequestDirect) ([]byte, error) {
	if req.FactoryDeps == nil {
		req.FactoryDeps = [][]byte{}
	}
	return bridgehubABI.Pack("requestL2TransactionDirect", req)
}

// PackRequestL2TransactionTwoBridges encodes an L1 to L2 request routed through a second bridge.
func PackRequestL2TransactionTwoBridges(req L2TransactionRequestTwoBridges) ([]byte, error) {
	return bridgehubABI.Pack("requestL2TransactionTwoBridges", req)
}

// PackApprove encodes an ERC20 approval.
func PackApprove(spender common.Address, amount *big.Int) ([]byte, error) {
	return erc20ABI.Pack("approve", spender, amount)
}

// PackFinalizeWithdrawal encodes finalizeWithdrawal for the shared bridge, or for the legacy bridge when legacy is set.
func PackFinalizeWithdrawal(legacy bool, chainID, l1BatchNumber, l2MessageIndex *big.Int, l2TxNumberInBatch uint16, message []byte, proof []common.Hash) ([]byte, error) {
	if legacy {
		return l1ERC20BridgeABI.Pack("finalizeWithdrawal", l1BatchNumber, l2MessageIndex, l2TxNumberInBatch, message, toBytes32Slice(proof))
	}
	return l1SharedBridgeABI.Pack("finalizeWithdrawal", chainID, l1BatchNumber, l2MessageIndex, l2TxNumberInBatch, message, toBytes32Slice(proof))
}

// PackClaimFailedDeposit encodes claimFailedDeposit. The legacy bridge takes neither the chain id nor the amount.
func PackClaimFailedDeposit(legacy bool, chainID *big.Int, depositSender, l1Token common.Address, amount *big.Int, l2TxHash common.Hash,
	l1BatchNumber, l2MessageIndex *big.Int, l2TxNumberInBatch uint16, proof []common.Hash) ([]byte, error) {
	if legacy {
		return l1ERC20BridgeABI.Pack("claimFailedDeposit", depositSender, l1Token, [32]byte(l2TxHash), l1BatchNumber, l2MessageIndex, l2TxNumberInBatch, toBytes32Slice(proof))
	}
	return l1SharedBridgeABI.Pack("claimFailedDeposit", chainID, depositSender, l1Token, amount, [32]byte(l2TxHash), l1BatchNumber, l2MessageIndex, l2TxNumberInBatch, toBytes32Slice(proof))
}

// PackL2BridgeWithdraw encodes a token withdrawal through an L2 bridge.
func PackL2BridgeWithdraw(l1Receiver, l2Token common.Address, amount *big.Int) ([]byte, error) {
	return l2BridgeABI.Pack("withdraw", l1Receiver, l2Token, amount)
}

// PackBaseTokenWithdraw encodes a base token withdrawal through the L2 base token system contract.
func PackBaseTokenWithdraw(l1Receiver common.Address) ([]byte, error) {
	return ethTokenABI.Pack("withdraw", l1Receiver)
}

// PackFinalizeDeposit encodes the L2 side of a bridged deposit.
func PackFinalizeDeposit(call FinalizeDepositCall) ([]byte, error) {
	data := call.Data
	if data == nil {
		data = []byte{}
	}
	return l2BridgeABI.Pack("finalizeDeposit", call.L1Sender, call.L2Receiver, call.L1Token, call.Amount, data)
}

// UnpackFinalizeDeposit decodes the calldata of an L2 finalizeDeposit transaction.
func UnpackFinalizeDeposit(input []byte) (*FinalizeDepositCall, error) {
	method := l2BridgeABI.Methods["finalizeDeposit"]
	if len(input) < 4 || !bytes.Equal(input[:4], method.ID) {
		return nil, fmt.Errorf("calldata is not a finalizeDeposit call")
	}
	values, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, err
	}
	return &FinalizeDepositCall{
		L1Sender:   *abi.ConvertType(values[0], new(common.Address)).(*common.Address),
		L2Receiver: *abi.ConvertType(values[1], new(common.Address)).(*common.Address),
		L1Token:    *abi.ConvertType(values[2], new(common.Address)).(*common.Address),
		Amount:     *abi.ConvertType(values[3], new(*big.Int)).(**big.Int),
		Data:       *abi.ConvertType(values[4], new([]byte)).(*[]byte),
	}, nil
}

// EncodeDepositCalldata encodes the second bridge calldata of a two-bridges deposit.
func EncodeDepositCalldata(token common.Address, amount *big.Int, to common.Address) ([]byte, error) {
	return abi.Arguments{{Type: addressType}, {Type: uint256Type}, {Type: addressType}}.Pack(token, amount, to)
}

// EncodeERC20BridgeData encodes the token metadata forwarded to L2 on the first deposit of a token.
func EncodeERC20BridgeData(name, symbol string, decimals uint8) ([]byte, error) {
	stringArgs := abi.Arguments{{Type: stringType}}
	nameBytes, err := stringArgs.Pack(name)
	if err != nil {
		return nil, err
	}
	symbolBytes, err := stringArgs.Pack(symbol)
	if err != nil {
		return nil, err
	}
	decimalsBytes, err := abi.Arguments{{Type: uint256Type}}.Pack(new(big.Int).SetUint64(uint64(decimals)))
	if err != nil {
		return nil, err
	}
	return abi.Arguments{{Type: bytesType}, {Type: bytesType}, {Type: bytesType}}.Pack(nameBytes, symbolBytes, decimalsBytes)
}

// UnpackL1Message extracts the raw message of an L1MessageSent event.
func UnpackL1Message(data []byte) ([]byte, error) {
	values, err := l1MessengerABI.Unpack("L1MessageSent", data)
	if err != nil {
		return nil, err
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("unexpected L1MessageSent data: %d values", len(values))
	}
	return *abi.ConvertType(values[0], new([]byte)).(*[]byte), nil
}

// L2HashFromPriorityOp returns the canonical L2 tx hash of the priority operation requested in the L1 receipt.
func L2HashFromPriorityOp(receipt *types.Receipt, mainContract common.Address) (common.Hash, error) {
	for _, l := range receipt.Logs {
		if l.Address != mainContract || len(l.Topics) == 0 || l.Topics[0] != NewPriorityRequestSignatureHash {
			continue
		}
		// txId (32 bytes) precedes txHash in the event data
		if len(l.Data) < 64 { //nolint:gomnd
			return common.Hash{}, fmt.Errorf("malformed NewPriorityRequest event in tx %s", receipt.TxHash)
		}
		return common.BytesToHash(l.Data[32:64]), nil
	}
	return common.Hash{}, fmt.Errorf("failed to parse tx %s for the priority operation hash", receipt.TxHash)
}

func toBytes32Slice(hashes []common.Hash) [][32]byte {
	out := make([][32]byte, len(hashes))
	for i, h := range hashes {
		out[i] = h
	}
	return out
}
