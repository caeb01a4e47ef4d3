package utils

import (
	"github.com/ethereum/go-ethereum/common"
)

var (
	// ETHAddressInContracts is the sentinel used by the L1 contracts for the native token
	ETHAddressInContracts = common.HexToAddress("0x0000000000000000000000000000000000000001")
	// LegacyETHAddress is the zero address, accepted as an alias of ETHAddressInContracts
	LegacyETHAddress = common.Address{}
	// L2BaseTokenAddress is the system contract holding the base token on L2
	L2BaseTokenAddress = common.HexToAddress("0x000000000000000000000000000000000000800a")
	// L1MessengerAddress is the system contract that sends L2 to L1 messages
	L1MessengerAddress = common.HexToAddress("0x0000000000000000000000000000000000008008")
	// BootloaderFormalAddress is the sender of the L2 to L1 logs that report priority operation results
	BootloaderFormalAddress = common.HexToAddress("0x0000000000000000000000000000000000008001")
)

const (
	// RequiredL1ToL2GasPerPubdataLimit is the gas per pubdata byte used by default for L1 to L2 transactions
	RequiredL1ToL2GasPerPubdataLimit uint64 = 800

	// L1RecommendedMinETHDepositGasLimit is the L1 gas limit suggested for ETH deposits
	L1RecommendedMinETHDepositGasLimit uint64 = 200000
	// L1RecommendedMinERC20DepositGasLimit is the L1 gas limit suggested for ERC20 deposits
	L1RecommendedMinERC20DepositGasLimit uint64 = 400000

	// L1GasBufferNumerator and L1GasBufferDenominator scale the L1 gas estimations
	L1GasBufferNumerator   = 12
	L1GasBufferDenominator = 10
)

const (
	// L1MessageSentEventSignature is emitted by the L1 messenger for every withdrawal
	L1MessageSentEventSignature = "L1MessageSent(address,bytes32,bytes)"
	// NewPriorityRequestEventSignature is emitted by the chain contract for every L1 to L2 transaction
	NewPriorityRequestEventSignature = "NewPriorityRequest(uint256,bytes32,uint64,(uint256,uint256,uint256,uint256,uint256,uint256,uint256,uint256,uint256,uint256,uint256[4],bytes,bytes,uint256[],bytes,bytes),bytes[])"
)

// IsETH reports whether the token is the native token sentinel or its legacy alias.
func IsETH(token common.Address) bool {
	return token == ETHAddressInContracts || token == LegacyETHAddress
}

// NormalizeToken maps the legacy zero address to ETHAddressInContracts.
func NormalizeToken(token common.Address) common.Address {
	if token == LegacyETHAddress {
		return ETHAddressInContracts
	}
	return token
}
