package etherman

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/zkstack-labs/bridgehub-sdk/etherman/smartcontracts/zksync"
	"github.com/zkstack-labs/bridgehub-sdk/utils"
	"golang.org/x/crypto/sha3"
)

var (
	bridgehubABI      = mustParseABI(zksync.BridgehubMetaData)
	erc20ABI          = mustParseABI(zksync.IERC20MetaData)
	l1SharedBridgeABI = mustParseABI(zksync.IL1SharedBridgeMetaData)
	l1ERC20BridgeABI  = mustParseABI(zksync.IL1ERC20BridgeMetaData)
	l2BridgeABI       = mustParseABI(zksync.IL2BridgeMetaData)
	l2SharedBridgeABI = mustParseABI(zksync.IL2SharedBridgeMetaData)
	ethTokenABI       = mustParseABI(zksync.IEthTokenMetaData)
	l1MessengerABI    = mustParseABI(zksync.IL1MessengerMetaData)

	// L1MessageSentSignatureHash is the topic of the L1 messenger withdrawal event
	L1MessageSentSignatureHash = keccak256Hash([]byte(utils.L1MessageSentEventSignature))
	// NewPriorityRequestSignatureHash is the topic of the priority operation event on L1
	NewPriorityRequestSignatureHash = keccak256Hash([]byte(utils.NewPriorityRequestEventSignature))

	addressType = mustNewType("address")
	uint256Type = mustNewType("uint256")
	bytesType   = mustNewType("bytes")
	stringType  = mustNewType("string")
)

func mustParseABI(md *bind.MetaData) *abi.ABI {
	parsed, err := md.GetAbi()
	if err != nil {
		panic(err)
	}
	return parsed
}

func mustNewType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

func keccak256Hash(data ...[]byte) common.Hash {
	hasher := sha3.NewLegacyKeccak256()
	for _, b := range data {
		hasher.Write(b) //nolint:errcheck,gosec
	}
	return common.BytesToHash(hasher.Sum(nil))
}
