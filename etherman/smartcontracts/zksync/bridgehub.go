// Package zksync holds the ABI metadata of the L1 and L2 contracts used by the bridge.
package zksync

import "github.com/ethereum/go-ethereum/accounts/abi/bind"

// BridgehubMetaData contains the subset of the Bridgehub ABI used for deposits.
var BridgehubMetaData = &bind.MetaData{
	ABI: `[
{"type":"function","name":"baseToken","stateMutability":"view","inputs":[{"name":"_chainId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"sharedBridge","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"getHyperchain","stateMutability":"view","inputs":[{"name":"_chainId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"l2TransactionBaseCost","stateMutability":"view","inputs":[{"name":"_chainId","type":"uint256"},{"name":"_gasPrice","type":"uint256"},{"name":"_l2GasLimit","type":"uint256"},{"name":"_l2GasPerPubdataByteLimit","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"requestL2TransactionDirect","stateMutability":"payable","inputs":[{"name":"_request","type":"tuple","components":[{"name":"chainId","type":"uint256"},{"name":"mintValue","type":"uint256"},{"name":"l2Contract","type":"address"},{"name":"l2Value","type":"uint256"},{"name":"l2Calldata","type":"bytes"},{"name":"l2GasLimit","type":"uint256"},{"name":"l2GasPerPubdataByteLimit","type":"uint256"},{"name":"factoryDeps","type":"bytes[]"},{"name":"refundRecipient","type":"address"}]}],"outputs":[{"name":"canonicalTxHash","type":"bytes32"}]},
{"type":"function","name":"requestL2TransactionTwoBridges","stateMutability":"payable","inputs":[{"name":"_request","type":"tuple","components":[{"name":"chainId","type":"uint256"},{"name":"mintValue","type":"uint256"},{"name":"l2Value","type":"uint256"},{"name":"l2GasLimit","type":"uint256"},{"name":"l2GasPerPubdataByteLimit","type":"uint256"},{"name":"refundRecipient","type":"address"},{"name":"secondBridgeAddress","type":"address"},{"name":"secondBridgeValue","type":"uint256"},{"name":"secondBridgeCalldata","type":"bytes"}]}],"outputs":[{"name":"canonicalTxHash","type":"bytes32"}]}
]`,
}
