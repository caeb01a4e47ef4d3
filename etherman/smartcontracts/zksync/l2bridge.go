package zksync

import "github.com/ethereum/go-ethereum/accounts/abi/bind"

// IL2BridgeMetaData contains the L2 bridge functions shared by the legacy and shared bridges.
var IL2BridgeMetaData = &bind.MetaData{
	ABI: `[
{"type":"function","name":"finalizeDeposit","stateMutability":"payable","inputs":[{"name":"_l1Sender","type":"address"},{"name":"_l2Receiver","type":"address"},{"name":"_l1Token","type":"address"},{"name":"_amount","type":"uint256"},{"name":"_data","type":"bytes"}],"outputs":[]},
{"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"_l1Receiver","type":"address"},{"name":"_l2Token","type":"address"},{"name":"_amount","type":"uint256"}],"outputs":[]},
{"type":"function","name":"l1Bridge","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"l1TokenAddress","stateMutability":"view","inputs":[{"name":"_l2Token","type":"address"}],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"l2TokenAddress","stateMutability":"view","inputs":[{"name":"_l1Token","type":"address"}],"outputs":[{"name":"","type":"address"}]}
]`,
}

// IL2SharedBridgeMetaData adds the shared bridge getter to IL2BridgeMetaData.
var IL2SharedBridgeMetaData = &bind.MetaData{
	ABI: `[
{"type":"function","name":"l1SharedBridge","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]}
]`,
}
