package zksync

import "github.com/ethereum/go-ethereum/accounts/abi/bind"

// IL1ERC20BridgeMetaData contains the legacy single-chain L1 bridge functions.
var IL1ERC20BridgeMetaData = &bind.MetaData{
	ABI: `[
{"type":"function","name":"finalizeWithdrawal","stateMutability":"nonpayable","inputs":[{"name":"_l2BatchNumber","type":"uint256"},{"name":"_l2MessageIndex","type":"uint256"},{"name":"_l2TxNumberInBatch","type":"uint16"},{"name":"_message","type":"bytes"},{"name":"_merkleProof","type":"bytes32[]"}],"outputs":[]},
{"type":"function","name":"isWithdrawalFinalized","stateMutability":"view","inputs":[{"name":"_l2BatchNumber","type":"uint256"},{"name":"_l2MessageIndex","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"claimFailedDeposit","stateMutability":"nonpayable","inputs":[{"name":"_depositSender","type":"address"},{"name":"_l1Token","type":"address"},{"name":"_l2TxHash","type":"bytes32"},{"name":"_l2BatchNumber","type":"uint256"},{"name":"_l2MessageIndex","type":"uint256"},{"name":"_l2TxNumberInBatch","type":"uint16"},{"name":"_merkleProof","type":"bytes32[]"}],"outputs":[]},
{"type":"function","name":"l2Bridge","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]}
]`,
}
