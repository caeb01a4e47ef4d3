package zksync

import "github.com/ethereum/go-ethereum/accounts/abi/bind"

// IEthTokenMetaData contains the withdraw function of the L2 base token system contract.
var IEthTokenMetaData = &bind.MetaData{
	ABI: `[
{"type":"function","name":"withdraw","stateMutability":"payable","inputs":[{"name":"_l1Receiver","type":"address"}],"outputs":[]}
]`,
}
