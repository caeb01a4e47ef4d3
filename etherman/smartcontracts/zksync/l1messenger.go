package zksync

import "github.com/ethereum/go-ethereum/accounts/abi/bind"

// IL1MessengerMetaData contains the event emitted for every L2 to L1 message.
var IL1MessengerMetaData = &bind.MetaData{
	ABI: `[
{"type":"event","name":"L1MessageSent","anonymous":false,"inputs":[{"name":"_sender","type":"address","indexed":true},{"name":"_hash","type":"bytes32","indexed":true},{"name":"_message","type":"bytes","indexed":false}]}
]`,
}
