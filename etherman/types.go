package etherman

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// BridgeContracts are the default bridge addresses reported by zks_getBridgeContracts.
type BridgeContracts struct {
	L1Erc20DefaultBridge  common.Address `json:"l1Erc20DefaultBridge"`
	L2Erc20DefaultBridge  common.Address `json:"l2Erc20DefaultBridge"`
	L1WethBridge          common.Address `json:"l1WethBridge"`
	L2WethBridge          common.Address `json:"l2WethBridge"`
	L1SharedDefaultBridge common.Address `json:"l1SharedDefaultBridge"`
	L2SharedDefaultBridge common.Address `json:"l2SharedDefaultBridge"`
}

// L2ToL1Log is a system log included in the L1 batch commitment.
type L2ToL1Log struct {
	BlockNumber     hexutil.Uint64 `json:"blockNumber"`
	BlockHash       common.Hash    `json:"blockHash"`
	L1BatchNumber   hexutil.Uint64 `json:"l1BatchNumber"`
	TransactionIdx  hexutil.Uint64 `json:"transactionIndex"`
	ShardID         hexutil.Uint64 `json:"shardId"`
	IsService       bool           `json:"isService"`
	Sender          common.Address `json:"sender"`
	Key             common.Hash    `json:"key"`
	Value           common.Hash    `json:"value"`
	TransactionHash common.Hash    `json:"transactionHash"`
	LogIndex        hexutil.Uint64 `json:"logIndex"`
}

// L2Log is an event log with the L1 batch it was included in.
type L2Log struct {
	Address       common.Address  `json:"address"`
	Topics        []common.Hash   `json:"topics"`
	Data          hexutil.Bytes   `json:"data"`
	BlockNumber   hexutil.Uint64  `json:"blockNumber"`
	TxHash        common.Hash     `json:"transactionHash"`
	TxIndex       hexutil.Uint64  `json:"transactionIndex"`
	BlockHash     common.Hash     `json:"blockHash"`
	Index         hexutil.Uint64  `json:"logIndex"`
	L1BatchNumber *hexutil.Uint64 `json:"l1BatchNumber"`
	Removed       bool            `json:"removed"`
}

// L2Receipt is the L2 transaction receipt extended with the batch position and the L2 to L1 logs.
type L2Receipt struct {
	TxHash         common.Hash     `json:"transactionHash"`
	BlockHash      common.Hash     `json:"blockHash"`
	BlockNumber    *hexutil.Big    `json:"blockNumber"`
	From           common.Address  `json:"from"`
	To             *common.Address `json:"to"`
	Status         hexutil.Uint64  `json:"status"`
	GasUsed        hexutil.Uint64  `json:"gasUsed"`
	Logs           []*L2Log        `json:"logs"`
	L2ToL1Logs     []*L2ToL1Log    `json:"l2ToL1Logs"`
	L1BatchNumber  *hexutil.Uint64 `json:"l1BatchNumber"`
	L1BatchTxIndex *hexutil.Uint64 `json:"l1BatchTxIndex"`
}

// Successful reports whether the L2 transaction succeeded.
func (r *L2Receipt) Successful() bool {
	return uint64(r.Status) == types.ReceiptStatusSuccessful
}

// L2Transaction contains the fields of an L2 transaction needed to replay its calldata.
type L2Transaction struct {
	Hash  common.Hash     `json:"hash"`
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to"`
	Input hexutil.Bytes   `json:"input"`
	Value *hexutil.Big    `json:"value"`
}

// LogProof is the merkle inclusion proof of an L2 to L1 log in its batch.
type LogProof struct {
	Proof []common.Hash `json:"proof"`
	ID    uint64        `json:"id"`
	Root  common.Hash   `json:"root"`
}

// FeeData is the current L1 fee market snapshot.
type FeeData struct {
	// BaseFee is nil on chains without EIP-1559
	BaseFee              *big.Int
	GasPrice             *big.Int
	MaxPriorityFeePerGas *big.Int
}

// TxRequest is an unsigned transaction. Fee fields left nil are filled by the signer.
type TxRequest struct {
	From                 common.Address
	To                   *common.Address
	Data                 []byte
	Value                *big.Int
	Nonce                *uint64
	GasLimit             uint64
	GasPrice             *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// L1ToL2Call is an L2 call simulated as if it was requested from L1.
type L1ToL2Call struct {
	From              common.Address
	To                common.Address
	Data              []byte
	Value             *big.Int
	GasPerPubdataByte uint64
}
