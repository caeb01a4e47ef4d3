package etherman

import (
	"context"
	"math/big"
	"strings"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

type eip712Meta struct {
	GasPerPubdata hexutil.Uint64 `json:"gasPerPubdata"`
}

type l1ToL2CallArgs struct {
	From       common.Address `json:"from"`
	To         common.Address `json:"to"`
	Data       hexutil.Bytes  `json:"data"`
	Value      *hexutil.Big   `json:"value,omitempty"`
	Eip712Meta eip712Meta     `json:"eip712Meta"`
}

// L2Client talks to the rollup node through the standard eth namespace and the zks extensions.
type L2Client struct {
	*ethclient.Client
	rpcClient *rpc.Client
	logger    *log.Logger
}

// NewL2Client connects to the L2 node.
func NewL2Client(url string) (*L2Client, error) {
	rpcClient, err := rpc.Dial(url)
	if err != nil {
		log.Errorf("error connecting to %s: %+v", url, err)
		return nil, err
	}
	return NewL2ClientFromRPC(rpcClient), nil
}

// NewL2ClientFromRPC wraps an already dialed rpc client.
func NewL2ClientFromRPC(rpcClient *rpc.Client) *L2Client {
	return &L2Client{
		Client:    ethclient.NewClient(rpcClient),
		rpcClient: rpcClient,
		logger:    log.WithFields("layer", "L2"),
	}
}

// MainContractAddress returns the address of the chain contract on L1.
func (c *L2Client) MainContractAddress(ctx context.Context) (common.Address, error) {
	var addr common.Address
	err := c.rpcClient.CallContext(ctx, &addr, "zks_getMainContract")
	return addr, err
}

// BridgehubContractAddress returns the address of the bridgehub on L1.
func (c *L2Client) BridgehubContractAddress(ctx context.Context) (common.Address, error) {
	var addr common.Address
	err := c.rpcClient.CallContext(ctx, &addr, "zks_getBridgehubContract")
	return addr, err
}

// BaseTokenL1Address returns the L1 address of the chain's base token.
func (c *L2Client) BaseTokenL1Address(ctx context.Context) (common.Address, error) {
	var addr common.Address
	err := c.rpcClient.CallContext(ctx, &addr, "zks_getBaseTokenL1Address")
	return addr, err
}

// BridgeContracts returns the default bridges on both layers.
func (c *L2Client) BridgeContracts(ctx context.Context) (*BridgeContracts, error) {
	var contracts BridgeContracts
	if err := c.rpcClient.CallContext(ctx, &contracts, "zks_getBridgeContracts"); err != nil {
		return nil, err
	}
	return &contracts, nil
}

// L2Receipt returns the receipt with the L2 to L1 logs, or nil when the tx is not mined yet.
func (c *L2Client) L2Receipt(ctx context.Context, txHash common.Hash) (*L2Receipt, error) {
	var receipt *L2Receipt
	if err := c.rpcClient.CallContext(ctx, &receipt, "eth_getTransactionReceipt", txHash); err != nil {
		return nil, err
	}
	return receipt, nil
}

// L2Transaction returns the transaction, or nil when it is unknown.
func (c *L2Client) L2Transaction(ctx context.Context, txHash common.Hash) (*L2Transaction, error) {
	var tx *L2Transaction
	if err := c.rpcClient.CallContext(ctx, &tx, "eth_getTransactionByHash", txHash); err != nil {
		return nil, err
	}
	return tx, nil
}

// LogProof returns the inclusion proof of the index-th L2 to L1 log of the tx, or nil when it is not available yet.
func (c *L2Client) LogProof(ctx context.Context, txHash common.Hash, index int) (*LogProof, error) {
	var proof *LogProof
	if err := c.rpcClient.CallContext(ctx, &proof, "zks_getL2ToL1LogProof", txHash, index); err != nil {
		return nil, err
	}
	return proof, nil
}

// EstimateGasL1ToL2 estimates the L2 gas of a call requested from L1.
func (c *L2Client) EstimateGasL1ToL2(ctx context.Context, call L1ToL2Call) (uint64, error) {
	args := l1ToL2CallArgs{
		From:       call.From,
		To:         call.To,
		Data:       call.Data,
		Eip712Meta: eip712Meta{GasPerPubdata: hexutil.Uint64(call.GasPerPubdataByte)},
	}
	if args.Data == nil {
		args.Data = hexutil.Bytes{}
	}
	if call.Value != nil {
		args.Value = (*hexutil.Big)(call.Value)
	}
	var gas hexutil.Uint64
	if err := c.rpcClient.CallContext(ctx, &gas, "zks_estimateGasL1ToL2", args); err != nil {
		c.logger.Debugf("zks_estimateGasL1ToL2 failed for call to %s: %v", call.To, err)
		return 0, err
	}
	return uint64(gas), nil
}

// IsL2BridgeLegacy reports whether the L2 bridge predates the shared bridge, i.e. calling its l1SharedBridge getter reverts.
// Any other failure is returned so a transport error never selects the legacy ABI.
func (c *L2Client) IsL2BridgeLegacy(ctx context.Context, l2Bridge common.Address) (bool, error) {
	_, err := c.L1SharedBridge(ctx, l2Bridge)
	if err == nil {
		return false, nil
	}
	if isMissingGetter(err) {
		c.logger.Debugf("bridge %s has no l1SharedBridge, assuming legacy: %v", l2Bridge, err)
		return true, nil
	}
	return false, errors.Wrapf(err, "checking l1SharedBridge of %s", l2Bridge)
}

// executionRevertedCode is the JSON-RPC error code nodes answer reverted calls with
const executionRevertedCode = 3

// isMissingGetter matches the errors of calling a function the contract does not implement:
// an execution revert, or an empty return when the contract has a fallback.
func isMissingGetter(err error) bool {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		if rpcErr.ErrorCode() == executionRevertedCode || strings.Contains(strings.ToLower(rpcErr.Error()), "revert") {
			return true
		}
	}
	return strings.Contains(err.Error(), "attempting to unmarshall an empty string")
}

// L1SharedBridge returns the L1 counterpart of an L2 shared bridge.
func (c *L2Client) L1SharedBridge(ctx context.Context, l2Bridge common.Address) (common.Address, error) {
	return callAddress(ctx, c.Client, l2Bridge, l2SharedBridgeABI, "l1SharedBridge")
}

// L1Bridge returns the L1 counterpart of a legacy L2 bridge.
func (c *L2Client) L1Bridge(ctx context.Context, l2Bridge common.Address) (common.Address, error) {
	return callAddress(ctx, c.Client, l2Bridge, l2BridgeABI, "l1Bridge")
}

// L2TokenAddress returns the L2 representation of an L1 token on the given bridge.
func (c *L2Client) L2TokenAddress(ctx context.Context, l2Bridge, l1Token common.Address) (common.Address, error) {
	return callAddress(ctx, c.Client, l2Bridge, l2BridgeABI, "l2TokenAddress", l1Token)
}

// L1ChainID returns the chain id of the settlement layer.
func (c *L2Client) L1ChainID(ctx context.Context) (*big.Int, error) {
	var id hexutil.Big
	if err := c.rpcClient.CallContext(ctx, &id, "zks_L1ChainId"); err != nil {
		return nil, err
	}
	return (*big.Int)(&id), nil
}
