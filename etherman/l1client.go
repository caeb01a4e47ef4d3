package etherman

import (
	"context"
	"math/big"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// L1Client reads the bridgehub, bridges and tokens deployed on the settlement layer.
type L1Client struct {
	*ethclient.Client
}

// NewL1Client connects to the L1 node.
func NewL1Client(url string) (*L1Client, error) {
	ethClient, err := ethclient.Dial(url)
	if err != nil {
		log.Errorf("error connecting to %s: %+v", url, err)
		return nil, err
	}
	return &L1Client{Client: ethClient}, nil
}

// FeeData returns the base fee of the latest block together with the suggested tip and gas price.
func (c *L1Client) FeeData(ctx context.Context) (*FeeData, error) {
	header, err := c.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, err
	}
	gasPrice, err := c.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}
	fd := &FeeData{GasPrice: gasPrice}
	if header.BaseFee != nil {
		fd.BaseFee = new(big.Int).Set(header.BaseFee)
		fd.MaxPriorityFeePerGas, err = c.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, err
		}
	}
	return fd, nil
}

// BaseToken returns the L1 address of the base token of the chain.
func (c *L1Client) BaseToken(ctx context.Context, bridgehub common.Address, chainID *big.Int) (common.Address, error) {
	return callAddress(ctx, c.Client, bridgehub, bridgehubABI, "baseToken", chainID)
}

// SharedBridge returns the L1 shared bridge registered in the bridgehub.
func (c *L1Client) SharedBridge(ctx context.Context, bridgehub common.Address) (common.Address, error) {
	return callAddress(ctx, c.Client, bridgehub, bridgehubABI, "sharedBridge")
}

// L2BridgeAddress returns the L2 counterpart of an L1 bridge for the chain.
func (c *L1Client) L2BridgeAddress(ctx context.Context, l1Bridge common.Address, chainID *big.Int) (common.Address, error) {
	return callAddress(ctx, c.Client, l1Bridge, l1SharedBridgeABI, "l2BridgeAddress", chainID)
}

// L2TransactionBaseCost returns the base token amount required to execute an L1 to L2 transaction.
func (c *L1Client) L2TransactionBaseCost(ctx context.Context, bridgehub common.Address, chainID, gasPrice, l2GasLimit, gasPerPubdataByte *big.Int) (*big.Int, error) {
	out, err := callContract(ctx, c.Client, bridgehub, bridgehubABI, "l2TransactionBaseCost", chainID, gasPrice, l2GasLimit, gasPerPubdataByte)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// Allowance returns the ERC20 allowance granted by owner to spender.
func (c *L1Client) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	out, err := callContract(ctx, c.Client, token, erc20ABI, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// TokenBalance returns the ERC20 balance of owner.
func (c *L1Client) TokenBalance(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	out, err := callContract(ctx, c.Client, token, erc20ABI, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// TokenMetadata returns the name, symbol and decimals of an ERC20 token.
func (c *L1Client) TokenMetadata(ctx context.Context, token common.Address) (string, string, uint8, error) {
	out, err := callContract(ctx, c.Client, token, erc20ABI, "name")
	if err != nil {
		return "", "", 0, err
	}
	name := *abi.ConvertType(out[0], new(string)).(*string)
	out, err = callContract(ctx, c.Client, token, erc20ABI, "symbol")
	if err != nil {
		return "", "", 0, err
	}
	symbol := *abi.ConvertType(out[0], new(string)).(*string)
	out, err = callContract(ctx, c.Client, token, erc20ABI, "decimals")
	if err != nil {
		return "", "", 0, err
	}
	decimals := *abi.ConvertType(out[0], new(uint8)).(*uint8)
	return name, symbol, decimals, nil
}

// IsWithdrawalFinalized checks the L1 bridge for a processed withdrawal. The legacy bridge is not keyed by chain id.
func (c *L1Client) IsWithdrawalFinalized(ctx context.Context, l1Bridge common.Address, legacy bool, chainID, l1BatchNumber, l2MessageIndex *big.Int) (bool, error) {
	var (
		out []interface{}
		err error
	)
	if legacy {
		out, err = callContract(ctx, c.Client, l1Bridge, l1ERC20BridgeABI, "isWithdrawalFinalized", l1BatchNumber, l2MessageIndex)
	} else {
		out, err = callContract(ctx, c.Client, l1Bridge, l1SharedBridgeABI, "isWithdrawalFinalized", chainID, l1BatchNumber, l2MessageIndex)
	}
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}
