package bridge

import (
	"context"
	"math/big"
	"time"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/zkstack-labs/bridgehub-sdk/etherman"
	"github.com/zkstack-labs/bridgehub-sdk/utils"
)

const defaultTxMinedTimeout = 2 * time.Minute

// Adapter moves assets between L1 and L2. It keeps no chain state between calls.
type Adapter struct {
	l1       L1Reader
	l2       L2Reader
	l1Signer Signer
	l2Signer Signer
	cfg      Config
	logger   *log.Logger

	onDepositSent func(DepositPath)
}

// NewAdapter creates an adapter. The L2 signer is only needed for withdrawals.
func NewAdapter(cfg Config, l1 L1Reader, l2 L2Reader, l1Signer, l2Signer Signer) *Adapter {
	if cfg.TxMinedTimeout.Duration == 0 {
		cfg.TxMinedTimeout.Duration = defaultTxMinedTimeout
	}
	return &Adapter{
		l1:       l1,
		l2:       l2,
		l1Signer: l1Signer,
		l2Signer: l2Signer,
		cfg:      cfg,
		logger:   log.WithFields("component", "bridge"),
	}
}

// OnDepositSent registers fn to be called with the path of every deposit sent by Deposit.
func (a *Adapter) OnDepositSent(fn func(DepositPath)) {
	a.onDepositSent = fn
}

// L1TransactionReceipt returns the receipt of an L1 transaction, ethereum.NotFound while it is not mined.
func (a *Adapter) L1TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return a.l1.TransactionReceipt(ctx, txHash)
}

// Address returns the L1 account of the adapter.
func (a *Adapter) Address() common.Address {
	return a.l1Signer.Address()
}

// ChainContext fetches the routing information of the L2 chain.
func (a *Adapter) ChainContext(ctx context.Context) (*ChainContext, error) {
	chainID, err := a.l2.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	bridgehub, err := a.l2.BridgehubContractAddress(ctx)
	if err != nil {
		return nil, err
	}
	baseToken, err := a.l1.BaseToken(ctx, bridgehub, chainID)
	if err != nil {
		return nil, err
	}
	sharedBridge, err := a.l1.SharedBridge(ctx, bridgehub)
	if err != nil {
		return nil, err
	}
	return &ChainContext{
		ChainID:         chainID,
		Bridgehub:       bridgehub,
		BaseToken:       baseToken,
		SharedBridge:    sharedBridge,
		IsETHBasedChain: baseToken == utils.ETHAddressInContracts,
	}, nil
}

// GetBalanceL1 returns the L1 balance of the signer in the given token.
func (a *Adapter) GetBalanceL1(ctx context.Context, token common.Address) (*big.Int, error) {
	if utils.IsETH(token) {
		return a.l1.BalanceAt(ctx, a.Address(), nil)
	}
	return a.l1.TokenBalance(ctx, token, a.Address())
}

func (a *Adapter) defaultBridges(ctx context.Context) (*etherman.BridgeContracts, error) {
	return a.l2.BridgeContracts(ctx)
}
