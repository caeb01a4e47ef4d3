package main

import (
	"context"
	"math/big"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/urfave/cli/v2"
	"github.com/zkstack-labs/bridgehub-sdk/bridge"
	"github.com/zkstack-labs/bridgehub-sdk/config"
	"github.com/zkstack-labs/bridgehub-sdk/etherman"
	"github.com/zkstack-labs/bridgehub-sdk/metrics"
	"github.com/zkstack-labs/bridgehub-sdk/utils"
)

func setupLog(c log.Config) {
	log.Init(c)
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	c, err := config.Load(ctx.String(flagCfg))
	if err != nil {
		return nil, err
	}
	setupLog(c.Log)
	return c, nil
}

func newTransactor(c config.SignerConfig, chainID *big.Int) (*bind.TransactOpts, error) {
	if c.HexPrivateKey != "" {
		return utils.GetSignerFromHexKey(c.HexPrivateKey, chainID)
	}
	return utils.GetSignerFromKeystore(c.PrivateKey, chainID)
}

func newAdapter(ctx context.Context, c *config.Config) (*bridge.Adapter, error) {
	l1Client, err := etherman.NewL1Client(c.Etherman.L1URL)
	if err != nil {
		return nil, err
	}
	l2Client, err := etherman.NewL2Client(c.Etherman.L2URL)
	if err != nil {
		return nil, err
	}
	l1ChainID, err := l1Client.ChainID(ctx)
	if err != nil {
		log.Errorf("error getting L1 chain id: %v", err)
		return nil, err
	}
	l2ChainID, err := l2Client.ChainID(ctx)
	if err != nil {
		log.Errorf("error getting L2 chain id: %v", err)
		return nil, err
	}
	l1Auth, err := newTransactor(c.Signer, l1ChainID)
	if err != nil {
		log.Errorf("error loading the signer key: %v", err)
		return nil, err
	}
	l2Auth, err := newTransactor(c.Signer, l2ChainID)
	if err != nil {
		return nil, err
	}
	l1Signer := etherman.NewSigner(l1Client, l1Auth, l1ChainID)
	l2Signer := etherman.NewSigner(l2Client, l2Auth, l2ChainID)
	adapter := bridge.NewAdapter(c.Bridge, l1Client, l2Client, l1Signer, l2Signer)
	adapter.OnDepositSent(func(path bridge.DepositPath) {
		metrics.RecordDeposit(path.String())
	})
	return adapter, nil
}
