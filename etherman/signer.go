package etherman

import (
	"context"
	"fmt"
	"math/big"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// SignerBackend is the client side needed to complete, sign and broadcast a transaction.
type SignerBackend interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// Signer signs transactions with a local key and sends them through its backend.
type Signer struct {
	backend SignerBackend
	auth    *bind.TransactOpts
	chainID *big.Int
	logger  *log.Logger
}

// NewSigner creates a signer for the given chain.
func NewSigner(backend SignerBackend, auth *bind.TransactOpts, chainID *big.Int) *Signer {
	return &Signer{
		backend: backend,
		auth:    auth,
		chainID: chainID,
		logger:  log.WithFields("signer", auth.From.String(), "chainID", chainID.String()),
	}
}

// Address returns the account of the signer.
func (s *Signer) Address() common.Address {
	return s.auth.From
}

// SendTransaction fills the nonce, gas limit and fees left unset in the request, signs it and broadcasts it.
func (s *Signer) SendTransaction(ctx context.Context, req *TxRequest) (*types.Transaction, error) {
	if req.From != (common.Address{}) && req.From != s.auth.From {
		return nil, fmt.Errorf("request from %s cannot be signed by %s", req.From, s.auth.From)
	}
	var nonce uint64
	if req.Nonce != nil {
		nonce = *req.Nonce
	} else {
		n, err := s.backend.PendingNonceAt(ctx, s.auth.From)
		if err != nil {
			return nil, err
		}
		nonce = n
	}
	value := req.Value
	if value == nil {
		value = new(big.Int)
	}
	gasLimit := req.GasLimit
	if gasLimit == 0 {
		estimated, err := s.backend.EstimateGas(ctx, ethereum.CallMsg{
			From:      s.auth.From,
			To:        req.To,
			Value:     value,
			Data:      req.Data,
			GasPrice:  req.GasPrice,
			GasFeeCap: req.MaxFeePerGas,
			GasTipCap: req.MaxPriorityFeePerGas,
		})
		if err != nil {
			s.logger.Errorf("error estimating gas: %v", err)
			return nil, err
		}
		gasLimit = estimated
	}

	var txData types.TxData
	if req.MaxFeePerGas != nil {
		tip := req.MaxPriorityFeePerGas
		if tip == nil {
			tip = req.MaxFeePerGas
		}
		txData = &types.DynamicFeeTx{
			ChainID:   s.chainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: req.MaxFeePerGas,
			Gas:       gasLimit,
			To:        req.To,
			Value:     value,
			Data:      req.Data,
		}
	} else {
		gasPrice := req.GasPrice
		if gasPrice == nil {
			gp, err := s.backend.SuggestGasPrice(ctx)
			if err != nil {
				return nil, err
			}
			gasPrice = gp
		}
		txData = &types.LegacyTx{
			Nonce:    nonce,
			GasPrice: gasPrice,
			Gas:      gasLimit,
			To:       req.To,
			Value:    value,
			Data:     req.Data,
		}
	}

	signedTx, err := s.auth.Signer(s.auth.From, types.NewTx(txData))
	if err != nil {
		return nil, err
	}
	if err := s.backend.SendTransaction(ctx, signedTx); err != nil {
		s.logger.Errorf("error sending tx: %v", err)
		return nil, err
	}
	s.logger.Debugf("tx %s sent, nonce %d", signedTx.Hash(), nonce)
	return signedTx, nil
}
