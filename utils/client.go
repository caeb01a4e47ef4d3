package utils

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	zkevmtypes "github.com/0xPolygonHermez/zkevm-node/config/types"
	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/zkstack-labs/bridgehub-sdk/gerror"
)

const txPollingInterval = time.Second

// ReceiptReader is the subset of an ethereum client needed to follow a transaction.
type ReceiptReader interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// GetSignerFromKeystore returns a transaction signer from the keystore file.
func GetSignerFromKeystore(ks zkevmtypes.KeystoreFileConfig, chainID *big.Int) (*bind.TransactOpts, error) {
	keystoreEncrypted, err := os.ReadFile(filepath.Clean(ks.Path))
	if err != nil {
		return nil, err
	}
	key, err := keystore.DecryptKey(keystoreEncrypted, ks.Password)
	if err != nil {
		return nil, err
	}
	return bind.NewKeyedTransactorWithChainID(key.PrivateKey, chainID)
}

// GetSignerFromHexKey returns a transaction signer from a hex encoded private key.
func GetSignerFromHexKey(accHexPrivateKey string, chainID *big.Int) (*bind.TransactOpts, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(accHexPrivateKey, "0x"))
	if err != nil {
		return nil, err
	}
	return bind.NewKeyedTransactorWithChainID(privateKey, chainID)
}

// CheckTxWasMined check if a tx was already mined
func CheckTxWasMined(ctx context.Context, client ReceiptReader, txHash common.Hash) (bool, *types.Receipt, error) {
	receipt, err := client.TransactionReceipt(ctx, txHash)
	if errors.Is(err, ethereum.NotFound) {
		return false, nil, nil
	} else if err != nil {
		return false, nil, err
	}

	return true, receipt, nil
}

// WaitTxToBeMined waits until a tx has been mined or the given timeout expires.
// A receipt with a failed status is reported as gerror.ErrTxReverted.
func WaitTxToBeMined(ctx context.Context, client ReceiptReader, txHash common.Hash, timeout time.Duration) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(txPollingInterval)
	defer ticker.Stop()
	for {
		mined, receipt, err := CheckTxWasMined(ctx, client, txHash)
		if err != nil {
			log.Errorf("error checking tx %s: %v", txHash, err)
			return nil, err
		}
		if mined {
			if receipt.Status == types.ReceiptStatusFailed {
				return receipt, fmt.Errorf("tx %s: %w", txHash, gerror.ErrTxReverted)
			}
			return receipt, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for tx %s: %w", txHash, ctx.Err())
		case <-ticker.C:
		}
	}
}
