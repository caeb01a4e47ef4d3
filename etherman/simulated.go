package etherman

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/backends"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
)

// NewSimulatedSigner creates a signer backed by a simulated blockchain. It's important to notice that the ChainID of the auth
// must be 1337. The address that holds the auth will have an initial balance of 10000000 ETH
func NewSimulatedSigner(auth *bind.TransactOpts) (*Signer, *backends.SimulatedBackend, error) {
	if auth == nil {
		return nil, nil, fmt.Errorf("simulated signer needs an auth")
	}
	// 10000000 ETH in wei
	balance, _ := new(big.Int).SetString("10000000000000000000000000", 10) //nolint:gomnd
	genesisAlloc := map[common.Address]core.GenesisAccount{
		auth.From: {
			Balance: balance,
		},
	}
	blockGasLimit := uint64(999999999999999999) //nolint:gomnd
	client := backends.NewSimulatedBackend(genesisAlloc, blockGasLimit)
	return NewSigner(client, auth, big.NewInt(1337)), client, nil //nolint:gomnd
}
