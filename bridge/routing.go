package bridge

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/zkstack-labs/bridgehub-sdk/utils"
)

// DepositPath is one of the five on-chain call patterns a deposit can take.
type DepositPath int

const (
	// PathETHOnETHBasedChain deposits ETH to a chain paying gas in ETH, through a direct request
	PathETHOnETHBasedChain DepositPath = iota
	// PathTokenOnETHBasedChain deposits an ERC20 to a chain paying gas in ETH, through the ERC20 bridge
	PathTokenOnETHBasedChain
	// PathETHOnNonETHBasedChain deposits ETH as a regular asset to a chain with a custom base token
	PathETHOnNonETHBasedChain
	// PathBaseTokenOnNonETHBasedChain deposits the custom base token through a direct request
	PathBaseTokenOnNonETHBasedChain
	// PathNonBaseTokenOnNonETHBasedChain deposits a third party token, paying gas in the custom base token
	PathNonBaseTokenOnNonETHBasedChain
)

func (p DepositPath) String() string {
	switch p {
	case PathETHOnETHBasedChain:
		return "eth_on_eth_based_chain"
	case PathTokenOnETHBasedChain:
		return "token_on_eth_based_chain"
	case PathETHOnNonETHBasedChain:
		return "eth_on_non_eth_based_chain"
	case PathBaseTokenOnNonETHBasedChain:
		return "base_token_on_non_eth_based_chain"
	case PathNonBaseTokenOnNonETHBasedChain:
		return "non_base_token_on_non_eth_based_chain"
	}
	return "unknown"
}

// IsDirect reports whether the path uses requestL2TransactionDirect.
func (p DepositPath) IsDirect() bool {
	return p == PathETHOnETHBasedChain || p == PathBaseTokenOnNonETHBasedChain
}

// ClassifyDeposit selects the deposit path. On an ETH based chain the base token is ETH,
// so tokenIsBaseToken is only meaningful for the other chains.
func ClassifyDeposit(isETHBasedChain, tokenIsETH, tokenIsBaseToken bool) DepositPath {
	switch {
	case isETHBasedChain && tokenIsETH:
		return PathETHOnETHBasedChain
	case isETHBasedChain:
		return PathTokenOnETHBasedChain
	case tokenIsETH:
		return PathETHOnNonETHBasedChain
	case tokenIsBaseToken:
		return PathBaseTokenOnNonETHBasedChain
	default:
		return PathNonBaseTokenOnNonETHBasedChain
	}
}

// classify normalizes the token and routes it against the chain.
func (c *ChainContext) classify(token common.Address) DepositPath {
	token = utils.NormalizeToken(token)
	return ClassifyDeposit(c.IsETHBasedChain, token == utils.ETHAddressInContracts, token == c.BaseToken)
}
