package main

import (
	"fmt"
	"math/big"

	"github.com/0xPolygonHermez/zkevm-node/encoding"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// parseBig parses a base 10 flag value, an empty value is nil
func parseBig(name, value string) (*big.Int, error) {
	if value == "" {
		return nil, nil
	}
	v, ok := new(big.Int).SetString(value, encoding.Base10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid %s: %q", name, value)
	}
	return v, nil
}

// parseAddress parses an address flag value, an empty value is nil
func parseAddress(name, value string) (*common.Address, error) {
	if value == "" {
		return nil, nil
	}
	if !common.IsHexAddress(value) {
		return nil, fmt.Errorf("invalid %s: %q", name, value)
	}
	addr := common.HexToAddress(value)
	return &addr, nil
}

func parseHash(name, value string) (common.Hash, error) {
	b, err := hexutil.Decode(value)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid %s: %q", name, value)
	}
	return common.BytesToHash(b), nil
}

func parseBytes(name, value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	b, err := hexutil.Decode(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return b, nil
}

func addressOrZero(addr *common.Address) common.Address {
	if addr == nil {
		return common.Address{}
	}
	return *addr
}
