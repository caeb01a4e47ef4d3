package utils

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// l1ToL2AliasOffset is added to an L1 contract address when it sends an L1 to L2 transaction.
var l1ToL2AliasOffset = new(uint256.Int).SetBytes(common.HexToAddress("0x1111000000000000000000000000000000001111").Bytes())

var addressModulus = new(uint256.Int).Lsh(uint256.NewInt(1), common.AddressLength*8)

// ApplyL1ToL2Alias returns the address that msg.sender takes on L2 for an L1 contract.
func ApplyL1ToL2Alias(address common.Address) common.Address {
	v := new(uint256.Int).SetBytes(address.Bytes())
	v.AddMod(v, l1ToL2AliasOffset, addressModulus)
	return toAddress(v)
}

// UndoL1ToL2Alias recovers the L1 contract address from an aliased L2 sender.
func UndoL1ToL2Alias(address common.Address) common.Address {
	v := new(uint256.Int).SetBytes(address.Bytes())
	// v - offset mod 2^160, computed as v + (2^160 - offset)
	complement := new(uint256.Int).Sub(addressModulus, l1ToL2AliasOffset)
	v.AddMod(v, complement, addressModulus)
	return toAddress(v)
}

func toAddress(v *uint256.Int) common.Address {
	b := v.Bytes32()
	return common.BytesToAddress(b[32-common.AddressLength:])
}
