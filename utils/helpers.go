package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
	"github.com/zkstack-labs/bridgehub-sdk/gerror"
)

// ToUint256 converts an ABI quantity into a 256-bit integer. Nil is read as zero.
func ToUint256(v *big.Int) (*uint256.Int, error) {
	if v == nil {
		return new(uint256.Int), nil
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("negative quantity %s: %w", v, gerror.ErrUint256Overflow)
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, fmt.Errorf("quantity %s: %w", v, gerror.ErrUint256Overflow)
	}
	return u, nil
}

// SumUint256 adds the quantities with overflow detection.
func SumUint256(values ...*big.Int) (*big.Int, error) {
	total := new(uint256.Int)
	for _, v := range values {
		u, err := ToUint256(v)
		if err != nil {
			return nil, err
		}
		if _, overflow := total.AddOverflow(total, u); overflow {
			return nil, gerror.ErrUint256Overflow
		}
	}
	return total.ToBig(), nil
}

// MulUint256 multiplies the quantities with overflow detection.
func MulUint256(a, b *big.Int) (*big.Int, error) {
	x, err := ToUint256(a)
	if err != nil {
		return nil, err
	}
	y, err := ToUint256(b)
	if err != nil {
		return nil, err
	}
	if _, overflow := x.MulOverflow(x, y); overflow {
		return nil, gerror.ErrUint256Overflow
	}
	return x.ToBig(), nil
}

// ScaleGasLimit applies the L1 gas buffer to an estimation.
func ScaleGasLimit(gasLimit uint64) uint64 {
	return gasLimit * L1GasBufferNumerator / L1GasBufferDenominator
}

const etherDecimals = 18

// FormatEther renders a wei amount as a decimal ETH string, without trailing zeros.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0.0"
	}
	unit := big.NewInt(params.Ether)
	integer, fraction := new(big.Int).QuoRem(wei, unit, new(big.Int))
	frac := fraction.String()
	frac = strings.Repeat("0", etherDecimals-len(frac)) + frac
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		frac = "0"
	}
	return integer.String() + "." + frac
}
