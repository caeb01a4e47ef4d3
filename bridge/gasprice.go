package bridge

import (
	"context"
	"math/big"

	"github.com/zkstack-labs/bridgehub-sdk/etherman"
	"github.com/zkstack-labs/bridgehub-sdk/utils"
)

type feeDataReader interface {
	FeeData(ctx context.Context) (*etherman.FeeData, error)
}

// InsertGasPrice fills the fee fields of overrides when neither a gas price nor a fee cap was given.
// With EIP-1559 the fee cap is 1.5 times the current base fee plus the suggested tip.
func InsertGasPrice(ctx context.Context, l1 feeDataReader, overrides *Overrides) error {
	if overrides.GasPrice != nil || overrides.MaxFeePerGas != nil {
		return nil
	}
	fd, err := l1.FeeData(ctx)
	if err != nil {
		return err
	}
	if fd.BaseFee == nil {
		overrides.GasPrice = copyBig(fd.GasPrice)
		return nil
	}
	tip := orZero(fd.MaxPriorityFeePerGas)
	scaledBaseFee, err := utils.MulUint256(fd.BaseFee, big.NewInt(3)) //nolint:gomnd
	if err != nil {
		return err
	}
	scaledBaseFee.Div(scaledBaseFee, big.NewInt(2)) //nolint:gomnd
	maxFee, err := utils.SumUint256(scaledBaseFee, tip)
	if err != nil {
		return err
	}
	overrides.MaxFeePerGas = maxFee
	overrides.MaxPriorityFeePerGas = copyBig(tip)
	return nil
}
