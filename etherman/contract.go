package etherman

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

func callContract(ctx context.Context, caller bind.ContractCaller, address common.Address, contractABI *abi.ABI, method string, params ...interface{}) ([]interface{}, error) {
	contract := bind.NewBoundContract(address, *contractABI, caller, nil, nil)
	var out []interface{}
	err := contract.Call(&bind.CallOpts{Context: ctx}, &out, method, params...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func callAddress(ctx context.Context, caller bind.ContractCaller, address common.Address, contractABI *abi.ABI, method string, params ...interface{}) (common.Address, error) {
	out, err := callContract(ctx, caller, address, contractABI, method, params...)
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}
