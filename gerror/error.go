package gerror

import "errors"

var (
	// ErrStorageNotFound is used when the object is not found in the storage
	ErrStorageNotFound = errors.New("not found in the Storage")
	// ErrStorageNotRegister is used when the configured storage type is unknown
	ErrStorageNotRegister = errors.New("not registered storage")

	// ErrCannotApproveETH is returned when an approval is requested for the native token
	ErrCannotApproveETH = errors.New("ETH token can't be approved, the address of the token does not exist on L1")
	// ErrCannotClaimSuccessfulDeposit is returned when claiming a deposit that succeeded on L2
	ErrCannotClaimSuccessfulDeposit = errors.New("cannot claim successful deposit")
	// ErrWithdrawValueMismatch is returned when the tx value differs from the withdrawn base token amount
	ErrWithdrawValueMismatch = errors.New("the tx value is not equal to the value withdrawn")

	// ErrTxNotMined is returned when the referenced L2 transaction has no receipt yet
	ErrTxNotMined = errors.New("transaction is not mined")
	// ErrWithdrawalLogNotFound is returned when the receipt has no withdrawal log at the requested index
	ErrWithdrawalLogNotFound = errors.New("withdrawal log not found")
	// ErrDepositLogNotFound is returned when the receipt has no bootloader log for the deposit
	ErrDepositLogNotFound = errors.New("deposit log not found")
	// ErrLogProofNotFound is returned when the L2 node has no inclusion proof for the log yet
	ErrLogProofNotFound = errors.New("log proof not found")
	// ErrL2BridgeNotFound is returned when the failed deposit receipt has no recipient
	ErrL2BridgeNotFound = errors.New("L2 bridge address not found")

	// ErrInsufficientMintValue is returned when the supplied value does not cover the L2 base cost
	ErrInsufficientMintValue = errors.New("the base cost of performing the priority operation is higher than the provided value parameter")
	// ErrNotEnoughBalance is returned when the L1 balance cannot cover the deposit fee
	ErrNotEnoughBalance = errors.New("not enough balance for deposit")
	// ErrNotEnoughAllowance is returned when the token allowance cannot cover the deposit
	ErrNotEnoughAllowance = errors.New("not enough allowance to cover the deposit")
	// ErrNotEnoughBaseTokenAllowance is returned when the base token allowance cannot cover the mint value
	ErrNotEnoughBaseTokenAllowance = errors.New("not enough base token allowance to cover the deposit")

	// ErrTxReverted is returned when a mined transaction has a failed status
	ErrTxReverted = errors.New("transaction reverted")
	// ErrUint256Overflow is returned when a fee computation does not fit in 256 bits
	ErrUint256Overflow = errors.New("uint256 overflow")
)
