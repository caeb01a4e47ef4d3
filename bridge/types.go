package bridge

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zkstack-labs/bridgehub-sdk/etherman"
)

// Overrides are the per call transaction settings. Nil fields are filled by the adapter or the signer.
type Overrides struct {
	Nonce                *uint64
	Value                *big.Int
	GasLimit             uint64
	GasPrice             *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// Copy returns a deep copy, so the caller's overrides are never mutated. A nil receiver gives empty overrides.
func (o *Overrides) Copy() *Overrides {
	if o == nil {
		return &Overrides{}
	}
	c := &Overrides{
		GasLimit:             o.GasLimit,
		Value:                copyBig(o.Value),
		GasPrice:             copyBig(o.GasPrice),
		MaxFeePerGas:         copyBig(o.MaxFeePerGas),
		MaxPriorityFeePerGas: copyBig(o.MaxPriorityFeePerGas),
	}
	if o.Nonce != nil {
		n := *o.Nonce
		c.Nonce = &n
	}
	return c
}

// withoutFees drops the explicit fee fields, used for gas estimations.
func (o *Overrides) withoutFees() *Overrides {
	c := o.Copy()
	c.GasPrice = nil
	c.MaxFeePerGas = nil
	c.MaxPriorityFeePerGas = nil
	return c
}

// gasPriceForEstimation is the gas price the base cost is computed with.
func (o *Overrides) gasPriceForEstimation() *big.Int {
	if o.MaxFeePerGas != nil {
		return o.MaxFeePerGas
	}
	return o.GasPrice
}

func (o *Overrides) txRequest(from common.Address, to common.Address, data []byte) *etherman.TxRequest {
	return &etherman.TxRequest{
		From:                 from,
		To:                   &to,
		Data:                 data,
		Value:                copyBig(o.Value),
		Nonce:                o.Nonce,
		GasLimit:             o.GasLimit,
		GasPrice:             copyBig(o.GasPrice),
		MaxFeePerGas:         copyBig(o.MaxFeePerGas),
		MaxPriorityFeePerGas: copyBig(o.MaxPriorityFeePerGas),
	}
}

// DepositRequest describes a deposit from L1 to L2. Only Token and Amount are required.
type DepositRequest struct {
	// Token is the L1 token, the zero address and ETHAddressInContracts both mean ETH
	Token  common.Address
	Amount *big.Int
	// To defaults to the L1 signer
	To *common.Address
	// BridgeAddress selects a custom L1 bridge, the shared bridge is used otherwise
	BridgeAddress    *common.Address
	CustomBridgeData []byte
	OperatorTip      *big.Int
	// L2GasLimit is estimated on L2 when nil
	L2GasLimit        *big.Int
	GasPerPubdataByte *big.Int
	RefundRecipient   *common.Address

	ApproveERC20         bool
	ApproveBaseERC20     bool
	ApproveOverrides     *Overrides
	ApproveBaseOverrides *Overrides
	Overrides            *Overrides
}

// normalizedDeposit is a DepositRequest with every default resolved.
type normalizedDeposit struct {
	Token             common.Address
	Amount            *big.Int
	To                common.Address
	BridgeAddress     common.Address
	CustomBridge      bool
	CustomBridgeData  []byte
	OperatorTip       *big.Int
	L2GasLimit        *big.Int
	GasPerPubdataByte *big.Int
	RefundRecipient   common.Address
	Overrides         *Overrides
}

// ChainContext is the routing information of the target chain. It is fetched for every operation.
type ChainContext struct {
	ChainID         *big.Int
	Bridgehub       common.Address
	BaseToken       common.Address
	SharedBridge    common.Address
	IsETHBasedChain bool
}

// DepositTx is an unsigned deposit transaction addressed to the bridgehub.
type DepositTx struct {
	Path       DepositPath
	Tx         *etherman.TxRequest
	MintValue  *big.Int
	BaseCost   *big.Int
	L2GasLimit *big.Int
}

// AllowanceParams is one approval needed before a deposit.
type AllowanceParams struct {
	Token     common.Address
	Allowance *big.Int
}

// FullDepositFee is the complete fee breakdown of a deposit. Either GasPrice or the EIP-1559 fields are set.
type FullDepositFee struct {
	BaseCost             *big.Int
	L1GasLimit           uint64
	L2GasLimit           *big.Int
	GasPrice             *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// FinalizeParams are the arguments of finalizeWithdrawal on L1.
type FinalizeParams struct {
	L1BatchNumber     uint64
	L2MessageIndex    uint64
	L2TxNumberInBlock uint16
	Message           []byte
	Sender            common.Address
	Proof             []common.Hash
}

// WithdrawalMessage is the decoded L2 to L1 message of a withdrawal. L1Token is nil for base token withdrawals.
type WithdrawalMessage struct {
	Selector [4]byte
	Receiver common.Address
	L1Token  *common.Address
	Amount   *big.Int
}

// WithdrawRequest describes a withdrawal from L2 to L1.
type WithdrawRequest struct {
	// Token is the L2 token, ETH sentinels are resolved to the L2 representation of ETH
	Token  common.Address
	Amount *big.Int
	// To defaults to the L2 signer
	To            *common.Address
	BridgeAddress *common.Address
	Overrides     *Overrides
}

// RequestExecuteRequest describes an arbitrary L2 call requested from L1.
type RequestExecuteRequest struct {
	ContractAddress   common.Address
	Calldata          []byte
	L2Value           *big.Int
	MintValue         *big.Int
	L2GasLimit        *big.Int
	OperatorTip       *big.Int
	GasPerPubdataByte *big.Int
	RefundRecipient   *common.Address
	FactoryDeps       [][]byte

	// ApproveBaseERC20 ensures the base token allowance on chains with a custom base token
	ApproveBaseERC20     bool
	ApproveBaseOverrides *Overrides
	Overrides            *Overrides
}

func copyBig(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
