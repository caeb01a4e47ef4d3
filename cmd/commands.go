package main

import (
	"context"
	"fmt"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/urfave/cli/v2"
	"github.com/zkstack-labs/bridgehub-sdk/autofinalizer"
	"github.com/zkstack-labs/bridgehub-sdk/bridge"
	"github.com/zkstack-labs/bridgehub-sdk/config"
	"github.com/zkstack-labs/bridgehub-sdk/db"
	"github.com/zkstack-labs/bridgehub-sdk/utils"
)

func depositRequestFromFlags(ctx *cli.Context) (bridge.DepositRequest, error) {
	var req bridge.DepositRequest
	token, err := parseAddress(flagToken, ctx.String(flagToken))
	if err != nil {
		return req, err
	}
	req.Token = addressOrZero(token)
	if req.Amount, err = parseBig(flagAmount, ctx.String(flagAmount)); err != nil {
		return req, err
	}
	if req.To, err = parseAddress(flagTo, ctx.String(flagTo)); err != nil {
		return req, err
	}
	if req.BridgeAddress, err = parseAddress(flagBridge, ctx.String(flagBridge)); err != nil {
		return req, err
	}
	if req.OperatorTip, err = parseBig(flagOperatorTip, ctx.String(flagOperatorTip)); err != nil {
		return req, err
	}
	if req.L2GasLimit, err = parseBig(flagL2GasLimit, ctx.String(flagL2GasLimit)); err != nil {
		return req, err
	}
	if req.RefundRecipient, err = parseAddress(flagRefundRecipient, ctx.String(flagRefundRecipient)); err != nil {
		return req, err
	}
	req.ApproveERC20 = ctx.Bool(flagApprove)
	req.ApproveBaseERC20 = ctx.Bool(flagApproveBase)
	return req, nil
}

func withAdapter(ctx *cli.Context, fn func(context.Context, *config.Config, *bridge.Adapter) error) error {
	c, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	adapter, err := newAdapter(ctx.Context, c)
	if err != nil {
		return err
	}
	return fn(ctx.Context, c, adapter)
}

func depositCmd(ctx *cli.Context) error {
	req, err := depositRequestFromFlags(ctx)
	if err != nil {
		return err
	}
	return withAdapter(ctx, func(goCtx context.Context, _ *config.Config, adapter *bridge.Adapter) error {
		op, err := adapter.Deposit(goCtx, req)
		if err != nil {
			return err
		}
		fmt.Printf("L1 tx: %s\n", op.L1Tx.Hash())
		l2Hash, err := op.L2TxHash(goCtx)
		if err != nil {
			return err
		}
		fmt.Printf("L2 tx: %s\n", l2Hash)
		return nil
	})
}

func depositFeeCmd(ctx *cli.Context) error {
	req, err := depositRequestFromFlags(ctx)
	if err != nil {
		return err
	}
	return withAdapter(ctx, func(goCtx context.Context, _ *config.Config, adapter *bridge.Adapter) error {
		fee, err := adapter.GetFullRequiredDepositFee(goCtx, req)
		if err != nil {
			return err
		}
		fmt.Printf("base cost:    %s\n", fee.BaseCost)
		fmt.Printf("L1 gas limit: %d\n", fee.L1GasLimit)
		fmt.Printf("L2 gas limit: %s\n", fee.L2GasLimit)
		if fee.GasPrice != nil {
			fmt.Printf("gas price:    %s\n", fee.GasPrice)
		} else {
			fmt.Printf("max fee:      %s\n", fee.MaxFeePerGas)
			fmt.Printf("max tip:      %s\n", fee.MaxPriorityFeePerGas)
		}
		return nil
	})
}

func allowanceParamsCmd(ctx *cli.Context) error {
	req, err := depositRequestFromFlags(ctx)
	if err != nil {
		return err
	}
	return withAdapter(ctx, func(goCtx context.Context, _ *config.Config, adapter *bridge.Adapter) error {
		params, err := adapter.GetDepositAllowanceParams(goCtx, req.Token, req.Amount)
		if err != nil {
			return err
		}
		for _, p := range params {
			fmt.Printf("%s %s\n", p.Token, p.Allowance)
		}
		return nil
	})
}

func withdrawCmd(ctx *cli.Context) error {
	var req bridge.WithdrawRequest
	token, err := parseAddress(flagToken, ctx.String(flagToken))
	if err != nil {
		return err
	}
	req.Token = utils.L2BaseTokenAddress
	if token != nil {
		req.Token = *token
	}
	if req.Amount, err = parseBig(flagAmount, ctx.String(flagAmount)); err != nil {
		return err
	}
	if req.To, err = parseAddress(flagTo, ctx.String(flagTo)); err != nil {
		return err
	}
	if req.BridgeAddress, err = parseAddress(flagBridge, ctx.String(flagBridge)); err != nil {
		return err
	}
	return withAdapter(ctx, func(goCtx context.Context, c *config.Config, adapter *bridge.Adapter) error {
		tx, err := adapter.Withdraw(goCtx, req)
		if err != nil {
			return err
		}
		fmt.Printf("L2 tx: %s\n", tx.Hash())
		if !ctx.Bool(flagTrack) {
			return nil
		}
		af, err := newAutoFinalizer(goCtx, c, adapter)
		if err != nil {
			return err
		}
		return af.TrackWithdrawal(goCtx, tx.Hash(), 0)
	})
}

func finalizeWithdrawalCmd(ctx *cli.Context) error {
	hash, err := parseHash(flagTxHash, ctx.String(flagTxHash))
	if err != nil {
		return err
	}
	return withAdapter(ctx, func(goCtx context.Context, _ *config.Config, adapter *bridge.Adapter) error {
		tx, err := adapter.FinalizeWithdrawal(goCtx, hash, int(ctx.Uint(flagIndex)), nil)
		if err != nil {
			return err
		}
		fmt.Printf("L1 tx: %s\n", tx.Hash())
		return nil
	})
}

func isFinalizedCmd(ctx *cli.Context) error {
	hash, err := parseHash(flagTxHash, ctx.String(flagTxHash))
	if err != nil {
		return err
	}
	return withAdapter(ctx, func(goCtx context.Context, _ *config.Config, adapter *bridge.Adapter) error {
		finalized, err := adapter.IsWithdrawalFinalized(goCtx, hash, int(ctx.Uint(flagIndex)))
		if err != nil {
			return err
		}
		fmt.Println(finalized)
		return nil
	})
}

func trackWithdrawalCmd(ctx *cli.Context) error {
	hash, err := parseHash(flagTxHash, ctx.String(flagTxHash))
	if err != nil {
		return err
	}
	return withAdapter(ctx, func(goCtx context.Context, c *config.Config, adapter *bridge.Adapter) error {
		af, err := newAutoFinalizer(goCtx, c, adapter)
		if err != nil {
			return err
		}
		return af.TrackWithdrawal(goCtx, hash, ctx.Uint(flagIndex))
	})
}

func claimFailedDepositCmd(ctx *cli.Context) error {
	hash, err := parseHash(flagTxHash, ctx.String(flagTxHash))
	if err != nil {
		return err
	}
	return withAdapter(ctx, func(goCtx context.Context, _ *config.Config, adapter *bridge.Adapter) error {
		tx, err := adapter.ClaimFailedDeposit(goCtx, hash, nil)
		if err != nil {
			return err
		}
		fmt.Printf("L1 tx: %s\n", tx.Hash())
		return nil
	})
}

func requestExecuteCmd(ctx *cli.Context) error {
	var req bridge.RequestExecuteRequest
	contract, err := parseAddress(flagContract, ctx.String(flagContract))
	if err != nil {
		return err
	}
	req.ContractAddress = addressOrZero(contract)
	if req.Calldata, err = parseBytes(flagCalldata, ctx.String(flagCalldata)); err != nil {
		return err
	}
	if req.L2Value, err = parseBig(flagL2Value, ctx.String(flagL2Value)); err != nil {
		return err
	}
	if req.OperatorTip, err = parseBig(flagOperatorTip, ctx.String(flagOperatorTip)); err != nil {
		return err
	}
	if req.L2GasLimit, err = parseBig(flagL2GasLimit, ctx.String(flagL2GasLimit)); err != nil {
		return err
	}
	if req.RefundRecipient, err = parseAddress(flagRefundRecipient, ctx.String(flagRefundRecipient)); err != nil {
		return err
	}
	req.ApproveBaseERC20 = ctx.Bool(flagApproveBase)
	return withAdapter(ctx, func(goCtx context.Context, _ *config.Config, adapter *bridge.Adapter) error {
		op, err := adapter.RequestExecute(goCtx, req)
		if err != nil {
			return err
		}
		fmt.Printf("L1 tx: %s\n", op.L1Tx.Hash())
		return nil
	})
}

func newAutoFinalizer(ctx context.Context, c *config.Config, adapter *bridge.Adapter) (*autofinalizer.AutoFinalizer, error) {
	if err := db.RunMigrations(c.Storage); err != nil {
		log.Error(err)
		return nil, err
	}
	storage, err := db.NewStorage(c.Storage)
	if err != nil {
		log.Error(err)
		return nil, err
	}
	producer, err := newProducer(c)
	if err != nil {
		return nil, err
	}
	return autofinalizer.NewAutoFinalizer(ctx, c.AutoFinalizer, adapter, storage, producer)
}
