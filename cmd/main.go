package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	bridgehubsdk "github.com/zkstack-labs/bridgehub-sdk"
)

const (
	flagCfg             = "cfg"
	flagToken           = "token"
	flagAmount          = "amount"
	flagTo              = "to"
	flagBridge          = "bridge"
	flagOperatorTip     = "operator-tip"
	flagL2GasLimit      = "l2-gas-limit"
	flagRefundRecipient = "refund-recipient"
	flagApprove         = "approve"
	flagApproveBase     = "approve-base"
	flagTxHash          = "tx-hash"
	flagIndex           = "index"
	flagContract        = "contract"
	flagCalldata        = "calldata"
	flagL2Value         = "l2-value"
	flagTrack           = "track"
)

const (
	// App name
	appName = "bridgehub-sdk"
)

func main() {
	app := cli.NewApp()
	app.Name = appName
	app.Version = bridgehubsdk.Version
	cfgFlag := &cli.StringFlag{
		Name:     flagCfg,
		Aliases:  []string{"c"},
		Usage:    "Configuration `FILE`",
		Required: false,
	}
	depositFlags := []cli.Flag{
		cfgFlag,
		&cli.StringFlag{Name: flagToken, Usage: "L1 token `ADDRESS`, empty for ETH"},
		&cli.StringFlag{Name: flagAmount, Usage: "amount in wei", Required: true},
		&cli.StringFlag{Name: flagTo, Usage: "L2 receiver `ADDRESS`, defaults to the signer"},
		&cli.StringFlag{Name: flagBridge, Usage: "custom L1 bridge `ADDRESS`"},
		&cli.StringFlag{Name: flagOperatorTip, Usage: "operator tip in wei"},
		&cli.StringFlag{Name: flagL2GasLimit, Usage: "L2 gas limit, estimated when empty"},
		&cli.StringFlag{Name: flagRefundRecipient, Usage: "L2 refund recipient `ADDRESS`"},
		&cli.BoolFlag{Name: flagApprove, Usage: "approve the deposited token when the allowance is not enough"},
		&cli.BoolFlag{Name: flagApproveBase, Usage: "approve the base token when the allowance is not enough"},
	}
	withdrawalFlags := []cli.Flag{
		cfgFlag,
		&cli.StringFlag{Name: flagTxHash, Usage: "L2 withdrawal tx `HASH`", Required: true},
		&cli.UintFlag{Name: flagIndex, Usage: "index of the withdrawal inside the tx"},
	}
	app.Commands = []*cli.Command{
		{
			Name:    "version",
			Aliases: []string{},
			Usage:   "Application version and build",
			Action:  versionCmd,
		},
		{
			Name:   "deposit",
			Usage:  "Deposit ETH or a token from L1 to L2",
			Action: depositCmd,
			Flags:  depositFlags,
		},
		{
			Name:   "deposit-fee",
			Usage:  "Print the full fee required by a deposit",
			Action: depositFeeCmd,
			Flags:  depositFlags,
		},
		{
			Name:   "allowance-params",
			Usage:  "Print the approvals a deposit needs",
			Action: allowanceParamsCmd,
			Flags:  depositFlags,
		},
		{
			Name:   "withdraw",
			Usage:  "Withdraw the base token or a token from L2 to L1",
			Action: withdrawCmd,
			Flags: []cli.Flag{
				cfgFlag,
				&cli.StringFlag{Name: flagToken, Usage: "L2 token `ADDRESS`, empty for the base token"},
				&cli.StringFlag{Name: flagAmount, Usage: "amount in wei", Required: true},
				&cli.StringFlag{Name: flagTo, Usage: "L1 receiver `ADDRESS`, defaults to the signer"},
				&cli.StringFlag{Name: flagBridge, Usage: "custom L2 bridge `ADDRESS`"},
				&cli.BoolFlag{Name: flagTrack, Usage: "track the withdrawal for automatic finalization"},
			},
		},
		{
			Name:   "finalize-withdrawal",
			Usage:  "Finalize a withdrawal on L1",
			Action: finalizeWithdrawalCmd,
			Flags:  withdrawalFlags,
		},
		{
			Name:   "is-finalized",
			Usage:  "Check whether a withdrawal was finalized on L1",
			Action: isFinalizedCmd,
			Flags:  withdrawalFlags,
		},
		{
			Name:   "track-withdrawal",
			Usage:  "Track a withdrawal for automatic finalization",
			Action: trackWithdrawalCmd,
			Flags:  withdrawalFlags,
		},
		{
			Name:   "claim-failed-deposit",
			Usage:  "Claim the funds of a deposit that failed on L2",
			Action: claimFailedDepositCmd,
			Flags: []cli.Flag{
				cfgFlag,
				&cli.StringFlag{Name: flagTxHash, Usage: "L2 deposit tx `HASH`", Required: true},
			},
		},
		{
			Name:   "request-execute",
			Usage:  "Request the execution of an L2 call from L1",
			Action: requestExecuteCmd,
			Flags: []cli.Flag{
				cfgFlag,
				&cli.StringFlag{Name: flagContract, Usage: "L2 contract `ADDRESS`", Required: true},
				&cli.StringFlag{Name: flagCalldata, Usage: "hex encoded calldata"},
				&cli.StringFlag{Name: flagL2Value, Usage: "L2 value in wei"},
				&cli.StringFlag{Name: flagOperatorTip, Usage: "operator tip in wei"},
				&cli.StringFlag{Name: flagL2GasLimit, Usage: "L2 gas limit, estimated when empty"},
				&cli.StringFlag{Name: flagRefundRecipient, Usage: "L2 refund recipient `ADDRESS`"},
				&cli.BoolFlag{Name: flagApproveBase, Usage: "approve the base token when the allowance is not enough"},
			},
		},
		{
			Name:    "run",
			Aliases: []string{},
			Usage:   "Run the withdrawal auto finalizer",
			Action:  start,
			Flags:   []cli.Flag{cfgFlag},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Printf("\nError: %v\n", err)
		os.Exit(1)
	}
}
