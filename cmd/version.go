package main

import (
	"os"

	"github.com/urfave/cli/v2"
	bridgehubsdk "github.com/zkstack-labs/bridgehub-sdk"
)

func versionCmd(*cli.Context) error {
	bridgehubsdk.PrintVersion(os.Stdout)
	return nil
}
