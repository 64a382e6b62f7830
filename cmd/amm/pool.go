package main

import (
	"errors"
	"net/url"

	"github.com/tdex-network/tdex-amm/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var reserves = cli.Command{
	Name:   "reserves",
	Usage:  "get the committed reserves of the pool",
	Action: reservesAction,
}

var invariant = cli.Command{
	Name:   "invariant",
	Usage:  "get the product of the committed reserve balances",
	Action: invariantAction,
}

var preview = cli.Command{
	Name:  "preview",
	Usage: "preview the payout of a deposit of some asset",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "asset",
			Usage:    "the account id of the deposited asset",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "the deposited amount in smallest units",
			Required: true,
		},
	},
	Action: previewAction,
}

var swaps = cli.Command{
	Name:   "swaps",
	Usage:  "list all swaps in order of receipt",
	Action: swapsAction,
}

var swap = cli.Command{
	Name:      "swap",
	Usage:     "get the swap with the given id",
	ArgsUsage: "<id>",
	Action:    swapAction,
}

func reservesAction(ctx *cli.Context) error {
	return printFromDaemon("/v1/reserves", nil)
}

func invariantAction(ctx *cli.Context) error {
	return printFromDaemon("/v1/invariant", nil)
}

func previewAction(ctx *cli.Context) error {
	amount := ctx.String("amount")
	if _, err := mathutil.ParseUint128(amount); err != nil {
		return err
	}

	query := url.Values{}
	query.Set("asset", ctx.String("asset"))
	query.Set("amount", amount)
	return printFromDaemon("/v1/preview", query)
}

func swapsAction(ctx *cli.Context) error {
	return printFromDaemon("/v1/swaps", nil)
}

func swapAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return errors.New("swap id is missing")
	}
	return printFromDaemon("/v1/swaps/"+url.PathEscape(ctx.Args().First()), nil)
}

func printFromDaemon(path string, query url.Values) error {
	body, err := getFromDaemon(path, query)
	if err != nil {
		return err
	}
	printRespJSON(body)
	return nil
}
