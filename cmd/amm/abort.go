package main

import (
	"errors"
	"net/url"
	"time"

	"github.com/tdex-network/tdex-amm/pkg/jwtutil"
	"github.com/urfave/cli/v2"
)

var abort = cli.Command{
	Name: "abort",
	Usage: "abort the in-flight swap with the given id, releasing the queued " +
		"ones. Reserves are left untouched and the deposit stays in custody",
	ArgsUsage: "<id>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "secret",
			Usage:    "the auth secret shared with the daemon",
			EnvVars:  []string{"AMM_AUTH_SECRET"},
			Required: true,
		},
		&cli.StringFlag{
			Name:     "operator",
			Usage:    "the account id of the pool operator",
			EnvVars:  []string{"AMM_OPERATOR_ID"},
			Required: true,
		},
	},
	Action: abortAction,
}

func abortAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return errors.New("swap id is missing")
	}

	tok, err := jwtutil.NewToken(
		[]byte(ctx.String("secret")), ctx.String("operator"), time.Minute,
	)
	if err != nil {
		return err
	}

	body, err := postToDaemon(
		"/v1/swaps/"+url.PathEscape(ctx.Args().First())+"/abort", tok,
	)
	if err != nil {
		return err
	}
	printRespJSON(body)
	return nil
}
