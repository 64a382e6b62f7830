package main

import (
	"fmt"
	"time"

	"github.com/tdex-network/tdex-amm/pkg/jwtutil"
	"github.com/urfave/cli/v2"
)

var token = cli.Command{
	Name:  "token",
	Usage: "generate a bearer token to authenticate a caller of the daemon callbacks",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "secret",
			Usage:    "the auth secret shared with the daemon",
			EnvVars:  []string{"AMM_AUTH_SECRET"},
			Required: true,
		},
		&cli.StringFlag{
			Name:     "caller",
			Usage:    "the account id of the caller",
			Required: true,
		},
		&cli.DurationFlag{
			Name:  "ttl",
			Usage: "validity of the token",
			Value: time.Hour,
		},
	},
	Action: tokenAction,
}

func tokenAction(ctx *cli.Context) error {
	tok, err := jwtutil.NewToken(
		[]byte(ctx.String("secret")), ctx.String("caller"), ctx.Duration("ttl"),
	)
	if err != nil {
		return err
	}
	fmt.Println(tok)
	return nil
}
