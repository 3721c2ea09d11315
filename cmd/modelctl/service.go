package main

import (
	"github.com/urfave/cli/v2"

	sdk "model-platform-sdk"
	"model-platform-sdk/internal/core/domain"
)

var serviceFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     "deployment",
		Usage:    "deployment id",
		Required: true,
	},
	&cli.StringFlag{
		Name:     "deployed-model",
		Usage:    "id of the model inside the deployment",
		Required: true,
	},
}

var serviceCmd = &cli.Command{
	Name:    "service",
	Aliases: []string{"svc"},
	Usage:   "control inference endpoints of deployed models",
	Subcommands: []*cli.Command{
		{
			Name:  "start",
			Usage: "start serving a deployed model",
			Flags: serviceFlags,
			Action: func(cctx *cli.Context) error {
				return withService(cctx, func(c *serviceContext) error {
					return c.client.Serving.Start(cctx.Context, c.svc)
				})
			},
		},
		{
			Name:  "stop",
			Usage: "stop serving a deployed model",
			Flags: serviceFlags,
			Action: func(cctx *cli.Context) error {
				return withService(cctx, func(c *serviceContext) error {
					return c.client.Serving.Stop(cctx.Context, c.svc)
				})
			},
		},
		{
			Name:  "status",
			Usage: "show the state of a deployed model",
			Flags: serviceFlags,
			Action: func(cctx *cli.Context) error {
				return withService(cctx, func(*serviceContext) error { return nil })
			},
		},
	},
}

type serviceContext struct {
	client *sdk.Client
	svc    *domain.Service
}

// withService looks up the service named by the flags, runs fn and prints the
// resulting deployed model record.
func withService(cctx *cli.Context, fn func(*serviceContext) error) error {
	client, err := connect(cctx)
	if err != nil {
		return err
	}

	svc, err := client.Serving.Get(cctx.Context, cctx.String("deployment"), cctx.String("deployed-model"))
	if err != nil {
		return err
	}
	if err := fn(&serviceContext{client: client, svc: svc}); err != nil {
		return err
	}
	return printJSON(cctx, svc.ModelDeployment)
}
