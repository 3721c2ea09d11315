package main

import (
	"github.com/urfave/cli/v2"

	"model-platform-sdk/internal/core/domain"
)

var experimentCmd = &cli.Command{
	Name:    "experiment",
	Aliases: []string{"exp"},
	Usage:   "manage experiments",
	Subcommands: []*cli.Command{
		experimentCreateCmd,
		experimentGetCmd,
		experimentDeleteCmd,
	},
}

var experimentCreateCmd = &cli.Command{
	Name:  "create",
	Usage: "register an experiment, creating a default workspace when none is given",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "workspace",
			Usage: "id of a registered workspace",
		},
		&cli.StringFlag{
			Name:  "id",
			Usage: "experiment id, generated when empty",
		},
		&cli.StringFlag{
			Name:  "name",
			Value: domain.DefaultExperimentName,
		},
		&cli.StringFlag{
			Name: "description",
		},
	},
	Action: func(cctx *cli.Context) error {
		client, err := connect(cctx)
		if err != nil {
			return err
		}

		var ws *domain.WorkSpace
		if id := cctx.String("workspace"); id != "" {
			if ws, err = client.WorkSpaces.Get(cctx.Context, id); err != nil {
				return err
			}
		}

		exp := domain.NewExperiment(ws, cctx.String("id"), cctx.String("name"), cctx.String("description"))
		if _, err := client.Experiments.Create(cctx.Context, exp); err != nil {
			return err
		}
		return printJSON(cctx, exp.Response)
	},
}

var experimentGetCmd = &cli.Command{
	Name:      "get",
	Usage:     "show an experiment",
	ArgsUsage: "<experiment-id>",
	Action: func(cctx *cli.Context) error {
		id, err := requireArg(cctx, "experiment id")
		if err != nil {
			return err
		}
		client, err := connect(cctx)
		if err != nil {
			return err
		}

		exp, err := client.Experiments.Get(cctx.Context, id)
		if err != nil {
			return err
		}
		return printJSON(cctx, exp.Response)
	},
}

var experimentDeleteCmd = &cli.Command{
	Name:      "delete",
	Usage:     "remove an experiment",
	ArgsUsage: "<experiment-id>",
	Action: func(cctx *cli.Context) error {
		id, err := requireArg(cctx, "experiment id")
		if err != nil {
			return err
		}
		client, err := connect(cctx)
		if err != nil {
			return err
		}

		exp, err := client.Experiments.Get(cctx.Context, id)
		if err != nil {
			return err
		}
		return printDeleteResult(cctx, client.Experiments.Delete(cctx.Context, exp))
	},
}
