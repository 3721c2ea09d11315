package main

import (
	"github.com/urfave/cli/v2"

	"model-platform-sdk/internal/api"
	"model-platform-sdk/internal/core/domain"
)

var deploymentCmd = &cli.Command{
	Name:    "deployment",
	Aliases: []string{"dep"},
	Usage:   "manage deployments",
	Subcommands: []*cli.Command{
		deploymentCreateCmd,
		deploymentGetCmd,
		deploymentListCmd,
		deploymentDeleteCmd,
	},
}

var deploymentCreateCmd = &cli.Command{
	Name:      "create",
	Usage:     "create a deployment",
	ArgsUsage: "<name>",
	Action: func(cctx *cli.Context) error {
		name, err := requireArg(cctx, "deployment name")
		if err != nil {
			return err
		}
		client, err := connect(cctx)
		if err != nil {
			return err
		}

		d, err := client.Deployments.Create(cctx.Context, domain.NewDeployment(name))
		if err != nil {
			return err
		}
		return printJSON(cctx, d.Response)
	},
}

var deploymentGetCmd = &cli.Command{
	Name:      "get",
	Usage:     "show a deployment",
	ArgsUsage: "<deployment-id>",
	Action: func(cctx *cli.Context) error {
		id, err := requireArg(cctx, "deployment id")
		if err != nil {
			return err
		}
		client, err := connect(cctx)
		if err != nil {
			return err
		}

		d, err := client.Deployments.Get(cctx.Context, id)
		if err != nil {
			return err
		}
		return printJSON(cctx, d.Response)
	},
}

var deploymentListCmd = &cli.Command{
	Name:    "list",
	Aliases: []string{"ls"},
	Usage:   "list deployments",
	Action: func(cctx *cli.Context) error {
		client, err := connect(cctx)
		if err != nil {
			return err
		}

		list, err := client.Deployments.List(cctx.Context)
		if err != nil {
			return err
		}

		out := api.DeploymentList{Deployments: make([]api.DeploymentResponse, 0, len(list))}
		for _, d := range list {
			out.Deployments = append(out.Deployments, *d.Response)
		}
		return printJSON(cctx, out)
	},
}

var deploymentDeleteCmd = &cli.Command{
	Name:      "delete",
	Usage:     "remove a deployment and everything deployed into it",
	ArgsUsage: "<deployment-id>",
	Action: func(cctx *cli.Context) error {
		id, err := requireArg(cctx, "deployment id")
		if err != nil {
			return err
		}
		client, err := connect(cctx)
		if err != nil {
			return err
		}

		return printDeleteResult(cctx, client.Deployments.Delete(cctx.Context, &domain.Deployment{ID: id}))
	},
}
