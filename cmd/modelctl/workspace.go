package main

import (
	"github.com/urfave/cli/v2"

	"model-platform-sdk/internal/core/domain"
)

var workspaceCmd = &cli.Command{
	Name:    "workspace",
	Aliases: []string{"ws"},
	Usage:   "manage workspaces",
	Subcommands: []*cli.Command{
		workspaceCreateCmd,
		workspaceGetCmd,
		workspaceDeleteCmd,
	},
}

var workspaceCreateCmd = &cli.Command{
	Name:  "create",
	Usage: "register a workspace",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "name",
			Value: domain.DefaultWorkSpaceName,
		},
		&cli.StringFlag{
			Name: "labels",
		},
	},
	Action: func(cctx *cli.Context) error {
		client, err := connect(cctx)
		if err != nil {
			return err
		}

		ws, err := client.WorkSpaces.Create(cctx.Context, domain.NewWorkSpace(cctx.String("name"), cctx.String("labels")))
		if err != nil {
			return err
		}
		return printJSON(cctx, ws.Response)
	},
}

var workspaceGetCmd = &cli.Command{
	Name:      "get",
	Usage:     "show a workspace",
	ArgsUsage: "<workspace-id>",
	Action: func(cctx *cli.Context) error {
		id, err := requireArg(cctx, "workspace id")
		if err != nil {
			return err
		}
		client, err := connect(cctx)
		if err != nil {
			return err
		}

		ws, err := client.WorkSpaces.Get(cctx.Context, id)
		if err != nil {
			return err
		}
		return printJSON(cctx, ws.Response)
	},
}

var workspaceDeleteCmd = &cli.Command{
	Name:      "delete",
	Usage:     "remove a workspace",
	ArgsUsage: "<workspace-id>",
	Action: func(cctx *cli.Context) error {
		id, err := requireArg(cctx, "workspace id")
		if err != nil {
			return err
		}
		client, err := connect(cctx)
		if err != nil {
			return err
		}

		ws := &domain.WorkSpace{ID: id}
		return printDeleteResult(cctx, client.WorkSpaces.Delete(cctx.Context, ws))
	},
}
