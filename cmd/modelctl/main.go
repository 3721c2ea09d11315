package main

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	sdk "model-platform-sdk"
	"model-platform-sdk/internal/config"
	"model-platform-sdk/internal/core/domain"
)

const configKey = "config"

var globalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "url",
		Usage: "platform base URL (default $PLATFORM_URL)",
	},
	&cli.StringFlag{
		Name:  "user",
		Usage: "platform user id (default $PLATFORM_USER)",
	},
	&cli.StringFlag{
		Name:  "password",
		Usage: "platform password (default $PLATFORM_PASSWORD)",
	},
	&cli.StringFlag{
		Name:  "server-id",
		Usage: "model history server id; discovered when empty",
	},
	&cli.DurationFlag{
		Name:  "timeout",
		Usage: "HTTP timeout per request, 0 for none",
	},
	&cli.StringFlag{
		Name:  "temp-dir",
		Usage: "directory for serialized artifacts",
	},
	&cli.StringFlag{
		Name:  "log-level",
		Usage: "logrus level",
	},
}

func newApp() *cli.App {
	return &cli.App{
		Name:                 "modelctl",
		Usage:                "register, evaluate and deploy models on the model platform",
		EnableBashCompletion: true,
		Flags:                globalFlags,
		Before:               before,
		Commands: []*cli.Command{
			workspaceCmd,
			experimentCmd,
			modelCmd,
			deploymentCmd,
			serviceCmd,
		},
	}
}

// before loads configuration from the environment and applies flag overrides.
func before(cctx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cctx.IsSet("url") {
		cfg.Platform.URL = cctx.String("url")
	}
	if cctx.IsSet("user") {
		cfg.Platform.User = cctx.String("user")
	}
	if cctx.IsSet("password") {
		cfg.Platform.Password = cctx.String("password")
	}
	if cctx.IsSet("server-id") {
		cfg.Platform.ServerID = cctx.String("server-id")
	}
	if cctx.IsSet("timeout") {
		cfg.Platform.Timeout = cctx.Duration("timeout")
	}
	if cctx.IsSet("temp-dir") {
		cfg.Artifacts.TempDir = cctx.String("temp-dir")
	}
	if cctx.IsSet("log-level") {
		cfg.Logger.Level = cctx.String("log-level")
	}

	config.InitLogger(cfg.Logger)
	log.SetOutput(cctx.App.ErrWriter)

	if cctx.App.Metadata == nil {
		cctx.App.Metadata = map[string]interface{}{}
	}
	cctx.App.Metadata[configKey] = cfg
	return nil
}

func connect(cctx *cli.Context) (*sdk.Client, error) {
	cfg, ok := cctx.App.Metadata[configKey].(*config.Config)
	if !ok {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return sdk.Connect(cctx.Context, cfg)
}

func printJSON(cctx *cli.Context, v any) error {
	enc := json.NewEncoder(cctx.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type deleteOutput struct {
	Op        string `json:"op"`
	Target    string `json:"target"`
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error,omitempty"`
}

// printDeleteResult prints the outcome and turns a failure into a non-zero exit.
func printDeleteResult(cctx *cli.Context, r domain.DeleteResult) error {
	out := deleteOutput{
		Op:        r.Op,
		Target:    r.Target,
		Succeeded: r.Succeeded(),
	}
	if !r.Succeeded() {
		out.Error = r.Reason().Error()
	}
	if err := printJSON(cctx, out); err != nil {
		return err
	}
	if !r.Succeeded() {
		return fmt.Errorf("%s %s: %w", r.Op, r.Target, r.Reason())
	}
	return nil
}

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
}

func requireArg(cctx *cli.Context, what string) (string, error) {
	if cctx.NArg() < 1 || cctx.Args().First() == "" {
		return "", fmt.Errorf("missing %s", what)
	}
	return cctx.Args().First(), nil
}
