package main

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	sdk "model-platform-sdk"
	"model-platform-sdk/internal/api"
	"model-platform-sdk/internal/core/domain"
	"model-platform-sdk/internal/core/services"
)

var experimentFlag = &cli.StringFlag{
	Name:     "experiment",
	Usage:    "id of the experiment the model belongs to",
	Required: true,
}

var modelCmd = &cli.Command{
	Name:  "model",
	Usage: "register, evaluate and deploy models",
	Subcommands: []*cli.Command{
		modelRegisterCmd,
		modelGetCmd,
		modelDeleteCmd,
		modelEvaluateCmd,
		modelDeployCmd,
		modelUndeployCmd,
	},
}

var modelRegisterCmd = &cli.Command{
	Name:  "register",
	Usage: "upload an artifact and register it as a model instance",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "artifact",
			Usage:    "path of the model file",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "experiment",
			Usage: "experiment id; a default workspace and experiment are created when empty",
		},
		&cli.StringFlag{
			Name:  "id",
			Usage: "model id, generated when empty",
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "model name, defaults to the artifact file name",
		},
		&cli.IntFlag{
			Name:  "version",
			Value: domain.DefaultModelVersion,
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

		var exp *domain.Experiment
		if id := cctx.String("experiment"); id != "" {
			if exp, err = client.Experiments.Get(cctx.Context, id); err != nil {
				return err
			}
		}

		m, err := client.Models.Create(cctx.Context, services.ModelSpec{
			Artifact:   domain.ArtifactFromPath(cctx.String("artifact")),
			ID:         cctx.String("id"),
			Name:       cctx.String("name"),
			Version:    cctx.Int("version"),
			Experiment: exp,
			Labels:     cctx.String("labels"),
		})
		if err != nil {
			return err
		}
		return printJSON(cctx, m.Response)
	},
}

var modelGetCmd = &cli.Command{
	Name:      "get",
	Usage:     "show a registered model",
	ArgsUsage: "<model-id>",
	Flags:     []cli.Flag{experimentFlag},
	Action: func(cctx *cli.Context) error {
		_, m, err := loadModel(cctx)
		if err != nil {
			return err
		}
		return printJSON(cctx, m.Response)
	},
}

var modelDeleteCmd = &cli.Command{
	Name:      "delete",
	Usage:     "remove a registered model",
	ArgsUsage: "<model-id>",
	Flags:     []cli.Flag{experimentFlag},
	Action: func(cctx *cli.Context) error {
		client, m, err := loadModel(cctx)
		if err != nil {
			return err
		}
		return printDeleteResult(cctx, client.Models.Delete(cctx.Context, m))
	},
}

var modelEvaluateCmd = &cli.Command{
	Name:      "evaluate",
	Usage:     "record an evaluation result for a model",
	ArgsUsage: "<model-id>",
	Flags: []cli.Flag{
		experimentFlag,
		&cli.Float64Flag{
			Name:  "accuracy",
			Usage: "accuracy to record",
		},
		&cli.StringFlag{
			Name:  "history",
			Usage: "training history JSON; its final validation accuracy is recorded",
		},
		&cli.StringFlag{
			Name:  "eval-id",
			Usage: "defaults to the model id",
		},
		&cli.StringFlag{
			Name:  "eval-name",
			Usage: "defaults to the model id",
		},
		&cli.IntFlag{
			Name:  "eval-version",
			Value: services.DefaultEvaluationVersion,
		},
	},
	Action: func(cctx *cli.Context) error {
		accuracy, err := evaluationAccuracy(cctx)
		if err != nil {
			return err
		}

		client, m, err := loadModel(cctx)
		if err != nil {
			return err
		}

		result, err := client.Models.AddEvaluation(cctx.Context, m, services.EvaluationSpec{
			Accuracy: accuracy,
			ID:       cctx.String("eval-id"),
			Name:     cctx.String("eval-name"),
			Version:  cctx.Int("eval-version"),
		})
		if err != nil {
			return err
		}
		return printJSON(cctx, result)
	},
}

var modelDeployCmd = &cli.Command{
	Name:      "deploy",
	Usage:     "publish a model into a deployment and start its service",
	ArgsUsage: "<model-id>",
	Flags: []cli.Flag{
		experimentFlag,
		&cli.StringFlag{
			Name:  "deployment",
			Usage: "deployment id; a deployment named after the model is created when empty",
		},
		&cli.IntFlag{
			Name:  "scale",
			Value: 1,
		},
		&cli.BoolFlag{
			Name:  "no-start",
			Usage: "deploy without starting the service",
		},
		&cli.StringSliceFlag{
			Name: "input",
		},
		&cli.StringSliceFlag{
			Name: "output",
		},
	},
	Action: func(cctx *cli.Context) error {
		client, m, err := loadModel(cctx)
		if err != nil {
			return err
		}

		var d *domain.Deployment
		if id := cctx.String("deployment"); id != "" {
			if d, err = client.Deployments.Get(cctx.Context, id); err != nil {
				return err
			}
		}

		svc, err := client.Models.Deploy(cctx.Context, m, services.DeploySpec{
			Deployment:  d,
			SkipStart:   cctx.Bool("no-start"),
			Scale:       cctx.Int("scale"),
			InputNames:  cctx.StringSlice("input"),
			OutputNames: cctx.StringSlice("output"),
		})
		if err != nil {
			return err
		}
		return printJSON(cctx, deployOutput{
			Deployment: svc.Deployment.Response,
			Model:      svc.ModelDeployment,
			Running:    svc.Running,
		})
	},
}

var modelUndeployCmd = &cli.Command{
	Name:      "undeploy",
	Usage:     "remove a model from a deployment",
	ArgsUsage: "<model-id>",
	Flags:     append([]cli.Flag{experimentFlag}, serviceFlags...),
	Action: func(cctx *cli.Context) error {
		client, m, err := loadModel(cctx)
		if err != nil {
			return err
		}

		svc, err := client.Serving.Get(cctx.Context, cctx.String("deployment"), cctx.String("deployed-model"))
		if err != nil {
			return err
		}
		m.MarkDeployed(svc.Deployment, svc.ModelDeployment)

		return printDeleteResult(cctx, client.Models.Undeploy(cctx.Context, m))
	},
}

type deployOutput struct {
	Deployment *api.DeploymentResponse `json:"deployment"`
	Model      *api.ModelEntity        `json:"model"`
	Running    bool                    `json:"running"`
}

func loadModel(cctx *cli.Context) (*sdk.Client, *domain.Model, error) {
	id, err := requireArg(cctx, "model id")
	if err != nil {
		return nil, nil, err
	}
	client, err := connect(cctx)
	if err != nil {
		return nil, nil, err
	}

	exp, err := client.Experiments.Get(cctx.Context, cctx.String("experiment"))
	if err != nil {
		return nil, nil, err
	}
	m, err := client.Models.Load(cctx.Context, id, exp)
	if err != nil {
		return nil, nil, err
	}
	return client, m, nil
}

// evaluationAccuracy reads --accuracy, or the final accuracy of --history.
func evaluationAccuracy(cctx *cli.Context) (float64, error) {
	switch {
	case cctx.IsSet("accuracy") && cctx.IsSet("history"):
		return 0, errors.New("--accuracy and --history are mutually exclusive")
	case cctx.IsSet("accuracy"):
		return cctx.Float64("accuracy"), nil
	case cctx.IsSet("history"):
		h, err := domain.LoadTrainingHistory(cctx.String("history"))
		if err != nil {
			return 0, err
		}
		accuracy, metric, err := h.FinalAccuracy()
		if err != nil {
			return 0, err
		}
		log.WithFields(log.Fields{
			"metric": metric,
			"epochs": h.Epochs(),
		}).Info("accuracy taken from training history")
		return accuracy, nil
	default:
		return 0, fmt.Errorf("one of --accuracy or --history is required")
	}
}
