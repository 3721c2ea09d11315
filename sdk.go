// Package sdk is the entry point of the model platform client. Connect builds a
// session from configuration and returns one service per platform resource.
package sdk

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"model-platform-sdk/internal/adapters/secondary/platformapi"
	"model-platform-sdk/internal/adapters/secondary/s3store"
	"model-platform-sdk/internal/config"
	"model-platform-sdk/internal/core/domain"
	ports "model-platform-sdk/internal/core/ports/output"
	"model-platform-sdk/internal/core/services"
)

type (
	Config = config.Config

	Client  = services.Client
	Session = services.Session

	ModelSpec      = services.ModelSpec
	EvaluationSpec = services.EvaluationSpec
	DeploySpec     = services.DeploySpec

	WorkSpace        = domain.WorkSpace
	Experiment       = domain.Experiment
	Model            = domain.Model
	Deployment       = domain.Deployment
	Service          = domain.Service
	EvaluationResult = domain.EvaluationResult
	DeleteResult     = domain.DeleteResult
	Artifact         = domain.Artifact
	Saver            = domain.Saver
	TrainingHistory  = domain.TrainingHistory
	APIError         = domain.APIError
)

var (
	LoadConfig = config.Load

	NewWorkSpace      = domain.NewWorkSpace
	NewExperiment     = domain.NewExperiment
	NewDeployment     = domain.NewDeployment
	ArtifactFromPath  = domain.ArtifactFromPath
	ArtifactFromSaver = domain.ArtifactFromSaver

	LoadTrainingHistory = domain.LoadTrainingHistory
)

// Connect logs in to the configured platform, resolves its model history server
// and returns a client whose services share the resulting session.
func Connect(ctx context.Context, cfg *Config) (*Client, error) {
	platform := platformapi.NewClient(&cfg.Platform)

	artifacts, err := newArtifactStore(&cfg.Artifacts, platform)
	if err != nil {
		return nil, err
	}

	session, err := services.Connect(ctx, platform, artifacts, services.SessionOptions{
		UserID:   cfg.Platform.User,
		Password: cfg.Platform.Password,
		ServerID: cfg.Platform.ServerID,
		TempDir:  cfg.Artifacts.TempDir,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Platform.URL, err)
	}
	return services.NewClient(session), nil
}

func newArtifactStore(cfg *config.ArtifactConfig, platform *platformapi.Client) (ports.ArtifactStore, error) {
	switch cfg.Store {
	case config.ArtifactStoreS3:
		store, err := s3store.NewStore(cfg)
		if err != nil {
			return nil, fmt.Errorf("create s3 artifact store: %w", err)
		}
		log.WithField("bucket", cfg.S3Bucket).Info("uploading artifacts to S3")
		return store, nil
	default:
		return platform, nil
	}
}
