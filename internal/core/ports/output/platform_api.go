package ports

import (
	"context"

	"model-platform-sdk/internal/api"
)

// PlatformAPI is the remote model-management platform as the SDK sees it.
// Every method is one blocking REST call.
type PlatformAPI interface {
	// Session
	Login(ctx context.Context, userID, password string) error
	ListServices(ctx context.Context) ([]api.ServiceInfo, error)

	// Workspaces (model histories)
	AddModelHistory(ctx context.Context, serverID string, req *api.AddModelHistoryRequest) (*api.ModelHistoryEntity, error)
	GetModelHistory(ctx context.Context, serverID, id string) (*api.ModelHistoryEntity, error)
	DeleteModelHistory(ctx context.Context, serverID, id string) error

	// Experiments
	AddExperiment(ctx context.Context, serverID string, req *api.ExperimentEntity) (*api.ExperimentEntity, error)
	GetExperiment(ctx context.Context, serverID, id string) (*api.ExperimentEntity, error)
	DeleteExperiment(ctx context.Context, serverID, id string) error

	// Model instances and evaluations
	AddModelInstance(ctx context.Context, serverID string, req *api.ModelInstanceEntity) (*api.ModelInstanceEntity, error)
	GetModelInstance(ctx context.Context, serverID, id string) (*api.ModelInstanceEntity, error)
	DeleteModelInstance(ctx context.Context, serverID, id string) error
	AddEvaluationResult(ctx context.Context, serverID string, req *api.EvaluationResultsEntity) (*api.EvaluationResultsEntity, error)

	// Deployments
	CreateDeployment(ctx context.Context, req *api.CreateDeploymentRequest) (*api.DeploymentResponse, error)
	GetDeployment(ctx context.Context, id string) (*api.DeploymentResponse, error)
	ListDeployments(ctx context.Context) ([]api.DeploymentResponse, error)
	DeleteDeployment(ctx context.Context, id string) error

	// Deployed models
	DeployModel(ctx context.Context, deploymentID string, req *api.ImportModelRequest) (*api.ModelEntity, error)
	GetDeployedModel(ctx context.Context, deploymentID, modelID string) (*api.ModelEntity, error)
	DeleteDeployedModel(ctx context.Context, deploymentID, modelID string) error
	SetModelState(ctx context.Context, deploymentID, modelID, state string) (*api.ModelEntity, error)
}

// ArtifactStore puts a local model file where the platform can read it and
// returns the URI it is reachable under.
type ArtifactStore interface {
	Upload(ctx context.Context, localPath string) (string, error)
}
