package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"model-platform-sdk/internal/api"
	ports "model-platform-sdk/internal/core/ports/output"
)

// MockPlatformAPI is a mock of PlatformAPI.
type MockPlatformAPI struct {
	mock.Mock
}

func (m *MockPlatformAPI) Login(ctx context.Context, userID, password string) error {
	args := m.Called(ctx, userID, password)
	return args.Error(0)
}

func (m *MockPlatformAPI) ListServices(ctx context.Context) ([]api.ServiceInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.ServiceInfo), args.Error(1)
}

func (m *MockPlatformAPI) AddModelHistory(ctx context.Context, serverID string, req *api.AddModelHistoryRequest) (*api.ModelHistoryEntity, error) {
	args := m.Called(ctx, serverID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ModelHistoryEntity), args.Error(1)
}

func (m *MockPlatformAPI) GetModelHistory(ctx context.Context, serverID, id string) (*api.ModelHistoryEntity, error) {
	args := m.Called(ctx, serverID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ModelHistoryEntity), args.Error(1)
}

func (m *MockPlatformAPI) DeleteModelHistory(ctx context.Context, serverID, id string) error {
	args := m.Called(ctx, serverID, id)
	return args.Error(0)
}

func (m *MockPlatformAPI) AddExperiment(ctx context.Context, serverID string, req *api.ExperimentEntity) (*api.ExperimentEntity, error) {
	args := m.Called(ctx, serverID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ExperimentEntity), args.Error(1)
}

func (m *MockPlatformAPI) GetExperiment(ctx context.Context, serverID, id string) (*api.ExperimentEntity, error) {
	args := m.Called(ctx, serverID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ExperimentEntity), args.Error(1)
}

func (m *MockPlatformAPI) DeleteExperiment(ctx context.Context, serverID, id string) error {
	args := m.Called(ctx, serverID, id)
	return args.Error(0)
}

func (m *MockPlatformAPI) AddModelInstance(ctx context.Context, serverID string, req *api.ModelInstanceEntity) (*api.ModelInstanceEntity, error) {
	args := m.Called(ctx, serverID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ModelInstanceEntity), args.Error(1)
}

func (m *MockPlatformAPI) GetModelInstance(ctx context.Context, serverID, id string) (*api.ModelInstanceEntity, error) {
	args := m.Called(ctx, serverID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ModelInstanceEntity), args.Error(1)
}

func (m *MockPlatformAPI) DeleteModelInstance(ctx context.Context, serverID, id string) error {
	args := m.Called(ctx, serverID, id)
	return args.Error(0)
}

func (m *MockPlatformAPI) AddEvaluationResult(ctx context.Context, serverID string, req *api.EvaluationResultsEntity) (*api.EvaluationResultsEntity, error) {
	args := m.Called(ctx, serverID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.EvaluationResultsEntity), args.Error(1)
}

func (m *MockPlatformAPI) CreateDeployment(ctx context.Context, req *api.CreateDeploymentRequest) (*api.DeploymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.DeploymentResponse), args.Error(1)
}

func (m *MockPlatformAPI) GetDeployment(ctx context.Context, id string) (*api.DeploymentResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.DeploymentResponse), args.Error(1)
}

func (m *MockPlatformAPI) ListDeployments(ctx context.Context) ([]api.DeploymentResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.DeploymentResponse), args.Error(1)
}

func (m *MockPlatformAPI) DeleteDeployment(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPlatformAPI) DeployModel(ctx context.Context, deploymentID string, req *api.ImportModelRequest) (*api.ModelEntity, error) {
	args := m.Called(ctx, deploymentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ModelEntity), args.Error(1)
}

func (m *MockPlatformAPI) GetDeployedModel(ctx context.Context, deploymentID, modelID string) (*api.ModelEntity, error) {
	args := m.Called(ctx, deploymentID, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ModelEntity), args.Error(1)
}

func (m *MockPlatformAPI) DeleteDeployedModel(ctx context.Context, deploymentID, modelID string) error {
	args := m.Called(ctx, deploymentID, modelID)
	return args.Error(0)
}

func (m *MockPlatformAPI) SetModelState(ctx context.Context, deploymentID, modelID, state string) (*api.ModelEntity, error) {
	args := m.Called(ctx, deploymentID, modelID, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ModelEntity), args.Error(1)
}

// MockArtifactStore is a mock of ArtifactStore.
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) Upload(ctx context.Context, localPath string) (string, error) {
	args := m.Called(ctx, localPath)
	return args.String(0), args.Error(1)
}

// MockServingMirror is a mock of ServingMirror.
type MockServingMirror struct {
	mock.Mock
}

func (m *MockServingMirror) Start(ctx context.Context, deployment *api.DeploymentResponse, model *api.ModelEntity) (string, error) {
	args := m.Called(ctx, deployment, model)
	return args.String(0), args.Error(1)
}

func (m *MockServingMirror) Stop(ctx context.Context, deployment *api.DeploymentResponse, model *api.ModelEntity) error {
	args := m.Called(ctx, deployment, model)
	return args.Error(0)
}

func (m *MockServingMirror) Status(ctx context.Context, deployment *api.DeploymentResponse, model *api.ModelEntity) (*ports.MirrorStatus, error) {
	args := m.Called(ctx, deployment, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.MirrorStatus), args.Error(1)
}

func (m *MockServingMirror) IsAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}

var (
	_ ports.PlatformAPI   = (*MockPlatformAPI)(nil)
	_ ports.ArtifactStore = (*MockArtifactStore)(nil)
	_ ports.ServingMirror = (*MockServingMirror)(nil)
)
