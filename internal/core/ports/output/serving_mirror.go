package ports

import (
	"context"

	"model-platform-sdk/internal/api"
)

// MirrorStatus is what the cluster reports for a mirrored service.
type MirrorStatus struct {
	URL   string
	Ready bool
	Error string
}

// ServingMirror reflects started model services into a real serving runtime.
type ServingMirror interface {
	// Start creates the runtime resource for a started model and returns its external id.
	Start(ctx context.Context, deployment *api.DeploymentResponse, model *api.ModelEntity) (string, error)

	// Stop removes the runtime resource.
	Stop(ctx context.Context, deployment *api.DeploymentResponse, model *api.ModelEntity) error

	// Status reads the runtime resource state.
	Status(ctx context.Context, deployment *api.DeploymentResponse, model *api.ModelEntity) (*MirrorStatus, error)

	// IsAvailable checks if the mirror is enabled and configured
	IsAvailable() bool
}
