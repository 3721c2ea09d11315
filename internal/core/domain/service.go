package domain

import (
	"model-platform-sdk/internal/api"
)

// Service is the inference endpoint of a deployed model.
type Service struct {
	Model           *Model
	Deployment      *Deployment
	ModelDeployment *api.ModelEntity
	Running         bool
}

func NewService(m *Model, d *Deployment, md *api.ModelEntity) *Service {
	return &Service{
		Model:           m,
		Deployment:      d,
		ModelDeployment: md,
		Running:         md != nil && md.State == api.ModelStateStarted,
	}
}

// SetRemoteState applies a deployed model record fetched from the platform.
func (s *Service) SetRemoteState(md *api.ModelEntity) {
	s.ModelDeployment = md
	s.Running = md.State == api.ModelStateStarted
}

func (s *Service) MarkStarted() {
	s.Running = true
	if s.ModelDeployment != nil {
		s.ModelDeployment.State = api.ModelStateStarted
	}
}

func (s *Service) MarkStopped() {
	s.Running = false
	if s.ModelDeployment != nil {
		s.ModelDeployment.State = api.ModelStateStopped
	}
}
