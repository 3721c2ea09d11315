package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"model-platform-sdk/internal/api"
	"model-platform-sdk/internal/core/domain"
)

// ServingService toggles the running state of deployed model endpoints.
type ServingService struct {
	session *Session
}

func NewServingService(session *Session) *ServingService {
	return &ServingService{session: session}
}

// Get rebuilds the service of a deployed model from its ids. The model side is
// left empty.
func (s *ServingService) Get(ctx context.Context, deploymentID, deployedModelID string) (*domain.Service, error) {
	if deploymentID == "" {
		return nil, domain.ErrMissingDeployment
	}
	if deployedModelID == "" {
		return nil, domain.ErrModelNotDeployed
	}

	d, err := s.session.api.GetDeployment(ctx, deploymentID)
	if err != nil {
		return nil, fmt.Errorf("get deployment: %w", err)
	}
	md, err := s.session.api.GetDeployedModel(ctx, deploymentID, deployedModelID)
	if err != nil {
		return nil, fmt.Errorf("get deployed model: %w", err)
	}
	return domain.NewService(nil, domain.DeploymentFromResponse(d), md), nil
}

func (s *ServingService) Start(ctx context.Context, svc *domain.Service) error {
	return s.setState(ctx, svc, api.StateStart)
}

func (s *ServingService) Stop(ctx context.Context, svc *domain.Service) error {
	return s.setState(ctx, svc, api.StateStop)
}

// Refresh re-reads the deployed model and updates the running flag.
func (s *ServingService) Refresh(ctx context.Context, svc *domain.Service) error {
	if err := validateService(svc); err != nil {
		return err
	}

	md, err := s.session.api.GetDeployedModel(ctx, svc.Deployment.ID, svc.ModelDeployment.ID)
	if err != nil {
		return fmt.Errorf("get deployed model: %w", err)
	}
	svc.SetRemoteState(md)
	return nil
}

func (s *ServingService) setState(ctx context.Context, svc *domain.Service, state string) error {
	if err := validateService(svc); err != nil {
		return err
	}

	md, err := s.session.api.SetModelState(ctx, svc.Deployment.ID, svc.ModelDeployment.ID, state)
	if err != nil {
		return fmt.Errorf("%s service: %w", state, err)
	}
	if md != nil {
		svc.SetRemoteState(md)
	} else if state == api.StateStart {
		svc.MarkStarted()
	} else {
		svc.MarkStopped()
	}

	log.WithFields(log.Fields{
		"deployment_id": svc.Deployment.ID,
		"model_id":      svc.ModelDeployment.ID,
		"running":       svc.Running,
	}).Info("service state changed")

	return nil
}

func validateService(svc *domain.Service) error {
	if svc == nil || !svc.Deployment.Registered() {
		return domain.ErrMissingDeployment
	}
	if svc.ModelDeployment == nil {
		return domain.ErrModelNotDeployed
	}
	return nil
}
