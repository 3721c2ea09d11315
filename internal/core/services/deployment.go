package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"model-platform-sdk/internal/api"
	"model-platform-sdk/internal/core/domain"
)

type DeploymentService struct {
	session *Session
}

func NewDeploymentService(session *Session) *DeploymentService {
	return &DeploymentService{session: session}
}

func (s *DeploymentService) Create(ctx context.Context, d *domain.Deployment) (*domain.Deployment, error) {
	if d == nil {
		return nil, domain.ErrMissingDeployment
	}

	resp, err := s.session.api.CreateDeployment(ctx, &api.CreateDeploymentRequest{Name: d.Name})
	if err != nil {
		return nil, fmt.Errorf("create deployment: %w", err)
	}
	d.MarkRegistered(resp)

	log.WithFields(log.Fields{
		"deployment_id": d.ID,
		"name":          d.Name,
	}).Debug("deployment created")

	return d, nil
}

func (s *DeploymentService) Get(ctx context.Context, id string) (*domain.Deployment, error) {
	resp, err := s.session.api.GetDeployment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get deployment: %w", err)
	}
	return domain.DeploymentFromResponse(resp), nil
}

func (s *DeploymentService) List(ctx context.Context) ([]*domain.Deployment, error) {
	resp, err := s.session.api.ListDeployments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}

	out := make([]*domain.Deployment, 0, len(resp))
	for i := range resp {
		out = append(out, domain.DeploymentFromResponse(&resp[i]))
	}
	return out, nil
}

func (s *DeploymentService) Delete(ctx context.Context, d *domain.Deployment) domain.DeleteResult {
	if !d.Registered() {
		return reportDelete(domain.OpDeleteDeployment, "", domain.ErrNotRegistered)
	}
	err := s.session.api.DeleteDeployment(ctx, d.ID)
	return reportDelete(domain.OpDeleteDeployment, d.ID, err)
}
