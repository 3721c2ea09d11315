package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"model-platform-sdk/internal/api"
	"model-platform-sdk/internal/core/domain"
)

type ExperimentService struct {
	session    *Session
	workspaces *WorkSpaceService
}

func NewExperimentService(session *Session, workspaces *WorkSpaceService) *ExperimentService {
	return &ExperimentService{
		session:    session,
		workspaces: workspaces,
	}
}

// Create registers exp. A missing workspace is replaced by a new default one and an
// unregistered workspace is registered first.
func (s *ExperimentService) Create(ctx context.Context, exp *domain.Experiment) (*domain.Experiment, error) {
	if exp == nil {
		return nil, domain.ErrMissingExperiment
	}

	if exp.WorkSpace == nil {
		exp.WorkSpace = domain.NewWorkSpace("", "")
	}
	if !exp.WorkSpace.Registered() {
		if _, err := s.workspaces.Create(ctx, exp.WorkSpace); err != nil {
			return nil, err
		}
	}

	resp, err := s.session.api.AddExperiment(ctx, s.session.serverID, &api.ExperimentEntity{
		ExperimentID:          exp.ID,
		ExperimentName:        exp.Name,
		ExperimentDescription: exp.Description,
		ModelHistoryID:        exp.WorkSpace.ID,
		Created:               s.session.nowMillis(),
	})
	if err != nil {
		return nil, fmt.Errorf("add experiment: %w", err)
	}
	exp.MarkRegistered(resp)

	log.WithFields(log.Fields{
		"experiment_id": exp.ID,
		"workspace_id":  exp.WorkSpace.ID,
	}).Debug("experiment created")

	return exp, nil
}

// Get fetches an experiment together with its workspace.
func (s *ExperimentService) Get(ctx context.Context, id string) (*domain.Experiment, error) {
	resp, err := s.session.api.GetExperiment(ctx, s.session.serverID, id)
	if err != nil {
		return nil, fmt.Errorf("get experiment: %w", err)
	}

	ws, err := s.workspaces.Get(ctx, resp.ModelHistoryID)
	if err != nil {
		return nil, err
	}

	exp := &domain.Experiment{WorkSpace: ws}
	exp.MarkRegistered(resp)
	return exp, nil
}

func (s *ExperimentService) Delete(ctx context.Context, exp *domain.Experiment) domain.DeleteResult {
	if !exp.Registered() {
		return reportDelete(domain.OpDeleteExperiment, "", domain.ErrNotRegistered)
	}
	err := s.session.api.DeleteExperiment(ctx, s.session.serverID, exp.ID)
	return reportDelete(domain.OpDeleteExperiment, exp.ID, err)
}
