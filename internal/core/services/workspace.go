package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"model-platform-sdk/internal/api"
	"model-platform-sdk/internal/core/domain"
)

type WorkSpaceService struct {
	session *Session
}

func NewWorkSpaceService(session *Session) *WorkSpaceService {
	return &WorkSpaceService{session: session}
}

// Create registers ws with the platform and fills in its id.
func (s *WorkSpaceService) Create(ctx context.Context, ws *domain.WorkSpace) (*domain.WorkSpace, error) {
	if ws == nil {
		return nil, domain.ErrMissingWorkSpace
	}

	resp, err := s.session.api.AddModelHistory(ctx, s.session.serverID, &api.AddModelHistoryRequest{
		ModelName:   ws.Name,
		ModelLabels: ws.Labels,
	})
	if err != nil {
		return nil, fmt.Errorf("add workspace: %w", err)
	}
	ws.MarkRegistered(s.session.serverID, resp)

	log.WithFields(log.Fields{
		"workspace_id": ws.ID,
		"name":         ws.Name,
	}).Debug("workspace created")

	return ws, nil
}

func (s *WorkSpaceService) Get(ctx context.Context, id string) (*domain.WorkSpace, error) {
	resp, err := s.session.api.GetModelHistory(ctx, s.session.serverID, id)
	if err != nil {
		return nil, fmt.Errorf("get workspace: %w", err)
	}
	ws := domain.NewWorkSpace(resp.ModelName, resp.ModelLabels)
	ws.MarkRegistered(s.session.serverID, resp)
	return ws, nil
}

func (s *WorkSpaceService) Delete(ctx context.Context, ws *domain.WorkSpace) domain.DeleteResult {
	if !ws.Registered() {
		return reportDelete(domain.OpDeleteWorkSpace, "", domain.ErrNotRegistered)
	}
	err := s.session.api.DeleteModelHistory(ctx, s.session.serverID, ws.ID)
	return reportDelete(domain.OpDeleteWorkSpace, ws.ID, err)
}
