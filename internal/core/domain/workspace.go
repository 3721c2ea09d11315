package domain

import (
	"model-platform-sdk/internal/api"
)

const DefaultWorkSpaceName = "workspace"

// WorkSpace groups experiments on the platform. ServerID is the model history
// server of the session that registered it.
type WorkSpace struct {
	ID       string
	Name     string
	Labels   string
	ServerID string
	Created  int64
	Response *api.ModelHistoryEntity
}

// NewWorkSpace builds an unregistered workspace.
func NewWorkSpace(name, labels string) *WorkSpace {
	if name == "" {
		name = DefaultWorkSpaceName
	}
	return &WorkSpace{
		Name:   name,
		Labels: labels,
	}
}

func (w *WorkSpace) Registered() bool {
	return w != nil && w.ID != ""
}

// MarkRegistered stores the platform's answer to the create call.
func (w *WorkSpace) MarkRegistered(serverID string, resp *api.ModelHistoryEntity) {
	w.ID = resp.ModelHistoryID
	w.ServerID = serverID
	w.Created = resp.Created
	w.Response = resp
}
