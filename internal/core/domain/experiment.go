package domain

import (
	"github.com/google/uuid"

	"model-platform-sdk/internal/api"
)

const DefaultExperimentName = "experiment"

// Experiment groups models under a WorkSpace.
type Experiment struct {
	ID          string
	Name        string
	Description string
	WorkSpace   *WorkSpace
	Created     int64
	Response    *api.ExperimentEntity
}

// NewExperiment builds an unregistered experiment. An empty id is replaced by a
// fresh UUID; the id is chosen client side.
func NewExperiment(ws *WorkSpace, id, name, description string) *Experiment {
	if id == "" {
		id = uuid.New().String()
	}
	if name == "" {
		name = DefaultExperimentName
	}
	return &Experiment{
		ID:          id,
		Name:        name,
		Description: description,
		WorkSpace:   ws,
	}
}

func (e *Experiment) Registered() bool {
	return e != nil && e.Response != nil
}

func (e *Experiment) MarkRegistered(resp *api.ExperimentEntity) {
	e.ID = resp.ExperimentID
	e.Name = resp.ExperimentName
	e.Description = resp.ExperimentDescription
	e.Created = resp.Created
	e.Response = resp
}
