package domain

import (
	"path/filepath"

	"github.com/google/uuid"

	"model-platform-sdk/internal/api"
)

const DefaultModelVersion = 1

// Model is a registered, versioned artifact. It belongs to exactly one Experiment.
type Model struct {
	ID       string
	Name     string
	Version  int
	FilePath string
	URI      string
	Labels   string
	Created  int64

	Experiment *Experiment

	// Set by deploy
	Deployment      *Deployment
	ModelDeployment *api.ModelEntity

	Response    *api.ModelInstanceEntity
	evaluations Evaluations
}

// NewModel builds an unregistered model for the artifact at filePath. Empty id,
// name and zero version fall back to a fresh UUID, the artifact's base name and 1.
func NewModel(exp *Experiment, filePath, id, name string, version int, labels string) *Model {
	if id == "" {
		id = uuid.New().String()
	}
	if name == "" {
		name = filepath.Base(filePath)
	}
	if version <= 0 {
		version = DefaultModelVersion
	}
	return &Model{
		ID:         id,
		Name:       name,
		Version:    version,
		FilePath:   filePath,
		Labels:     labels,
		Experiment: exp,
	}
}

// ModelFromEntity rebuilds a model from its platform record.
func ModelFromEntity(exp *Experiment, e *api.ModelInstanceEntity) *Model {
	return &Model{
		ID:         e.ModelID,
		Name:       e.ModelName,
		Version:    e.ModelVersion,
		URI:        e.URI,
		Labels:     e.ModelLabels,
		Created:    e.Created,
		Experiment: exp,
		Response:   e,
	}
}

// Entity is the model instance record sent on registration.
func (m *Model) Entity() *api.ModelInstanceEntity {
	return &api.ModelInstanceEntity{
		URI:          m.URI,
		ModelID:      m.ID,
		ModelLabels:  m.Labels,
		ModelName:    m.Name,
		ModelVersion: m.Version,
		Created:      m.Created,
		ExperimentID: m.Experiment.ID,
	}
}

func (m *Model) Evaluations() *Evaluations {
	return &m.evaluations
}

func (m *Model) WorkSpace() *WorkSpace {
	if m.Experiment == nil {
		return nil
	}
	return m.Experiment.WorkSpace
}

func (m *Model) IsDeployed() bool {
	return m.Deployment != nil && m.ModelDeployment != nil
}

// MarkDeployed records the deployment a model was published to.
func (m *Model) MarkDeployed(d *Deployment, md *api.ModelEntity) {
	m.Deployment = d
	m.ModelDeployment = md
}

func (m *Model) MarkUndeployed() {
	m.Deployment = nil
	m.ModelDeployment = nil
}
