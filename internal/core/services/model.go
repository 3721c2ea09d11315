package services

import (
	"context"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"model-platform-sdk/internal/api"
	"model-platform-sdk/internal/core/domain"
)

const DefaultEvaluationVersion = 1

type ModelService struct {
	session     *Session
	experiments *ExperimentService
	deployments *DeploymentService
	serving     *ServingService
}

func NewModelService(
	session *Session,
	experiments *ExperimentService,
	deployments *DeploymentService,
	serving *ServingService,
) *ModelService {
	return &ModelService{
		session:     session,
		experiments: experiments,
		deployments: deployments,
		serving:     serving,
	}
}

type ModelSpec struct {
	Artifact   domain.Artifact
	ID         string
	Name       string
	Version    int
	Experiment *domain.Experiment
	Labels     string
}

type EvaluationSpec struct {
	Accuracy float64
	ID       string
	Name     string
	Version  int
}

type DeploySpec struct {
	// Deployment to publish into. Nil creates one named after the model.
	Deployment  *domain.Deployment
	SkipStart   bool
	Scale       int
	InputNames  []string
	OutputNames []string
}

// Create uploads the artifact and registers a model instance under spec.Experiment,
// creating a default workspace and experiment when none is given.
func (s *ModelService) Create(ctx context.Context, spec ModelSpec) (*domain.Model, error) {
	// 1. Resolve the artifact before touching the platform
	path, serialized, err := spec.Artifact.Resolve(s.session.tempDir)
	if err != nil {
		return nil, err
	}

	// 2. Make sure the experiment exists
	exp := spec.Experiment
	if exp == nil {
		exp = domain.NewExperiment(nil, "", "", "")
	}
	if !exp.Registered() {
		if _, err := s.experiments.Create(ctx, exp); err != nil {
			return nil, err
		}
	}

	// 3. Upload
	uri, err := s.session.artifacts.Upload(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("upload model artifact: %w", err)
	}

	// 4. Register the instance
	m := domain.NewModel(exp, path, spec.ID, spec.Name, spec.Version, spec.Labels)
	m.URI = uri
	m.Created = s.session.nowMillis()

	resp, err := s.session.api.AddModelInstance(ctx, s.session.serverID, m.Entity())
	if err != nil {
		return nil, fmt.Errorf("add model instance: %w", err)
	}
	m.Response = resp

	log.WithFields(log.Fields{
		"model_id":      m.ID,
		"experiment_id": exp.ID,
		"uri":           m.URI,
		"serialized":    serialized,
	}).Info("model registered")

	return m, nil
}

// Load fetches a registered model instance by id.
func (s *ModelService) Load(ctx context.Context, id string, exp *domain.Experiment) (*domain.Model, error) {
	if id == "" {
		return nil, domain.ErrMissingModelID
	}
	if exp == nil {
		return nil, domain.ErrMissingExperiment
	}

	resp, err := s.session.api.GetModelInstance(ctx, s.session.serverID, id)
	if err != nil {
		return nil, fmt.Errorf("get model instance: %w", err)
	}
	return domain.ModelFromEntity(exp, resp), nil
}

func (s *ModelService) Delete(ctx context.Context, m *domain.Model) domain.DeleteResult {
	err := s.session.api.DeleteModelInstance(ctx, s.session.serverID, m.ID)
	return reportDelete(domain.OpDeleteModel, m.ID, err)
}

// AddEvaluation records an accuracy result for m. Id and name default to the model
// id, version to 1. The result is kept on the model under its evaluation id.
func (s *ModelService) AddEvaluation(ctx context.Context, m *domain.Model, spec EvaluationSpec) (*domain.EvaluationResult, error) {
	if math.IsNaN(spec.Accuracy) || math.IsInf(spec.Accuracy, 0) {
		return nil, domain.ErrInvalidAccuracy
	}

	evalID := spec.ID
	if evalID == "" {
		evalID = m.ID
	}
	evalName := spec.Name
	if evalName == "" {
		evalName = m.ID
	}
	version := spec.Version
	if version <= 0 {
		version = DefaultEvaluationVersion
	}

	resp, err := s.session.api.AddEvaluationResult(ctx, s.session.serverID, &api.EvaluationResultsEntity{
		Evaluation:      "",
		Created:         s.session.nowMillis(),
		EvalName:        evalName,
		ModelInstanceID: m.ID,
		Accuracy:        spec.Accuracy,
		EvalID:          evalID,
		EvalVersion:     version,
	})
	if err != nil {
		return nil, fmt.Errorf("add evaluation result: %w", err)
	}
	m.Evaluations().Put(evalID, resp)

	return resp, nil
}

// Deploy publishes m into a deployment and returns its service, started unless
// spec.SkipStart is set. If starting fails the model stays deployed and the error
// is returned; Undeploy still applies. A deployment created here is removed
// again when the import fails.
func (s *ModelService) Deploy(ctx context.Context, m *domain.Model, spec DeploySpec) (*domain.Service, error) {
	scale := spec.Scale
	if scale == 0 {
		scale = 1
	}
	if scale < 0 {
		return nil, domain.ErrInvalidScale
	}

	// 1. Resolve the deployment
	d := spec.Deployment
	if d == nil {
		d = domain.NewDeployment(m.Name)
	}
	if !d.Registered() {
		if _, err := s.deployments.Create(ctx, d); err != nil {
			return nil, err
		}
	}

	// 2. Import the model
	md, err := s.session.api.DeployModel(ctx, d.ID, &api.ImportModelRequest{
		Name:         m.Name,
		Scale:        scale,
		FileLocation: m.URI,
		ModelType:    api.ModelTypeModel,
		URI:          domain.DeploymentURIs(d.Name, m.Name),
		InputNames:   spec.InputNames,
		OutputNames:  spec.OutputNames,
	})
	if err != nil {
		if spec.Deployment == nil {
			// Nobody else holds the deployment created above.
			s.deployments.Delete(ctx, d)
		}
		return nil, fmt.Errorf("deploy model: %w", err)
	}
	m.MarkDeployed(d, md)

	log.WithFields(log.Fields{
		"model_id":      m.ID,
		"deployment_id": d.ID,
		"deployed_id":   md.ID,
	}).Info("model deployed")

	// 3. Start serving
	svc := domain.NewService(m, d, md)
	if !spec.SkipStart {
		if err := s.serving.Start(ctx, svc); err != nil {
			return nil, err
		}
	}

	return svc, nil
}

// Undeploy removes m from its deployment. Undeploying a model that was never
// deployed fails without a remote call.
func (s *ModelService) Undeploy(ctx context.Context, m *domain.Model) domain.DeleteResult {
	if !m.IsDeployed() {
		return reportDelete(domain.OpUndeployModel, m.ID, domain.ErrModelNotDeployed)
	}

	err := s.session.api.DeleteDeployedModel(ctx, m.Deployment.ID, m.ModelDeployment.ID)
	if err == nil {
		m.MarkUndeployed()
	}
	return reportDelete(domain.OpUndeployModel, m.ID, err)
}
