// Package emulator is an in-process implementation of the model platform REST
// surface. It backs the SDK's integration tests and the platform-emulator binary.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"model-platform-sdk/internal/api"
	"model-platform-sdk/internal/core/domain"
	ports "model-platform-sdk/internal/core/ports/output"
)

const DeploymentStatusActive = "Active"

type Options struct {
	ServerID   string
	User       string
	Password   string
	StorageDir string
	// Mirror is optional; nil or unavailable leaves state changes local.
	Mirror ports.ServingMirror
}

// Registry holds the platform state behind the emulator's handlers.
type Registry struct {
	store  ports.RecordStore
	mirror ports.ServingMirror
	opts   Options
	now    func() time.Time

	mu     sync.RWMutex
	tokens map[string]string
}

func NewRegistry(store ports.RecordStore, opts Options) *Registry {
	return &Registry{
		store:  store,
		mirror: opts.Mirror,
		opts:   opts,
		now:    time.Now,
		tokens: make(map[string]string),
	}
}

func (r *Registry) nowMillis() int64 {
	return r.now().UnixMilli()
}

// ============================================================================
// Session
// ============================================================================

// Login checks the credentials and issues a bearer token.
func (r *Registry) Login(userID, password string) (string, error) {
	if userID != r.opts.User || password != r.opts.Password {
		return "", domain.ErrInvalidCredentials
	}
	token := uuid.New().String()

	r.mu.Lock()
	r.tokens[token] = userID
	r.mu.Unlock()

	return token, nil
}

// Authenticate reports whether token was issued by Login.
func (r *Registry) Authenticate(token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tokens[token]
	return ok
}

func (r *Registry) Services() []api.ServiceInfo {
	return []api.ServiceInfo{
		{
			ID:     r.opts.ServerID,
			Name:   "Model History Server",
			Type:   api.ServiceTypeModelHistory,
			Status: "started",
		},
	}
}

func (r *Registry) checkServer(serverID string) error {
	if serverID != r.opts.ServerID {
		return fmt.Errorf("%w: %s", domain.ErrUnknownServer, serverID)
	}
	return nil
}

// mapStoreError translates store sentinels into the domain error of kind.
func mapStoreError(err, notFound, exists error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ports.ErrRecordNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, ports.ErrRecordExists) && exists != nil:
		return exists
	default:
		return err
	}
}

// ============================================================================
// Model history
// ============================================================================

func (r *Registry) AddModelHistory(ctx context.Context, serverID string, req *api.AddModelHistoryRequest) (*api.ModelHistoryEntity, error) {
	if err := r.checkServer(serverID); err != nil {
		return nil, err
	}

	ws := &api.ModelHistoryEntity{
		ModelHistoryID: uuid.New().String(),
		ModelName:      req.ModelName,
		ModelLabels:    req.ModelLabels,
		Created:        r.nowMillis(),
	}
	if err := r.store.Insert(ctx, ports.KindWorkSpace, ws.ModelHistoryID, ws); err != nil {
		return nil, mapStoreError(err, nil, domain.ErrWorkSpaceExists)
	}
	return ws, nil
}

func (r *Registry) GetModelHistory(ctx context.Context, serverID, id string) (*api.ModelHistoryEntity, error) {
	if err := r.checkServer(serverID); err != nil {
		return nil, err
	}
	var ws api.ModelHistoryEntity
	if err := r.store.Get(ctx, ports.KindWorkSpace, id, &ws); err != nil {
		return nil, mapStoreError(err, domain.ErrWorkSpaceNotFound, nil)
	}
	return &ws, nil
}

// DeleteModelHistory removes a workspace. Workspaces that still hold
// experiments are refused.
func (r *Registry) DeleteModelHistory(ctx context.Context, serverID, id string) error {
	if _, err := r.GetModelHistory(ctx, serverID, id); err != nil {
		return err
	}

	var children int
	err := r.store.List(ctx, ports.KindExperiment, func(raw []byte) error {
		var exp api.ExperimentEntity
		if err := decode(raw, &exp); err != nil {
			return err
		}
		if exp.ModelHistoryID == id {
			children++
		}
		return nil
	})
	if err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("%w: %d experiment(s) left", domain.ErrWorkSpaceNotEmpty, children)
	}

	return mapStoreError(r.store.Delete(ctx, ports.KindWorkSpace, id), domain.ErrWorkSpaceNotFound, nil)
}

// ============================================================================
// Experiments
// ============================================================================

func (r *Registry) AddExperiment(ctx context.Context, serverID string, req *api.ExperimentEntity) (*api.ExperimentEntity, error) {
	if _, err := r.GetModelHistory(ctx, serverID, req.ModelHistoryID); err != nil {
		return nil, err
	}

	exp := *req
	if exp.ExperimentID == "" {
		exp.ExperimentID = uuid.New().String()
	}
	if exp.Created == 0 {
		exp.Created = r.nowMillis()
	}
	if err := r.store.Insert(ctx, ports.KindExperiment, exp.ExperimentID, &exp); err != nil {
		return nil, mapStoreError(err, nil, domain.ErrExperimentExists)
	}
	return &exp, nil
}

func (r *Registry) GetExperiment(ctx context.Context, serverID, id string) (*api.ExperimentEntity, error) {
	if err := r.checkServer(serverID); err != nil {
		return nil, err
	}
	var exp api.ExperimentEntity
	if err := r.store.Get(ctx, ports.KindExperiment, id, &exp); err != nil {
		return nil, mapStoreError(err, domain.ErrExperimentNotFound, nil)
	}
	return &exp, nil
}

func (r *Registry) DeleteExperiment(ctx context.Context, serverID, id string) error {
	if err := r.checkServer(serverID); err != nil {
		return err
	}
	return mapStoreError(r.store.Delete(ctx, ports.KindExperiment, id), domain.ErrExperimentNotFound, nil)
}

// ============================================================================
// Model instances
// ============================================================================

func (r *Registry) AddModelInstance(ctx context.Context, serverID string, req *api.ModelInstanceEntity) (*api.ModelInstanceEntity, error) {
	if _, err := r.GetExperiment(ctx, serverID, req.ExperimentID); err != nil {
		return nil, err
	}

	m := *req
	if m.ModelID == "" {
		m.ModelID = uuid.New().String()
	}
	if m.ModelVersion <= 0 {
		m.ModelVersion = domain.DefaultModelVersion
	}
	if m.Created == 0 {
		m.Created = r.nowMillis()
	}
	if err := r.store.Insert(ctx, ports.KindModel, m.ModelID, &m); err != nil {
		return nil, mapStoreError(err, nil, domain.ErrModelExists)
	}
	return &m, nil
}

func (r *Registry) GetModelInstance(ctx context.Context, serverID, id string) (*api.ModelInstanceEntity, error) {
	if err := r.checkServer(serverID); err != nil {
		return nil, err
	}
	var m api.ModelInstanceEntity
	if err := r.store.Get(ctx, ports.KindModel, id, &m); err != nil {
		return nil, mapStoreError(err, domain.ErrModelNotFound, nil)
	}
	return &m, nil
}

func (r *Registry) DeleteModelInstance(ctx context.Context, serverID, id string) error {
	if err := r.checkServer(serverID); err != nil {
		return err
	}
	return mapStoreError(r.store.Delete(ctx, ports.KindModel, id), domain.ErrModelNotFound, nil)
}

// AddEvaluationResult stores an evaluation keyed by model instance and eval id.
// Re-posting the same eval id replaces the earlier result.
func (r *Registry) AddEvaluationResult(ctx context.Context, serverID string, req *api.EvaluationResultsEntity) (*api.EvaluationResultsEntity, error) {
	if _, err := r.GetModelInstance(ctx, serverID, req.ModelInstanceID); err != nil {
		return nil, err
	}

	eval := *req
	if eval.EvalID == "" {
		eval.EvalID = uuid.New().String()
	}
	if eval.Created == 0 {
		eval.Created = r.nowMillis()
	}
	if err := r.store.Put(ctx, ports.KindEvaluation, eval.ModelInstanceID+"/"+eval.EvalID, &eval); err != nil {
		return nil, err
	}
	return &eval, nil
}

// ============================================================================
// Deployments
// ============================================================================

func (r *Registry) CreateDeployment(ctx context.Context, req *api.CreateDeploymentRequest) (*api.DeploymentResponse, error) {
	d := &api.DeploymentResponse{
		ID:             uuid.New().String(),
		Name:           req.Name,
		DeploymentSlug: generateSlug(req.Name),
		Status:         DeploymentStatusActive,
		Created:        r.nowMillis(),
	}
	if err := r.store.Insert(ctx, ports.KindDeployment, d.ID, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *Registry) GetDeployment(ctx context.Context, id string) (*api.DeploymentResponse, error) {
	var d api.DeploymentResponse
	if err := r.store.Get(ctx, ports.KindDeployment, id, &d); err != nil {
		return nil, mapStoreError(err, domain.ErrDeploymentNotFound, nil)
	}
	return &d, nil
}

func (r *Registry) ListDeployments(ctx context.Context) ([]api.DeploymentResponse, error) {
	out := []api.DeploymentResponse{}
	err := r.store.List(ctx, ports.KindDeployment, func(raw []byte) error {
		var d api.DeploymentResponse
		if err := decode(raw, &d); err != nil {
			return err
		}
		out = append(out, d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteDeployment removes the deployment and every model deployed into it.
func (r *Registry) DeleteDeployment(ctx context.Context, id string) error {
	d, err := r.GetDeployment(ctx, id)
	if err != nil {
		return err
	}

	models, err := r.deployedModels(ctx, id)
	if err != nil {
		return err
	}
	for i := range models {
		if err := r.removeDeployedModel(ctx, d, &models[i]); err != nil {
			return err
		}
	}

	return mapStoreError(r.store.Delete(ctx, ports.KindDeployment, id), domain.ErrDeploymentNotFound, nil)
}

func (r *Registry) deployedModels(ctx context.Context, deploymentID string) ([]api.ModelEntity, error) {
	var out []api.ModelEntity
	err := r.store.List(ctx, ports.KindDeployedModel, func(raw []byte) error {
		var md api.ModelEntity
		if err := decode(raw, &md); err != nil {
			return err
		}
		if md.DeploymentID == deploymentID {
			out = append(out, md)
		}
		return nil
	})
	return out, err
}

// ============================================================================
// Deployed models
// ============================================================================

// DeployModel imports a model into a deployment. New deployed models are stopped.
func (r *Registry) DeployModel(ctx context.Context, deploymentID string, req *api.ImportModelRequest) (*api.ModelEntity, error) {
	if _, err := r.GetDeployment(ctx, deploymentID); err != nil {
		return nil, err
	}

	scale := req.Scale
	if scale <= 0 {
		scale = 1
	}
	md := &api.ModelEntity{
		ID:           uuid.New().String(),
		DeploymentID: deploymentID,
		Name:         req.Name,
		State:        api.ModelStateStopped,
		Scale:        scale,
		FileLocation: req.FileLocation,
		ModelType:    req.ModelType,
		URI:          req.URI,
		InputNames:   req.InputNames,
		OutputNames:  req.OutputNames,
		Created:      r.nowMillis(),
	}
	if err := r.store.Insert(ctx, ports.KindDeployedModel, md.ID, md); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"deployment_id": deploymentID,
		"model_id":      md.ID,
		"name":          md.Name,
	}).Info("model imported")

	return md, nil
}

// GetDeployedModel returns the model, refreshing its serving url from the mirror
// when it is started.
func (r *Registry) GetDeployedModel(ctx context.Context, deploymentID, modelID string) (*api.ModelEntity, error) {
	d, md, err := r.lookupDeployedModel(ctx, deploymentID, modelID)
	if err != nil {
		return nil, err
	}

	if md.State == api.ModelStateStarted && r.mirrorAvailable() {
		status, err := r.mirror.Status(ctx, d, md)
		if err != nil {
			log.WithError(err).WithField("model_id", md.ID).Warn("serving mirror status failed")
		} else if status.URL != "" {
			md.ServingURL = status.URL
		}
	}
	return md, nil
}

func (r *Registry) DeleteDeployedModel(ctx context.Context, deploymentID, modelID string) error {
	d, md, err := r.lookupDeployedModel(ctx, deploymentID, modelID)
	if err != nil {
		return err
	}
	return r.removeDeployedModel(ctx, d, md)
}

func (r *Registry) removeDeployedModel(ctx context.Context, d *api.DeploymentResponse, md *api.ModelEntity) error {
	if md.State == api.ModelStateStarted && r.mirrorAvailable() {
		// Already gone from the cluster is fine.
		if err := r.mirror.Stop(ctx, d, md); err != nil {
			log.WithError(err).WithField("model_id", md.ID).Warn("serving mirror stop failed")
		}
	}
	return mapStoreError(r.store.Delete(ctx, ports.KindDeployedModel, md.ID), domain.ErrDeployedModelNotFound, nil)
}

// SetModelState starts or stops a deployed model.
func (r *Registry) SetModelState(ctx context.Context, deploymentID, modelID, state string) (*api.ModelEntity, error) {
	if state != api.StateStart && state != api.StateStop {
		return nil, domain.ErrInvalidState
	}

	d, md, err := r.lookupDeployedModel(ctx, deploymentID, modelID)
	if err != nil {
		return nil, err
	}

	switch state {
	case api.StateStart:
		if md.State == api.ModelStateStarted {
			return md, nil
		}
		if r.mirrorAvailable() {
			externalID, err := r.mirror.Start(ctx, d, md)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrMirrorFailed, err)
			}
			log.WithFields(log.Fields{
				"model_id":    md.ID,
				"external_id": externalID,
			}).Info("model mirrored to serving runtime")
		} else if len(md.URI) > 0 {
			md.ServingURL = "/" + md.URI[0]
		}
		md.State = api.ModelStateStarted

	case api.StateStop:
		if md.State == api.ModelStateStarted && r.mirrorAvailable() {
			if err := r.mirror.Stop(ctx, d, md); err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrMirrorFailed, err)
			}
		}
		md.State = api.ModelStateStopped
		md.ServingURL = ""
	}

	if err := r.store.Put(ctx, ports.KindDeployedModel, md.ID, md); err != nil {
		return nil, err
	}
	return md, nil
}

func (r *Registry) lookupDeployedModel(ctx context.Context, deploymentID, modelID string) (*api.DeploymentResponse, *api.ModelEntity, error) {
	d, err := r.GetDeployment(ctx, deploymentID)
	if err != nil {
		return nil, nil, err
	}

	var md api.ModelEntity
	if err := r.store.Get(ctx, ports.KindDeployedModel, modelID, &md); err != nil {
		return nil, nil, mapStoreError(err, domain.ErrDeployedModelNotFound, nil)
	}
	if md.DeploymentID != deploymentID {
		return nil, nil, domain.ErrDeployedModelNotFound
	}
	return d, &md, nil
}

func (r *Registry) mirrorAvailable() bool {
	return r.mirror != nil && r.mirror.IsAvailable()
}

func generateSlug(name string) string {
	var b strings.Builder
	for _, ch := range name {
		switch {
		case (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') || ch == '-':
			b.WriteRune(ch)
		case ch >= 'A' && ch <= 'Z':
			b.WriteRune(ch + 32)
		case ch == ' ' || ch == '_' || ch == '.':
			b.WriteByte('-')
		}
	}
	slug := b.String()
	if len(slug) > 60 {
		slug = slug[:60]
	}
	return slug
}
