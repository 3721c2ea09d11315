// Package api holds the JSON request and response bodies of the platform REST surface.
// The SDK's REST client encodes them and the platform emulator decodes them.
package api

// ============================================================================
// Session
// ============================================================================

type LoginRequest struct {
	UserID   string `json:"userId" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// ServiceTypeModelHistory identifies the service that owns workspaces, experiments and models.
const ServiceTypeModelHistory = "ModelHistoryServer"

type ServiceInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

type ServiceList struct {
	Services []ServiceInfo `json:"services"`
}

// ============================================================================
// Uploads
// ============================================================================

type UploadedFile struct {
	FileName string `json:"fileName"`
	Path     string `json:"path"`
	FileType string `json:"fileType"`
}

type UploadResponse struct {
	FileUploadResponseList []UploadedFile `json:"fileUploadResponseList"`
}

// ============================================================================
// Model history (workspaces), experiments, model instances
// ============================================================================

type AddModelHistoryRequest struct {
	ModelName   string `json:"modelName" binding:"required"`
	ModelLabels string `json:"modelLabels"`
}

type ModelHistoryEntity struct {
	ModelHistoryID string `json:"modelHistoryId"`
	ModelName      string `json:"modelName"`
	ModelLabels    string `json:"modelLabels"`
	Created        int64  `json:"created"`
}

type ExperimentEntity struct {
	ExperimentID          string `json:"experimentId"`
	ExperimentName        string `json:"experimentName"`
	ExperimentDescription string `json:"experimentDescription"`
	ModelHistoryID        string `json:"modelHistoryId" binding:"required"`
	Created               int64  `json:"created"`
}

type ModelInstanceEntity struct {
	URI          string `json:"uri"`
	ModelID      string `json:"modelId"`
	ModelLabels  string `json:"modelLabels"`
	ModelName    string `json:"modelName"`
	ModelVersion int    `json:"modelVersion"`
	Created      int64  `json:"created"`
	ExperimentID string `json:"experimentId" binding:"required"`
}

// EvaluationResultsEntity is both the add-evaluation request and its response.
// Evaluation is passed through untouched; its meaning is owned by the platform.
type EvaluationResultsEntity struct {
	Evaluation      string  `json:"evaluation"`
	Created         int64   `json:"created"`
	EvalName        string  `json:"evalName"`
	ModelInstanceID string  `json:"modelInstanceId" binding:"required"`
	Accuracy        float64 `json:"accuracy"`
	EvalID          string  `json:"evalId"`
	EvalVersion     int     `json:"evalVersion"`
}

// ============================================================================
// Deployments
// ============================================================================

type CreateDeploymentRequest struct {
	Name string `json:"name" binding:"required"`
}

type DeploymentResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DeploymentSlug string `json:"deploymentSlug"`
	Status         string `json:"status"`
	Created        int64  `json:"created"`
}

type DeploymentList struct {
	Deployments []DeploymentResponse `json:"deployments"`
}

const ModelTypeModel = "model"

type ImportModelRequest struct {
	Name         string   `json:"name" binding:"required"`
	Scale        int      `json:"scale"`
	FileLocation string   `json:"fileLocation"`
	ModelType    string   `json:"modelType"`
	URI          []string `json:"uri"`
	InputNames   []string `json:"inputNames,omitempty"`
	OutputNames  []string `json:"outputNames,omitempty"`
}

// Deployed model states.
const (
	ModelStateStarted = "started"
	ModelStateStopped = "stopped"
)

// State change verbs.
const (
	StateStart = "start"
	StateStop  = "stop"
)

type ModelEntity struct {
	ID           string   `json:"id"`
	DeploymentID string   `json:"deploymentId"`
	Name         string   `json:"name"`
	State        string   `json:"state"`
	Scale        int      `json:"scale"`
	FileLocation string   `json:"fileLocation"`
	ModelType    string   `json:"modelType"`
	URI          []string `json:"uri"`
	InputNames   []string `json:"inputNames,omitempty"`
	OutputNames  []string `json:"outputNames,omitempty"`
	ServingURL   string   `json:"servingUrl,omitempty"`
	Created      int64    `json:"created"`
}

type SetState struct {
	State string `json:"state" binding:"required"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
