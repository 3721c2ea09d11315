package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ============================================================================
// SDK Errors
// ============================================================================

// Validation errors
var (
	ErrInvalidArtifact      = errors.New("invalid model artifact: need an existing file path or a saver")
	ErrMissingModelID       = errors.New("model ID is required")
	ErrMissingExperiment    = errors.New("experiment is required")
	ErrMissingWorkSpace     = errors.New("workspace is required")
	ErrMissingDeployment    = errors.New("deployment is required")
	ErrInvalidScale         = errors.New("scale must be >= 1")
	ErrInvalidAccuracy      = errors.New("accuracy must be a finite number")
	ErrNoModelHistoryServer = errors.New("no model history server found on the platform")
)

// State errors
var (
	ErrModelNotDeployed  = errors.New("model is not deployed")
	ErrNotRegistered     = errors.New("resource has not been registered with the platform")
	ErrMetricNotRecorded = errors.New("metric not found in training history")
)

// Remote errors; APIError matches these with errors.Is.
var (
	ErrRemoteNotFound = errors.New("remote resource not found")
	ErrUnauthorized   = errors.New("unauthorized")
)

// APIError is a non-2xx answer from the platform.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("platform api: %s", http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("platform api: %s: %s", http.StatusText(e.StatusCode), e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrRemoteNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

// ============================================================================
// Platform Emulator Errors
// ============================================================================

// Not found errors
var (
	ErrUnknownServer         = errors.New("unknown server id")
	ErrWorkSpaceNotFound     = errors.New("workspace not found")
	ErrExperimentNotFound    = errors.New("experiment not found")
	ErrModelNotFound         = errors.New("model instance not found")
	ErrDeploymentNotFound    = errors.New("deployment not found")
	ErrDeployedModelNotFound = errors.New("deployed model not found")
)

// Conflict errors
var (
	ErrWorkSpaceExists   = errors.New("workspace with this id already exists")
	ErrExperimentExists  = errors.New("experiment with this id already exists")
	ErrModelExists       = errors.New("model instance with this id already exists")
	ErrWorkSpaceNotEmpty = errors.New("workspace still has experiments")
)

// Validation errors
var (
	ErrInvalidCredentials = errors.New("invalid user id or password")
	ErrInvalidState       = errors.New("state must be start or stop")
	ErrInvalidUpload      = errors.New("upload must carry a file part")
)

// Business rule errors
var (
	ErrMirrorFailed = errors.New("serving mirror failed")
)
