package handlers

import (
	"errors"
	"net/http"

	"model-platform-sdk/internal/api"
	"model-platform-sdk/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrUnknownServer),
		errors.Is(err, domain.ErrWorkSpaceNotFound),
		errors.Is(err, domain.ErrExperimentNotFound),
		errors.Is(err, domain.ErrModelNotFound),
		errors.Is(err, domain.ErrDeploymentNotFound),
		errors.Is(err, domain.ErrDeployedModelNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrWorkSpaceExists),
		errors.Is(err, domain.ErrExperimentExists),
		errors.Is(err, domain.ErrModelExists),
		errors.Is(err, domain.ErrWorkSpaceNotEmpty):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrInvalidUpload):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})

	// Auth errors
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: err.Error()})

	// Serving runtime errors
	case errors.Is(err, domain.ErrMirrorFailed):
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
}
