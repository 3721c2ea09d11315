package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"model-platform-sdk/internal/api"
)

// ============================================================================
// Workspaces
// ============================================================================

func (h *Handler) AddModelHistory(c *gin.Context) {
	var req api.AddModelHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ws, err := h.registry.AddModelHistory(c.Request.Context(), c.Param("server"), &req)
	if err != nil {
		log.WithError(err).Error("add model history failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ws)
}

func (h *Handler) GetModelHistory(c *gin.Context) {
	ws, err := h.registry.GetModelHistory(c.Request.Context(), c.Param("server"), c.Param("id"))
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}

func (h *Handler) DeleteModelHistory(c *gin.Context) {
	if err := h.registry.DeleteModelHistory(c.Request.Context(), c.Param("server"), c.Param("id")); err != nil {
		mapDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ============================================================================
// Experiments
// ============================================================================

func (h *Handler) AddExperiment(c *gin.Context) {
	var req api.ExperimentEntity
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	exp, err := h.registry.AddExperiment(c.Request.Context(), c.Param("server"), &req)
	if err != nil {
		log.WithError(err).Error("add experiment failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exp)
}

func (h *Handler) GetExperiment(c *gin.Context) {
	exp, err := h.registry.GetExperiment(c.Request.Context(), c.Param("server"), c.Param("id"))
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, exp)
}

func (h *Handler) DeleteExperiment(c *gin.Context) {
	if err := h.registry.DeleteExperiment(c.Request.Context(), c.Param("server"), c.Param("id")); err != nil {
		mapDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ============================================================================
// Model instances
// ============================================================================

func (h *Handler) AddModelInstance(c *gin.Context) {
	var req api.ModelInstanceEntity
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	m, err := h.registry.AddModelInstance(c.Request.Context(), c.Param("server"), &req)
	if err != nil {
		log.WithError(err).Error("add model instance failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) GetModelInstance(c *gin.Context) {
	m, err := h.registry.GetModelInstance(c.Request.Context(), c.Param("server"), c.Param("id"))
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteModelInstance(c *gin.Context) {
	if err := h.registry.DeleteModelInstance(c.Request.Context(), c.Param("server"), c.Param("id")); err != nil {
		mapDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) AddEvaluationResult(c *gin.Context) {
	var req api.EvaluationResultsEntity
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	eval, err := h.registry.AddEvaluationResult(c.Request.Context(), c.Param("server"), &req)
	if err != nil {
		log.WithError(err).Error("add evaluation result failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, eval)
}
