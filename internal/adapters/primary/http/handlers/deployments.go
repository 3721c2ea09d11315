package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"model-platform-sdk/internal/api"
)

func (h *Handler) CreateDeployment(c *gin.Context) {
	var req api.CreateDeploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	d, err := h.registry.CreateDeployment(c.Request.Context(), &req)
	if err != nil {
		log.WithError(err).Error("create deployment failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) ListDeployments(c *gin.Context) {
	list, err := h.registry.ListDeployments(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.DeploymentList{Deployments: list})
}

func (h *Handler) GetDeployment(c *gin.Context) {
	d, err := h.registry.GetDeployment(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteDeployment(c *gin.Context) {
	if err := h.registry.DeleteDeployment(c.Request.Context(), c.Param("id")); err != nil {
		log.WithError(err).Error("delete deployment failed")
		mapDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeployModel(c *gin.Context) {
	var req api.ImportModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	md, err := h.registry.DeployModel(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		log.WithError(err).Error("deploy model failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, md)
}

func (h *Handler) GetDeployedModel(c *gin.Context) {
	md, err := h.registry.GetDeployedModel(c.Request.Context(), c.Param("id"), c.Param("model"))
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, md)
}

func (h *Handler) DeleteDeployedModel(c *gin.Context) {
	if err := h.registry.DeleteDeployedModel(c.Request.Context(), c.Param("id"), c.Param("model")); err != nil {
		log.WithError(err).Error("undeploy model failed")
		mapDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) SetModelState(c *gin.Context) {
	var req api.SetState
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	md, err := h.registry.SetModelState(c.Request.Context(), c.Param("id"), c.Param("model"), req.State)
	if err != nil {
		log.WithError(err).WithField("state", req.State).Error("set model state failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, md)
}
