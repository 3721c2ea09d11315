package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"model-platform-sdk/internal/api"
)

func (h *Handler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, err := h.registry.Login(req.UserID, req.Password)
	if err != nil {
		log.WithField("user", req.UserID).Warn("login rejected")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.LoginResponse{Token: token})
}

func (h *Handler) ListServices(c *gin.Context) {
	c.JSON(http.StatusOK, api.ServiceList{Services: h.registry.Services()})
}
