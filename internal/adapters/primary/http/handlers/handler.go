package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"model-platform-sdk/internal/adapters/primary/http/middleware"
	"model-platform-sdk/internal/emulator"
)

type Handler struct {
	registry *emulator.Registry
}

func New(registry *emulator.Registry) *Handler {
	return &Handler{registry: registry}
}

// RegisterRoutes mounts the platform REST surface. Everything except login and
// health requires a bearer token.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Health)
	r.POST("/login", h.Login)

	authed := r.Group("/", middleware.Auth(h.registry))

	// Session
	authed.GET("/services", h.ListServices)

	// Uploads
	authed.POST("/api/upload/model", h.UploadModel)
	authed.GET("/api/upload/model", h.ListUploads)

	// Model history server
	rpc := authed.Group("/rpc/:server")
	rpc.POST("/modelhistory", h.AddModelHistory)
	rpc.GET("/modelhistory/:id", h.GetModelHistory)
	rpc.DELETE("/modelhistory/:id", h.DeleteModelHistory)
	rpc.POST("/experiment", h.AddExperiment)
	rpc.GET("/experiment/:id", h.GetExperiment)
	rpc.DELETE("/experiment/:id", h.DeleteExperiment)
	rpc.POST("/model", h.AddModelInstance)
	rpc.GET("/model/:id", h.GetModelInstance)
	rpc.DELETE("/model/:id", h.DeleteModelInstance)
	rpc.POST("/evaluation", h.AddEvaluationResult)

	// Deployments
	authed.POST("/deployment", h.CreateDeployment)
	authed.GET("/deployments", h.ListDeployments)
	authed.GET("/deployment/:id", h.GetDeployment)
	authed.DELETE("/deployment/:id", h.DeleteDeployment)

	// Deployed models
	authed.POST("/deployment/:id/model", h.DeployModel)
	authed.GET("/deployment/:id/model/:model", h.GetDeployedModel)
	authed.DELETE("/deployment/:id/model/:model", h.DeleteDeployedModel)
	authed.POST("/deployment/:id/model/:model/state", h.SetModelState)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
