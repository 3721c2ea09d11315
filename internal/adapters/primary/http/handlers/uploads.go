package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"model-platform-sdk/internal/api"
	"model-platform-sdk/internal/core/domain"
)

const uploadFormField = "file"

func (h *Handler) UploadModel(c *gin.Context) {
	fh, err := c.FormFile(uploadFormField)
	if err != nil {
		badRequest(c, domain.ErrInvalidUpload)
		return
	}

	src, err := fh.Open()
	if err != nil {
		badRequest(c, domain.ErrInvalidUpload)
		return
	}
	defer src.Close()

	f, err := h.registry.SaveUpload(c.Request.Context(), fh.Filename, src)
	if err != nil {
		log.WithError(err).Error("save upload failed")
		mapDomainError(c, err)
		return
	}

	log.WithFields(log.Fields{
		"file": f.FileName,
		"path": f.Path,
		"size": fh.Size,
	}).Info("model file uploaded")

	c.JSON(http.StatusOK, api.UploadResponse{FileUploadResponseList: []api.UploadedFile{*f}})
}

func (h *Handler) ListUploads(c *gin.Context) {
	files, err := h.registry.ListUploads(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.UploadResponse{FileUploadResponseList: files})
}
