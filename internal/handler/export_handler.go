package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zoomwifi/admin-console/internal/service"
	"github.com/zoomwifi/admin-console/pkg/response"
)

type exportReader interface {
	Status(id string) (service.ExportJob, error)
	Open(token string) (service.Download, error)
}

// ExportHandler reports export progress and streams finished files.
type ExportHandler struct {
	service exportReader
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc exportReader) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Status godoc
// @Summary Export job status
// @Tags Exports
// @Produce json
// @Param id path string true "Export id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/jobs/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	job, err := h.service.Status(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, job)
}

// Download godoc
// @Summary Download an export
// @Description The token is the signed part of the URL returned by the job status
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200
// @Failure 403 {object} response.Envelope
// @Router /exports/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	dl, err := h.service.Open(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer dl.File.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Name))
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)
	c.Writer.Header().Set("Content-Type", dl.ContentType)
	if _, err := io.Copy(c.Writer, dl.File); err != nil {
		_ = c.Error(err)
	}
}
