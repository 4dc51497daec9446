package handlers

import (
	"mess-feedback/internal/core/services"
	"mess-feedback/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ExportHandler handles spreadsheet exports
type ExportHandler struct {
	exporter services.SnapshotExporter
}

// NewExportHandler creates a new export handler
func NewExportHandler(exporter services.SnapshotExporter) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// Export writes a snapshot of all feedback to a new xlsx file
// @Summary Export feedback
// @Description Writes every feedback record to a new spreadsheet and returns its download URL
// @Tags Export
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /export [get]
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	url, err := h.exporter.ExportSnapshot(c.Context())
	if err != nil {
		return writeError(c, err)
	}

	return response.Download(c, "Excel export created successfully", url)
}
