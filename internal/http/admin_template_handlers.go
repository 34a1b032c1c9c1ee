package httpapi

import (
	"io"
	"net/http"

	"evalboard/internal/service"

	"go.uber.org/zap"
)

// AdminTemplateHandler exports and imports the score sheet layout as JSON.
type AdminTemplateHandler struct {
	templates service.TemplateService
	logger    *zap.Logger
}

func NewAdminTemplateHandler(templates service.TemplateService, logger *zap.Logger) *AdminTemplateHandler {
	return &AdminTemplateHandler{templates: templates, logger: logger}
}

func (h *AdminTemplateHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.templates.ExportJSON(r.Context())
	if err != nil {
		h.logger.Error("Failed to export score sheet template", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeAttachment(w, "score_sheet_template.json", "application/json", data)
}

// Import replaces the whole layout with the uploaded document.
func (h *AdminTemplateHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil || len(data) == 0 {
		writeJSON(w, http.StatusBadRequest, Fail("upload is empty"))
		return
	}
	sheet, err := h.templates.ImportJSON(r.Context(), data)
	if err != nil {
		h.logger.Error("Failed to import score sheet template", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(sheet))
}
