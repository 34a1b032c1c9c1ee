package httpapi

import (
	"net/http"

	"evalboard/internal/service"

	"go.uber.org/zap"
)

// AdminResultsHandler serves the aggregated ranking and its Excel export.
type AdminResultsHandler struct {
	results service.ResultsService
	logger  *zap.Logger
}

func NewAdminResultsHandler(results service.ResultsService, logger *zap.Logger) *AdminResultsHandler {
	return &AdminResultsHandler{results: results, logger: logger}
}

func (h *AdminResultsHandler) Results(w http.ResponseWriter, r *http.Request) {
	payload, err := h.results.Results(r.Context())
	if err != nil {
		h.logger.Error("Failed to aggregate results", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(payload))
}

func (h *AdminResultsHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.results.ExportExcel(r.Context())
	if err != nil {
		h.logger.Error("Failed to export results", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeAttachment(w, "evaluation_results.xlsx", xlsxContentType, data)
}
