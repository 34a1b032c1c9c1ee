package httpapi

import (
	"net/http"

	"evalboard/internal/service"

	"go.uber.org/zap"
)

// PublicHandler serves the unauthenticated read-only endpoints.
type PublicHandler struct {
	config  service.ConfigService
	results service.ResultsService
	logger  *zap.Logger
}

func NewPublicHandler(config service.ConfigService, results service.ResultsService, logger *zap.Logger) *PublicHandler {
	return &PublicHandler{config: config, results: results, logger: logger}
}

func (h *PublicHandler) Config(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.config.Public(r.Context())
	if err != nil {
		h.logger.Error("Failed to load public config", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(cfg))
}

// Results serves the ranking only while the admin has made it public.
func (h *PublicHandler) Results(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.config.Get(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	if !cfg.PublicResults {
		writeJSON(w, http.StatusForbidden, Fail("results are not public"))
		return
	}
	payload, err := h.results.Results(r.Context())
	if err != nil {
		h.logger.Error("Failed to aggregate results", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(payload))
}
