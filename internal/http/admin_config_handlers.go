package httpapi

import (
	"net/http"
	"time"

	"evalboard/internal/domain"
	"evalboard/internal/service"

	"go.uber.org/zap"
)

// AdminConfigHandler reads and updates the singleton system config.
type AdminConfigHandler struct {
	config service.ConfigService
	logger *zap.Logger
}

func NewAdminConfigHandler(config service.ConfigService, logger *zap.Logger) *AdminConfigHandler {
	return &AdminConfigHandler{config: config, logger: logger}
}

type configRequest struct {
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	EvaluationStart      *string  `json:"evaluation_start"`
	EvaluationEnd        *string  `json:"evaluation_end"`
	PublicResults        bool     `json:"public_results"`
	PassThresholdPercent *float64 `json:"pass_threshold_percent"`
}

// Serve handles /api/admin/config.
func (h *AdminConfigHandler) Serve(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg, err := h.config.Get(r.Context())
		if err != nil {
			h.logger.Error("Failed to load system config", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(cfg))
	case http.MethodPut:
		var req configRequest
		if err := readBodyJSON(r, 1<<20, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
			return
		}
		cfg := &domain.SystemConfig{
			Title:         req.Title,
			Description:   req.Description,
			PublicResults: req.PublicResults,
		}
		if req.PassThresholdPercent != nil {
			if *req.PassThresholdPercent < 0 || *req.PassThresholdPercent > 100 {
				writeJSON(w, http.StatusBadRequest, Fail("pass_threshold_percent must be between 0 and 100"))
				return
			}
			cfg.PassThresholdPercent = *req.PassThresholdPercent
		} else if current, err := h.config.Get(r.Context()); err == nil {
			// Omitted threshold keeps the stored value.
			cfg.PassThresholdPercent = current.PassThresholdPercent
		}
		if req.EvaluationStart != nil && *req.EvaluationStart != "" {
			t, err := time.Parse(time.RFC3339, *req.EvaluationStart)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, Fail("evaluation_start must be RFC 3339"))
				return
			}
			cfg.EvaluationStart = &t
		}
		if req.EvaluationEnd != nil && *req.EvaluationEnd != "" {
			t, err := time.Parse(time.RFC3339, *req.EvaluationEnd)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, Fail("evaluation_end must be RFC 3339"))
				return
			}
			cfg.EvaluationEnd = &t
		}
		if cfg.EvaluationStart != nil && cfg.EvaluationEnd != nil && cfg.EvaluationEnd.Before(*cfg.EvaluationStart) {
			writeJSON(w, http.StatusBadRequest, Fail("evaluation_end is before evaluation_start"))
			return
		}
		stored, err := h.config.Upsert(r.Context(), cfg)
		if err != nil {
			h.logger.Error("Failed to update system config", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(stored))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
