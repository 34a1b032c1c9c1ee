package httpapi

import (
	"net/http"
	"strings"

	"evalboard/internal/domain"
	"evalboard/internal/service"

	"go.uber.org/zap"
)

// AdminEvaluatorsHandler manages the evaluator accounts.
type AdminEvaluatorsHandler struct {
	evaluators service.EvaluatorService
	logger     *zap.Logger
}

func NewAdminEvaluatorsHandler(evaluators service.EvaluatorService, logger *zap.Logger) *AdminEvaluatorsHandler {
	return &AdminEvaluatorsHandler{evaluators: evaluators, logger: logger}
}

// ServeCollection handles /api/admin/evaluators.
func (h *AdminEvaluatorsHandler) ServeCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		evaluators, err := h.evaluators.List(r.Context(), r.URL.Query().Get("active") == "true")
		if err != nil {
			h.logger.Error("Failed to list evaluators", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(evaluators))
	case http.MethodPost:
		h.create(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ServeItem handles /api/admin/evaluators/{id}.
func (h *AdminEvaluatorsHandler) ServeItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/admin/evaluators/")
	if id == "" {
		h.ServeCollection(w, r)
		return
	}
	if strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		e, err := h.evaluators.Get(r.Context(), id)
		if err != nil {
			writeJSON(w, http.StatusNotFound, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(e))
	case http.MethodPatch:
		h.update(w, r, id)
	case http.MethodDelete:
		if err := h.evaluators.Delete(r.Context(), id); err != nil {
			h.logger.Error("Failed to delete evaluator", zap.String("evaluator_id", id), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"deleted": true}))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type evaluatorRequest struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Password   string `json:"password"`
	IsActive   *bool  `json:"is_active"`
}

func (h *AdminEvaluatorsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req evaluatorRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, Fail("name and password are required"))
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	created, err := h.evaluators.Create(r.Context(), &domain.Evaluator{
		Name:       strings.TrimSpace(req.Name),
		Department: req.Department,
		IsActive:   active,
	}, req.Password)
	if err != nil {
		h.logger.Error("Failed to create evaluator", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(created))
}

func (h *AdminEvaluatorsHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req evaluatorRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, Fail("name is required"))
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	updated, err := h.evaluators.Update(r.Context(), &domain.Evaluator{
		EvaluatorID: id,
		Name:        strings.TrimSpace(req.Name),
		Department:  req.Department,
		IsActive:    active,
	}, req.Password)
	if err != nil {
		h.logger.Error("Failed to update evaluator", zap.String("evaluator_id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(updated))
}
