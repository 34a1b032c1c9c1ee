package httpapi

import (
	"io"
	"net/http"
	"strings"

	"evalboard/internal/domain"
	"evalboard/internal/excel"
	"evalboard/internal/repository"
	"evalboard/internal/service"

	"go.uber.org/zap"
)

// AdminCandidatesHandler serves the candidate roster, the per-candidate
// preset scores and the Excel import/export endpoints.
type AdminCandidatesHandler struct {
	candidates service.CandidateService
	presets    service.PresetService
	logger     *zap.Logger
}

func NewAdminCandidatesHandler(candidates service.CandidateService, presets service.PresetService, logger *zap.Logger) *AdminCandidatesHandler {
	return &AdminCandidatesHandler{candidates: candidates, presets: presets, logger: logger}
}

// ServeCollection handles /api/admin/candidates.
func (h *AdminCandidatesHandler) ServeCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ServeItem handles /api/admin/candidates/{...}: fixed sub-resources first
// (export/import/template/bulk-active), then {id}, {id}/active, {id}/presets.
func (h *AdminCandidatesHandler) ServeItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/admin/candidates/")
	switch rest {
	case "":
		h.ServeCollection(w, r)
		return
	case "export":
		methodOnly(http.MethodGet, h.export)(w, r)
		return
	case "import":
		methodOnly(http.MethodPost, h.importExcel)(w, r)
		return
	case "template":
		methodOnly(http.MethodGet, h.importTemplate)(w, r)
		return
	case "bulk-active":
		methodOnly(http.MethodPatch, h.bulkActive)(w, r)
		return
	}

	parts := strings.Split(rest, "/")
	id := parts[0]
	switch {
	case len(parts) == 1:
		h.serveOne(w, r, id)
	case len(parts) == 2 && parts[1] == "active":
		methodOnly(http.MethodPatch, func(w http.ResponseWriter, r *http.Request) {
			h.setActive(w, r, id)
		})(w, r)
	case len(parts) == 2 && parts[1] == "presets":
		h.servePresets(w, r, id)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *AdminCandidatesHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.CandidatesFilter{
		Category:    q.Get("category"),
		SubCategory: q.Get("sub_category"),
		Search:      q.Get("search"),
		ActiveOnly:  q.Get("active") == "true",
	}
	candidates, err := h.candidates.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list candidates", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(candidates))
}

type candidateRequest struct {
	Name        string `json:"name"`
	Department  string `json:"department"`
	Position    string `json:"position"`
	Category    string `json:"category"`
	SubCategory string `json:"sub_category"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

func (req *candidateRequest) toDomain(id string) *domain.Candidate {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &domain.Candidate{
		CandidateID: id,
		Name:        strings.TrimSpace(req.Name),
		Department:  req.Department,
		Position:    req.Position,
		Category:    req.Category,
		SubCategory: req.SubCategory,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    active,
	}
}

func (h *AdminCandidatesHandler) create(w http.ResponseWriter, r *http.Request) {
	var req candidateRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, Fail("name is required"))
		return
	}
	created, err := h.candidates.Create(r.Context(), req.toDomain(""))
	if err != nil {
		h.logger.Error("Failed to create candidate", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(created))
}

func (h *AdminCandidatesHandler) serveOne(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		c, err := h.candidates.Get(r.Context(), id)
		if err != nil {
			writeJSON(w, http.StatusNotFound, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(c))
	case http.MethodPatch:
		var req candidateRequest
		if err := readBodyJSON(r, 1<<20, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeJSON(w, http.StatusBadRequest, Fail("name is required"))
			return
		}
		updated, err := h.candidates.Update(r.Context(), req.toDomain(id))
		if err != nil {
			h.logger.Error("Failed to update candidate", zap.String("candidate_id", id), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(updated))
	case http.MethodDelete:
		if err := h.candidates.Delete(r.Context(), id); err != nil {
			h.logger.Error("Failed to delete candidate", zap.String("candidate_id", id), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"deleted": true}))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

func (h *AdminCandidatesHandler) setActive(w http.ResponseWriter, r *http.Request, id string) {
	var req setActiveRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil || req.IsActive == nil {
		writeJSON(w, http.StatusBadRequest, Fail("is_active is required"))
		return
	}
	c, err := h.candidates.SetActive(r.Context(), id, *req.IsActive)
	if err != nil {
		h.logger.Error("Failed to set candidate active flag", zap.String("candidate_id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(c))
}

type bulkActiveRequest struct {
	CandidateIDs []string `json:"candidate_ids"`
	IsActive     *bool    `json:"is_active"`
}

func (h *AdminCandidatesHandler) bulkActive(w http.ResponseWriter, r *http.Request) {
	var req bulkActiveRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil || req.IsActive == nil {
		writeJSON(w, http.StatusBadRequest, Fail("candidate_ids and is_active are required"))
		return
	}
	if len(req.CandidateIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, Fail("candidate_ids is empty"))
		return
	}
	n, err := h.candidates.BulkSetActive(r.Context(), req.CandidateIDs, *req.IsActive)
	if err != nil {
		h.logger.Error("Failed to bulk update candidates", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"updated": n}))
}

func (h *AdminCandidatesHandler) export(w http.ResponseWriter, r *http.Request) {
	data, err := h.candidates.ExportExcel(r.Context())
	if err != nil {
		h.logger.Error("Failed to export candidates", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeAttachment(w, "candidates.xlsx", xlsxContentType, data)
}

func (h *AdminCandidatesHandler) importTemplate(w http.ResponseWriter, r *http.Request) {
	data, err := excel.GenerateCandidateTemplate()
	if err != nil {
		h.logger.Error("Failed to build import template", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeAttachment(w, "candidates_template.xlsx", xlsxContentType, data)
}

func (h *AdminCandidatesHandler) importExcel(w http.ResponseWriter, r *http.Request) {
	// Accepts multipart ("file" field) or a raw xlsx body.
	var data []byte
	if err := r.ParseMultipartForm(10 << 20); err == nil {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("file field is required"))
			return
		}
		defer file.Close()
		data, err = io.ReadAll(file)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("failed to read upload"))
			return
		}
	} else {
		var err error
		data, err = io.ReadAll(io.LimitReader(r.Body, 10<<20))
		if err != nil || len(data) == 0 {
			writeJSON(w, http.StatusBadRequest, Fail("upload is empty"))
			return
		}
	}

	summary, err := h.candidates.ImportExcel(r.Context(), data)
	if err != nil {
		h.logger.Error("Failed to import candidates", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(summary))
}

type presetRequest struct {
	ItemID      string `json:"item_id"`
	Score       int    `json:"score"`
	ApplyPreset bool   `json:"apply_preset"`
}

func (h *AdminCandidatesHandler) servePresets(w http.ResponseWriter, r *http.Request, candidateID string) {
	switch r.Method {
	case http.MethodGet:
		presets, err := h.presets.ListByCandidate(r.Context(), candidateID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(presets))
	case http.MethodPut:
		var req presetRequest
		if err := readBodyJSON(r, 1<<20, &req); err != nil || req.ItemID == "" {
			writeJSON(w, http.StatusBadRequest, Fail("item_id is required"))
			return
		}
		stored, err := h.presets.Upsert(r.Context(), &domain.PresetScore{
			CandidateID: candidateID,
			ItemID:      req.ItemID,
			Score:       req.Score,
			ApplyPreset: req.ApplyPreset,
		})
		if err != nil {
			h.logger.Error("Failed to upsert preset score",
				zap.String("candidate_id", candidateID), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(stored))
	case http.MethodDelete:
		itemID := r.URL.Query().Get("item_id")
		if itemID == "" {
			writeJSON(w, http.StatusBadRequest, Fail("item_id is required"))
			return
		}
		if err := h.presets.Delete(r.Context(), candidateID, itemID); err != nil {
			writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"deleted": true}))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
