package httpapi

import (
	"net/http"
	"strings"

	"evalboard/internal/domain"
	"evalboard/internal/service"

	"go.uber.org/zap"
)

// AdminCategoriesHandler manages the score sheet layout: categories and
// the evaluation items inside them.
type AdminCategoriesHandler struct {
	categories service.CategoryService
	logger     *zap.Logger
}

func NewAdminCategoriesHandler(categories service.CategoryService, logger *zap.Logger) *AdminCategoriesHandler {
	return &AdminCategoriesHandler{categories: categories, logger: logger}
}

// ServeCategories handles /api/admin/categories.
func (h *AdminCategoriesHandler) ServeCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cats, err := h.categories.ListCategories(r.Context(), r.URL.Query().Get("active") == "true")
		if err != nil {
			h.logger.Error("Failed to list categories", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(cats))
	case http.MethodPost:
		var req categoryRequest
		if err := readBodyJSON(r, 1<<20, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeJSON(w, http.StatusBadRequest, Fail("name is required"))
			return
		}
		created, err := h.categories.CreateCategory(r.Context(), req.toDomain(""))
		if err != nil {
			h.logger.Error("Failed to create category", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(created))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ServeCategory handles /api/admin/categories/{id}.
func (h *AdminCategoriesHandler) ServeCategory(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/admin/categories/")
	if id == "" {
		h.ServeCategories(w, r)
		return
	}
	if strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var req categoryRequest
		if err := readBodyJSON(r, 1<<20, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeJSON(w, http.StatusBadRequest, Fail("name is required"))
			return
		}
		updated, err := h.categories.UpdateCategory(r.Context(), req.toDomain(id))
		if err != nil {
			h.logger.Error("Failed to update category", zap.String("category_id", id), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(updated))
	case http.MethodDelete:
		if err := h.categories.DeleteCategory(r.Context(), id); err != nil {
			h.logger.Error("Failed to delete category", zap.String("category_id", id), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"deleted": true}))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ServeItems handles /api/admin/evaluation-items. A category_id query narrows
// the listing to one section.
func (h *AdminCategoriesHandler) ServeItems(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var (
			items []*domain.Item
			err   error
		)
		if categoryID := r.URL.Query().Get("category_id"); categoryID != "" {
			items, err = h.categories.ListItemsByCategory(r.Context(), categoryID)
		} else {
			items, err = h.categories.ListItems(r.Context(), r.URL.Query().Get("active") == "true")
		}
		if err != nil {
			h.logger.Error("Failed to list evaluation items", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(items))
	case http.MethodPost:
		var req itemRequest
		if err := readBodyJSON(r, 1<<20, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
			return
		}
		created, err := h.categories.CreateItem(r.Context(), req.toDomain(""))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(created))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ServeItem handles /api/admin/evaluation-items/{id}.
func (h *AdminCategoriesHandler) ServeItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/admin/evaluation-items/")
	if id == "" {
		h.ServeItems(w, r)
		return
	}
	if strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var req itemRequest
		if err := readBodyJSON(r, 1<<20, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
			return
		}
		updated, err := h.categories.UpdateItem(r.Context(), req.toDomain(id))
		if err != nil {
			h.logger.Error("Failed to update evaluation item", zap.String("item_id", id), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(updated))
	case http.MethodDelete:
		if err := h.categories.DeleteItem(r.Context(), id); err != nil {
			h.logger.Error("Failed to delete evaluation item", zap.String("item_id", id), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"deleted": true}))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ScoreSheet returns the assembled sheet with section labels and totals.
func (h *AdminCategoriesHandler) ScoreSheet(w http.ResponseWriter, r *http.Request) {
	sheet, err := h.categories.ScoreSheet(r.Context())
	if err != nil {
		h.logger.Error("Failed to build score sheet", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(sheet))
}

type categoryRequest struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
	IsActive  *bool  `json:"is_active"`
}

func (req *categoryRequest) toDomain(id string) *domain.Category {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &domain.Category{
		CategoryID: id,
		Name:       strings.TrimSpace(req.Name),
		SortOrder:  req.SortOrder,
		IsActive:   active,
	}
}

type itemRequest struct {
	CategoryID     string  `json:"category_id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	MaxScore       int     `json:"max_score"`
	Weight         float64 `json:"weight"`
	IsQuantitative bool    `json:"is_quantitative"`
	HasPreset      bool    `json:"has_preset"`
	SortOrder      int     `json:"sort_order"`
	IsActive       *bool   `json:"is_active"`
}

func (req *itemRequest) toDomain(id string) *domain.Item {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &domain.Item{
		ItemID:         id,
		CategoryID:     req.CategoryID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		MaxScore:       req.MaxScore,
		Weight:         req.Weight,
		IsQuantitative: req.IsQuantitative,
		HasPreset:      req.HasPreset,
		SortOrder:      req.SortOrder,
		IsActive:       active,
	}
}
