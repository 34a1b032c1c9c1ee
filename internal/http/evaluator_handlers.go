package httpapi

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"evalboard/internal/domain"
	"evalboard/internal/service"

	"go.uber.org/zap"
)

// EvaluatorHandler serves the evaluator-side scoring flow. Every route reads
// the evaluator id from the session, never from the request body.
type EvaluatorHandler struct {
	evaluation service.EvaluationService
	logger     *zap.Logger
}

func NewEvaluatorHandler(evaluation service.EvaluationService, logger *zap.Logger) *EvaluatorHandler {
	return &EvaluatorHandler{evaluation: evaluation, logger: logger}
}

// Candidates lists the active candidates together with this evaluator's
// per-candidate status, so the list page renders in one round trip.
func (h *EvaluatorHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	h.Progress(w, r)
}

// Progress returns the evaluator's per-candidate submission status.
func (h *EvaluatorHandler) Progress(w http.ResponseWriter, r *http.Request) {
	s := SessionFromContext(r.Context())
	progress, err := h.evaluation.Progress(r.Context(), s.SubjectID)
	if err != nil {
		h.logger.Error("Failed to load progress", zap.String("evaluator_id", s.SubjectID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(progress))
}

// Form returns the score sheet plus any saved scores for one candidate.
// Path: /api/evaluator/evaluation/{candidateId}.
func (h *EvaluatorHandler) Form(w http.ResponseWriter, r *http.Request) {
	candidateID := strings.TrimPrefix(r.URL.Path, "/api/evaluator/evaluation/")
	if candidateID == "" || strings.Contains(candidateID, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	s := SessionFromContext(r.Context())
	form, err := h.evaluation.GetForm(r.Context(), s.SubjectID, candidateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, Fail(err.Error()))
			return
		}
		h.logger.Error("Failed to load evaluation form",
			zap.String("evaluator_id", s.SubjectID),
			zap.String("candidate_id", candidateID),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(form))
}

type submissionRequest struct {
	CandidateID string            `json:"candidate_id"`
	Scores      domain.ItemScores `json:"scores"`
}

func (h *EvaluatorHandler) SaveTemporary(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, h.evaluation.SaveTemporary)
}

func (h *EvaluatorHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, h.evaluation.Complete)
}

func (h *EvaluatorHandler) save(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, evaluatorID, candidateID string, scores domain.ItemScores) (*domain.Submission, error),
) {
	var req submissionRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if req.CandidateID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("candidate_id is required"))
		return
	}
	s := SessionFromContext(r.Context())
	sub, err := fn(r.Context(), s.SubjectID, req.CandidateID, req.Scores)
	if err != nil {
		h.logger.Warn("Submission rejected",
			zap.String("evaluator_id", s.SubjectID),
			zap.String("candidate_id", req.CandidateID),
			zap.Error(err))
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(sub))
}
