package httpapi

import (
	"net/http"

	"evalboard/internal/session"

	"go.uber.org/zap"
)

// Router wraps the standard http.ServeMux; no third-party routing dependency.
type Router struct {
	mux      *http.ServeMux
	sessions *session.Manager
	logger   *zap.Logger
}

func NewRouter(sessions *session.Manager, logger *zap.Logger) *Router {
	return &Router{
		mux:      http.NewServeMux(),
		sessions: sessions,
		logger:   logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) admin(h http.HandlerFunc) http.HandlerFunc {
	return requireKind(r.sessions, session.KindAdmin, h)
}

func (r *Router) evaluator(h http.HandlerFunc) http.HandlerFunc {
	return requireKind(r.sessions, session.KindEvaluator, h)
}

// RegisterAuthRoutes wires login/logout/me for both session kinds.
func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.Handle("/api/admin/login", methodOnly(http.MethodPost, h.AdminLogin))
	r.Handle("/api/admin/logout", r.admin(methodOnly(http.MethodPost, h.Logout)))
	r.Handle("/api/admin/me", r.admin(methodOnly(http.MethodGet, h.Me)))

	r.Handle("/api/evaluator/login", methodOnly(http.MethodPost, h.EvaluatorLogin))
	r.Handle("/api/evaluator/logout", r.evaluator(methodOnly(http.MethodPost, h.Logout)))
	r.Handle("/api/evaluator/me", r.evaluator(methodOnly(http.MethodGet, h.Me)))
}

// RegisterAdminRoutes wires the admin resource handlers.
func (r *Router) RegisterAdminRoutes(
	candidates *AdminCandidatesHandler,
	evaluators *AdminEvaluatorsHandler,
	categories *AdminCategoriesHandler,
	results *AdminResultsHandler,
	config *AdminConfigHandler,
	template *AdminTemplateHandler,
) {
	r.Handle("/api/admin/candidates", r.admin(candidates.ServeCollection))
	r.Handle("/api/admin/candidates/", r.admin(candidates.ServeItem))

	r.Handle("/api/admin/evaluators", r.admin(evaluators.ServeCollection))
	r.Handle("/api/admin/evaluators/", r.admin(evaluators.ServeItem))

	r.Handle("/api/admin/categories", r.admin(categories.ServeCategories))
	r.Handle("/api/admin/categories/", r.admin(categories.ServeCategory))
	r.Handle("/api/admin/evaluation-items", r.admin(categories.ServeItems))
	r.Handle("/api/admin/evaluation-items/", r.admin(categories.ServeItem))
	r.Handle("/api/admin/score-sheet", r.admin(methodOnly(http.MethodGet, categories.ScoreSheet)))

	r.Handle("/api/admin/results", r.admin(methodOnly(http.MethodGet, results.Results)))
	r.Handle("/api/admin/export-results", r.admin(methodOnly(http.MethodGet, results.Export)))

	r.Handle("/api/admin/config", r.admin(config.Serve))

	r.Handle("/api/admin/template/export", r.admin(methodOnly(http.MethodGet, template.Export)))
	r.Handle("/api/admin/template/import", r.admin(methodOnly(http.MethodPost, template.Import)))
}

// RegisterEvaluatorRoutes wires the evaluator-side scoring routes.
func (r *Router) RegisterEvaluatorRoutes(h *EvaluatorHandler) {
	r.Handle("/api/evaluator/candidates", r.evaluator(methodOnly(http.MethodGet, h.Candidates)))
	r.Handle("/api/evaluator/progress", r.evaluator(methodOnly(http.MethodGet, h.Progress)))
	r.Handle("/api/evaluator/evaluation/save-temporary", r.evaluator(methodOnly(http.MethodPost, h.SaveTemporary)))
	r.Handle("/api/evaluator/evaluation/complete", r.evaluator(methodOnly(http.MethodPost, h.Complete)))
	r.Handle("/api/evaluator/evaluation/", r.evaluator(methodOnly(http.MethodGet, h.Form)))
}

// RegisterPublicRoutes wires the unauthenticated read-only routes.
func (r *Router) RegisterPublicRoutes(h *PublicHandler) {
	r.Handle("/api/config/public", methodOnly(http.MethodGet, h.Config))
	r.Handle("/api/results/public", methodOnly(http.MethodGet, h.Results))
}

func methodOnly(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}
