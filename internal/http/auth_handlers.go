package httpapi

import (
	"net/http"

	"evalboard/internal/service"
	"evalboard/internal/session"

	"go.uber.org/zap"
)

// AuthHandler serves admin and evaluator login/logout and session
// introspection.
type AuthHandler struct {
	auth     service.AuthService
	sessions *session.Manager
	logger   *zap.Logger
}

func NewAuthHandler(auth service.AuthService, sessions *session.Manager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	admin, err := h.auth.AdminLogin(ctx, req.Username, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, Fail(err.Error()))
		return
	}

	token, err := h.sessions.Create(ctx, session.KindAdmin, admin.AdminID, admin.Username)
	if err != nil {
		h.logger.Error("Failed to create admin session", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to create session"))
		return
	}
	h.sessions.SetCookie(w, token)
	writeJSON(w, http.StatusOK, Ok(loginResponse{
		ID:   admin.AdminID,
		Name: admin.Username,
		Kind: session.KindAdmin,
	}))
}

func (h *AuthHandler) EvaluatorLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	evaluator, err := h.auth.EvaluatorLogin(ctx, req.Name, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, Fail(err.Error()))
		return
	}

	token, err := h.sessions.Create(ctx, session.KindEvaluator, evaluator.EvaluatorID, evaluator.Name)
	if err != nil {
		h.logger.Error("Failed to create evaluator session", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to create session"))
		return
	}
	h.sessions.SetCookie(w, token)
	writeJSON(w, http.StatusOK, Ok(loginResponse{
		ID:   evaluator.EvaluatorID,
		Name: evaluator.Name,
		Kind: session.KindEvaluator,
	}))
}

// Logout destroys the server-side session and expires the cookie. Works for
// both kinds: the route group's middleware already verified the kind.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(session.CookieName); err == nil && c.Value != "" {
		if token, err := h.sessions.TokenFromCookie(c.Value); err == nil {
			if err := h.sessions.Destroy(r.Context(), token); err != nil {
				h.logger.Warn("Failed to destroy session", zap.Error(err))
			}
		}
	}
	h.sessions.ClearCookie(w)
	writeJSON(w, http.StatusOK, Ok(map[string]any{"loggedOut": true}))
}

// Me echoes the authenticated session for page bootstrapping.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	s := SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, Ok(loginResponse{
		ID:   s.SubjectID,
		Name: s.Name,
		Kind: s.Kind,
	}))
}
