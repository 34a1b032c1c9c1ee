package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"evalboard/internal/store"

	"github.com/google/uuid"
)

// Session kinds. Admin and evaluator sessions gate different route groups.
const (
	KindAdmin     = "admin"
	KindEvaluator = "evaluator"
)

// CookieName is the session cookie shared by admin and evaluator logins.
const CookieName = "evalboard_session"

// Session is the server-side state behind one cookie.
type Session struct {
	Kind      string    `json:"kind"`
	SubjectID string    `json:"subject_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager stores sessions as JSON in the KV under an opaque token. The
// cookie carries the token plus an HMAC of it, so a value forged or
// tampered with client-side is rejected before the KV is consulted.
type Manager struct {
	kv     store.KV
	ttl    time.Duration
	secret []byte
}

func NewManager(kv store.KV, secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{kv: kv, ttl: ttl, secret: []byte(secret)}
}

func key(token string) string { return "session:" + token }

// Create stores a new session and returns its token.
func (m *Manager) Create(ctx context.Context, kind, subjectID, name string) (string, error) {
	token := uuid.NewString()
	s := Session{Kind: kind, SubjectID: subjectID, Name: name, CreatedAt: time.Now()}
	raw, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	if err := m.kv.Set(ctx, key(token), string(raw), m.ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Get resolves a token; store.ErrMiss means the session expired or never existed.
func (m *Manager) Get(ctx context.Context, token string) (*Session, error) {
	raw, err := m.kv.Get(ctx, key(token))
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}

// Destroy drops the session; destroying an absent token is not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	return m.kv.Del(ctx, key(token))
}

// TTL reports the configured session lifetime (cookie Max-Age).
func (m *Manager) TTL() time.Duration { return m.ttl }

func (m *Manager) sign(token string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// TokenFromCookie verifies a cookie value's signature and returns the raw
// token; store.ErrMiss on any malformed or tampered value.
func (m *Manager) TokenFromCookie(value string) (string, error) {
	token, sig, ok := strings.Cut(value, ".")
	if !ok || token == "" {
		return "", store.ErrMiss
	}
	if !hmac.Equal([]byte(m.sign(token)), []byte(sig)) {
		return "", store.ErrMiss
	}
	return token, nil
}

// SetCookie writes the session cookie on a login response.
func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token + "." + m.sign(token),
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on logout.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest resolves the request's session cookie, if any.
func (m *Manager) FromRequest(ctx context.Context, r *http.Request) (*Session, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil, store.ErrMiss
	}
	token, err := m.TokenFromCookie(c.Value)
	if err != nil {
		return nil, err
	}
	return m.Get(ctx, token)
}

// HashPassword hashes a password on its own (independent of the account name).
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword compares a plaintext password against a stored hash in
// constant time. Stored digests are normalized first since older tooling
// wrote them uppercased.
func VerifyPassword(password, storedHash string) bool {
	expected := HashPassword(password)
	stored := strings.ToLower(storedHash)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(stored)) == 1
}
