package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"evalboard/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, ttl time.Duration) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewManager(store.NewRedisKV(client), "test-secret", ttl), mr
}

func TestCreateAndGet(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	ctx := context.Background()

	token, err := m.Create(ctx, KindEvaluator, "ev-1", "홍길동")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	s, err := m.Get(ctx, token)
	require.NoError(t, err)
	require.Equal(t, KindEvaluator, s.Kind)
	require.Equal(t, "ev-1", s.SubjectID)
	require.Equal(t, "홍길동", s.Name)
}

func TestGetUnknownToken(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)

	_, err := m.Get(context.Background(), "no-such-token")
	require.ErrorIs(t, err, store.ErrMiss)
}

func TestSessionExpires(t *testing.T) {
	m, mr := newTestManager(t, time.Hour)
	ctx := context.Background()

	token, err := m.Create(ctx, KindAdmin, "ad-1", "admin")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = m.Get(ctx, token)
	require.ErrorIs(t, err, store.ErrMiss)
}

func TestDestroy(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	ctx := context.Background()

	token, err := m.Create(ctx, KindAdmin, "ad-1", "admin")
	require.NoError(t, err)
	require.NoError(t, m.Destroy(ctx, token))

	_, err = m.Get(ctx, token)
	require.ErrorIs(t, err, store.ErrMiss)
}

func TestFromRequest(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	ctx := context.Background()

	token, err := m.Create(ctx, KindEvaluator, "ev-1", "홍길동")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/evaluator/progress", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: token + "." + m.sign(token)})

	s, err := m.FromRequest(ctx, r)
	require.NoError(t, err)
	require.Equal(t, "ev-1", s.SubjectID)

	// No cookie at all reads as a miss, not an error.
	bare := httptest.NewRequest(http.MethodGet, "/api/evaluator/progress", nil)
	_, err = m.FromRequest(ctx, bare)
	require.ErrorIs(t, err, store.ErrMiss)
}

func TestCookieSignature(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	ctx := context.Background()

	token, err := m.Create(ctx, KindEvaluator, "ev-1", "홍길동")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.SetCookie(rec, token)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	// The set cookie resolves back to the session.
	parsed, err := m.TokenFromCookie(cookies[0].Value)
	require.NoError(t, err)
	require.Equal(t, token, parsed)

	// A bare token, a tampered token and a wrong signature are all rejected
	// without touching the store.
	for _, value := range []string{
		token,
		"other-token." + m.sign(token),
		token + "." + m.sign("other-token"),
		token + ".",
	} {
		_, err := m.TokenFromCookie(value)
		require.ErrorIs(t, err, store.ErrMiss, value)
	}

	// A manager with a different secret rejects the cookie outright.
	other := NewManager(nil, "another-secret", time.Hour)
	_, err = other.TokenFromCookie(cookies[0].Value)
	require.ErrorIs(t, err, store.ErrMiss)
}

func TestPasswordHashing(t *testing.T) {
	hash := HashPassword("secret123")
	require.Len(t, hash, 64)
	require.True(t, VerifyPassword("secret123", hash))
	require.False(t, VerifyPassword("secret124", hash))

	// Stored hashes may differ in case depending on how they were produced.
	require.True(t, VerifyPassword("secret123", strings.ToUpper(hash)))
}
