package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"evalboard/internal/domain"
	"evalboard/internal/notify"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, failIDs map[string]bool, requestCount *int64) *httptest.Server {
	t.Helper()

	candidates := []*domain.Candidate{
		{CandidateID: "c1", Name: "기관A", SortOrder: 1, IsActive: true},
		{CandidateID: "c2", Name: "기관B", SortOrder: 2, IsActive: true},
		{CandidateID: "c3", Name: "기관C", SortOrder: 3, IsActive: true},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/candidates", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 2000, "success", candidates)
	})
	mux.HandleFunc("/api/admin/candidates/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(requestCount, 1)
		rest := strings.TrimPrefix(r.URL.Path, "/api/admin/candidates/")
		id := strings.TrimSuffix(rest, "/active")
		if failIDs[id] {
			w.WriteHeader(http.StatusInternalServerError)
			writeEnvelope(w, -1, "database error", nil)
			return
		}
		var body struct {
			IsActive bool `json:"is_active"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeEnvelope(w, 2000, "success", &domain.Candidate{
			CandidateID: id,
			Name:        "기관" + id,
			IsActive:    body.IsActive,
		})
	})

	return httptest.NewServer(mux)
}

func writeEnvelope(w http.ResponseWriter, code int, message string, result any) {
	raw, _ := json.Marshal(result)
	kind := "success"
	if code != 2000 {
		kind = "error"
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":    code,
		"type":    kind,
		"message": message,
		"result":  json.RawMessage(raw),
	})
}

func TestToggleActiveConfirmsCache(t *testing.T) {
	var requests int64
	srv := newTestServer(t, nil, &requests)
	defer srv.Close()

	c := New(srv.URL, zap.NewNop())
	_, err := c.Candidates(context.Background())
	require.NoError(t, err)

	require.NoError(t, c.ToggleActive(context.Background(), "c1", false))

	entry, ok := c.Cache().Get("c1")
	require.True(t, ok)
	require.False(t, entry.Candidate.IsActive)
	require.Equal(t, StateClean, entry.State)
	require.False(t, c.Cache().Stale())
}

func TestToggleActiveFailureMarksAndInvalidates(t *testing.T) {
	var requests int64
	srv := newTestServer(t, map[string]bool{"c2": true}, &requests)
	defer srv.Close()

	c := New(srv.URL, zap.NewNop())
	_, err := c.Candidates(context.Background())
	require.NoError(t, err)

	require.Error(t, c.ToggleActive(context.Background(), "c2", false))

	entry, ok := c.Cache().Get("c2")
	require.True(t, ok)
	require.Equal(t, StateFailed, entry.State)
	require.True(t, c.Cache().Stale())
}

func TestToggleActiveBatchSettlesEveryRequest(t *testing.T) {
	var requests int64
	srv := newTestServer(t, map[string]bool{"c2": true}, &requests)
	defer srv.Close()

	c := New(srv.URL, zap.NewNop())
	_, err := c.Candidates(context.Background())
	require.NoError(t, err)

	c.Cache().Select("c1")
	c.Cache().Select("c2")
	c.Cache().Select("c3")

	result := c.ToggleActiveBatch(context.Background(), []string{"c1", "c2", "c3"}, false)

	require.Equal(t, int64(3), atomic.LoadInt64(&requests))
	require.Equal(t, []string{"c1", "c3"}, result.Succeeded)
	require.Equal(t, []string{"c2"}, result.Failed)
	require.False(t, result.AllSucceeded())

	// Partial failure keeps the selection for a retry and flags the cache.
	require.Equal(t, []string{"c1", "c2", "c3"}, c.Cache().Selected())
	require.True(t, c.Cache().Stale())
}

func TestToggleActiveBatchClearsSelectionOnFullSuccess(t *testing.T) {
	var requests int64
	srv := newTestServer(t, nil, &requests)
	defer srv.Close()

	c := New(srv.URL, zap.NewNop())
	_, err := c.Candidates(context.Background())
	require.NoError(t, err)

	c.Cache().Select("c1")
	c.Cache().Select("c3")

	result := c.ToggleActiveBatch(context.Background(), []string{"c1", "c3"}, false)

	require.True(t, result.AllSucceeded())
	require.Empty(t, c.Cache().Selected())
	require.False(t, c.Cache().Stale())

	for _, id := range []string{"c1", "c3"} {
		entry, ok := c.Cache().Get(id)
		require.True(t, ok, fmt.Sprintf("missing entry %s", id))
		require.False(t, entry.Candidate.IsActive)
		require.Equal(t, StateClean, entry.State)
	}
}

func TestChangeFeedInvalidatesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	var requests int64
	srv := newTestServer(t, nil, &requests)
	defer srv.Close()

	c := New(srv.URL, zap.NewNop())
	_, err := c.Candidates(context.Background())
	require.NoError(t, err)
	require.False(t, c.Cache().Stale())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go func() {
		_ = c.InvalidateOnChanges(ctx, notify.NewSubscriber(redisClient, zap.NewNop()))
	}()

	// The subscription is established asynchronously; keep publishing
	// until the invalidation lands.
	pub := notify.NewPublisher(redisClient, zap.NewNop())
	deadline := time.After(3 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for !c.Cache().Stale() {
		select {
		case <-tick.C:
			pub.Changed(ctx, notify.ResourceCandidates)
		case <-deadline:
			t.Fatal("cache never went stale")
		}
	}

	// Drain any events still in flight before re-fetching.
	time.Sleep(200 * time.Millisecond)

	// An unrelated resource does not invalidate a fresh cache.
	_, err = c.Candidates(context.Background())
	require.NoError(t, err)
	pub.Changed(ctx, notify.ResourceConfig)
	time.Sleep(100 * time.Millisecond)
	require.False(t, c.Cache().Stale())
}

func TestBatchWithManyFailuresReportsEachOne(t *testing.T) {
	failing := map[string]bool{"c1": true, "c3": true}
	var requests int64
	srv := newTestServer(t, failing, &requests)
	defer srv.Close()

	c := New(srv.URL, zap.NewNop())
	_, err := c.Candidates(context.Background())
	require.NoError(t, err)

	result := c.ToggleActiveBatch(context.Background(), []string{"c1", "c2", "c3"}, false)

	require.Equal(t, []string{"c2"}, result.Succeeded)
	require.Equal(t, []string{"c1", "c3"}, result.Failed)
	require.Equal(t, int64(3), atomic.LoadInt64(&requests))
}
