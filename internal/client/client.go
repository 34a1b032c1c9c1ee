package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"evalboard/internal/domain"
	"evalboard/internal/notify"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// envelope mirrors the server's Result wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Type    string          `json:"type"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

const codeOK = 2000

// Client is the admin-side API client. It keeps a session cookie, a
// candidate cache with optimistic writes, and the row selection used by
// batch operations.
type Client struct {
	httpClient *resty.Client
	cache      *CandidateCache
	logger     *zap.Logger
}

func New(baseURL string, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: httpClient,
		cache:      NewCandidateCache(),
		logger:     logger,
	}
}

func (c *Client) Cache() *CandidateCache { return c.cache }

// InvalidateOnChanges consumes the server's change feed and flags the cache
// stale when the roster (or anything that feeds into it) changes. Push and
// poll funnel into the same invalidation path; the next read re-fetches.
// Blocks until ctx is cancelled.
func (c *Client) InvalidateOnChanges(ctx context.Context, sub *notify.Subscriber) error {
	return sub.Run(ctx, func(resource string) {
		switch resource {
		case notify.ResourceCandidates, notify.ResourcePresets:
			c.cache.Invalidate()
		}
	})
}

func decode(resp *resty.Response, out any) error {
	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if env.Code != codeOK {
		return fmt.Errorf("api error: %s (code %d)", env.Message, env.Code)
	}
	if out == nil || len(env.Result) == 0 {
		return nil
	}
	return json.Unmarshal(env.Result, out)
}

// Login authenticates as admin; the session cookie lives in the resty
// cookie jar afterwards.
func (c *Client) Login(ctx context.Context, username, password string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"username": username, "password": password}).
		Post("/api/admin/login")
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	return decode(resp, nil)
}

// Candidates fetches the roster from the server and replaces the cache.
func (c *Client) Candidates(ctx context.Context) ([]CandidateEntry, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get("/api/admin/candidates")
	if err != nil {
		return nil, fmt.Errorf("candidates request failed: %w", err)
	}
	var candidates []*domain.Candidate
	if err := decode(resp, &candidates); err != nil {
		return nil, err
	}
	c.cache.Replace(candidates)
	return c.cache.Entries(), nil
}

// ToggleActive flips one candidate's active flag optimistically: the cache
// is updated before the request, confirmed on success, and marked failed
// plus invalidated on error.
func (c *Client) ToggleActive(ctx context.Context, candidateID string, active bool) error {
	c.cache.MarkPending(candidateID, active)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]bool{"is_active": active}).
		Patch("/api/admin/candidates/" + candidateID + "/active")
	if err == nil {
		var updated domain.Candidate
		err = decode(resp, &updated)
		if err == nil {
			c.cache.Write(&updated)
			return nil
		}
	}

	c.logger.Warn("Active toggle failed",
		zap.String("candidate_id", candidateID),
		zap.Error(err))
	c.cache.MarkFailed(candidateID)
	c.cache.Invalidate()
	return err
}

// BatchResult reports a settled batch toggle.
type BatchResult struct {
	Succeeded []string
	Failed    []string
}

// AllSucceeded reports whether every toggle in the batch was confirmed.
func (r *BatchResult) AllSucceeded() bool { return len(r.Failed) == 0 }

// ToggleActiveBatch toggles the selected candidates concurrently and waits
// for every request to settle before reporting. On a fully successful batch
// the selection is cleared; any failure keeps the selection so the user can
// retry, and invalidates the cache.
func (c *Client) ToggleActiveBatch(ctx context.Context, candidateIDs []string, active bool) *BatchResult {
	type outcome struct {
		id  string
		err error
	}
	outcomes := make(chan outcome, len(candidateIDs))

	var wg sync.WaitGroup
	for _, id := range candidateIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			outcomes <- outcome{id: id, err: c.ToggleActive(ctx, id, active)}
		}(id)
	}
	wg.Wait()
	close(outcomes)

	result := &BatchResult{}
	for o := range outcomes {
		if o.err != nil {
			result.Failed = append(result.Failed, o.id)
		} else {
			result.Succeeded = append(result.Succeeded, o.id)
		}
	}
	sort.Strings(result.Succeeded)
	sort.Strings(result.Failed)

	if result.AllSucceeded() {
		c.cache.ClearSelection()
	} else {
		c.logger.Warn("Batch toggle partially failed",
			zap.Int("succeeded", len(result.Succeeded)),
			zap.Int("failed", len(result.Failed)))
	}
	return result
}
