// Package youtrack is a small client for the YouTrack REST API covering what
// is needed to compare booked time with a time sheet: the current user, the
// work items of an issue and issue summaries.
package youtrack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/TsubasaBE/go-timesheet/internal/logging"
)

// Field selections sent with each request.
const (
	userFields     = "id,login"
	workItemFields = "creator(id),date,duration(minutes),issue(id),text,type(name)"
	issueFields    = "idReadable,summary"
)

// Defaults for New.
const (
	DefaultRequestsPerSecond = 10
	DefaultConcurrency       = 4
	DefaultCacheTTL          = 10 * time.Minute
	cacheSize                = 1024
)

// Client talks to one YouTrack server. It is safe for concurrent use.
type Client struct {
	base        *url.URL
	http        *http.Client
	limiter     *rate.Limiter
	concurrency int
	summaries   *expirable.LRU[string, Issue]
}

// Option configures a Client.
type Option func(*options)

type options struct {
	transport   http.RoundTripper
	timeout     time.Duration
	rps         float64
	burst       int
	concurrency int
	ttl         time.Duration
}

// WithTransport sets the transport the bearer token is added on top of.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRateLimit paces requests to rps per second with the given burst. A
// non-positive rps disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) { o.rps, o.burst = rps, burst }
}

// WithConcurrency limits the number of requests in flight for calls that
// fetch several issues.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

// WithCacheTTL sets how long issue summaries are cached.
func WithCacheTTL(d time.Duration) Option {
	return func(o *options) { o.ttl = d }
}

// New returns a client for the server at baseURL authenticating with a
// permanent token. API paths are resolved relative to baseURL.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("youtrack: base url: %w", err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("youtrack: base url %q is not absolute", baseURL)
	}
	if token == "" {
		return nil, errors.New("youtrack: token is required")
	}

	o := options{
		transport:   http.DefaultTransport,
		timeout:     30 * time.Second,
		rps:         DefaultRequestsPerSecond,
		burst:       DefaultRequestsPerSecond,
		concurrency: DefaultConcurrency,
		ttl:         DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(&o)
	}

	limit := rate.Inf
	if o.rps > 0 {
		limit = rate.Limit(o.rps)
	}
	if o.burst < 1 {
		o.burst = 1
	}
	if o.concurrency < 1 {
		o.concurrency = 1
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return &Client{
		base: base,
		http: &http.Client{
			Transport: &oauth2.Transport{Source: src, Base: o.transport},
			Timeout:   o.timeout,
		},
		limiter:     rate.NewLimiter(limit, o.burst),
		concurrency: o.concurrency,
		summaries:   expirable.NewLRU[string, Issue](cacheSize, nil, o.ttl),
	}, nil
}

// CurrentUser returns the owner of the token.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var u User
	if err := c.get(ctx, "youtrack/api/admin/users/me", url.Values{"fields": {userFields}}, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// WorkItems returns the work items of one issue. The server reports issues
// by database id; the returned items carry issueID instead so that they can
// be matched with the time sheet.
func (c *Client) WorkItems(ctx context.Context, issueID string) ([]WorkItem, error) {
	var items []WorkItem
	path := "youtrack/api/issues/" + issueID + "/timeTracking/workItems"
	if err := c.get(ctx, path, url.Values{"fields": {workItemFields}}, &items); err != nil {
		return nil, fmt.Errorf("youtrack: work items for issue id %q: %w", issueID, err)
	}
	for i := range items {
		items[i].Issue.ID = issueID
	}
	logging.FromContext(ctx).Debug().Str("issue", issueID).Int("items", len(items)).Msg("fetched work items")
	return items, nil
}

// WorkItemsForUser fetches the work items of every issue concurrently and
// keeps those created by user. Items are ordered by issue as given.
func (c *Client) WorkItemsForUser(ctx context.Context, user User, issueIDs []string) ([]WorkItem, error) {
	perIssue := make([][]WorkItem, len(issueIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, id := range issueIDs {
		g.Go(func() error {
			items, err := c.WorkItems(gctx, id)
			perIssue[i] = items
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []WorkItem
	for _, items := range perIssue {
		for _, w := range items {
			if w.Creator.ID == user.ID {
				out = append(out, w)
			}
		}
	}
	return out, nil
}

// Issue returns the summary of one issue. Summaries are cached.
func (c *Client) Issue(ctx context.Context, issueID string) (Issue, error) {
	if is, ok := c.summaries.Get(issueID); ok {
		return is, nil
	}
	var is Issue
	path := "youtrack/api/issues/" + issueID
	if err := c.get(ctx, path, url.Values{"fields": {issueFields}}, &is); err != nil {
		return Issue{}, fmt.Errorf("youtrack: issue %q: %w", issueID, err)
	}
	is.ID = issueID
	c.summaries.Add(issueID, is)
	return is, nil
}

// Issues returns the summaries of issueIDs in the given order.
func (c *Client) Issues(ctx context.Context, issueIDs []string) ([]Issue, error) {
	out := make([]Issue, len(issueIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, id := range issueIDs {
		g.Go(func() error {
			is, err := c.Issue(gctx, id)
			out[i] = is
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	u := c.base.ResolveReference(&url.URL{Path: path, RawQuery: query.Encode()})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("youtrack: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("youtrack: network error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("youtrack: %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Endpoint: path}
		var detail struct {
			Description string `json:"error_description"`
		}
		if json.Unmarshal(body, &detail) == nil {
			apiErr.Message = detail.Description
		}
		return apiErr
	}

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("youtrack: %s: parse failure: %w", path, err)
	}
	if string(raw) == "null" {
		return fmt.Errorf("%w from %s", ErrNullResponse, path)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("youtrack: %s: parse failure: %w", path, err)
	}
	return nil
}
