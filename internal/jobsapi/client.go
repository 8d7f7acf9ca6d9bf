// Package jobsapi is the http client for the remote job-listing api.
package jobsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/autsoft/hwsw-jobs/internal/logger"
	"github.com/autsoft/hwsw-jobs/internal/models"
)

const defaultTimeout = 15 * time.Second

// ListOptions are the optional query parameters of the listing endpoint.
type ListOptions struct {
	Search   string
	Location string
	FullTime bool
}

func (o ListOptions) values() url.Values {
	q := url.Values{}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.Location != "" {
		q.Set("location", o.Location)
	}
	if o.FullTime {
		q.Set("full_time", "true")
	}
	q.Set("markdown", "true")
	return q
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RPS        float64
	HTTPClient *http.Client
	Log        *logger.Logger
}

// Client talks to the positions api over http+json.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *RateLimiter
	log     *logger.Logger
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	if _, err := url.ParseRequestURI(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("jobsapi: invalid base url %q: %w", opts.BaseURL, err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	log := opts.Log
	if log == nil {
		log = logger.Get()
	}

	return &Client{
		baseURL: opts.BaseURL,
		http:    hc,
		limiter: NewRateLimiter(opts.RPS, 1),
		log:     log.Component("jobsapi"),
	}, nil
}

// ListPositions fetches the complete listing in one call.
func (c *Client) ListPositions(ctx context.Context, opts ListOptions) ([]models.Position, error) {
	endpoint := c.baseURL + "/positions.json?" + opts.values().Encode()

	var positions []models.Position
	if err := c.get(ctx, "list positions", endpoint, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// GetPosition fetches a single position by id.
func (c *Client) GetPosition(ctx context.Context, id string) (*models.Position, error) {
	endpoint := c.baseURL + "/positions/" + url.PathEscape(id) + ".json?markdown=true"

	var p models.Position
	if err := c.get(ctx, "get position", endpoint, &p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		// the api answers unknown ids with an empty object on some mirrors
		return nil, ErrNotFound
	}
	return &p, nil
}

func (c *Client) get(ctx context.Context, op, endpoint string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("jobsapi: %s: building request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("api call")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		c.limiter.Backoff(retryAfter(resp.Header.Get("Retry-After")))
		return &NetworkError{Op: op, StatusCode: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return &NetworkError{Op: op, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("decode body: %w", err)}
	}
	return nil
}

// retryAfter parses a Retry-After header given in seconds, defaulting to 1s.
func retryAfter(v string) time.Duration {
	if s, err := strconv.Atoi(v); err == nil && s > 0 {
		return time.Duration(s) * time.Second
	}
	return time.Second
}
