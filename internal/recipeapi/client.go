package recipeapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Another0Noob/fridge-recipes/internal/logging"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "http://openapi.foodsafetykorea.go.kr/api"
	DefaultService   = "COOKRCP01"
	DefaultPageSize  = 1000
	DefaultUserAgent = "fridge-recipes/0.1 (https://github.com/Another0Noob/fridge-recipes)"
)

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL  string
	Key      string
	Service  string
	PageSize int
	// RequestsPerSecond limits page requests. Zero disables limiting.
	RequestsPerSecond float64
	// Timeout is the per-request transport timeout. Zero leaves the
	// http.Client default (no timeout).
	Timeout   time.Duration
	UserAgent string
}

// Client fetches the recipe catalog from the food safety open API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	key         string
	service     string
	pageSize    int
	userAgent   string
	rateLimiter *rate.Limiter
}

// NewClient creates a new recipe API client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Service == "" {
		opts.Service = DefaultService
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Client{
		httpClient:  &http.Client{Timeout: opts.Timeout},
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		key:         opts.Key,
		service:     opts.Service,
		pageSize:    opts.PageSize,
		userAgent:   opts.UserAgent,
		rateLimiter: rate.NewLimiter(limit, 1),
	}
}

// PageSize returns the number of rows requested per page.
func (c *Client) PageSize() int {
	return c.pageSize
}

// Endpoint is the URL prefix every page request shares.
func (c *Client) Endpoint() string {
	return fmt.Sprintf("%s/%s/%s/json", c.baseURL, c.key, c.service)
}

// PageURL returns the URL of rows start..end, both 1-based and inclusive.
func (c *Client) PageURL(start, end int) string {
	return fmt.Sprintf("%s/%d/%d/", c.Endpoint(), start, end)
}

// doRequest performs a GET against the API (raw, no JSON decoding).
func (c *Client) doRequest(ctx context.Context, fullURL string) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// FetchPage requests rows start..end and decodes them.
func (c *Client) FetchPage(ctx context.Context, start, end int) ([]Recipe, error) {
	began := time.Now()

	resp, err := c.doRequest(ctx, c.PageURL(start, end))
	if err != nil {
		return nil, networkError(start, end, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(start, end, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, networkError(start, end, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(b, 200)))
	}

	recipes, err := c.decodePage(b)
	if err != nil {
		return nil, decodeError(start, end, err)
	}

	logging.Debug().
		Int("start", start).
		Int("end", end).
		Int("rows", len(recipes)).
		Dur("took", time.Since(began)).
		Msg("fetched recipe page")
	return recipes, nil
}

// decodePage unwraps {"<service>": {"row": [...]}}.
func (c *Client) decodePage(b []byte) ([]Recipe, error) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w (body: %s)", err, truncate(b, 200))
	}

	raw, ok := env[c.service]
	if !ok {
		// Errors and empty ranges come back as a bare RESULT object.
		if res, ok := env["RESULT"]; ok {
			var r Result
			if err := json.Unmarshal(res, &r); err != nil {
				return nil, fmt.Errorf("decode result: %w", err)
			}
			if r.Code == ResultNoData {
				return nil, nil
			}
			return nil, fmt.Errorf("api error %s: %s", r.Code, r.Message)
		}
		return nil, fmt.Errorf("missing %s container (body: %s)", c.service, truncate(b, 200))
	}

	var body serviceBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.service, err)
	}
	if body.Result != nil && body.Result.Code != "" && body.Result.Code != ResultOK && body.Result.Code != ResultNoData {
		return nil, fmt.Errorf("api error %s: %s", body.Result.Code, body.Result.Message)
	}

	recipes := make([]Recipe, 0, len(body.Rows))
	for i, row := range body.Rows {
		r, err := row.toRecipe()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		recipes = append(recipes, r)
	}
	return recipes, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
