package gnews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/newswatchhq/newswatch/internal/models"
)

const (
	DefaultBaseURL = "https://gnews.io/api/v4"
	DefaultTimeout = 15 * time.Second

	// The free GNews tier allows very few requests; one per second is
	// already generous for a cached dashboard.
	requestsPerSecond = 1
)

// ErrUpstream marks any failure reaching or decoding the provider.
// Callers treat it as retryable: the next scheduled refresh retries.
var ErrUpstream = errors.New("gnews: upstream request failed")

// Client is a rate-limited HTTP client for the GNews search API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a GNews client. The API key is mandatory; a missing key
// is a configuration error, not a per-request condition.
func New(baseURL, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gnews: API key is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("gnews: invalid base URL: %w", err)
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}, nil
}

type searchResponse struct {
	TotalArticles int                 `json:"totalArticles"`
	Articles      []models.RawArticle `json:"articles"`
}

// Search fetches up to max articles matching query, newest first.
func (c *Client) Search(ctx context.Context, query string, max int) ([]models.RawArticle, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("gnews: rate limit wait: %w", err)
	}

	endpoint, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("gnews: build URL: %w", err)
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("lang", "en")
	params.Set("max", fmt.Sprintf("%d", max))
	params.Set("sortby", "publishedAt")
	params.Set("apikey", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("gnews: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	if decoded.Articles == nil {
		return nil, fmt.Errorf("%w: response missing article list", ErrUpstream)
	}

	return decoded.Articles, nil
}
