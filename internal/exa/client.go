package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"toxicheck/internal/metrics"
)

// ContentClient defines the content-provider operations the pipeline uses.
type ContentClient interface {
	GetContents(ctx context.Context, urls []string) ([]Result, error)
	Search(ctx context.Context, query string, limit int, domains []string) ([]Result, error)
}

// Result is one crawled document returned by the provider.
type Result struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	PublishedDate string `json:"publishedDate"`
	Author        string `json:"author"`
	Text          string `json:"text"`
}

// Client is a keyed JSON client for the Exa content-retrieval API.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxAttempts int
	baseBackoff time.Duration
}

// NewClient builds a client for the provider API. An empty baseURL selects
// the hosted endpoint.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.exa.ai"
	}
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		limiter:     newDefaultLimiter(),
		maxAttempts: getEnvInt("EXA_MAX_ATTEMPTS", 5),
		baseBackoff: time.Duration(getEnvInt("EXA_BASE_BACKOFF_MS", 500)) * time.Millisecond,
	}
}

type resultEnvelope struct {
	Results []Result `json:"results"`
}

// GetContents fetches crawled text for the given URLs.
func (c *Client) GetContents(ctx context.Context, urls []string) ([]Result, error) {
	if len(urls) == 0 {
		return nil, errors.New("no urls")
	}
	payload := map[string]any{
		"urls":      urls,
		"text":      true,
		"livecrawl": "fallback",
	}
	var out resultEnvelope
	if err := c.doJSON(ctx, "/contents", payload, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// Search runs a keyword search, optionally restricted to domains.
func (c *Client) Search(ctx context.Context, query string, limit int, domains []string) ([]Result, error) {
	if query == "" {
		return nil, errors.New("empty query")
	}
	payload := map[string]any{
		"query":      query,
		"numResults": clamp(limit, 1, 100),
	}
	if len(domains) > 0 {
		payload["includeDomains"] = domains
	}
	var out resultEnvelope
	if err := c.doJSON(ctx, "/search", payload, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) doJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	resp, err := c.doWithRetry(ctx, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("exa api status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// doWithRetry retries 429 and 5xx responses with exponential backoff,
// honoring Retry-After and adding +/-20% jitter. A fresh request is built
// per attempt since the body is consumed on each send.
func (c *Client) doWithRetry(ctx context.Context, path string, body []byte) (*http.Response, error) {
	backoff := c.baseBackoff
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		resp, err := c.httpClient.Do(req)
		if err == nil {
			if resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode >= 500 && resp.StatusCode <= 599) {
				ra := resp.Header.Get("Retry-After")
				_ = resp.Body.Close()
				metrics.IncAPIRetry(path)
				wait := backoff
				if ra != "" {
					if secs, err := strconv.Atoi(ra); err == nil {
						wait = time.Duration(secs) * time.Second
					} else if t, err := http.ParseTime(ra); err == nil {
						if d := time.Until(t); d > 0 {
							wait = d
						}
					}
				}
				jitter := time.Duration(float64(wait) * 0.2)
				if jitter > 0 {
					wait = wait - jitter + time.Duration(time.Now().UnixNano()%int64(2*jitter))
				}
				select {
				case <-time.After(wait):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				backoff *= 2
				continue
			}
			return resp, nil
		}
		lastErr = err
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("request failed after %d attempts: %v", c.maxAttempts, lastErr)
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil && i > 0 {
		return i
	}
	return def
}
