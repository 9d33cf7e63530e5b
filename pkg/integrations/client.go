package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/jengatower/pkg/buildinfo"
	"github.com/matzehuels/jengatower/pkg/cache"
	"github.com/matzehuels/jengatower/pkg/observability"
)

// Client provides shared HTTP functionality for the OSV and GitHub clients.
// It handles optional response caching, common request headers and
// observability hooks. It never retries: callers decide how to degrade.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	headers map[string]string
}

// NewClient creates a Client. A nil httpClient uses [NewHTTPClient]; a nil
// cache disables caching. Headers are applied to all requests made through
// this client, after a default User-Agent.
func NewClient(httpClient *http.Client, c cache.Cache, headers map[string]string) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:    httpClient,
		cache:   c,
		headers: headers,
	}
}

// Cached reads key from the cache into v, or calls fetch and stores v under
// key with ttl. keyType labels cache hooks ("advisory", "layout"). When
// refresh is true the read is skipped but a successful fetch is still
// stored. Failed fetches are never cached. hit reports whether v came from
// the cache.
func (c *Client) Cached(ctx context.Context, keyType, key string, ttl time.Duration, refresh bool, v any, fetch func() error) (hit bool, err error) {
	hooks := observability.Cache()
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			if json.Unmarshal(data, v) == nil {
				hooks.OnCacheHit(ctx, keyType)
				return true, nil
			}
		}
		hooks.OnCacheMiss(ctx, keyType)
	}
	if err := fetch(); err != nil {
		return false, err
	}
	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, key, data, ttl) == nil {
			hooks.OnCacheSet(ctx, keyType, len(data))
		}
	}
	return false, nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	body, err := c.doRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	defer body.Close()
	return decode(body, v)
}

// PostJSON encodes in as the request body and JSON-decodes the response
// into out.
func (c *Client) PostJSON(ctx context.Context, url string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	body, err := c.doRequest(ctx, http.MethodPost, url, payload)
	if err != nil {
		return err
	}
	defer body.Close()
	return decode(body, out)
}

// GetText performs an HTTP GET request and returns the response body as a string.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	body, err := c.doRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return string(data), nil
}

func (c *Client) doRequest(ctx context.Context, method, url string, payload []byte) (io.ReadCloser, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func decode(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return &StatusError{Code: code}
	}
}
