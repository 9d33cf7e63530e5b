package osv

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/jengatower/pkg/cache"
	"github.com/matzehuels/jengatower/pkg/integrations"
	"github.com/matzehuels/jengatower/pkg/semver"
)

const (
	// DefaultEndpoint is the public OSV single-query endpoint.
	DefaultEndpoint = "https://api.osv.dev/v1/query"

	// Ecosystem is the OSV ecosystem every query is issued against.
	Ecosystem = "npm"

	// BatchSize bounds the number of in-flight requests.
	BatchSize = 5
)

// Config configures a [Client]. Zero values select defaults.
type Config struct {
	Endpoint   string
	HTTPClient *http.Client
	Cache      cache.Cache
	Keyer      cache.Keyer
	TTL        time.Duration
	Logger     *log.Logger
}

// Client queries OSV for npm advisories.
type Client struct {
	*integrations.Client
	endpoint string
	keyer    cache.Keyer
	ttl      time.Duration
	refresh  bool
	logger   *log.Logger
}

// NewClient creates an OSV client.
func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Keyer == nil {
		cfg.Keyer = cache.NewDefaultKeyer()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = cache.TTLAdvisory
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Client{
		Client:   integrations.NewClient(cfg.HTTPClient, cfg.Cache, nil),
		endpoint: cfg.Endpoint,
		keyer:    cfg.Keyer,
		ttl:      cfg.TTL,
		logger:   cfg.Logger,
	}
}

// WithRefresh returns a copy of c that skips cache reads. Successful
// lookups are still written back.
func (c *Client) WithRefresh(refresh bool) *Client {
	cp := *c
	cp.refresh = refresh
	return &cp
}

// QueryBatch resolves advisories for items and returns them keyed by
// [Query.Key].
//
// Items are processed in fixed batches of [BatchSize]; the items of one
// batch run concurrently and the next batch starts only after the previous
// one finished. A failed lookup never fails the batch: it yields an empty
// Response with Failed set. The context is checked before each batch; if
// it is done, QueryBatch returns its error and no results.
func (c *Client) QueryBatch(ctx context.Context, items []Query) (map[string]Response, error) {
	unique := dedupe(items)
	results := make(map[string]Response, len(unique))
	var mu sync.Mutex

	for start := 0; start < len(unique); start += BatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+BatchSize, len(unique))

		var g errgroup.Group
		g.SetLimit(BatchSize)
		for _, q := range unique[start:end] {
			g.Go(func() error {
				resp := c.Query(ctx, q)
				mu.Lock()
				results[q.Key()] = resp
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Query resolves a single item. Unresolvable version specs return an empty
// Response without a request.
func (c *Client) Query(ctx context.Context, q Query) Response {
	version, ok := semver.Normalize(q.Version)
	if !ok {
		c.logger.Debug("skipping unresolvable version", "pkg", q.Name, "spec", q.Version)
		return Response{}
	}

	var resp Response
	hit, err := c.Cached(ctx, "advisory", c.keyer.AdvisoryKey(q.Name, version), c.ttl, c.refresh, &resp, func() error {
		return c.fetch(ctx, q.Name, version, &resp)
	})
	if err != nil {
		c.logger.Warn("advisory lookup failed", "pkg", q.Name, "version", version, "err", err)
		return Response{Failed: true}
	}
	c.logger.Debug("advisory lookup", "pkg", q.Name, "version", version, "vulns", len(resp.Vulns), "cached", hit)
	return resp
}

func (c *Client) fetch(ctx context.Context, name, version string, resp *Response) error {
	req := queryRequest{
		Package: Package{Name: name, Ecosystem: Ecosystem},
		Version: version,
	}
	err := c.PostJSON(ctx, c.endpoint, req, resp)
	if errors.Is(err, integrations.ErrNotFound) {
		*resp = Response{}
		return nil
	}
	return err
}

func dedupe(items []Query) []Query {
	seen := make(map[string]struct{}, len(items))
	out := make([]Query, 0, len(items))
	for _, q := range items {
		if _, ok := seen[q.Key()]; ok {
			continue
		}
		seen[q.Key()] = struct{}{}
		out = append(out, q)
	}
	return out
}
