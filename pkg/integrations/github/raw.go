package github

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	apperr "github.com/matzehuels/jengatower/pkg/errors"
	"github.com/matzehuels/jengatower/pkg/integrations"
)

const (
	// DefaultRawBaseURL serves raw file contents without API rate limits.
	DefaultRawBaseURL = "https://raw.githubusercontent.com"

	// DefaultManifestPath is the manifest fetched at the repository root.
	DefaultManifestPath = "package.json"
)

// DefaultBranches are tried in order until one has the manifest.
var DefaultBranches = []string{"main", "master"}

// RawConfig configures a [RawClient]. Zero values select defaults.
type RawConfig struct {
	BaseURL    string
	Branches   []string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// RawClient fetches files from raw.githubusercontent.com.
type RawClient struct {
	*integrations.Client
	baseURL  string
	branches []string
	logger   *log.Logger
}

// NewRawClient creates a raw content client. Responses are never cached.
func NewRawClient(cfg RawConfig) *RawClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultRawBaseURL
	}
	if len(cfg.Branches) == 0 {
		cfg.Branches = DefaultBranches
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &RawClient{
		Client:   integrations.NewClient(cfg.HTTPClient, nil, map[string]string{"Accept": "application/json"}),
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		branches: cfg.Branches,
		logger:   cfg.Logger,
	}
}

// FetchManifest returns the text of path in owner/repo and the branch it
// was found on. Branches are tried in order: a 404 or a transport error
// moves on to the next branch, any other status fails immediately. When no
// branch has the file the error carries [apperr.ErrCodeManifestNotFound].
func (c *RawClient) FetchManifest(ctx context.Context, owner, repo, path string) (text, branch string, err error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return "", "", err
	}
	if path == "" {
		path = DefaultManifestPath
	}
	path = strings.TrimLeft(path, "/")
	if strings.Contains(path, "..") {
		return "", "", apperr.New(apperr.ErrCodeInvalidInput, "invalid manifest path %q", path)
	}

	for _, branch := range c.branches {
		url := strings.Join([]string{c.baseURL, owner, repo, branch, path}, "/")
		text, err := c.GetText(ctx, url)
		switch {
		case err == nil:
			c.logger.Debug("fetched manifest", "repo", owner+"/"+repo, "branch", branch, "bytes", len(text))
			return text, branch, nil
		case ctx.Err() != nil:
			return "", "", apperr.Wrap(apperr.ErrCodeCancelled, ctx.Err(), "fetch %s/%s", owner, repo)
		case errors.Is(err, integrations.ErrNotFound), errors.Is(err, integrations.ErrNetwork):
			c.logger.Debug("manifest not on branch", "repo", owner+"/"+repo, "branch", branch, "err", err)
			continue
		default:
			return "", "", apperr.Wrap(apperr.ErrCodeNetwork, err, "fetch %s from %s/%s@%s", path, owner, repo, branch)
		}
	}
	return "", "", apperr.New(apperr.ErrCodeManifestNotFound,
		"%s not found in %s/%s (tried %s)", path, owner, repo, strings.Join(c.branches, ", "))
}
