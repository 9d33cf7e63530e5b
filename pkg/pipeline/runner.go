package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/jengatower/pkg/cache"
	apperr "github.com/matzehuels/jengatower/pkg/errors"
	"github.com/matzehuels/jengatower/pkg/integrations/github"
	"github.com/matzehuels/jengatower/pkg/integrations/osv"
	"github.com/matzehuels/jengatower/pkg/manifest"
	"github.com/matzehuels/jengatower/pkg/observability"
	"github.com/matzehuels/jengatower/pkg/semver"
	"github.com/matzehuels/jengatower/pkg/severity"
	"github.com/matzehuels/jengatower/pkg/tower"
)

// Runner executes analyses. It holds no per-analysis state, so one Runner
// can serve concurrent analyses.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	osv    *osv.Client
	github *github.RawClient
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithOSVClient replaces the advisory client.
func WithOSVClient(c *osv.Client) RunnerOption {
	return func(r *Runner) { r.osv = c }
}

// WithGitHubClient replaces the manifest fetcher.
func WithGitHubClient(c *github.RawClient) RunnerOption {
	return func(r *Runner) { r.github = c }
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// Unless overridden, the OSV client shares the runner's cache and keyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger, opts ...RunnerOption) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.osv == nil {
		r.osv = osv.NewClient(osv.Config{Cache: c, Keyer: keyer, Logger: logger})
	}
	if r.github == nil {
		r.github = github.NewRawClient(github.RawConfig{Logger: logger})
	}
	return r
}

// Analyze runs parse, resolve and layout for one manifest.
//
// The returned error is always coded: invalid options and manifests are
// INVALID_*, a repository without package.json is MANIFEST_NOT_FOUND and a
// done context is CANCELLED. No partial result is returned on error.
func (r *Runner) Analyze(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{ID: uuid.NewString()}

	// Stage 1: Parse
	parseStart := time.Now()
	pkg, project, err := r.Parse(ctx, opts)
	if err != nil {
		return nil, err
	}
	deps := pkg.Filter(opts.IncludeDevDependencies())
	result.Project = project
	result.Stats.Dependencies = len(deps)
	result.Stats.ParseTime = time.Since(parseStart)

	opts.Logger.Info("parsed manifest",
		"project", project.Name,
		"dependencies", len(deps),
		"duration", result.Stats.ParseTime)

	// Stage 2: Resolve
	resolveStart := time.Now()
	pkgs, err := r.Resolve(ctx, deps, opts.Refresh)
	if err != nil {
		return nil, err
	}
	result.Packages = pkgs
	result.Summary = severity.Summarize(pkgs)
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.Stats.Failed = result.Summary.LookupFailed
	for _, d := range deps {
		if semver.IsResolvable(d.VersionSpec) {
			result.Stats.Lookups++
		} else {
			result.Stats.Unresolvable++
		}
	}

	opts.Logger.Info("resolved advisories",
		"vulnerable", result.Summary.Vulnerable(),
		"failed", result.Stats.Failed,
		"duration", result.Stats.ResolveTime)

	// Stage 3: Layout
	layoutStart := time.Now()
	layout, hit, err := r.LayoutWithCacheInfo(ctx, pkgs)
	if err != nil {
		return nil, err
	}
	result.Layout = layout
	result.Cache.LayoutHit = hit
	result.Stats.LayoutTime = time.Since(layoutStart)

	opts.Logger.Info("computed layout",
		"layers", layout.Layers,
		"blocks", len(layout.Blocks),
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// Parse obtains and parses the manifest selected by opts.
func (r *Runner) Parse(ctx context.Context, opts Options) (pkg *manifest.Package, project Project, err error) {
	source := opts.Source()
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, source)
	start := time.Now()
	defer func() {
		n := 0
		if pkg != nil {
			n = len(pkg.Dependencies)
		}
		hooks.OnParseComplete(ctx, source, n, time.Since(start), err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, Project{}, cancelled(err)
	}

	project.Source = source
	text := opts.Manifest
	if source == SourceGitHub {
		owner, repo, err := github.ParseRepoURL(opts.GitHub)
		if err != nil {
			return nil, Project{}, err
		}
		var branch string
		text, branch, err = r.github.FetchManifest(ctx, owner, repo, opts.ManifestPath)
		if err != nil {
			return nil, Project{}, err
		}
		project.Repo = owner + "/" + repo
		project.Branch = branch
	}

	pkg, err = manifest.ParsePackageJSON(text)
	if err != nil {
		return nil, Project{}, err
	}
	project.Name = pkg.Name
	project.Version = pkg.Version
	return pkg, project, nil
}

// Resolve looks up advisories for deps and assesses each one. The result
// has one entry per dependency in dependency order. Lookup failures are
// recorded on the package; only a done context fails Resolve.
func (r *Runner) Resolve(ctx context.Context, deps []manifest.Dependency, refresh bool) (pkgs []severity.PackageVulnerability, err error) {
	hooks := observability.Pipeline()
	hooks.OnResolveStart(ctx, len(deps))
	start := time.Now()
	failed := 0
	defer func() {
		hooks.OnResolveComplete(ctx, len(deps), failed, time.Since(start), err)
	}()

	queries := make([]osv.Query, len(deps))
	for i, d := range deps {
		queries[i] = osv.Query{Name: d.Name, Version: d.VersionSpec}
	}

	results, err := r.osv.WithRefresh(refresh).QueryBatch(ctx, queries)
	if err != nil {
		return nil, cancelled(err)
	}

	pkgs = make([]severity.PackageVulnerability, len(deps))
	for i, q := range queries {
		pkgs[i] = severity.Assess(q.Name, q.Version, results[q.Key()])
		if pkgs[i].LookupFailed {
			failed++
		}
	}
	return pkgs, nil
}

// LayoutWithCacheInfo builds the tower for pkgs and reports whether it came
// from the cache. Layouts are keyed by the hash of their input.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, pkgs []severity.PackageVulnerability) (layout tower.Layout, hit bool, err error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(pkgs))
	start := time.Now()
	defer func() {
		hooks.OnLayoutComplete(ctx, len(layout.Blocks), time.Since(start), err)
	}()

	input, err := json.Marshal(pkgs)
	if err != nil {
		return tower.Layout{}, false, apperr.Wrap(apperr.ErrCodeInternal, err, "serialize layout input")
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(input))

	// Try cache first
	if data, ok, err := r.Cache.Get(ctx, cacheKey); err == nil && ok {
		if cached, err := tower.UnmarshalLayout(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	layout = tower.Generate(pkgs)

	if data, err := tower.MarshalLayout(layout); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		} else {
			r.Logger.Debug("layout cache write failed", "err", err)
		}
	}
	return layout, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, pkgs []severity.PackageVulnerability) (tower.Layout, error) {
	layout, _, err := r.LayoutWithCacheInfo(ctx, pkgs)
	return layout, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func cancelled(err error) error {
	return apperr.Wrap(apperr.ErrCodeCancelled, err, "analysis cancelled")
}
