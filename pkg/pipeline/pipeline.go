// Package pipeline provides the analysis pipeline shared by the CLI and the
// HTTP API.
//
// An analysis runs three stages:
//
//  1. Parse: obtain package.json (inline text or a GitHub repository) and
//     extract its direct dependencies
//  2. Resolve: look up advisories in OSV and classify each dependency by its
//     worst severity
//  3. Layout: stack the classified dependencies into a Jenga tower
//
// Only the parse stage can fail an analysis. Advisory lookups that fail are
// recorded on the affected package and the analysis carries on.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	defer runner.Close()
//
//	result, err := runner.Analyze(ctx, pipeline.Options{
//	    GitHub: "https://github.com/expressjs/express",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary.Critical, len(result.Layout.Blocks))
//
// Regenerate a tower from a saved report without any network access:
//
//	layout, err := runner.Layout(ctx, result.Packages)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	apperr "github.com/matzehuels/jengatower/pkg/errors"
	"github.com/matzehuels/jengatower/pkg/severity"
	"github.com/matzehuels/jengatower/pkg/tower"
)

// Manifest sources reported in [Project.Source] and to pipeline hooks.
const (
	SourceInline = "inline"
	SourceGitHub = "github"
)

// Options configures one analysis. Exactly one of Manifest and GitHub must
// be set. The JSON form is the body of the analyze API endpoint.
type Options struct {
	// Manifest is the text of a package.json.
	Manifest string `json:"manifest,omitempty"`

	// GitHub is a repository URL (https://github.com/owner/repo) or an
	// owner/repo reference whose package.json is fetched.
	GitHub string `json:"github,omitempty"`

	// ManifestPath is the manifest location inside the repository.
	// Defaults to package.json at the root.
	ManifestPath string `json:"manifest_path,omitempty"`

	// IncludeDev controls whether devDependencies are analyzed. Nil means
	// true.
	IncludeDev *bool `json:"include_dev,omitempty"`

	// Refresh skips cached advisories. Fresh results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Validate checks that exactly one manifest source is set.
func (o *Options) Validate() error {
	hasManifest := strings.TrimSpace(o.Manifest) != ""
	hasGitHub := strings.TrimSpace(o.GitHub) != ""
	switch {
	case !hasManifest && !hasGitHub:
		return apperr.New(apperr.ErrCodeInvalidInput, "manifest or github is required")
	case hasManifest && hasGitHub:
		return apperr.New(apperr.ErrCodeInvalidInput, "manifest and github are mutually exclusive")
	case o.ManifestPath != "" && !hasGitHub:
		return apperr.New(apperr.ErrCodeInvalidInput, "manifest_path requires github")
	}
	return nil
}

// SetDefaults fills in the logger.
func (o *Options) SetDefaults() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults runs [Options.Validate] then [Options.SetDefaults].
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.Validate(); err != nil {
		return err
	}
	o.SetDefaults()
	return nil
}

// IncludeDevDependencies reports whether devDependencies are analyzed.
func (o *Options) IncludeDevDependencies() bool {
	return o.IncludeDev == nil || *o.IncludeDev
}

// Source returns the manifest source the options select.
func (o *Options) Source() string {
	if strings.TrimSpace(o.GitHub) != "" {
		return SourceGitHub
	}
	return SourceInline
}

// Project identifies the analyzed package.json.
type Project struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Source  string `json:"source"`
	// Repo and Branch are set for GitHub sources.
	Repo   string `json:"repo,omitempty"`
	Branch string `json:"branch,omitempty"`
}

// Result is the outcome of one analysis.
type Result struct {
	ID       string                          `json:"id"`
	Project  Project                         `json:"project"`
	Packages []severity.PackageVulnerability `json:"packages"`
	Layout   tower.Layout                    `json:"layout"`
	Summary  severity.Summary                `json:"summary"`
	Stats    Stats                           `json:"stats"`
	Cache    CacheInfo                       `json:"cache"`
}

// Stats contains counts and stage timings.
type Stats struct {
	Dependencies int `json:"dependencies"`
	// Unresolvable counts version specs that do not name a concrete
	// version and were not looked up.
	Unresolvable int `json:"unresolvable"`
	Lookups      int `json:"lookups"`
	Failed       int `json:"failed"`

	ParseTime   time.Duration `json:"parse_time"`
	ResolveTime time.Duration `json:"resolve_time"`
	LayoutTime  time.Duration `json:"layout_time"`
}

// CacheInfo tracks which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool `json:"layout_hit"`
}
