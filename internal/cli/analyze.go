package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/jengatower/pkg/errors"
	"github.com/matzehuels/jengatower/pkg/pipeline"
	"github.com/matzehuels/jengatower/pkg/severity"
	"github.com/matzehuels/jengatower/pkg/tower"
)

// analyzeFlags holds the output-related flags of the analyze command.
type analyzeFlags struct {
	output       string
	layoutOutput string
	noCache      bool
	browse       bool
	failOn       string
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		repo     string
		path     string
		prodOnly bool
		flags    analyzeFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "analyze [package.json]",
		Short: "Find vulnerable dependencies and build their tower",
		Long: `Analyze the direct dependencies of a package.json.

Every dependency pinned to a concrete version is looked up in the OSV
database; ranges such as "*", "latest" or "1.x" are reported as safe without
a lookup. The result is printed as a table sorted the way the tower stacks
the packages.

The manifest is read from the given file (default ./package.json) or, with
--github, fetched from the main or master branch of a GitHub repository.

Examples:
  jengatower analyze
  jengatower analyze web/package.json --prod-only
  jengatower analyze --github expressjs/express -o report.json
  jengatower analyze --github https://github.com/vercel/next.js --path packages/next/package.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case repo != "" && len(args) > 0:
				return apperr.New(apperr.ErrCodeInvalidInput, "pass either a package.json path or --github, not both")
			case repo != "":
				opts.GitHub = repo
				opts.ManifestPath = path
			default:
				file := "package.json"
				if len(args) > 0 {
					file = args[0]
				}
				data, err := os.ReadFile(file)
				if err != nil {
					return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "read %s", file)
				}
				opts.Manifest = string(data)
			}
			if prodOnly {
				includeDev := false
				opts.IncludeDev = &includeDev
			}
			return c.runAnalyze(cmd.Context(), opts, flags)
		},
	}

	cmd.Flags().StringVar(&repo, "github", "", "GitHub repository (owner/repo or https://github.com/owner/repo)")
	cmd.Flags().StringVar(&path, "path", "", "manifest path inside the repository (default: package.json)")
	cmd.Flags().BoolVar(&prodOnly, "prod-only", false, "skip devDependencies")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached advisories")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the full report as JSON (- for stdout)")
	cmd.Flags().StringVar(&flags.layoutOutput, "layout-output", "", "write only the tower layout as JSON")
	cmd.Flags().BoolVar(&flags.browse, "browse", false, "browse the packages interactively")
	cmd.Flags().StringVar(&flags.failOn, "fail-on", "", "exit non-zero if a package is at or above this severity (low, medium, high, critical)")

	return cmd
}

// runAnalyze runs the pipeline and writes its outputs.
func (c *CLI) runAnalyze(ctx context.Context, opts pipeline.Options, flags analyzeFlags) error {
	threshold := severity.Safe
	if flags.failOn != "" {
		s, err := severity.Parse(flags.failOn)
		if err != nil || s == severity.Safe {
			return apperr.New(apperr.ErrCodeInvalidInput, "invalid --fail-on %q", flags.failOn)
		}
		threshold = s
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Looking up advisories...")
	spinner.Start()

	result, err := runner.Analyze(ctx, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Analysis failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Analyzed %d dependencies", result.Stats.Dependencies))

	toStdout := flags.output == "-"
	if toStdout {
		if err := pipeline.WriteResult(os.Stdout, result); err != nil {
			return err
		}
	} else {
		printReport(os.Stdout, result)
		printStats(result.Stats, result.Cache.LayoutHit)
		if result.Stats.Failed > 0 {
			printWarning("%d advisory lookups failed; those packages are listed as unknown", result.Stats.Failed)
		}
	}

	if flags.output != "" && !toStdout {
		if err := writeResultFile(result, flags.output); err != nil {
			return err
		}
		printSuccess("Report written")
		printFile(flags.output)
	}
	if flags.layoutOutput != "" {
		if err := tower.WriteLayoutFile(result.Layout, flags.layoutOutput); err != nil {
			return fmt.Errorf("write layout %s: %w", flags.layoutOutput, err)
		}
		if !toStdout {
			printSuccess("Tower layout written")
			printFile(flags.layoutOutput)
		}
	}
	if flags.output != "" && !toStdout {
		printNewline()
		printNextStep("Rebuild the tower later", appName+" layout "+flags.output)
	}

	if flags.browse {
		if err := browse(result); err != nil {
			return err
		}
	}

	if threshold != severity.Safe {
		if n := countAtLeast(result.Packages, threshold); n > 0 {
			return fmt.Errorf("%d packages at or above %s severity", n, threshold)
		}
	}
	return nil
}

func writeResultFile(r *pipeline.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := pipeline.WriteResult(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func countAtLeast(pkgs []severity.PackageVulnerability, threshold severity.Severity) int {
	n := 0
	for _, p := range pkgs {
		if p.MaxSeverity >= threshold {
			n++
		}
	}
	return n
}
