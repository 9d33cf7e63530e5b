package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jengatower/pkg/pipeline"
	"github.com/matzehuels/jengatower/pkg/severity"
	"github.com/matzehuels/jengatower/pkg/tower"
)

// layoutCommand creates the layout command for rebuilding a tower from a report.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout [report.json]",
		Short: "Build the tower layout from a saved report",
		Long: `Build the tower layout from a saved report.

The layout command takes a report written by 'analyze -o' (or a bare JSON
array of packages) and computes the tower without any network access. The
output is the layout document consumed by the 3D renderer.

The tower is deterministic: the same packages always produce the same
layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.tower.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runLayout loads the report, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output string, noCache bool) error {
	pkgs, err := pipeline.ReadReportFile(input)
	if err != nil {
		return fmt.Errorf("load report %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Stacking tower...")
	spinner.Start()
	layout, cacheHit, err := runner.LayoutWithCacheInfo(ctx, pkgs)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".tower.json"
	}
	if err := tower.WriteLayoutFile(layout, outputPath); err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	spinner.StopWithSuccess("Layout complete")
	printFile(outputPath)
	printKeyValue("Packages", fmt.Sprint(len(pkgs)))
	printKeyValue("Layers", fmt.Sprint(layout.Layers))
	printKeyValue("Height", fmt.Sprintf("%.1f", layout.Height()))
	if cacheHit {
		printDetail("served from cache")
	}
	printInfo("%s", summaryLine(severity.Summarize(pkgs)))
	return nil
}
