package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/jengatower/pkg/pipeline"
	"github.com/matzehuels/jengatower/pkg/severity"
	"github.com/matzehuels/jengatower/pkg/tower"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// severityStyle colors a severity with its pastel display color.
func severityStyle(s severity.Severity) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color()))
}

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}

// =============================================================================
// Analysis Output
// =============================================================================

// printStats prints analysis statistics on a single line.
func printStats(stats pipeline.Stats, cached bool) {
	parts := []string{
		fmt.Sprintf("%d dependencies", stats.Dependencies),
		fmt.Sprintf("%d looked up", stats.Lookups),
	}
	if stats.Unresolvable > 0 {
		parts = append(parts, fmt.Sprintf("%d unpinned", stats.Unresolvable))
	}
	parts = append(parts, (stats.ParseTime + stats.ResolveTime + stats.LayoutTime).Round(time.Millisecond).String())

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line + StyleDim.Render(" · ") + statusStyle.Render(status))
}

// summaryLine renders per-severity package counts, worst first, skipping
// zero counts except safe.
func summaryLine(s severity.Summary) string {
	var parts []string
	for i := len(severity.All) - 1; i >= 0; i-- {
		sev := severity.All[i]
		n := s.Count(sev)
		if n == 0 && sev != severity.Safe {
			continue
		}
		parts = append(parts, severityStyle(sev).Render(fmt.Sprintf("%d %s", n, sev)))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

// packageTable renders the packages of layout in tower order.
func packageTable(layout tower.Layout) string {
	var rows [][]string
	var sevs []severity.Severity
	for _, b := range towerOrder(layout) {
		status := b.Severity.String()
		if b.LookupFailed {
			status = "unknown"
		}
		rows = append(rows, []string{
			b.PackageName,
			b.Version,
			status,
			strconv.Itoa(b.VulnerabilityCount),
			fmt.Sprintf("%d/%d", b.Layer, b.Slot),
		})
		sevs = append(sevs, b.Severity)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Package", "Version", "Severity", "Vulns", "Layer/Slot").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if row < 0 || row >= len(sevs) {
				return lipgloss.NewStyle()
			}
			if col == 2 {
				if rows[row][2] == "unknown" {
					return StyleWarning
				}
				return severityStyle(sevs[row]).Bold(sevs[row].Vulnerable())
			}
			if sevs[row].Vulnerable() {
				return StyleValue
			}
			return StyleDim
		})
	return t.Render()
}

// towerOrder returns the package blocks of l, vulnerable ones first
// (bottom to top), then safe ones in placement order.
func towerOrder(l tower.Layout) []tower.Block {
	var vulnerable, safe []tower.Block
	for _, b := range l.Blocks {
		switch {
		case b.Filler:
		case b.Severity.Vulnerable():
			vulnerable = append(vulnerable, b)
		default:
			safe = append(safe, b)
		}
	}
	return append(vulnerable, safe...)
}

// printReport prints the human-readable analysis to w.
func printReport(w io.Writer, r *pipeline.Result) {
	title := r.Project.Name
	if r.Project.Version != "" {
		title += "@" + r.Project.Version
	}
	fmt.Fprintln(w, StyleTitle.Render(title))
	if r.Project.Repo != "" {
		fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("github.com/%s (%s)", r.Project.Repo, r.Project.Branch)))
	}
	fmt.Fprintln(w)
	if len(r.Packages) > 0 {
		fmt.Fprintln(w, packageTable(r.Layout))
	}
	fmt.Fprintln(w, summaryLine(r.Summary))
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("tower: %d layers, %d blocks", r.Layout.Layers, len(r.Layout.Blocks))))
}
