package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/jengatower/pkg/pipeline"
	"github.com/matzehuels/jengatower/pkg/severity"
	"github.com/matzehuels/jengatower/pkg/tower"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PackageListModel - Interactive package browser
// =============================================================================

// PackageListModel is the bubbletea model for browsing analyzed packages in
// tower order. Enter toggles the advisory list of the selected package.
type PackageListModel struct {
	Blocks   []tower.Block
	Packages map[string]severity.PackageVulnerability
	Cursor   int
	Height   int
	Offset   int
	Expanded bool
}

// NewPackageListModel creates a browser over the packages of r.
func NewPackageListModel(r *pipeline.Result) PackageListModel {
	pkgs := make(map[string]severity.PackageVulnerability, len(r.Packages))
	for _, p := range r.Packages {
		pkgs[p.PackageName] = p
	}
	return PackageListModel{
		Blocks:   towerOrder(r.Layout),
		Packages: pkgs,
		Height:   15,
	}
}

func (m PackageListModel) Init() tea.Cmd {
	return nil
}

func (m PackageListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				m.Expanded = false
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Blocks)-1 {
				m.Cursor++
				m.Expanded = false
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			m.Expanded = !m.Expanded
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	}
	return m, nil
}

func (m PackageListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Tower Packages"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ advisories  q quit"))
	b.WriteString("\n\n")

	if len(m.Blocks) == 0 {
		b.WriteString(listDimStyle.Render("  no dependencies"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Blocks))
	for i := m.Offset; i < end; i++ {
		blk := m.Blocks[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		label := blk.Severity.String()
		if blk.LookupFailed {
			label = "unknown"
		}
		badge := severityStyle(blk.Severity).Render(fmt.Sprintf("%-8s", label))
		line := fmt.Sprintf("%-32s %-14s layer %d", blk.PackageName, blk.Version, blk.Layer)

		b.WriteString(cursor)
		b.WriteString(badge)
		b.WriteString(" ")
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case blk.Severity.Vulnerable():
			b.WriteString(listNormalStyle.Render(line))
		default:
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.Expanded {
		b.WriteString("\n")
		b.WriteString(m.detail(m.Blocks[m.Cursor]))
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Blocks))))
	return b.String()
}

func (m PackageListModel) detail(blk tower.Block) string {
	pkg, ok := m.Packages[blk.PackageName]
	switch {
	case !ok:
		return ""
	case pkg.LookupFailed:
		return "  " + StyleWarning.Render("advisory lookup failed; severity unknown") + "\n"
	case len(pkg.Vulnerabilities) == 0:
		return "  " + StyleSuccess.Render("no known vulnerabilities") + "\n"
	}

	var b strings.Builder
	for _, v := range pkg.Vulnerabilities {
		b.WriteString("  ")
		b.WriteString(severityStyle(v.Severity).Render(fmt.Sprintf("%-8s", v.Severity)))
		b.WriteString(" ")
		b.WriteString(StyleValue.Render(v.ID))
		if v.Summary != "" {
			b.WriteString(listDimStyle.Render("  " + v.Summary))
		}
		b.WriteString("\n")
		if len(v.References) > 0 {
			b.WriteString("           ")
			b.WriteString(StyleLink.Render(v.References[0]))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// browse runs the package browser until the user quits.
func browse(r *pipeline.Result) error {
	_, err := tea.NewProgram(NewPackageListModel(r), tea.WithAltScreen()).Run()
	return err
}
