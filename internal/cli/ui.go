package cli

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/licensetower/pkg/analysis"
	"github.com/matzehuels/licensetower/pkg/license"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings, dependents
	colorRed    = lipgloss.Color("167") // Soft red - errors, blacklisted
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

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleBlacklisted for packages carrying a blacklisted license.
	StyleBlacklisted = lipgloss.NewStyle().Foreground(colorRed)

	// StyleDependent for packages depending on a blacklisted package.
	StyleDependent = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for error messages.
	StyleError = lipgloss.NewStyle().Bold(true).Foreground(colorRed)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printGraphStats prints graph statistics on a single line.
func printGraphStats(packages, edges, unknown int) {
	parts := []string{
		fmt.Sprintf("%d packages", packages),
		fmt.Sprintf("%d edges", edges),
	}
	if unknown > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d unknown", unknown)))
	}
	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line)
}

// =============================================================================
// Tables
// =============================================================================

type licenseCount struct {
	name  string
	count int
}

// sortedCounts orders counts by descending count, then name.
func sortedCounts(counts map[string]int) []licenseCount {
	out := make([]licenseCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, licenseCount{name, n})
	}
	slices.SortFunc(out, func(a, b licenseCount) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})
	return out
}

// writeLicenseTable renders license counts as a bordered table. Names in
// blacklist are highlighted.
func writeLicenseTable(w io.Writer, counts map[string]int, blacklist license.Set) {
	sorted := sortedCounts(counts)
	rows := make([][]string, len(sorted))
	for i, lc := range sorted {
		rows[i] = []string{lc.name, strconv.Itoa(lc.count)}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("License", "Packages").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			if col == 1 {
				base = base.Foreground(colorCyan).Align(lipgloss.Right)
			}
			if row < len(sorted) && blacklist.Has(sorted[row].name) {
				return base.Foreground(colorRed)
			}
			return base
		})
	fmt.Fprintln(w, t.Render())
}

// writeAnalysis lists blacklisted packages and their dependents.
func writeAnalysis(w io.Writer, res analysis.Result) {
	if len(res.Blacklisted) > 0 {
		fmt.Fprintln(w, StyleTitle.Render("Blacklisted"))
		for _, id := range res.Blacklisted {
			fmt.Fprintln(w, "  "+StyleBlacklisted.Render(id))
		}
	}
	if len(res.Dependents) > 0 {
		fmt.Fprintln(w, StyleTitle.Render("Dependents"))
		for _, id := range res.Dependents {
			fmt.Fprintln(w, "  "+StyleDependent.Render(id))
		}
	}
}

// summaryLine is the one-line overview shown after an analysis.
func summaryLine(total int, res analysis.Result) string {
	return fmt.Sprintf("%s packages · %s blacklisted · %s dependents",
		StyleNumber.Render(strconv.Itoa(total)),
		StyleBlacklisted.Render(strconv.Itoa(len(res.Blacklisted))),
		StyleDependent.Render(strconv.Itoa(len(res.Dependents))))
}
