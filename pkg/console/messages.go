// Package console provides styled terminal output for validation results.
//
// All user-facing messages flow through the Format* helpers so that
// severity styling stays consistent across commands. Styling degrades to
// plain text automatically when stdout is not a terminal or NO_COLOR is
// set (handled by lipgloss/termenv).
package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	verboseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

// FormatErrorMessage formats an error message for console output.
func FormatErrorMessage(message string) string {
	return errorStyle.Render("✗ " + message)
}

// FormatWarningMessage formats a warning message for console output.
func FormatWarningMessage(message string) string {
	return warningStyle.Render("⚠ " + message)
}

// FormatSuccessMessage formats a success message for console output.
func FormatSuccessMessage(message string) string {
	return successStyle.Render("✓ " + message)
}

// FormatInfoMessage formats an informational message for console output.
func FormatInfoMessage(message string) string {
	return infoStyle.Render(message)
}

// FormatVerboseMessage formats a low-priority diagnostic message.
func FormatVerboseMessage(message string) string {
	return verboseStyle.Render(message)
}

// FormatHeader formats a section header.
func FormatHeader(title string) string {
	return headerStyle.Render(title)
}

// TableConfig describes a simple left-aligned table.
type TableConfig struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTable renders a table with padded columns. Column widths follow the
// widest cell in each column; rows shorter than the header are padded with
// empty cells.
func RenderTable(config TableConfig) string {
	if len(config.Headers) == 0 {
		return ""
	}

	widths := make([]int, len(config.Headers))
	for i, h := range config.Headers {
		widths[i] = len(h)
	}
	for _, row := range config.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder
	if config.Title != "" {
		sb.WriteString(FormatHeader(config.Title))
		sb.WriteString("\n")
	}

	writeRow := func(cells []string) {
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i > 0 {
				sb.WriteString("  ")
			}
			fmt.Fprintf(&sb, "%-*s", w, cell)
		}
		sb.WriteString("\n")
	}

	writeRow(config.Headers)
	separators := make([]string, len(config.Headers))
	for i, w := range widths {
		separators[i] = strings.Repeat("-", w)
	}
	writeRow(separators)
	for _, row := range config.Rows {
		writeRow(row)
	}

	return sb.String()
}
