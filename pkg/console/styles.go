package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderStartupBox renders a styled box summarizing the studio configuration
// before the server starts.
func RenderStartupBox(version string, fields [][2]string, models []string) string {
	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")). // Purple border
		Padding(0, 2).
		Width(60)

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("86")). // Cyan
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("244")) // Gray

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")) // White

	var content strings.Builder

	content.WriteString(fmt.Sprintf("%s %s", titleStyle.Render("ACE-Step Studio"), valueStyle.Render(version)))
	content.WriteString("\n\n")

	for _, field := range fields {
		content.WriteString(fmt.Sprintf("%s: %s\n", keyStyle.Render(field[0]), valueStyle.Render(field[1])))
	}

	if len(models) > 0 {
		content.WriteString("\n")
		content.WriteString(titleStyle.Render("** Checkpoints **"))
		content.WriteString("\n")
		for _, m := range models {
			content.WriteString(valueStyle.Render("  • "+m) + "\n")
		}
	}

	return boxStyle.Render(strings.TrimSpace(content.String())) + "\n"
}

// Errorf prints a styled error line to stdout.
func Errorf(format string, args ...interface{}) {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	fmt.Println(style.Render("✗ " + fmt.Sprintf(format, args...)))
}

// Successf prints a styled success line to stdout.
func Successf(format string, args ...interface{}) {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	fmt.Println(style.Render("✓ " + fmt.Sprintf(format, args...)))
}
