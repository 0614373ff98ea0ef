package studio

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Version information
const (
	Version = "1.5.0"
	Name    = "ACE-Step Studio"
	GitHub  = "https://github.com/acestep/studio"
)

// ASCII Logo with colors using lipgloss
var asciiLogo = `
    ___   ____________      _____ __
   /   | / ____/ ____/     / ___// /____  ____
  / /| |/ /   / __/________\__ \/ __/ _ \/ __ \
 / ___ / /___/ /__/_____/__/ / /_/  __/ /_/ /
/_/  |_\____/_____/    /____/\__/\___/ .___/
                                    /_/
`

func printVersion() {
	// Styles
	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")). // Pink/Magenta
		Bold(true)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("63")). // Purple
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")) // White/Grey

	linkStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")). // Blue
		Underline(true)

	// Print logo
	fmt.Println(logoStyle.Render(asciiLogo))
	fmt.Println()

	// Print version info
	fmt.Println(labelStyle.Render(Name))
	fmt.Printf("%s %s\n", labelStyle.Render("Version:"), valueStyle.Render(Version))
	fmt.Printf("%s %s\n", labelStyle.Render("GitHub:"), linkStyle.Render(GitHub))
	fmt.Println()
}
