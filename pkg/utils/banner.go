package utils

import "github.com/pterm/pterm"

// PrintBanner prints the websession header
func PrintBanner(version string) {
	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgDarkGray)).
		WithTextStyle(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold)).
		Printf(" websession v%s ", version)
	pterm.Println()
}

// PrintSection prints a section header
func PrintSection(title string) {
	pterm.DefaultSection.Println(title)
}

// PrintStatus prints one response line, colored by status class
func PrintStatus(method, path string, status int) {
	style := pterm.NewStyle(pterm.FgGreen)
	switch {
	case status >= 500:
		style = pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case status >= 400:
		style = pterm.NewStyle(pterm.FgLightRed)
	case status >= 300:
		style = pterm.NewStyle(pterm.FgYellow)
	}
	style.Printf("[%d] ", status)
	pterm.Printf("%s %s\n", method, path)
}
