package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorGreen   = lipgloss.Color("#8BC34A")
	colorYellow  = lipgloss.Color("#E5C07B")
	colorRed     = lipgloss.Color("#E06C75")
	colorCyan    = lipgloss.Color("#56B6C2")
	colorMagenta = lipgloss.Color("#C678DD")

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan).
			Padding(0, 2)

	boldStyle   = lipgloss.NewStyle().Bold(true)
	cyanStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	stepStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	okStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	warnStyle   = lipgloss.NewStyle().Foreground(colorYellow)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	accentStyle = lipgloss.NewStyle().Foreground(colorMagenta)
)

// panel renders body in a rounded box with the title on the first line.
func panel(title, body string, border lipgloss.Color) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
	if title != "" {
		body = lipgloss.NewStyle().Bold(true).Foreground(border).Render(title) + "\n" + body
	}
	return style.Render(body)
}

func printPanel(w io.Writer, title, body string, border lipgloss.Color) {
	fmt.Fprintln(w, panel(title, body, border))
}

func printBanner(w io.Writer) {
	fmt.Fprintln(w, bannerStyle.Render("M E O W P A S S"))
	fmt.Fprintln(w, mutedStyle.Render("                      by GgSatyam"))
	printPanel(w, "Welcome", "A personalized wordlist generator for security research.", colorGreen)
}

func summary(count int, location string) string {
	return fmt.Sprintf("%s %s\n%s %s",
		boldStyle.Render("Total Passwords:"), cyanStyle.Render(fmt.Sprint(count)),
		boldStyle.Render("Location:"), cyanStyle.Render(location),
	)
}
