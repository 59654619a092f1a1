package ui

import "github.com/charmbracelet/lipgloss"

// Spotify green anchors the theme; the rest are status accents.
const (
	colorBrand = "#1DB954"
	colorOK    = "#04B575"
	colorErr   = "#FF4757"
	colorWarn  = "#FFA502"
	colorFaint = "#626262"
)

// Palette is the dashboard stylesheet.
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

var styles = &Palette{
	title: fg(colorBrand).Bold(true).MarginBottom(1),
	ok:    fg(colorOK).Bold(true),
	err:   fg(colorErr).Bold(true),
	warn:  fg(colorWarn),
	help:  fg(colorFaint).Italic(true),
}

func fg(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

// GenreStyle renders a genre label in its palette color from the snapshot.
func GenreStyle(hex string) lipgloss.Style {
	return fg(hex).Bold(true)
}
