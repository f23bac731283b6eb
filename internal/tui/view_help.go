package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderHelp() string {
	var b strings.Builder

	// Title
	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Help")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	intro := []string{
		"  Type or paste abbreviated notes into the editor, then",
		"  run the expansion command for their language.",
		"",
		"  Each language with tuning examples gets its own command.",
		"  Results land in the buffer as they arrive.",
	}

	introBox := styleBox.Copy().
		Width(64).
		Render(strings.Join(intro, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, introBox))
	b.WriteString("\n\n")

	// Keyboard shortcuts
	shortcuts := []string{
		"  ctrl+p         Expand the buffer or the current paragraph",
		"  ctrl+l         Switch between buffer and paragraph",
		"  ctrl+r         Preview the buffer as markdown",
		"  ctrl+y         Copy the buffer to the clipboard",
		"  ctrl+t         Tuning examples",
		"  ctrl+o         Settings",
		"  f1             Show this help",
		"  Esc            Go back / Quit",
	}

	shortcutsTitle := styleSubtitle.Render("Keyboard Shortcuts")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, shortcutsTitle))
	b.WriteString("\n\n")

	shortcutsBox := styleBox.Copy().
		Width(64).
		Render(strings.Join(shortcuts, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, shortcutsBox))
	b.WriteString("\n\n")

	// Instructions
	instructions := styleStatusBar.Render("[Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
