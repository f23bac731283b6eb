package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (a *App) handlePaletteKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Quit), key.Matches(msg, keys.Palette):
		return a.backToEditor()
	case key.Matches(msg, keys.Up):
		if a.state.selectedCommand > 0 {
			a.state.selectedCommand--
		}
	case key.Matches(msg, keys.Down):
		if a.state.selectedCommand < len(a.state.commands)-1 {
			a.state.selectedCommand++
		}
	case key.Matches(msg, keys.Enter):
		if len(a.state.commands) == 0 {
			return nil
		}
		cmd := a.state.commands[a.state.selectedCommand]
		return tea.Batch(a.backToEditor(), a.runCommand(cmd))
	}
	return nil
}

func (a *App) renderPalette() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Expand selection")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	var lines []string
	if len(a.state.commands) == 0 {
		lines = append(lines, styleSubtitle.Render("  No commands. Add a tuning example first (ctrl+t)"))
	}
	for i, c := range a.state.commands {
		label := fmt.Sprintf("%s  (%d example(s))", c.Name, c.Examples)
		if i == a.state.selectedCommand {
			lines = append(lines, styleSelected.Render("> "+label))
		} else {
			lines = append(lines, styleSubtitle.Render("  "+label))
		}
	}

	box := styleBox.Copy().
		Width(min(70, a.width-4)).
		Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
	b.WriteString("\n\n")

	preview := styleSubtitle.Render(truncate(strings.ReplaceAll(a.state.editor.Value(), "\n", " "), 60))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, preview))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[j/k] Navigate  [Enter] Run  [Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
