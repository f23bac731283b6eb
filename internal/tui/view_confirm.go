package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sant0-9/expair/internal/command"
	"go.uber.org/zap"
)

func (a *App) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	if len(a.state.pending) == 0 {
		return a.backToEditor()
	}
	inv := a.state.pending[0]

	var keep bool
	switch msg.String() {
	case "y", "Y":
		keep = true
	case "n", "N":
		keep = false
	case "esc":
		a.state.pending = a.state.pending[1:]
		a.logger.Info("expansion discarded", zap.String("command", inv.Command.ID))
		return tea.Batch(a.backToEditor(), a.notify("Expansion discarded", false))
	default:
		return nil
	}

	a.state.pending = a.state.pending[1:]
	inv.Apply(a.bufferEditor(inv.Original), keep)
	a.logger.Info("selection expanded", zap.String("command", inv.Command.ID), zap.Bool("kept_original", keep))
	return tea.Batch(a.backToEditor(), a.notify(fmt.Sprintf("Expanded with %s", inv.Command.Name), false))
}

func (a *App) renderConfirm() string {
	if len(a.state.pending) == 0 {
		return a.renderEditor()
	}
	inv := a.state.pending[0]
	boxWidth := min(70, a.width-4)

	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render(command.MsgKeepOriginal)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	original := styleBox.Copy().
		Width(boxWidth).
		BorderForeground(colorMuted).
		Render(styleSubtitle.Render("Original") + "\n" + truncateLines(inv.Original, 6))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, original))
	b.WriteString("\n")

	expanded := styleBox.Copy().
		Width(boxWidth).
		BorderForeground(colorSecondary).
		Render(styleSubtitle.Render("Expanded") + "\n" + truncateLines(inv.Expanded, 10))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, expanded))
	b.WriteString("\n\n")

	if len(a.state.pending) > 1 {
		more := styleSubtitle.Render(fmt.Sprintf("%d more waiting", len(a.state.pending)-1))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, more))
		b.WriteString("\n\n")
	}

	instructions := styleStatusBar.Render("[y] Keep original  [n] Replace  [Esc] Discard")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

// truncateLines keeps at most n lines of s
func truncateLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n") + "\n..."
}
