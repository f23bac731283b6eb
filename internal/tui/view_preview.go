package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// renderMarkdown renders md for the terminal, falling back to the raw text
func renderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md, err
	}
	out, err := r.Render(md)
	if err != nil {
		return md, err
	}
	return out, nil
}

func (a *App) openPreview() {
	rendered, err := renderMarkdown(a.state.editor.Value(), max(20, min(100, a.width-4)))
	if err != nil {
		a.logger.Warn("markdown render failed", zap.Error(err))
	}
	a.state.preview = rendered
	a.openView(viewPreview)
}

func (a *App) renderPreview() string {
	// Keep the preview within the screen
	lines := strings.Split(strings.Trim(a.state.preview, "\n"), "\n")
	if maxLines := a.height - 4; maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Preview")

	statusBar := styleStatusBar.Render("[Esc] Back")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title),
		strings.Join(lines, "\n"),
		lipgloss.PlaceHorizontal(a.width, lipgloss.Center, statusBar),
	)
}
