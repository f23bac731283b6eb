package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const logo = `
 ███████╗██╗  ██╗██████╗  █████╗ ██╗██████╗
 ██╔════╝╚██╗██╔╝██╔══██╗██╔══██╗██║██╔══██╗
 █████╗   ╚███╔╝ ██████╔╝███████║██║██████╔╝
 ██╔══╝   ██╔██╗ ██╔═══╝ ██╔══██║██║██╔══██╗
 ███████╗██╔╝ ██╗██║     ██║  ██║██║██║  ██║
 ╚══════╝╚═╝  ╚═╝╚═╝     ╚═╝  ╚═╝╚═╝╚═╝  ╚═╝
`

func (a *App) renderEditor() string {
	// Title line
	title := lipgloss.JoinHorizontal(
		lipgloss.Bottom,
		styleLogo.Render("expair"),
		styleSubtitle.Render("  abbreviated notes, expanded  "),
		styleStatusBar.Render("("+bufferStats(a.state.editor.Value())+", expanding "+a.scopeLabel()+")"),
	)

	editorBox := styleBox.Copy().
		BorderForeground(colorPrimary).
		Render(a.state.editor.View())

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		editorBox,
		a.renderActivity(),
	)

	mainArea := lipgloss.Place(
		a.width,
		a.height-2,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)

	// Status bar centered at bottom
	statusBar := styleStatusBar.Render("[ctrl+p] Expand  [ctrl+l] Scope  [ctrl+r] Preview  [ctrl+y] Copy  [ctrl+t] Examples  [ctrl+o] Settings  [f1] Help  [Esc] Quit")
	statusLine := lipgloss.PlaceHorizontal(a.width, lipgloss.Center, statusBar)

	return lipgloss.JoinVertical(lipgloss.Left, mainArea, statusLine)
}

// renderNotice renders the current notice, if any
func (a *App) renderNotice() string {
	if a.state.notice == "" {
		return ""
	}
	style := styleNotice
	if a.state.noticeErr {
		style = styleNoticeError
	}
	return style.Render(strings.ReplaceAll(a.state.notice, "\n", " "))
}
