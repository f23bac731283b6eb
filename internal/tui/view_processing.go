package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sant0-9/expair/internal/command"
)

var loadingMessages = []string{
	command.MsgExpanding,
	"Reading between the abbreviations...",
	"Filling in the vowels...",
	"Spelling it out...",
}

// renderActivity is the line under the editor: in-flight expansions, the
// current notice and the provider state
func (a *App) renderActivity() string {
	var parts []string

	if a.state.inFlight > 0 {
		msg := loadingMessages[a.state.started%len(loadingMessages)]
		if a.state.inFlight > 1 {
			msg = fmt.Sprintf("%s (%d running)", msg, a.state.inFlight)
		}
		parts = append(parts, a.state.spinner.View()+" "+
			lipgloss.NewStyle().Foreground(colorPrimary).Render(msg))
	}

	if notice := a.renderNotice(); notice != "" {
		parts = append(parts, notice)
	}

	if len(a.state.pending) > 0 {
		parts = append(parts, styleSubtitle.Render(fmt.Sprintf("%d waiting for confirmation", len(a.state.pending))))
	}

	if len(parts) == 0 {
		parts = append(parts, a.renderProviderState())
	}

	return strings.Join(parts, "  ")
}

func (a *App) renderProviderState() string {
	switch {
	case a.state.providerError != nil:
		msg := "OpenAI: " + truncate(a.state.providerError.Error(), 50)
		if hint := errorSuggestion(a.state.providerError.Error()); hint != "" {
			msg += " - " + hint
		}
		return styleNoticeError.Render(msg)
	case a.state.providerReady:
		return styleNotice.Render(fmt.Sprintf("OpenAI %s ready, %d language command(s)",
			a.state.config.OpenAI.Model, len(a.state.commands)))
	default:
		return styleSubtitle.Render("Connecting to OpenAI...")
	}
}
