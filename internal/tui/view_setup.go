package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sant0-9/expair/internal/config"
)

const signupURL = "https://platform.openai.com/api-keys"

func (a *App) handleSetupKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch a.state.setupStep {
	case 0: // Model selection
		switch {
		case key.Matches(msg, keys.Quit):
			return a.quit(), true
		case key.Matches(msg, keys.Up):
			if a.state.selectedModel > 0 {
				a.state.selectedModel--
			}
		case key.Matches(msg, keys.Down):
			if a.state.selectedModel < len(config.Models)-1 {
				a.state.selectedModel++
			}
		case key.Matches(msg, keys.Enter):
			a.state.config.OpenAI.Model = config.Models[a.state.selectedModel].ID

			// A key from the environment or keyring skips the prompt
			if a.state.config.APIKey() != "" {
				return a.finishSetup(), true
			}
			a.state.setupStep = 1
			return tea.Batch(a.state.apiKeyInput.Focus(), textinput.Blink), true
		}
		return nil, true

	case 1: // API key entry
		switch {
		case key.Matches(msg, keys.Quit):
			// Go back to model selection
			a.state.setupStep = 0
			a.state.apiKeyInput.Reset()
			a.state.apiKeyInput.Blur()
			return nil, true
		case key.Matches(msg, keys.Enter):
			apiKey := strings.TrimSpace(a.state.apiKeyInput.Value())
			if apiKey == "" {
				return nil, true
			}
			if err := a.state.config.SetAPIKey(a.state.secrets, apiKey); err != nil {
				return a.notify(err.Error(), true), true
			}
			a.state.apiKeyInput.Reset()
			return a.finishSetup(), true
		}
	}

	return nil, false
}

func (a *App) finishSetup() tea.Cmd {
	cfg := a.state.config
	path := a.state.configPath
	return func() tea.Msg {
		if err := cfg.Save(path); err != nil {
			return setupErrorMsg{err}
		}
		return setupCompleteMsg{}
	}
}

func (a *App) renderSetup() string {
	switch a.state.setupStep {
	case 0:
		return a.renderModelSelection()
	case 1:
		return a.renderAPIKeyEntry()
	default:
		return ""
	}
}

func (a *App) renderModelSelection() string {
	var b strings.Builder

	// Header
	header := styleLogo.Render(logo)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, header))
	b.WriteString("\n\n")

	// Title
	title := lipgloss.NewStyle().
		Foreground(colorWhite).
		Bold(true).
		Render("Welcome! Choose the OpenAI model:")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	// Model list
	var modelLines []string
	for i, m := range config.Models {
		var line string
		cursor := "  "
		if i == a.state.selectedModel {
			cursor = "> "
			line = lipgloss.NewStyle().
				Foreground(colorSecondary).
				Bold(true).
				Render(fmt.Sprintf("%s[x] %-14s %s", cursor, m.Name, m.ID))
		} else {
			line = lipgloss.NewStyle().
				Foreground(colorMuted).
				Render(fmt.Sprintf("%s[ ] %-14s %s", cursor, m.Name, m.ID))
		}
		modelLines = append(modelLines, line)
	}

	modelBox := styleBox.Copy().
		Width(50).
		Render(strings.Join(modelLines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, modelBox))
	b.WriteString("\n\n")

	// Instructions
	instructions := styleStatusBar.Render("[j/k] Navigate  [Enter] Select")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func (a *App) renderAPIKeyEntry() string {
	var b strings.Builder

	// Header
	header := styleLogo.Render(logo)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, header))
	b.WriteString("\n\n")

	// Title
	title := lipgloss.NewStyle().
		Foreground(colorWhite).
		Bold(true).
		Render("Enter your OpenAI API key:")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	link := styleSubtitle.Render(fmt.Sprintf("Get one at: %s", signupURL))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, link))
	b.WriteString("\n\n")

	if a.state.config.UseKeyring {
		note := styleSubtitle.Render("The key is stored in your OS keyring")
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, note))
		b.WriteString("\n\n")
	}

	// Input
	inputBox := styleBox.Copy().
		Width(60).
		BorderForeground(colorSecondary).
		Render(a.state.apiKeyInput.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, inputBox))
	b.WriteString("\n\n")

	if a.state.notice != "" && a.state.noticeErr {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleNoticeError.Render(a.state.notice)))
		b.WriteString("\n\n")
	}

	// Instructions
	instructions := styleStatusBar.Render("[Enter] Continue  [Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func (a *App) centerVertically(content string) string {
	lines := strings.Count(content, "\n") + 1
	padding := (a.height - lines) / 2
	if padding < 0 {
		padding = 0
	}
	return strings.Repeat("\n", padding) + content
}
