package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sant0-9/expair/internal/config"
	"github.com/sant0-9/expair/internal/prompts"
)

func (a *App) handleSettingsKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	cfg := a.state.config

	switch a.state.settingsMode {
	case "":
		switch msg.String() {
		case "esc":
			return a.backToEditor(), true
		case "k":
			a.state.settingsMode = "apikey"
			a.state.apiKeyInput.Reset()
			return tea.Batch(a.state.apiKeyInput.Focus(), textinput.Blink), true
		case "m":
			a.state.settingsMode = "model"
			a.state.settingsSelected = config.ModelIndex(cfg.OpenAI.Model)
		case "s":
			return a.editPrompt("system", cfg.OpenAI.SystemPrompt), true
		case "e":
			return a.editPrompt("expand", cfg.OpenAI.ExpandTextPrompt), true
		case "w":
			a.state.settingsMode = "maxwords"
			a.state.fieldInput.SetValue(strconv.Itoa(cfg.OpenAI.MaxWords))
			return tea.Batch(a.state.fieldInput.Focus(), textinput.Blink), true
		case "p":
			a.state.settingsMode = "policy"
			a.state.settingsSelected = policyIndex(cfg.PreserveOriginal)
		case "t":
			a.view = viewExamples
			a.state.form = nil
		}
		return nil, true

	case "model", "policy":
		count := len(config.Models)
		if a.state.settingsMode == "policy" {
			count = len(config.Policies)
		}
		switch {
		case key.Matches(msg, keys.Quit):
			a.state.settingsMode = ""
		case key.Matches(msg, keys.Up):
			if a.state.settingsSelected > 0 {
				a.state.settingsSelected--
			}
		case key.Matches(msg, keys.Down):
			if a.state.settingsSelected < count-1 {
				a.state.settingsSelected++
			}
		case key.Matches(msg, keys.Enter):
			if a.state.settingsMode == "model" {
				cfg.OpenAI.Model = config.Models[a.state.settingsSelected].ID
			} else {
				cfg.PreserveOriginal = config.Policies[a.state.settingsSelected]
			}
			a.state.settingsMode = ""
			return a.saveConfig(), true
		}
		return nil, true

	case "apikey":
		switch {
		case key.Matches(msg, keys.Quit):
			a.state.settingsMode = ""
			a.state.apiKeyInput.Reset()
			a.state.apiKeyInput.Blur()
			return nil, true
		case key.Matches(msg, keys.Enter):
			apiKey := strings.TrimSpace(a.state.apiKeyInput.Value())
			if apiKey == "" {
				return nil, true
			}
			a.state.settingsMode = ""
			a.state.apiKeyInput.Reset()
			a.state.apiKeyInput.Blur()
			if err := cfg.SetAPIKey(a.state.secrets, apiKey); err != nil {
				return a.notify(err.Error(), true), true
			}
			return a.saveConfig(), true
		}

	case "maxwords":
		switch {
		case key.Matches(msg, keys.Quit):
			a.state.settingsMode = ""
			a.state.fieldInput.Blur()
			return nil, true
		case key.Matches(msg, keys.Enter):
			value := strings.TrimSpace(a.state.fieldInput.Value())
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return a.notify(fmt.Sprintf("Invalid maxWords value: '%s'", value), true), true
			}
			cfg.OpenAI.MaxWords = n
			a.state.settingsMode = ""
			a.state.fieldInput.Blur()
			return a.saveConfig(), true
		}

	case "system", "expand":
		switch {
		case msg.String() == "esc":
			a.state.settingsMode = ""
			a.state.promptInput.Blur()
			return nil, true
		case key.Matches(msg, keys.Save):
			a.setPrompt(a.state.settingsMode, a.state.promptInput.Value())
			a.state.settingsMode = ""
			a.state.promptInput.Blur()
			return tea.Batch(a.saveConfig(), a.notify("Prompt saved", false)), true
		case key.Matches(msg, keys.Reset):
			def := prompts.DefaultSystemPrompt()
			if a.state.settingsMode == "expand" {
				def = prompts.DefaultExpandTextPrompt()
			}
			a.state.promptInput.SetValue(def)
			a.setPrompt(a.state.settingsMode, def)
			return tea.Batch(a.saveConfig(), a.notify("Prompt reset to default", false)), true
		}
	}

	return nil, false
}

func (a *App) editPrompt(mode, value string) tea.Cmd {
	a.state.settingsMode = mode
	a.state.promptInput.SetValue(value)
	return tea.Batch(a.state.promptInput.Focus(), textarea.Blink)
}

func (a *App) setPrompt(mode, value string) {
	if mode == "expand" {
		a.state.config.OpenAI.ExpandTextPrompt = value
		return
	}
	a.state.config.OpenAI.SystemPrompt = value
}

func (a *App) updateSettingsInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.state.settingsMode {
	case "apikey":
		a.state.apiKeyInput, cmd = a.state.apiKeyInput.Update(msg)
	case "maxwords":
		a.state.fieldInput, cmd = a.state.fieldInput.Update(msg)
	case "system", "expand":
		a.state.promptInput, cmd = a.state.promptInput.Update(msg)
	}
	return cmd
}

func policyIndex(p config.PreserveOriginal) int {
	for i, candidate := range config.Policies {
		if candidate == p {
			return i
		}
	}
	return len(config.Policies) - 1
}

func (a *App) renderSettings() string {
	switch a.state.settingsMode {
	case "model":
		return a.renderSettingsModel()
	case "policy":
		return a.renderSettingsPolicy()
	case "apikey":
		return a.renderSettingsAPIKey()
	case "maxwords":
		return a.renderSettingsField("Max Words", "Upper bound on the expanded text length", a.state.fieldInput.View())
	case "system":
		return a.renderSettingsPrompt("System Prompt")
	case "expand":
		return a.renderSettingsPrompt("Expand Text Prompt")
	default:
		return a.renderSettingsMain()
	}
}

func (a *App) renderSettingsMain() string {
	var b strings.Builder
	cfg := a.state.config

	// Title
	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Settings")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	modelName := cfg.OpenAI.Model
	if m := config.GetModel(cfg.OpenAI.Model); m != nil {
		modelName = m.Name
	}
	keyStore := "config file"
	if cfg.UseKeyring {
		keyStore = "OS keyring"
	}

	configLines := []string{
		fmt.Sprintf("  API Key:           %s (%s)", cfg.MaskedAPIKey(), keyStore),
		fmt.Sprintf("  Model:             %s", modelName),
		fmt.Sprintf("  System prompt:     %s", truncate(oneLine(cfg.OpenAI.SystemPrompt), 40)),
		fmt.Sprintf("  Expand prompt:     %s", truncate(oneLine(cfg.OpenAI.ExpandTextPrompt), 40)),
		fmt.Sprintf("  Max words:         %d", cfg.OpenAI.MaxWords),
		fmt.Sprintf("  Preserve original: %s", cfg.PreserveOriginal.Label()),
		fmt.Sprintf("  Tuning examples:   %d in %d language(s)", len(cfg.TuningExamples), len(a.state.commands)),
	}

	configBox := styleBox.Copy().
		Width(70).
		Render(strings.Join(configLines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, configBox))
	b.WriteString("\n\n")

	// Actions
	actions := []string{
		"  [k] Update API key",
		"  [m] Change model",
		"  [s] Edit system prompt",
		"  [e] Edit expand text prompt",
		"  [w] Change max words",
		"  [p] Preserve original text",
		"  [t] Tuning examples",
	}
	actionsBox := styleBox.Copy().
		Width(70).
		Render(strings.Join(actions, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, actionsBox))
	b.WriteString("\n\n")

	if notice := a.renderNotice(); notice != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, notice))
		b.WriteString("\n\n")
	}

	// Instructions
	instructions := styleStatusBar.Render("[Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func (a *App) renderSettingsModel() string {
	var items []string
	for _, m := range config.Models {
		line := fmt.Sprintf("%-14s %s", m.Name, m.ID)
		if m.ID == a.state.config.OpenAI.Model {
			line += " (current)"
		}
		items = append(items, line)
	}
	return a.renderSettingsList("Select Model", "Model used for the expansion", items)
}

func (a *App) renderSettingsPolicy() string {
	var items []string
	for _, p := range config.Policies {
		line := p.Label()
		if p == a.state.config.PreserveOriginal {
			line += " (current)"
		}
		items = append(items, line)
	}
	return a.renderSettingsList("Preserve Original Text", "Keep the original text in a collapsed callout above the expansion", items)
}

func (a *App) renderSettingsList(heading, description string, items []string) string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render(heading)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	desc := styleSubtitle.Render(description)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, desc))
	b.WriteString("\n\n")

	var lines []string
	for i, item := range items {
		cursor := "  "
		if i == a.state.settingsSelected {
			cursor = "> "
		}
		line := cursor + item
		if i == a.state.settingsSelected {
			line = styleSelected.Render(line)
		}
		lines = append(lines, line)
	}

	listBox := styleBox.Copy().
		Width(50).
		Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, listBox))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[Up/Down] Navigate  [Enter] Select  [Esc] Cancel")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func (a *App) renderSettingsAPIKey() string {
	hint := "Enter your new API key"
	if a.state.config.UseKeyring {
		hint += " (stored in the OS keyring)"
	}
	return a.renderSettingsField("Update API Key", hint, a.state.apiKeyInput.View())
}

func (a *App) renderSettingsField(heading, description, input string) string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render(heading)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	desc := styleSubtitle.Render(description)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, desc))
	b.WriteString("\n\n")

	inputBox := styleBox.Copy().
		Width(50).
		BorderForeground(colorPrimary).
		Render(input)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, inputBox))
	b.WriteString("\n\n")

	if notice := a.renderNotice(); notice != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, notice))
		b.WriteString("\n\n")
	}

	instructions := styleStatusBar.Render("[Enter] Save  [Esc] Cancel")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func (a *App) renderSettingsPrompt(heading string) string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render(heading)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	inputBox := styleBox.Copy().
		BorderForeground(colorPrimary).
		Render(a.state.promptInput.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, inputBox))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[ctrl+s] Save  [ctrl+r] Reset to default  [Esc] Cancel")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
