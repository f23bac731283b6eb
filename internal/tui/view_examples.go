package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sant0-9/expair/internal/tuning"
	"go.uber.org/zap"
)

func (a *App) handleExamplesKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if a.state.form != nil {
		return a.handleFormKey(msg)
	}

	examples := a.state.config.TuningExamples
	switch msg.String() {
	case "esc":
		return a.backToEditor(), true
	case "up", "k":
		if a.state.exampleSelected > 0 {
			a.state.exampleSelected--
		}
	case "down", "j":
		if a.state.exampleSelected < len(examples)-1 {
			a.state.exampleSelected++
		}
	case "a":
		lang := tuning.DefaultLang
		if ex, ok := a.selectedExample(); ok {
			lang = ex.Lang
		}
		a.state.form = newExampleForm("Add", tuning.NewExample(lang, "", ""))
	case "e", "enter":
		if ex, ok := a.selectedExample(); ok {
			a.state.form = newExampleForm("Edit", ex)
		}
	case "d":
		return a.deleteExample(), true
	}
	return nil, true
}

func (a *App) selectedExample() (tuning.Example, bool) {
	examples := a.state.config.TuningExamples
	if a.state.exampleSelected < 0 || a.state.exampleSelected >= len(examples) {
		return tuning.Example{}, false
	}
	return examples[a.state.exampleSelected], true
}

func (a *App) deleteExample() tea.Cmd {
	ex, ok := a.selectedExample()
	if !ok {
		return nil
	}
	set := a.state.config.Examples()
	if err := set.Delete(ex.ID); err != nil {
		if errors.Is(err, tuning.ErrLastExample) {
			return a.notify("Cannot delete the last example", true)
		}
		return a.notify(err.Error(), true)
	}
	a.state.config.SetExamples(set)
	if a.state.exampleSelected >= set.Len() {
		a.state.exampleSelected = set.Len() - 1
	}
	a.logger.Info("tuning example deleted", zap.String("id", ex.ID), zap.String("lang", ex.Lang))
	return tea.Batch(a.saveConfig(), a.notify("Example deleted", false))
}

func (a *App) handleFormKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	f := a.state.form
	switch {
	case msg.String() == "esc":
		a.state.form = nil
		return nil, true
	case key.Matches(msg, keys.Tab):
		f.setFocus(f.focus + 1)
		return nil, true
	case key.Matches(msg, keys.ShiftTab):
		f.setFocus(f.focus - 1)
		return nil, true
	case key.Matches(msg, keys.Save):
		return a.submitForm(), true
	}
	return nil, false
}

// submitForm validates and stores the example. On failure the form stays
// open with the error.
func (a *App) submitForm() tea.Cmd {
	f := a.state.form
	ex := f.value()
	ex.Lang = tuning.CanonicalLang(ex.Lang)

	set := a.state.config.Examples()
	if err := set.Upsert(ex); err != nil {
		f.err = err
		return nil
	}
	a.state.config.SetExamples(set)
	a.state.form = nil
	for i, e := range a.state.config.TuningExamples {
		if e.ID == ex.ID {
			a.state.exampleSelected = i
		}
	}
	a.logger.Info("tuning example saved", zap.String("id", ex.ID), zap.String("lang", ex.Lang))
	return tea.Batch(a.saveConfig(), a.notify(fmt.Sprintf("Example saved (%s)", ex.Lang), false))
}

func (a *App) updateFormInput(msg tea.Msg) tea.Cmd {
	f := a.state.form
	if f == nil {
		return nil
	}
	var cmd tea.Cmd
	switch f.focus {
	case 0:
		f.lang, cmd = f.lang.Update(msg)
	case 1:
		f.abbrev, cmd = f.abbrev.Update(msg)
	case 2:
		f.expanded, cmd = f.expanded.Update(msg)
	}
	return cmd
}

func (a *App) renderExamples() string {
	if a.state.form != nil {
		return a.renderExampleForm()
	}

	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Tuning Examples")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	desc := styleSubtitle.Render("Pairs of abbreviated and expanded text that tune the expansion style")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, desc))
	b.WriteString("\n\n")

	boxWidth := min(80, a.width-4)
	var lines []string
	for i, ex := range a.state.config.TuningExamples {
		cursor := "  "
		if i == a.state.exampleSelected {
			cursor = "> "
		}
		line := fmt.Sprintf("%sExample %d [%s]  %s -> %s", cursor, i+1, ex.Lang,
			truncate(oneLine(ex.AbbrevText), 24), truncate(oneLine(ex.ExpandedText), 24))
		if i == a.state.exampleSelected {
			line = styleSelected.Render(line)
		}
		lines = append(lines, line)
	}

	listBox := styleBox.Copy().
		Width(boxWidth).
		Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, listBox))
	b.WriteString("\n\n")

	if notice := a.renderNotice(); notice != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, notice))
		b.WriteString("\n\n")
	}

	instructions := styleStatusBar.Render("[a] Add  [e] Edit  [d] Delete  [Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func (a *App) renderExampleForm() string {
	f := a.state.form
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render(f.mode + " Tuning Example")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	fields := []struct {
		label string
		view  string
	}{
		{"Language", f.lang.View()},
		{"Abbreviated Text", f.abbrev.View()},
		{"Expanded Text", f.expanded.View()},
	}
	for i, field := range fields {
		border := colorMuted
		if i == f.focus {
			border = colorSecondary
		}
		box := styleBox.Copy().
			Width(64).
			BorderForeground(border).
			Render(styleSubtitle.Render(field.label) + "\n" + field.view)
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if f.err != nil {
		errBox := styleBox.Copy().
			Width(64).
			BorderForeground(colorError).
			Render(styleNoticeError.Render(f.err.Error()))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, errBox))
		b.WriteString("\n\n")
	}

	instructions := styleStatusBar.Render("[Tab] Next field  [ctrl+s] Save  [Esc] Cancel")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
