package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sant0-9/expair/internal/command"
	"github.com/sant0-9/expair/internal/config"
	"github.com/sant0-9/expair/internal/llm"
	"github.com/sant0-9/expair/internal/tuning"
)

type state struct {
	// Config
	config     *config.Config
	configPath string
	secrets    config.Secrets
	needsSetup bool

	// Setup wizard state
	setupStep     int
	selectedModel int
	apiKeyInput   textinput.Model

	// Editor buffer. Runs expand all of it, or only the paragraph under the
	// cursor when paragraphOnly is set.
	editor        textarea.Model
	paragraphOnly bool

	// Commands, one per language
	commands        []*command.Command
	selectedCommand int

	// Expansions in flight and those waiting for a keep/replace answer
	inFlight int
	started  int
	spinner  spinner.Model
	pending  []*command.Invocation

	// Timed notice shown in the status bar
	notice    string
	noticeErr bool
	noticeID  int

	// Rendered markdown of the buffer
	preview string

	// Settings
	settingsMode     string
	settingsSelected int
	promptInput      textarea.Model
	fieldInput       textinput.Model

	// Tuning examples
	exampleSelected int
	form            *exampleForm

	// Provider
	provider      llm.Provider
	providerReady bool
	providerError error

	configEvents <-chan struct{}
}

// exampleForm is the add/edit dialog for a tuning example
type exampleForm struct {
	mode     string // "Add" or "Edit"
	example  tuning.Example
	focus    int
	lang     textinput.Model
	abbrev   textarea.Model
	expanded textarea.Model
	err      error
}

func newState() *state {
	editor := textarea.New()
	editor.Placeholder = "Type or paste abbreviated text, then ctrl+p to expand..."
	editor.CharLimit = 0
	editor.ShowLineNumbers = false
	editor.SetWidth(70)
	editor.SetHeight(12)

	apiKey := textinput.New()
	apiKey.Placeholder = "Paste your API key here..."
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.CharLimit = 200
	apiKey.Width = 50

	prompt := textarea.New()
	prompt.CharLimit = 0
	prompt.ShowLineNumbers = false
	prompt.SetWidth(60)
	prompt.SetHeight(8)

	field := textinput.New()
	field.CharLimit = 10
	field.Width = 20

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleSpinner

	return &state{
		editor:      editor,
		apiKeyInput: apiKey,
		promptInput: prompt,
		fieldInput:  field,
		spinner:     s,
	}
}

func newExampleForm(mode string, ex tuning.Example) *exampleForm {
	lang := textinput.New()
	lang.Placeholder = tuning.DefaultLang
	lang.CharLimit = 40
	lang.Width = 30
	lang.SetValue(ex.Lang)

	abbrev := textarea.New()
	abbrev.Placeholder = "I'm a spec in q-n taking, using w abbrevs"
	abbrev.CharLimit = 0
	abbrev.ShowLineNumbers = false
	abbrev.SetWidth(60)
	abbrev.SetHeight(5)
	abbrev.SetValue(ex.AbbrevText)

	expanded := textarea.New()
	expanded.Placeholder = "I'm a specialist in quick-note taking, using word abbreviations"
	expanded.CharLimit = 0
	expanded.ShowLineNumbers = false
	expanded.SetWidth(60)
	expanded.SetHeight(5)
	expanded.SetValue(ex.ExpandedText)

	f := &exampleForm{
		mode:     mode,
		example:  ex,
		lang:     lang,
		abbrev:   abbrev,
		expanded: expanded,
	}
	f.setFocus(1)
	return f
}

func (f *exampleForm) setFocus(i int) {
	f.focus = (i + 3) % 3
	f.lang.Blur()
	f.abbrev.Blur()
	f.expanded.Blur()
	switch f.focus {
	case 0:
		f.lang.Focus()
	case 1:
		f.abbrev.Focus()
	case 2:
		f.expanded.Focus()
	}
}

// value collects the edited example
func (f *exampleForm) value() tuning.Example {
	ex := f.example
	ex.Lang = f.lang.Value()
	ex.AbbrevText = f.abbrev.Value()
	ex.ExpandedText = f.expanded.Value()
	return ex
}
