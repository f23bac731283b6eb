package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sant0-9/expair/internal/command"
	"github.com/sant0-9/expair/internal/config"
	"github.com/sant0-9/expair/internal/llm"
	"go.uber.org/zap"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

type view int

const (
	viewEditor view = iota
	viewSetup
	viewPalette
	viewConfirm
	viewPreview
	viewSettings
	viewExamples
	viewHelp
)

// Options configure a new App
type Options struct {
	Config     *config.Config
	ConfigPath string
	// NeedsSetup starts the setup wizard, typically when no config file exists
	NeedsSetup bool
	Secrets    config.Secrets
	Logger     *zap.Logger
}

type App struct {
	width    int
	height   int
	view     view
	state    *state
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	quitting bool
}

func NewApp(opts Options) *App {
	s := newState()
	s.config = opts.Config
	if s.config == nil {
		s.config = config.DefaultConfig()
	}
	s.configPath = opts.ConfigPath
	s.secrets = opts.Secrets
	s.needsSetup = opts.NeedsSetup

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		view:   viewEditor,
		state:  s,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
	a.rebuildProvider()
	return a
}

func (a *App) Init() tea.Cmd {
	if a.state.needsSetup {
		a.view = viewSetup
		a.state.selectedModel = config.ModelIndex(a.state.config.OpenAI.Model)
		return tea.Batch(tea.WindowSize(), textinput.Blink)
	}

	a.state.editor.Focus()
	return tea.Batch(
		tea.WindowSize(),
		textarea.Blink,
		a.testProvider(),
		a.watchConfig(),
	)
}

// rebuildProvider recreates the provider and the per-language commands from
// the current config
func (a *App) rebuildProvider() {
	a.state.providerReady = false
	a.state.providerError = nil

	provider, err := llm.NewProvider(a.state.config)
	if err != nil {
		a.state.provider = nil
		a.state.commands = nil
		a.state.providerError = err
		return
	}
	a.state.provider = provider
	a.state.commands = command.FromConfig(a.state.config, provider, a.logger)
	if a.state.selectedCommand >= len(a.state.commands) {
		a.state.selectedCommand = 0
	}
}

func (a *App) testProvider() tea.Cmd {
	provider := a.state.provider
	if provider == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := provider.Ping(ctx); err != nil {
			return providerErrorMsg{err}
		}
		return providerReadyMsg{}
	}
}

func (a *App) watchConfig() tea.Cmd {
	if a.state.configPath == "" {
		return nil
	}
	events := make(chan struct{}, 1)
	err := config.Watch(a.ctx, a.state.configPath, func() {
		select {
		case events <- struct{}{}:
		default:
		}
	})
	if err != nil {
		a.logger.Warn("config watch unavailable", zap.Error(err))
		return nil
	}
	a.state.configEvents = events
	return waitForConfigChange(events)
}

func waitForConfigChange(events <-chan struct{}) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-events; !ok {
			return nil
		}
		return configChangedMsg{}
	}
}

// reloadConfig picks up edits made by another process
func (a *App) reloadConfig() {
	cfg, err := config.Load(a.state.configPath)
	if err != nil {
		a.logger.Warn("config reload failed", zap.Error(err))
		return
	}
	if cfg == nil {
		return
	}
	cfg.ApplyEnv()
	if err := cfg.ResolveSecrets(a.state.secrets); err != nil {
		a.logger.Warn("keyring read failed", zap.Error(err))
	}
	a.state.config = cfg
	a.rebuildProvider()
	a.logger.Info("config reloaded", zap.Int("commands", len(a.state.commands)))
}

// saveConfig persists the config and rebuilds everything derived from it
func (a *App) saveConfig() tea.Cmd {
	if err := a.state.config.Save(a.state.configPath); err != nil {
		a.logger.Error("config save failed", zap.Error(err))
		return a.notify(fmt.Sprintf("Saving settings failed: %v", err), true)
	}
	a.rebuildProvider()
	return a.testProvider()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd, handled := a.handleKey(msg)
		if handled {
			return a, cmd
		}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()

	case setupCompleteMsg:
		a.state.needsSetup = false
		a.view = viewEditor
		a.rebuildProvider()
		return a, tea.Batch(a.state.editor.Focus(), a.testProvider(), a.watchConfig())

	case setupErrorMsg:
		return a, a.notify(msg.Error(), true)

	case providerReadyMsg:
		a.state.providerReady = true
		a.state.providerError = nil
		return a, nil

	case providerErrorMsg:
		a.state.providerReady = false
		a.state.providerError = msg.error
		a.logger.Warn("provider check failed", zap.Error(msg.error))
		return a, nil

	case expandDoneMsg:
		return a, a.finishExpansion(msg)

	case noticeExpiredMsg:
		if msg.id == a.state.noticeID {
			a.state.notice = ""
		}
		return a, nil

	case configChangedMsg:
		a.reloadConfig()
		return a, tea.Batch(a.testProvider(), waitForConfigChange(a.state.configEvents))

	case spinner.TickMsg:
		if a.state.inFlight == 0 {
			return a, nil
		}
		var cmd tea.Cmd
		a.state.spinner, cmd = a.state.spinner.Update(msg)
		return a, cmd
	}

	// Update text inputs based on view
	switch a.view {
	case viewSetup:
		if a.state.setupStep == 1 {
			var cmd tea.Cmd
			a.state.apiKeyInput, cmd = a.state.apiKeyInput.Update(msg)
			cmds = append(cmds, cmd)
		}
	case viewEditor:
		var cmd tea.Cmd
		a.state.editor, cmd = a.state.editor.Update(msg)
		cmds = append(cmds, cmd)
	case viewSettings:
		cmds = append(cmds, a.updateSettingsInput(msg))
	case viewExamples:
		cmds = append(cmds, a.updateFormInput(msg))
	}

	return a, tea.Batch(cmds...)
}

func (a *App) resize() {
	width := min(100, a.width-4)
	height := max(3, a.height-8)
	a.state.editor.SetWidth(width)
	a.state.editor.SetHeight(height)
	a.state.promptInput.SetWidth(min(80, a.width-8))
}

// handleKey reports handled=true when the key must not reach the focused
// input
func (a *App) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return a.quit(), true
	}

	switch a.view {
	case viewSetup:
		return a.handleSetupKey(msg)
	case viewEditor:
		return a.handleEditorKey(msg)
	case viewPalette:
		return a.handlePaletteKey(msg), true
	case viewConfirm:
		return a.handleConfirmKey(msg), true
	case viewPreview, viewHelp:
		if key.Matches(msg, keys.Quit) || key.Matches(msg, keys.Preview) || key.Matches(msg, keys.Help) {
			return a.backToEditor(), true
		}
		return nil, true
	case viewSettings:
		return a.handleSettingsKey(msg)
	case viewExamples:
		return a.handleExamplesKey(msg)
	}
	return nil, false
}

func (a *App) handleEditorKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Quit):
		return a.quit(), true
	case key.Matches(msg, keys.Help):
		a.openView(viewHelp)
		return nil, true
	case key.Matches(msg, keys.Palette):
		if a.state.provider == nil {
			return a.notify("Set your API key first (ctrl+o)", true), true
		}
		a.openView(viewPalette)
		return nil, true
	case key.Matches(msg, keys.Settings):
		a.openView(viewSettings)
		a.state.settingsMode = ""
		return nil, true
	case key.Matches(msg, keys.Examples):
		a.openView(viewExamples)
		a.state.form = nil
		return nil, true
	case key.Matches(msg, keys.Preview):
		a.openPreview()
		return nil, true
	case key.Matches(msg, keys.Scope):
		a.state.paragraphOnly = !a.state.paragraphOnly
		return a.notify("Expanding "+a.scopeLabel(), false), true
	case key.Matches(msg, keys.Copy):
		if err := clipboardWriteAll(a.state.editor.Value()); err != nil {
			a.logger.Warn("clipboard write failed", zap.Error(err))
			return a.notify(fmt.Sprintf("Copy failed: %v", err), true), true
		}
		return a.notify("Copied to clipboard", false), true
	}
	return nil, false
}

func (a *App) openView(v view) {
	a.state.editor.Blur()
	a.view = v
}

func (a *App) backToEditor() tea.Cmd {
	if len(a.state.pending) > 0 {
		a.view = viewConfirm
		return nil
	}
	a.view = viewEditor
	return a.state.editor.Focus()
}

func (a *App) quit() tea.Cmd {
	a.quitting = true
	a.cancel()
	return tea.Quit
}

// runCommand expands the selection asynchronously. Each run captures the text
// it was started with and applies its result independently.
func (a *App) runCommand(cmd *command.Command) tea.Cmd {
	selection := a.selection()
	if isBlank(selection) {
		return a.notify(command.MsgSelectText, false)
	}

	var cmds []tea.Cmd
	if a.state.inFlight == 0 {
		cmds = append(cmds, a.state.spinner.Tick)
	}
	a.state.inFlight++
	a.state.started++
	a.logger.Debug("expansion started", zap.String("command", cmd.ID))

	ctx := a.ctx
	cmds = append(cmds, func() tea.Msg {
		inv, err := cmd.Expand(ctx, selection)
		return expandDoneMsg{command: cmd, invocation: inv, err: err}
	})
	return tea.Batch(cmds...)
}

func (a *App) finishExpansion(msg expandDoneMsg) tea.Cmd {
	a.state.inFlight = max(0, a.state.inFlight-1)
	logger := a.logger.With(zap.String("command", msg.command.ID))

	switch {
	case errors.Is(msg.err, context.Canceled):
		return nil
	case msg.err != nil:
		return a.notify(command.ReportFailure(logger, msg.err), true)
	}

	// ask has no confirmer here; the result waits for the confirm view
	keep, err := command.ResolvePolicy(a.ctx, a.state.config.PreserveOriginal, nil)
	if errors.Is(err, command.ErrNoConfirmer) {
		a.state.pending = append(a.state.pending, msg.invocation)
		if a.view == viewEditor {
			a.openView(viewConfirm)
		}
		return nil
	}

	msg.invocation.Apply(a.bufferEditor(msg.invocation.Original), keep)
	logger.Info("selection expanded", zap.Bool("kept_original", keep))
	return a.notify(fmt.Sprintf("Expanded with %s", msg.command.Name), false)
}

// notify shows msg in the status bar for command.NoticeDuration
func (a *App) notify(msg string, isErr bool) tea.Cmd {
	a.state.noticeID++
	id := a.state.noticeID
	a.state.notice = msg
	a.state.noticeErr = isErr
	return tea.Tick(command.NoticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

type setupCompleteMsg struct{}
type setupErrorMsg struct{ error }
type providerReadyMsg struct{}
type providerErrorMsg struct{ error }
type configChangedMsg struct{}
type noticeExpiredMsg struct{ id int }

type expandDoneMsg struct {
	command    *command.Command
	invocation *command.Invocation
	err        error
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}

	switch a.view {
	case viewSetup:
		return a.renderSetup()
	case viewPalette:
		return a.renderPalette()
	case viewConfirm:
		return a.renderConfirm()
	case viewPreview:
		return a.renderPreview()
	case viewSettings:
		return a.renderSettings()
	case viewExamples:
		return a.renderExamples()
	case viewHelp:
		return a.renderHelp()
	default:
		return a.renderEditor()
	}
}
