package expander

import (
	"context"
	"errors"
	"strings"

	"github.com/sant0-9/expair/internal/config"
	"github.com/sant0-9/expair/internal/llm"
	"github.com/sant0-9/expair/internal/prompts"
	"github.com/sant0-9/expair/internal/tuning"
	"go.uber.org/zap"
)

const (
	choiceCount     = 1
	maxOutputTokens = 1000
)

// ErrNoContent is returned when the model answers without any text
var ErrNoContent = errors.New("AI didn't return any results")

// Settings are the prompt settings a request is built from
type Settings struct {
	Model            string
	SystemPrompt     string
	ExpandTextPrompt string
	// MaxWords is carried along but not applied to input or output
	MaxWords int
}

// SettingsFrom extracts the prompt settings from cfg
func SettingsFrom(cfg *config.Config) Settings {
	return Settings{
		Model:            cfg.OpenAI.Model,
		SystemPrompt:     cfg.OpenAI.SystemPrompt,
		ExpandTextPrompt: cfg.OpenAI.ExpandTextPrompt,
		MaxWords:         cfg.OpenAI.MaxWords,
	}
}

// Expander turns abbreviated text into its expanded form using a fixed set
// of tuning examples
type Expander struct {
	provider llm.Provider
	settings Settings
	examples []tuning.Example
	logger   *zap.Logger
}

func New(provider llm.Provider, settings Settings, examples []tuning.Example, logger *zap.Logger) *Expander {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Expander{
		provider: provider,
		settings: settings,
		examples: append([]tuning.Example(nil), examples...),
		logger:   logger,
	}
}

// Examples returns the tuning examples this expander was built with
func (e *Expander) Examples() []tuning.Example {
	return append([]tuning.Example(nil), e.examples...)
}

// Messages builds the system message, one user/assistant pair per example
// and the final user message holding text
func (e *Expander) Messages(text string) []llm.Message {
	messages := make([]llm.Message, 0, 2*len(e.examples)+2)

	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: e.settings.SystemPrompt})

	for _, ex := range e.examples {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: prompts.ExpandInstruction(e.settings.ExpandTextPrompt, ex.AbbrevText)},
			llm.Message{Role: llm.RoleAssistant, Content: ex.ExpandedText},
		)
	}

	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: prompts.ExpandInstruction(e.settings.ExpandTextPrompt, text)})

	return messages
}

// Request builds the completion request for text
func (e *Expander) Request(text string) *llm.CompletionRequest {
	return &llm.CompletionRequest{
		Model:     e.settings.Model,
		Messages:  e.Messages(text),
		N:         choiceCount,
		MaxTokens: maxOutputTokens,
	}
}

// Expand sends a single request and returns the first choice's text
func (e *Expander) Expand(ctx context.Context, text string) (string, error) {
	req := e.Request(text)

	e.logger.Debug("ongoing request",
		zap.String("model", req.Model),
		zap.Int("messages", len(req.Messages)),
		zap.Int("examples", len(e.examples)),
	)

	resp, err := e.provider.Complete(ctx, req)
	if err != nil {
		return "", err
	}

	e.logger.Info("response received",
		zap.String("model", resp.Model),
		zap.String("finish_reason", resp.FinishReason),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	if strings.TrimSpace(resp.Content) == "" {
		return "", ErrNoContent
	}
	return resp.Content, nil
}
