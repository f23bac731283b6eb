package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/sant0-9/expair/internal/callout"
	"github.com/sant0-9/expair/internal/config"
	"github.com/sant0-9/expair/internal/expander"
	"github.com/sant0-9/expair/internal/llm"
	"github.com/sant0-9/expair/internal/tuning"
	"go.uber.org/zap"
)

const idPrefix = "expand-with-ai"

var ErrEmptySelection = errors.New("no text selected")

// Editor is the text surface a command reads from and writes to
type Editor interface {
	Selection() string
	ReplaceSelection(text string)
}

// Expander produces the expansion of a text
type Expander interface {
	Expand(ctx context.Context, text string) (string, error)
}

// Factory builds the expander for one language from that language's
// examples only
type Factory func(lang string, examples []tuning.Example) Expander

// Command expands the selection with the examples of a single language
type Command struct {
	ID       string
	Name     string
	Lang     string
	Examples int

	expander Expander
}

func New(lang string, examples int, e Expander) *Command {
	return &Command{
		ID:       ID(lang),
		Name:     fmt.Sprintf("Expand abbreviations with AI (%s)", lang),
		Lang:     lang,
		Examples: examples,
		expander: e,
	}
}

// ID returns the command id for lang, e.g. expand-with-ai-haitian-creole
func ID(lang string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(lang)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return idPrefix
	}
	return idPrefix + "-" + b.String()
}

// Partitioned builds one handler per distinct key of items. Handlers only see
// their own partition and share no state.
func Partitioned[K comparable, T, H any](items []T, key func(T) K, factory func(K, []T) H) []H {
	keys, groups := tuning.Partition(items, key)

	handlers := make([]H, 0, len(keys))
	for _, k := range keys {
		handlers = append(handlers, factory(k, groups[k]))
	}
	return handlers
}

// Build registers one command per language present in examples
func Build(examples []tuning.Example, factory Factory) []*Command {
	return Partitioned(examples,
		func(e tuning.Example) string { return e.Lang },
		func(lang string, group []tuning.Example) *Command {
			return New(lang, len(group), factory(lang, group))
		},
	)
}

// FromConfig builds the commands for the examples in cfg, all sending their
// requests through provider
func FromConfig(cfg *config.Config, provider llm.Provider, logger *zap.Logger) []*Command {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings := expander.SettingsFrom(cfg)
	return Build(cfg.TuningExamples, func(lang string, examples []tuning.Example) Expander {
		return expander.New(provider, settings, examples, logger.With(zap.String("lang", lang)))
	})
}

// Expander returns the expander bound to c
func (c *Command) Expander() Expander {
	return c.expander
}

// Find returns the command for lang, matched case-insensitively
func Find(commands []*Command, lang string) *Command {
	for _, c := range commands {
		if strings.EqualFold(c.Lang, lang) {
			return c
		}
	}
	return nil
}

// Invocation is a finished expansion waiting to be written back
type Invocation struct {
	Command  *Command
	Original string
	Expanded string
}

// Expand runs the command's expander on selection
func (c *Command) Expand(ctx context.Context, selection string) (*Invocation, error) {
	if strings.TrimSpace(selection) == "" {
		return nil, ErrEmptySelection
	}

	expanded, err := c.expander.Expand(ctx, selection)
	if err != nil {
		return nil, err
	}

	return &Invocation{
		Command:  c,
		Original: selection,
		Expanded: expanded,
	}, nil
}

// Replacement is the text the selection becomes
func (inv *Invocation) Replacement(keepOriginal bool) string {
	return callout.Replacement(inv.Original, inv.Expanded, keepOriginal)
}

// Apply replaces the editor selection
func (inv *Invocation) Apply(ed Editor, keepOriginal bool) {
	ed.ReplaceSelection(inv.Replacement(keepOriginal))
}
