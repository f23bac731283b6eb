package renderer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sant0-9/expair/internal/callout"
	"github.com/sant0-9/expair/internal/expander"
	"go.uber.org/zap"
)

// BlockLanguage is the info string that marks a block for expansion
const BlockLanguage = "expair"

const failedAnalysis = "**ERROR** Failed to analyze the abbreviated text"

// Expander expands the content of one block
type Expander interface {
	Expand(ctx context.Context, text string) (string, error)
}

// Renderer replaces expair code blocks in a markdown document with callouts
// holding their expansion
type Renderer struct {
	expanders   map[string]Expander
	defaultLang string
	logger      *zap.Logger
}

// New creates a renderer. Blocks without a language use defaultLang.
func New(expanders map[string]Expander, defaultLang string, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	byLang := make(map[string]Expander, len(expanders))
	for lang, e := range expanders {
		byLang[strings.ToLower(lang)] = e
	}
	return &Renderer{
		expanders:   byLang,
		defaultLang: defaultLang,
		logger:      logger,
	}
}

type block struct {
	start, end int // line indexes, end exclusive
	lang       string
	body       string
}

// Render expands every block in markdown. Blocks are expanded one after the
// other, and a failing block becomes an error callout without stopping the
// rest. Only context cancellation aborts.
func (r *Renderer) Render(ctx context.Context, markdown string) (string, int, error) {
	lines := strings.Split(markdown, "\n")
	blocks := findBlocks(lines)
	if len(blocks) == 0 {
		return markdown, 0, nil
	}

	var out []string
	prev := 0
	for _, b := range blocks {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}
		out = append(out, lines[prev:b.start]...)
		out = append(out, r.expandBlock(ctx, b))
		prev = b.end
	}
	out = append(out, lines[prev:]...)

	return strings.Join(out, "\n"), len(blocks), nil
}

func (r *Renderer) expandBlock(ctx context.Context, b block) string {
	lang := b.lang
	if lang == "" {
		lang = r.defaultLang
	}

	e, ok := r.expanders[strings.ToLower(lang)]
	if !ok {
		return callout.Make(callout.KindError, callout.Expanded, "AI Error",
			fmt.Sprintf("no tuning examples for language %q", lang))
	}

	result, err := e.Expand(ctx, b.body)
	switch {
	case errors.Is(err, expander.ErrNoContent):
		result = failedAnalysis
	case err != nil:
		r.logger.Error("block expansion failed", zap.String("lang", lang), zap.Error(err))
		return callout.Make(callout.KindError, callout.Expanded, "AI Error", err.Error())
	}

	return callout.Make(callout.KindOriginal, callout.Expanded, "AI", result)
}

// findBlocks locates ```expair fences. An unterminated block is left alone.
func findBlocks(lines []string) []block {
	var blocks []block
	for i := 0; i < len(lines); i++ {
		fence, lang, ok := openingFence(lines[i])
		if !ok {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == fence {
				blocks = append(blocks, block{
					start: i,
					end:   j + 1,
					lang:  lang,
					body:  strings.Join(lines[i+1:j], "\n"),
				})
				i = j
				break
			}
		}
	}
	return blocks
}

func openingFence(line string) (fence, lang string, ok bool) {
	trimmed := strings.TrimSpace(line)
	for _, f := range []string{"```", "~~~"} {
		if !strings.HasPrefix(trimmed, f) {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(trimmed, f))
		if len(fields) == 0 || fields[0] != BlockLanguage {
			return "", "", false
		}
		return f, strings.Join(fields[1:], " "), true
	}
	return "", "", false
}
