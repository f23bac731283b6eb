package prompts

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed system.md
var systemPrompt string

//go:embed expand.md
var expandTextPrompt string

// Default tuning example shipped with a fresh config
const (
	DefaultAbbrevText   = "I'm a spec in q-n taking, using w abbrevs"
	DefaultExpandedText = "I'm a specialist in quick-note taking, using word abbreviations"
)

// DefaultSystemPrompt is the role the model assumes
func DefaultSystemPrompt() string {
	return strings.TrimSpace(systemPrompt)
}

// DefaultExpandTextPrompt is the instruction placed before each text to expand
func DefaultExpandTextPrompt() string {
	return strings.TrimSpace(expandTextPrompt)
}

// ExpandInstruction embeds text into the expansion instruction
func ExpandInstruction(prompt, text string) string {
	return fmt.Sprintf("%s: \"%s\"", prompt, text)
}
