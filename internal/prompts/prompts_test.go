package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, "You are an specialist in quick-note taking, using word abbreviations", DefaultSystemPrompt())
	assert.Equal(t, "Translate the following text to it's non-abbreviated form", DefaultExpandTextPrompt())
}

func TestExpandInstruction(t *testing.T) {
	got := ExpandInstruction("Expand this", "pls rvw asap")
	assert.Equal(t, `Expand this: "pls rvw asap"`, got)
}
