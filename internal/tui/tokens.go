package tui

import (
	"fmt"
	"strings"
)

// estimateTokens returns approximate token count (~4 chars per token)
func estimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// bufferStats summarizes the buffer for the editor header
func bufferStats(text string) string {
	words := len(strings.Fields(text))
	if words == 0 {
		return "empty"
	}
	return fmt.Sprintf("%d words, ~%d tokens", words, estimateTokens(text))
}
