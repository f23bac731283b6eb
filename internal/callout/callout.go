package callout

import (
	"fmt"
	"strings"
)

// State is whether a callout renders open or folded
type State int

const (
	Expanded State = iota
	Collapsed
)

func (s State) marker() string {
	if s == Collapsed {
		return "-"
	}
	return "+"
}

// Callout kinds used by expair
const (
	KindOriginal = "ai-pre-analysis"
	KindError    = "error"
)

// Make quotes text into a callout block of the given kind
func Make(kind string, state State, header, text string) string {
	lines := []string{fmt.Sprintf("> [!%s]%s %s", kind, state.marker(), header)}
	for _, line := range strings.Split(text, "\n") {
		lines = append(lines, "> "+line)
	}
	return strings.Join(lines, "\n")
}

// Replacement is what the selection becomes once expanded. With keep, the
// original text is retained in a folded callout above the expansion.
func Replacement(original, expanded string, keep bool) string {
	if !keep {
		return expanded
	}
	return Make(KindOriginal, Collapsed, "AI Original", original) + "\n\n" + expanded
}
