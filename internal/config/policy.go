package config

import (
	"fmt"
	"strings"
)

// PreserveOriginal decides whether the original text is kept above its
// expansion
type PreserveOriginal string

const (
	PreserveAlways PreserveOriginal = "always"
	PreserveNever  PreserveOriginal = "never"
	PreserveAsk    PreserveOriginal = "ask"
)

var Policies = []PreserveOriginal{PreserveAlways, PreserveNever, PreserveAsk}

// ParsePreserveOriginal accepts any casing; empty means ask
func ParsePreserveOriginal(s string) (PreserveOriginal, error) {
	switch p := PreserveOriginal(strings.ToLower(strings.TrimSpace(s))); p {
	case PreserveAlways, PreserveNever, PreserveAsk:
		return p, nil
	case "":
		return PreserveAsk, nil
	default:
		return "", fmt.Errorf("invalid preserve_original %q (want always, never or ask)", s)
	}
}

func (p PreserveOriginal) Label() string {
	switch p {
	case PreserveAlways:
		return "Always"
	case PreserveNever:
		return "Never"
	default:
		return "Ask"
	}
}
