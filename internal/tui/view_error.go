package tui

import "strings"

// errorSuggestion maps a provider error to a hint for fixing it
func errorSuggestion(errMsg string) string {
	errLower := strings.ToLower(errMsg)

	switch {
	case strings.Contains(errLower, "api key") || strings.Contains(errLower, "401") || strings.Contains(errLower, "unauthorized"):
		return "update the API key in settings (ctrl+o)"
	case strings.Contains(errLower, "unsupported model"):
		return "pick a model in settings (ctrl+o)"
	case strings.Contains(errLower, "connection") || strings.Contains(errLower, "connect") || strings.Contains(errLower, "timeout") || strings.Contains(errLower, "deadline"):
		return "check your internet connection"
	case strings.Contains(errLower, "rate limit") || strings.Contains(errLower, "429"):
		return "rate limited, wait a moment and try again"
	}
	return ""
}
