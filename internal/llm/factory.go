package llm

import (
	"fmt"

	"github.com/sant0-9/expair/internal/config"
)

// NewProvider creates a provider from config
func NewProvider(cfg *config.Config) (Provider, error) {
	if cfg.APIKey() == "" {
		return nil, fmt.Errorf("openai requires an API key")
	}
	if config.GetModel(cfg.OpenAI.Model) == nil {
		return nil, fmt.Errorf("unsupported model: %s", cfg.OpenAI.Model)
	}
	return NewOpenAIProvider(cfg.APIKey(), cfg.OpenAI.Model, cfg.OpenAI.BaseURL), nil
}
