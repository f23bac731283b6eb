package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sant0-9/expair/internal/prompts"
	"github.com/sant0-9/expair/internal/tuning"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultMaxWords is accepted and persisted but never enforced
	DefaultMaxWords = 500

	envConfigPath = "EXPAIR_CONFIG"
	envAPIKey     = "OPENAI_API_KEY"

	// SecretAPIKey names the API key in the keyring
	SecretAPIKey = "openai"
)

type Config struct {
	OpenAI           OpenAIConfig     `yaml:"openai"`
	PreserveOriginal PreserveOriginal `yaml:"preserve_original"`
	UseKeyring       bool             `yaml:"use_keyring,omitempty"`
	TuningExamples   []tuning.Example `yaml:"tuning_examples"`

	// apiKeyOverride comes from the environment or the keyring and is never
	// written back to the file
	apiKeyOverride string
}

type OpenAIConfig struct {
	APIKey           string `yaml:"api_key,omitempty"`
	Model            string `yaml:"model"`
	BaseURL          string `yaml:"base_url,omitempty"`
	SystemPrompt     string `yaml:"system_prompt"`
	ExpandTextPrompt string `yaml:"expand_text_prompt"`
	MaxWords         int    `yaml:"max_words"`
}

// Secrets stores values outside the config file
type Secrets interface {
	Get(name string) (string, error)
	Set(name, value string) error
}

func DefaultConfig() *Config {
	return &Config{
		OpenAI: OpenAIConfig{
			Model:            DefaultModel.ID,
			SystemPrompt:     prompts.DefaultSystemPrompt(),
			ExpandTextPrompt: prompts.DefaultExpandTextPrompt(),
			MaxWords:         DefaultMaxWords,
		},
		PreserveOriginal: PreserveAsk,
		TuningExamples: []tuning.Example{{
			ID:           tuning.StableID(tuning.DefaultLang, prompts.DefaultAbbrevText),
			AbbrevText:   prompts.DefaultAbbrevText,
			ExpandedText: prompts.DefaultExpandedText,
			Lang:         tuning.DefaultLang,
		}},
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "expair"), nil
}

// ConfigPath returns $EXPAIR_CONFIG or the default location
func ConfigPath() (string, error) {
	if p := os.Getenv(envConfigPath); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load reads the config at path merged over the defaults. A missing file
// returns a nil config and no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	policy, err := ParsePreserveOriginal(string(cfg.PreserveOriginal))
	if err != nil {
		return nil, err
	}
	cfg.PreserveOriginal = policy
	cfg.TuningExamples = tuning.Normalize(cfg.TuningExamples)

	return cfg, nil
}

// LoadOrDefault is Load with a fallback to DefaultConfig. The boolean
// reports whether the file existed.
func LoadOrDefault(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, false, err
	}
	if cfg == nil {
		return DefaultConfig(), false, nil
	}
	return cfg, true, nil
}

// Save overwrites the file at path with the whole config
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// APIKey returns the key used for requests
func (c *Config) APIKey() string {
	if c.apiKeyOverride != "" {
		return c.apiKeyOverride
	}
	return c.OpenAI.APIKey
}

// ApplyEnv lets OPENAI_API_KEY take precedence over the stored key
func (c *Config) ApplyEnv() {
	if key := os.Getenv(envAPIKey); key != "" {
		c.apiKeyOverride = key
	}
}

// ResolveSecrets loads the API key from secrets when the keyring is enabled.
// An override already set from the environment wins.
func (c *Config) ResolveSecrets(s Secrets) error {
	if !c.UseKeyring || s == nil || c.apiKeyOverride != "" {
		return nil
	}
	key, err := s.Get(SecretAPIKey)
	if err != nil {
		return fmt.Errorf("read API key from keyring: %w", err)
	}
	c.apiKeyOverride = key
	return nil
}

// SetAPIKey stores key in secrets when the keyring is enabled, otherwise in
// the config itself
func (c *Config) SetAPIKey(s Secrets, key string) error {
	if !c.UseKeyring {
		c.OpenAI.APIKey = key
		c.apiKeyOverride = ""
		return nil
	}
	if s == nil {
		return errors.New("keyring is enabled but unavailable")
	}
	if err := s.Set(SecretAPIKey, key); err != nil {
		return fmt.Errorf("store API key in keyring: %w", err)
	}
	c.OpenAI.APIKey = ""
	c.apiKeyOverride = key
	return nil
}

// MaskedAPIKey renders the key for display
func (c *Config) MaskedAPIKey() string {
	key := c.APIKey()
	if key == "" {
		return "Not set"
	}
	if len(key) > 8 {
		return key[:4] + "****" + key[len(key)-4:]
	}
	return "****"
}

// Examples returns the tuning examples as an editable set
func (c *Config) Examples() *tuning.Set {
	return tuning.NewSet(c.TuningExamples)
}

// SetExamples replaces the tuning examples with those of s
func (c *Config) SetExamples(s *tuning.Set) {
	c.TuningExamples = s.All()
}
