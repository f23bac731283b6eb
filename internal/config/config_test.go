package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sant0-9/expair/internal/tuning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, DefaultMaxWords, cfg.OpenAI.MaxWords)
	assert.Equal(t, PreserveAsk, cfg.PreserveOriginal)
	assert.Empty(t, cfg.APIKey())
	require.Len(t, cfg.TuningExamples, 1)
	assert.Equal(t, tuning.DefaultLang, cfg.TuningExamples[0].Lang)
	assert.NotEmpty(t, cfg.TuningExamples[0].ID)
}

func TestDefaultExampleIDIsStable(t *testing.T) {
	want := DefaultConfig().TuningExamples[0].ID
	assert.Equal(t, want, DefaultConfig().TuningExamples[0].ID)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("preserve_original: never\n"), 0600))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.TuningExamples, 1)
	assert.Equal(t, want, cfg.TuningExamples[0].ID)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Nil(t, cfg)

	cfg, existed, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.OpenAI.APIKey = "sk-test"
	cfg.OpenAI.Model = "gpt-4-turbo"
	cfg.PreserveOriginal = PreserveNever
	cfg.TuningExamples = append(cfg.TuningExamples, tuning.NewExample("Spanish", "pq", "porque"))
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", loaded.APIKey())
	assert.Equal(t, "gpt-4-turbo", loaded.OpenAI.Model)
	assert.Equal(t, PreserveNever, loaded.PreserveOriginal)
	assert.Equal(t, cfg.TuningExamples, loaded.TuningExamples)
}

func TestLoadMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
openai:
  api_key: sk-partial
preserve_original: Always
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-partial", cfg.OpenAI.APIKey)
	assert.Equal(t, DefaultModel.ID, cfg.OpenAI.Model)
	assert.Equal(t, DefaultConfig().OpenAI.SystemPrompt, cfg.OpenAI.SystemPrompt)
	assert.Equal(t, DefaultMaxWords, cfg.OpenAI.MaxWords)
	assert.Equal(t, PreserveAlways, cfg.PreserveOriginal)
	require.Len(t, cfg.TuningExamples, 1)
}

func TestLoadNormalizesLegacyExamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
tuning_examples:
  - abbrev_text: "w/o"
    expanded_text: "without"
  - abbrev_text: "bzw"
    expanded_text: "beziehungsweise"
    lang: German
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.TuningExamples, 2)
	assert.Equal(t, tuning.DefaultLang, cfg.TuningExamples[0].Lang)
	assert.NotEmpty(t, cfg.TuningExamples[0].ID)
	assert.Equal(t, "German", cfg.TuningExamples[1].Lang)

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.TuningExamples[0].ID, again.TuningExamples[0].ID)
}

func TestLoadRejectsInvalidPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("preserve_original: sometimes\n"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfigPathEnvOverride(t *testing.T) {
	t.Setenv("EXPAIR_CONFIG", "/tmp/custom.yaml")
	path, err := ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.yaml", path)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg := DefaultConfig()
	cfg.OpenAI.APIKey = "sk-file"
	cfg.ApplyEnv()

	assert.Equal(t, "sk-env", cfg.APIKey())
	assert.Equal(t, "sk-file", cfg.OpenAI.APIKey)
}

type memSecrets struct {
	values map[string]string
	err    error
}

func (m *memSecrets) Get(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.values[name], nil
}

func (m *memSecrets) Set(name, value string) error {
	if m.err != nil {
		return m.err
	}
	m.values[name] = value
	return nil
}

func TestKeyringAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	secrets := &memSecrets{values: map[string]string{}}

	cfg := DefaultConfig()
	cfg.UseKeyring = true
	require.NoError(t, cfg.SetAPIKey(secrets, "sk-keyring"))
	assert.Equal(t, "sk-keyring", secrets.values["openai"])
	assert.Equal(t, "sk-keyring", cfg.APIKey())
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-keyring")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, loaded.APIKey())
	require.NoError(t, loaded.ResolveSecrets(secrets))
	assert.Equal(t, "sk-keyring", loaded.APIKey())
}

func TestResolveSecretsError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseKeyring = true
	err := cfg.ResolveSecrets(&memSecrets{err: errors.New("locked")})
	assert.ErrorContains(t, err, "locked")
}

func TestSetAPIKeyWithoutKeyring(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.SetAPIKey(nil, "sk-plain"))
	assert.Equal(t, "sk-plain", cfg.OpenAI.APIKey)
}

func TestMaskedAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", "Not set"},
		{"short", "****"},
		{"sk-1234567890abcd", "sk-1****abcd"},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.OpenAI.APIKey = tt.key
		assert.Equal(t, tt.want, cfg.MaskedAPIKey())
	}
}

func TestParsePreserveOriginal(t *testing.T) {
	tests := []struct {
		in      string
		want    PreserveOriginal
		wantErr bool
	}{
		{"always", PreserveAlways, false},
		{"Never", PreserveNever, false},
		{"ASK", PreserveAsk, false},
		{"", PreserveAsk, false},
		{"maybe", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePreserveOriginal(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestGetModel(t *testing.T) {
	assert.Len(t, Models, 2)
	assert.Equal(t, "GPT-4 Turbo", GetModel("gpt-4-turbo").Name)
	assert.Nil(t, GetModel("gpt-3"))
	assert.Equal(t, 1, ModelIndex("gpt-4-turbo"))
	assert.Equal(t, 0, ModelIndex("unknown"))
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	require.NoError(t, Watch(ctx, path, func() { changed <- struct{}{} }))

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.yaml"), []byte("x"), 0600))
	cfg := DefaultConfig()
	cfg.OpenAI.Model = "gpt-4-turbo"
	require.NoError(t, cfg.Save(path))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
}
