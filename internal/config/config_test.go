package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "https://api.openai.com/v1", cfg.BaseURL)
	assert.Empty(t, cfg.APIKey)
	assert.Empty(t, cfg.Models)
	assert.Equal(t, 2048, cfg.ResponseTokens)
	assert.Equal(t, 32000, cfg.MaxContextTokens)
	assert.Equal(t, "gpt-4o", cfg.TokenizerModel)
	assert.InDelta(t, 0.4, cfg.TemperatureMin, 1e-9)
	assert.InDelta(t, 1.2, cfg.TemperatureMax, 1e-9)
	assert.Equal(t, 5, cfg.MaxWorkers)
	assert.Equal(t, 3, cfg.InitialRounds)
	assert.Empty(t, cfg.Topic)
	assert.Equal(t, "discussions", cfg.OutputDir)
	assert.Equal(t, "log", cfg.LogDir)
	assert.Empty(t, cfg.TemplatesFile)
	assert.InDelta(t, 0.01, cfg.PromptPricePer1K, 1e-9)
	assert.InDelta(t, 0.03, cfg.CompletionPricePer1K, 1e-9)
}

func TestLoadReadsFileValues(t *testing.T) {
	path := writeConfigFile(t, `
base_url = "https://llm.internal/v1"
api_key = "sk-from-file"
models = ["gpt-4o", "claude-3-opus"]
response_tokens = 1024
max_context_tokens = 16000
temperature_min = 0.2
temperature_max = 0.9
max_workers = 3
initial_rounds = 2
topic = "compilers"
output_dir = "out"
log_dir = "logs"
prompt_price_per_1k = 0.005
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://llm.internal/v1", cfg.BaseURL)
	assert.Equal(t, "sk-from-file", cfg.APIKey)
	assert.Equal(t, []string{"gpt-4o", "claude-3-opus"}, cfg.Models)
	assert.Equal(t, 1024, cfg.ResponseTokens)
	assert.Equal(t, 16000, cfg.MaxContextTokens)
	assert.InDelta(t, 0.2, cfg.TemperatureMin, 1e-9)
	assert.InDelta(t, 0.9, cfg.TemperatureMax, 1e-9)
	assert.Equal(t, 3, cfg.MaxWorkers)
	assert.Equal(t, 2, cfg.InitialRounds)
	assert.Equal(t, "compilers", cfg.Topic)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.InDelta(t, 0.005, cfg.PromptPricePer1K, 1e-9)
	assert.InDelta(t, 0.03, cfg.CompletionPricePer1K, 1e-9)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("AGENTROUND_RESPONSE_TOKENS", "512")
	t.Setenv("AGENTROUND_TOPIC", "from env")

	path := writeConfigFile(t, `
response_tokens = 1024
topic = "from file"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 512, cfg.ResponseTokens)
	assert.Equal(t, "from env", cfg.Topic)
}

func TestLoadModelsFromCommaSeparatedEnv(t *testing.T) {
	t.Setenv("AGENTROUND_MODELS", "gpt-4o, claude-3-opus ,")

	cfg, err := Load(writeConfigFile(t, ""))
	require.NoError(t, err)

	assert.Equal(t, []string{"gpt-4o", "claude-3-opus"}, cfg.Models)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "read config file")
}

func TestLoadSearchToleratesMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 32000, cfg.MaxContextTokens)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "zero response tokens",
			content: "response_tokens = 0",
			wantErr: "response_tokens must be at least 1",
		},
		{
			name:    "window not above response budget",
			content: "max_context_tokens = 2048",
			wantErr: "max_context_tokens (2048) must exceed response_tokens (2048)",
		},
		{
			name:    "inverted temperature range",
			content: "temperature_min = 1.5",
			wantErr: "temperature_min (1.5) must not exceed temperature_max (1.2)",
		},
		{
			name:    "zero workers",
			content: "max_workers = 0",
			wantErr: "max_workers must be at least 1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfigFile(t, tc.content))
			require.Error(t, err)
			assert.EqualError(t, err, tc.wantErr)
		})
	}
}

func TestLoadTemplatesEmptyPathKeepsDefaults(t *testing.T) {
	t.Parallel()

	templates, err := LoadTemplates("")
	require.NoError(t, err)
	assert.Empty(t, templates.System)
	assert.Empty(t, templates.Summary)
}

func TestLoadTemplatesReadsOverrides(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "templates.yaml")
	content := `
system: "You are {agent_name} debating {topic} with {participants}."
summary: "Wrap up the discussion."
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	templates, err := LoadTemplates(path)
	require.NoError(t, err)

	assert.Equal(t, "You are {agent_name} debating {topic} with {participants}.", templates.System)
	assert.Equal(t, "Wrap up the discussion.", templates.Summary)
	assert.Empty(t, templates.FirstRound)
	assert.Empty(t, templates.Discussion)
	assert.Empty(t, templates.HumanGuidance)
}

func TestLoadTemplatesMissingFileFails(t *testing.T) {
	t.Parallel()

	_, err := LoadTemplates(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "read templates file")
}

func TestLoadTemplatesRejectsMalformedYaml(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("system: [unclosed"), 0o600))

	_, err := LoadTemplates(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode templates file")
}
