// Package config loads runtime settings from a TOML file, AGENTROUND_
// environment variables, and built-in defaults, in that priority order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configName    = "config"
	configType    = "toml"
	configDirName = "agentround"
	envPrefix     = "AGENTROUND"
)

// Config holds every tunable the discussion pipeline reads. The zero value
// is not usable; obtain one through Load.
type Config struct {
	BaseURL              string
	APIKey               string
	Models               []string
	ResponseTokens       int
	MaxContextTokens     int
	TokenizerModel       string
	TemperatureMin       float64
	TemperatureMax       float64
	MaxWorkers           int
	InitialRounds        int
	Topic                string
	OutputDir            string
	LogDir               string
	TemplatesFile        string
	PromptPricePer1K     float64
	CompletionPricePer1K float64
}

// Load reads the config file at explicitPath, or searches the user config
// directory and the working directory when explicitPath is empty. A missing
// file during search is fine; an explicit path that cannot be read is not.
func Load(explicitPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		if userDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(userDir, configDirName))
		}
		v.AddConfigPath(".")

		err := v.ReadInConfig()
		if err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with. It runs before
// any discussion work starts.
func (c *Config) Validate() error {
	if c.ResponseTokens < 1 {
		return errors.New("response_tokens must be at least 1")
	}
	if c.MaxContextTokens <= c.ResponseTokens {
		return fmt.Errorf("max_context_tokens (%d) must exceed response_tokens (%d)", c.MaxContextTokens, c.ResponseTokens)
	}
	if c.TemperatureMin > c.TemperatureMax {
		return fmt.Errorf("temperature_min (%g) must not exceed temperature_max (%g)", c.TemperatureMin, c.TemperatureMax)
	}
	if c.MaxWorkers < 1 {
		return errors.New("max_workers must be at least 1")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "https://api.openai.com/v1")
	v.SetDefault("api_key", "")
	v.SetDefault("models", []string{})
	v.SetDefault("response_tokens", 2048)
	v.SetDefault("max_context_tokens", 32000)
	v.SetDefault("tokenizer_model", "gpt-4o")
	v.SetDefault("temperature_min", 0.4)
	v.SetDefault("temperature_max", 1.2)
	v.SetDefault("max_workers", 5)
	v.SetDefault("initial_rounds", 3)
	v.SetDefault("topic", "")
	v.SetDefault("output_dir", "discussions")
	v.SetDefault("log_dir", "log")
	v.SetDefault("templates_file", "")
	v.SetDefault("prompt_price_per_1k", 0.01)
	v.SetDefault("completion_price_per_1k", 0.03)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		BaseURL:              v.GetString("base_url"),
		APIKey:               v.GetString("api_key"),
		Models:               splitModels(v.GetStringSlice("models")),
		ResponseTokens:       v.GetInt("response_tokens"),
		MaxContextTokens:     v.GetInt("max_context_tokens"),
		TokenizerModel:       v.GetString("tokenizer_model"),
		TemperatureMin:       v.GetFloat64("temperature_min"),
		TemperatureMax:       v.GetFloat64("temperature_max"),
		MaxWorkers:           v.GetInt("max_workers"),
		InitialRounds:        v.GetInt("initial_rounds"),
		Topic:                v.GetString("topic"),
		OutputDir:            v.GetString("output_dir"),
		LogDir:               v.GetString("log_dir"),
		TemplatesFile:        v.GetString("templates_file"),
		PromptPricePer1K:     v.GetFloat64("prompt_price_per_1k"),
		CompletionPricePer1K: v.GetFloat64("completion_price_per_1k"),
	}
}

// splitModels accepts both TOML arrays and the comma-separated form the
// AGENTROUND_MODELS environment variable carries.
func splitModels(raw []string) []string {
	var models []string
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				models = append(models, trimmed)
			}
		}
	}
	return models
}
