package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/XueJourney/AgentRound/internal/application"
)

type templatesSchema struct {
	System        string `yaml:"system"`
	FirstRound    string `yaml:"first_round"`
	Discussion    string `yaml:"discussion"`
	HumanGuidance string `yaml:"human_guidance"`
	Summary       string `yaml:"summary"`
}

// LoadTemplates reads the optional prompt template override file. An empty
// path and omitted fields both mean the built-in templates; placeholder
// validation happens later, in NewPromptSet.
func LoadTemplates(path string) (application.Templates, error) {
	if path == "" {
		return application.Templates{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return application.Templates{}, fmt.Errorf("read templates file: %w", err)
	}

	var schema templatesSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return application.Templates{}, fmt.Errorf("decode templates file: %w", err)
	}

	return application.Templates{
		System:        schema.System,
		FirstRound:    schema.FirstRound,
		Discussion:    schema.Discussion,
		HumanGuidance: schema.HumanGuidance,
		Summary:       schema.Summary,
	}, nil
}
