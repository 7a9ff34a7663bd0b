package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config models axis.yml.
type Config struct {
	Identity struct {
		Name string `yaml:"name"`
	} `yaml:"identity"`
	Projects struct {
		MaxActive int `yaml:"max_active"`
	} `yaml:"projects"`
	Timeline struct {
		WindowWeeks int `yaml:"window_weeks"`
	} `yaml:"timeline"`
	Webhooks []Webhook `yaml:"webhooks"`
}

type Webhook struct {
	URL    string   `yaml:"url"`
	Events []string `yaml:"events"`
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	cfg.Identity.Name = "you"
	cfg.Projects.MaxActive = 3
	cfg.Timeline.WindowWeeks = 12
	return &cfg
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Projects.MaxActive < 1 {
		return fmt.Errorf("config.projects.max_active must be at least 1")
	}
	if c.Timeline.WindowWeeks < 1 {
		return fmt.Errorf("config.timeline.window_weeks must be at least 1")
	}
	for i, hook := range c.Webhooks {
		if !strings.HasPrefix(hook.URL, "http://") && !strings.HasPrefix(hook.URL, "https://") {
			return fmt.Errorf("config.webhooks[%d].url must be an http(s) URL", i)
		}
		for _, evt := range hook.Events {
			if evt == "" {
				return fmt.Errorf("config.webhooks[%d] has empty event filter", i)
			}
		}
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "axis.yml")
}

// LoadOptional returns the defaults if the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// FromYAML parses and validates config from raw YAML bytes. Fields left
// unset in the file keep their defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GenerateDefault returns default config YAML for axis workspace init.
func GenerateDefault(name string) string {
	if name == "" {
		name = "you"
	}
	return fmt.Sprintf(defaultTemplate, name)
}

const defaultTemplate = `identity:
  name: %s

projects:
  max_active: 3

timeline:
  window_weeks: 12

# webhooks:
#   - url: https://example.com/hook
#     events: [row.status_change]
`
