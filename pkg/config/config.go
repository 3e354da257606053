// Package config defines the session configuration for the crucible agent.
// Configuration is loaded once before a session starts and treated as
// immutable for its duration; the engine never mutates it at runtime.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration for one automation session.
type Config struct {
	// Game connection
	Game GameConfig `yaml:"game"`

	// Goals the session tries to produce, in priority order
	Goals []GoalConfig `yaml:"goals"`

	// Path to the recipe library JSON file (optional)
	RecipeLibrary string `yaml:"recipe_library"`

	// Element filtering
	Elements ElementFilterConfig `yaml:"elements"`

	// Retry policy for transient browser failures
	Retry RetryConfig `yaml:"retry"`

	// Reward points for reporting
	Rewards RewardConfig `yaml:"rewards"`

	// Artifact generation
	Artifacts ArtifactConfig `yaml:"artifacts"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging"`
}

// GameConfig describes the game page and how to drive it.
type GameConfig struct {
	// URL of the game page
	URL string `yaml:"url"`

	// Headless controls whether the browser runs without a visible window
	Headless bool `yaml:"headless"`

	// ItemSelector matches the draggable element nodes on the page
	ItemSelector string `yaml:"item_selector"`

	// DiscoverySelectors are fallback selectors checked for a new-element
	// notification when diffing the element list finds nothing
	DiscoverySelectors []string `yaml:"discovery_selectors"`

	// PageTimeout bounds page loads and selector waits
	PageTimeout time.Duration `yaml:"page_timeout"`

	// SettleTimeout bounds the wait for the game to process a combination
	SettleTimeout time.Duration `yaml:"settle_timeout"`

	// Viewport dimensions
	ViewportWidth  int `yaml:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height"`
}

// GoalConfig declares one target element.
type GoalConfig struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

// ElementFilterConfig restricts which elements the session works with.
// Patterns use glob syntax and match case-insensitively.
type ElementFilterConfig struct {
	AllowedPatterns []string `yaml:"allowed_patterns"`
	DeniedPatterns  []string `yaml:"denied_patterns"`
}

// RetryConfig bounds retries of transient interaction failures.
type RetryConfig struct {
	// MaxAttempts is the total number of tries per submission
	MaxAttempts int `yaml:"max_attempts"`

	// Backoff is the base delay between tries; each retry doubles it
	Backoff time.Duration `yaml:"backoff"`

	// IdleRetries is how many times the driver re-polls the inventory when
	// selection is exhausted before terminating the session
	IdleRetries int `yaml:"idle_retries"`
}

// RewardConfig assigns report points to session events.
type RewardConfig struct {
	NewElement int `yaml:"new_element"`
	Goal       int `yaml:"goal"`
}

// ArtifactConfig controls session output generation.
type ArtifactConfig struct {
	Enabled   bool   `yaml:"enabled"`
	OutputDir string `yaml:"output_dir"`
	JSON      bool   `yaml:"json"`
	Markdown  bool   `yaml:"markdown"`
}

// LoggingConfig defines logging configuration.
type LoggingConfig struct {
	// Verbosity controls logging level: quiet, normal, verbose
	Verbosity string `yaml:"verbosity"`
}

// Default returns a configuration with working defaults for the public game.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			URL:          "https://neal.fun/infinite-craft/",
			Headless:     true,
			ItemSelector: ".item",
			DiscoverySelectors: []string{
				".discovery",
				".new-item",
				"[class*='discover']",
			},
			PageTimeout:    30 * time.Second,
			SettleTimeout:  5 * time.Second,
			ViewportWidth:  1280,
			ViewportHeight: 720,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			Backoff:     2 * time.Second,
			IdleRetries: 3,
		},
		Rewards: RewardConfig{
			NewElement: 1,
			Goal:       10,
		},
		Artifacts: ArtifactConfig{
			Enabled:   true,
			OutputDir: "artifacts",
			JSON:      true,
			Markdown:  true,
		},
		Logging: LoggingConfig{
			Verbosity: "normal",
		},
	}
}

// Load reads a YAML configuration file, applying defaults for anything the
// file leaves unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Game.URL == "" {
		return fmt.Errorf("game url is required")
	}
	if c.Game.ItemSelector == "" {
		return fmt.Errorf("item selector is required")
	}
	if c.Game.PageTimeout <= 0 {
		return fmt.Errorf("page timeout must be positive")
	}
	if c.Game.SettleTimeout <= 0 {
		return fmt.Errorf("settle timeout must be positive")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max_attempts must be at least 1")
	}
	if c.Retry.Backoff < 0 {
		return fmt.Errorf("retry backoff cannot be negative")
	}
	if c.Retry.IdleRetries < 0 {
		return fmt.Errorf("idle_retries cannot be negative")
	}
	for i, g := range c.Goals {
		if g.Name == "" {
			return fmt.Errorf("goal %d has no name", i)
		}
	}
	switch c.Logging.Verbosity {
	case "", "quiet", "normal", "verbose":
	default:
		return fmt.Errorf("invalid verbosity: %s (must be 'quiet', 'normal', or 'verbose')", c.Logging.Verbosity)
	}
	if c.Artifacts.Enabled && c.Artifacts.OutputDir == "" {
		return fmt.Errorf("artifact output directory is required when artifacts are enabled")
	}
	return nil
}
