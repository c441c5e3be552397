package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nlrun/internal/domain"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for nlrun.
type Config struct {
	General  GeneralConfig  `yaml:"general"`
	AI       AIConfig       `yaml:"ai"`
	Security SecurityConfig `yaml:"security"`
	History  HistoryConfig  `yaml:"history"`
	// DefaultCatalog is used in simple mode, when no per-call prompt
	// file is supplied.
	DefaultCatalog *domain.Catalog `yaml:"defaultPrompt,omitempty"`
}

type GeneralConfig struct {
	LogLevel string `yaml:"logLevel"`
}

// AIConfig selects and configures the generation service.
type AIConfig struct {
	Provider string       `yaml:"provider,omitempty"` // "openai" | "azure"; inferred from credentials when empty
	OpenAI   OpenAIConfig `yaml:"openai,omitempty"`
	Azure    AzureConfig  `yaml:"azure,omitempty"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"apiKey,omitempty"`
	APIBase string `yaml:"apiBase,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

type AzureConfig struct {
	APIKey     string `yaml:"apiKey,omitempty"`
	Endpoint   string `yaml:"endpoint,omitempty"`
	Deployment string `yaml:"deployment,omitempty"`
	APIVersion string `yaml:"apiVersion,omitempty"`
}

type SecurityConfig struct {
	AuditLog    bool   `yaml:"auditLog"`
	AuditDBPath string `yaml:"auditDbPath,omitempty"`
}

type HistoryConfig struct {
	Path     string `yaml:"path,omitempty"`
	MaxBytes int64  `yaml:"maxBytes,omitempty"`
}

// DefaultConfigDir returns the default config directory (~/.nlrun).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nlrun"
	}
	return filepath.Join(home, ".nlrun")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

func Load(path string) (*Config, error) {
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	cfg.Security.AuditDBPath = ExpandPath(cfg.Security.AuditDBPath)
	cfg.History.Path = ExpandPath(cfg.History.Path)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks that the config has valid values.
func Validate(cfg *Config) error {
	var errs []string

	switch cfg.General.LogLevel {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		errs = append(errs, "general.logLevel must be one of: debug, info, warn, error")
	}

	switch cfg.AI.Provider {
	case "", "openai", "azure":
		// valid
	default:
		errs = append(errs, "ai.provider must be one of: openai, azure")
	}

	if cfg.History.MaxBytes < 0 {
		errs = append(errs, "history.maxBytes must be >= 0")
	}

	if cfg.DefaultCatalog != nil {
		for i, tool := range cfg.DefaultCatalog.Tools {
			if strings.TrimSpace(tool.Name) == "" {
				errs = append(errs, fmt.Sprintf("defaultPrompt.tools[%d]: name must not be empty", i))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ExpandPath resolves a leading ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
