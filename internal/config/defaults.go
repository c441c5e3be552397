package config

import (
	"path/filepath"

	"nlrun/internal/domain"
)

func Defaults() *Config {
	dir := DefaultConfigDir()
	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
		},
		AI: AIConfig{
			Provider: "openai",
			OpenAI: OpenAIConfig{
				APIBase: "https://api.openai.com/v1",
				Model:   "gpt-4.1-mini",
			},
		},
		Security: SecurityConfig{
			AuditLog:    true,
			AuditDBPath: filepath.Join(dir, "audit.db"),
		},
		History: HistoryConfig{
			Path:     filepath.Join(dir, "history.log"),
			MaxBytes: 1_000_000,
		},
		DefaultCatalog: &domain.Catalog{
			MetaPrompt: "You are a careful command composer. Only emit a single allowed tool command.\n" +
				"Never introduce shell operators such as pipes or redirects unless the operator has\n" +
				"explicitly enabled relaxed mode.\n" +
				"Add tools to this configuration by running \"nlrun add-prompt path/to/prompt.yaml\".\n",
			Tools: []domain.ToolDefinition{},
		},
	}
}
