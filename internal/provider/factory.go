package provider

import (
	"fmt"
	"log/slog"

	"nlrun/internal/config"
	"nlrun/internal/domain"
)

// New builds the provider selected by the resolved AI configuration.
func New(eff config.EffectiveAI, logger *slog.Logger) (domain.Provider, error) {
	switch eff.Provider {
	case "openai":
		return NewOpenAI(OpenAIConfig{
			APIKey:  eff.OpenAI.APIKey,
			APIBase: eff.OpenAI.APIBase,
			Model:   eff.OpenAI.Model,
			Logger:  logger,
		}), nil
	case "azure":
		return NewAzure(AzureConfig{
			APIKey:     eff.Azure.APIKey,
			Endpoint:   eff.Azure.Endpoint,
			Deployment: eff.Azure.Deployment,
			APIVersion: eff.Azure.APIVersion,
			Logger:     logger,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", eff.Provider)
	}
}
