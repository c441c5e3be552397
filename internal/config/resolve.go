package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoProvider is returned when neither the config file nor the
// environment carries enough credentials to pick a generation service.
var ErrNoProvider = errors.New("no AI configuration found: set OpenAI or Azure credentials in the config file or environment")

// EffectiveAI is the provider selection after merging environment
// overrides into the file config. Resolved exactly once per invocation
// and threaded as a value; the pipeline never reads the environment
// ad hoc after this point.
type EffectiveAI struct {
	Provider string // "openai" | "azure"
	OpenAI   OpenAIConfig
	Azure    AzureConfig
}

// ResolveAI merges NLRUN_* environment overrides over the file values and
// picks the provider. An explicit provider wins; otherwise the provider
// is inferred from which credentials are present.
func ResolveAI(ai AIConfig) (EffectiveAI, error) {
	provider := envOr(ai.Provider, "NLRUN_PROVIDER")

	openai := OpenAIConfig{
		APIKey:  envOr(ai.OpenAI.APIKey, "NLRUN_OPENAI_API_KEY"),
		APIBase: envOr(ai.OpenAI.APIBase, "NLRUN_OPENAI_API_BASE"),
		Model:   envOr(ai.OpenAI.Model, "NLRUN_OPENAI_MODEL"),
	}
	azure := AzureConfig{
		APIKey:     envOr(ai.Azure.APIKey, "NLRUN_AZURE_API_KEY"),
		Endpoint:   envOr(ai.Azure.Endpoint, "NLRUN_AZURE_ENDPOINT"),
		Deployment: envOr(ai.Azure.Deployment, "NLRUN_AZURE_DEPLOYMENT"),
		APIVersion: envOr(ai.Azure.APIVersion, "NLRUN_AZURE_API_VERSION"),
	}

	if provider == "" {
		switch {
		case openai.APIKey != "":
			provider = "openai"
		case azure.APIKey != "":
			provider = "azure"
		default:
			return EffectiveAI{}, ErrNoProvider
		}
	}

	switch strings.ToLower(provider) {
	case "openai":
		if openai.APIKey == "" {
			return EffectiveAI{}, errors.New("openai selected but no API key configured (NLRUN_OPENAI_API_KEY)")
		}
		if openai.APIBase == "" {
			openai.APIBase = "https://api.openai.com/v1"
		}
		if openai.Model == "" {
			return EffectiveAI{}, errors.New("openai selected but no model configured (NLRUN_OPENAI_MODEL)")
		}
		return EffectiveAI{Provider: "openai", OpenAI: openai}, nil
	case "azure":
		if azure.APIKey == "" {
			return EffectiveAI{}, errors.New("azure selected but no API key configured (NLRUN_AZURE_API_KEY)")
		}
		if azure.Endpoint == "" {
			return EffectiveAI{}, errors.New("azure selected but no endpoint configured (NLRUN_AZURE_ENDPOINT)")
		}
		if azure.Deployment == "" {
			return EffectiveAI{}, errors.New("azure selected but no deployment configured (NLRUN_AZURE_DEPLOYMENT)")
		}
		if azure.APIVersion == "" {
			return EffectiveAI{}, errors.New("azure selected but no API version configured (NLRUN_AZURE_API_VERSION)")
		}
		return EffectiveAI{Provider: "azure", Azure: azure}, nil
	default:
		return EffectiveAI{}, fmt.Errorf("unsupported provider %q: use 'openai' or 'azure'", provider)
	}
}

func envOr(fileValue, envKey string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return fileValue
}
