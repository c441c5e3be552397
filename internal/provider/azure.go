package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"nlrun/internal/domain"
)

// Azure talks to an Azure OpenAI deployment. The model is fixed by the
// deployment, so requests carry no model field.
type Azure struct {
	apiKey     string
	endpoint   string
	deployment string
	apiVersion string
	client     *http.Client
	logger     *slog.Logger
}

type AzureConfig struct {
	APIKey     string
	Endpoint   string
	Deployment string
	APIVersion string
	Client     *http.Client
	Logger     *slog.Logger
}

func NewAzure(cfg AzureConfig) *Azure {
	if cfg.Client == nil {
		cfg.Client = newHTTPClient(0)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Azure{
		apiKey:     cfg.APIKey,
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		deployment: cfg.Deployment,
		apiVersion: cfg.APIVersion,
		client:     cfg.Client,
		logger:     cfg.Logger,
	}
}

func (a *Azure) Name() string { return "azure" }

func (a *Azure) GenerateCommand(ctx context.Context, req domain.GenerateRequest) (string, error) {
	content, err := a.chat(ctx, buildMessages(req), 0)
	if err != nil {
		return "", err
	}
	return ExtractCommandLine(content)
}

func (a *Azure) Respond(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	msgs := []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}
	return a.chat(ctx, msgs, temperature)
}

func (a *Azure) chat(ctx context.Context, msgs []chatMessage, temperature float64) (string, error) {
	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		a.endpoint, a.deployment, a.apiVersion)
	a.logger.Debug("calling azure openai", "deployment", a.deployment, "messages", len(msgs))
	return postChat(ctx, a.client, url,
		map[string]string{"api-key": a.apiKey},
		chatRequest{Messages: msgs, Temperature: temperature},
	)
}
