package provider

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"nlrun/internal/domain"
)

// OpenAI talks to an OpenAI-compatible chat-completions endpoint.
type OpenAI struct {
	apiKey  string
	apiBase string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

type OpenAIConfig struct {
	APIKey  string
	APIBase string
	Model   string
	Client  *http.Client
	Logger  *slog.Logger
}

func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	if cfg.APIBase == "" {
		cfg.APIBase = "https://api.openai.com/v1"
	}
	if cfg.Client == nil {
		cfg.Client = newHTTPClient(0)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &OpenAI{
		apiKey:  cfg.APIKey,
		apiBase: strings.TrimRight(cfg.APIBase, "/"),
		model:   cfg.Model,
		client:  cfg.Client,
		logger:  cfg.Logger,
	}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) GenerateCommand(ctx context.Context, req domain.GenerateRequest) (string, error) {
	content, err := o.chat(ctx, buildMessages(req), 0)
	if err != nil {
		return "", err
	}
	return ExtractCommandLine(content)
}

func (o *OpenAI) Respond(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	msgs := []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}
	return o.chat(ctx, msgs, temperature)
}

func (o *OpenAI) chat(ctx context.Context, msgs []chatMessage, temperature float64) (string, error) {
	o.logger.Debug("calling openai", "model", o.model, "messages", len(msgs))
	return postChat(ctx, o.client, o.apiBase+"/chat/completions",
		map[string]string{"Authorization": "Bearer " + o.apiKey},
		chatRequest{Model: o.model, Messages: msgs, Temperature: temperature},
	)
}
