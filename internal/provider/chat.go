package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"nlrun/internal/domain"
)

// ErrEmptyGeneration marks a generation-service response that contained
// no usable command line. There is no fallback synthesis: the invocation
// fails and the failure is surfaced as-is.
var ErrEmptyGeneration = errors.New("generation service returned an empty command")

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// postChat sends one chat-completions request and returns the first
// choice's content. Headers carry auth, which differs per provider.
func postChat(ctx context.Context, client *http.Client, url string, headers map[string]string, req chatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat endpoint returned %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrEmptyGeneration)
	}

	return parsed.Choices[0].Message.Content, nil
}

// buildMessages assembles the chat transcript for a generation request:
// system prompt, then the natural-language request, then optional scope
// and sample-data context as further user turns.
func buildMessages(req domain.GenerateRequest) []chatMessage {
	msgs := []chatMessage{
		{Role: "system", Content: req.SystemPrompt},
		{Role: "user", Content: req.Prompt},
	}
	if req.ScopeHint != "" {
		msgs = append(msgs, chatMessage{
			Role:    "user",
			Content: "Focus your command on files or paths matching this scope:\n" + req.ScopeHint,
		})
	}
	if req.PeekContext != "" {
		msgs = append(msgs, chatMessage{
			Role: "user",
			Content: "Here is a sample of the data the tools will operate on. " +
				"It may be truncated and is provided only to infer structure and field names, " +
				"not to be hard-coded:\n\n" + req.PeekContext,
		})
	}
	return msgs
}

// ExtractCommandLine reduces a chat completion to the single command
// line it is expected to contain: code fences are stripped and the first
// non-empty line wins. Anything else is an ErrEmptyGeneration.
func ExtractCommandLine(content string) (string, error) {
	text := strings.TrimSpace(content)
	if strings.HasPrefix(text, "```") {
		var cleaned []string
		for _, line := range strings.Split(text, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				continue
			}
			cleaned = append(cleaned, line)
		}
		text = strings.TrimSpace(strings.Join(cleaned, "\n"))
	}

	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed, nil
		}
	}
	return "", ErrEmptyGeneration
}
