package provider

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"nlrun/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func chatServer(t *testing.T, content string, capture *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

// --- ExtractCommandLine ---

func TestExtractCommandLine_PlainCommand(t *testing.T) {
	got, err := ExtractCommandLine("wc -l *.go\n")
	if err != nil {
		t.Fatalf("ExtractCommandLine: %v", err)
	}
	if got != "wc -l *.go" {
		t.Errorf("got %q", got)
	}
}

func TestExtractCommandLine_StripsCodeFences(t *testing.T) {
	content := "```bash\njq '.name' package.json\n```"
	got, err := ExtractCommandLine(content)
	if err != nil {
		t.Fatalf("ExtractCommandLine: %v", err)
	}
	if got != "jq '.name' package.json" {
		t.Errorf("got %q", got)
	}
}

func TestExtractCommandLine_FirstLineWins(t *testing.T) {
	got, err := ExtractCommandLine("ls -la\nthis line is commentary")
	if err != nil {
		t.Fatalf("ExtractCommandLine: %v", err)
	}
	if got != "ls -la" {
		t.Errorf("got %q", got)
	}
}

func TestExtractCommandLine_EmptyContent(t *testing.T) {
	for _, content := range []string{"", "   \n  \n", "```\n```"} {
		_, err := ExtractCommandLine(content)
		if !errors.Is(err, ErrEmptyGeneration) {
			t.Errorf("%q: expected ErrEmptyGeneration, got %v", content, err)
		}
	}
}

// --- OpenAI provider ---

func TestOpenAI_GenerateCommand(t *testing.T) {
	var captured chatRequest
	srv := chatServer(t, "wc -l main.go", &captured)
	defer srv.Close()

	p := NewOpenAI(OpenAIConfig{APIKey: "k", APIBase: srv.URL, Model: "test-model", Logger: testLogger()})
	cmd, err := p.GenerateCommand(context.Background(), domain.GenerateRequest{
		SystemPrompt: "system",
		Prompt:       "count lines in main.go",
		ScopeHint:    "src/",
		PeekContext:  "sample data",
	})
	if err != nil {
		t.Fatalf("GenerateCommand: %v", err)
	}
	if cmd != "wc -l main.go" {
		t.Errorf("command: got %q", cmd)
	}
	if captured.Model != "test-model" {
		t.Errorf("model: got %q", captured.Model)
	}
	if captured.Temperature != 0 {
		t.Errorf("temperature: got %v, want 0", captured.Temperature)
	}
	// system + prompt + scope + peek
	if len(captured.Messages) != 4 {
		t.Fatalf("messages: got %d, want 4", len(captured.Messages))
	}
	if !strings.Contains(captured.Messages[2].Content, "src/") {
		t.Errorf("scope message: %q", captured.Messages[2].Content)
	}
}

func TestOpenAI_GenerateCommand_OmitsUnsetContext(t *testing.T) {
	var captured chatRequest
	srv := chatServer(t, "ls", &captured)
	defer srv.Close()

	p := NewOpenAI(OpenAIConfig{APIKey: "k", APIBase: srv.URL, Model: "m", Logger: testLogger()})
	if _, err := p.GenerateCommand(context.Background(), domain.GenerateRequest{
		SystemPrompt: "system",
		Prompt:       "list files",
	}); err != nil {
		t.Fatalf("GenerateCommand: %v", err)
	}
	if len(captured.Messages) != 2 {
		t.Errorf("messages: got %d, want 2", len(captured.Messages))
	}
}

func TestOpenAI_ErrorStatusSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewOpenAI(OpenAIConfig{APIKey: "k", APIBase: srv.URL, Model: "m", Logger: testLogger()})
	_, err := p.GenerateCommand(context.Background(), domain.GenerateRequest{SystemPrompt: "s", Prompt: "p"})
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected 401 error, got %v", err)
	}
}

func TestOpenAI_NoChoicesIsEmptyGeneration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	p := NewOpenAI(OpenAIConfig{APIKey: "k", APIBase: srv.URL, Model: "m", Logger: testLogger()})
	_, err := p.GenerateCommand(context.Background(), domain.GenerateRequest{SystemPrompt: "s", Prompt: "p"})
	if !errors.Is(err, ErrEmptyGeneration) {
		t.Fatalf("expected ErrEmptyGeneration, got %v", err)
	}
}

// --- Azure provider ---

func TestAzure_DeploymentURLAndHeader(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		gotKey = r.Header.Get("api-key")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "ls"}}},
		})
	}))
	defer srv.Close()

	p := NewAzure(AzureConfig{
		APIKey:     "azure-key",
		Endpoint:   srv.URL,
		Deployment: "dep",
		APIVersion: "2024-02-15-preview",
		Logger:     testLogger(),
	})
	if _, err := p.Respond(context.Background(), "s", "u", 0); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if !strings.Contains(gotPath, "/openai/deployments/dep/chat/completions") {
		t.Errorf("path: %q", gotPath)
	}
	if !strings.Contains(gotPath, "api-version=2024-02-15-preview") {
		t.Errorf("api-version missing: %q", gotPath)
	}
	if gotKey != "azure-key" {
		t.Errorf("api-key header: %q", gotKey)
	}
}
