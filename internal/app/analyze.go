package app

import (
	"context"
	"encoding/json"
	"fmt"
)

const analyzeSystemPrompt = "You are a debugging assistant for the nlrun CLI. " +
	"You receive structured information about the last nlrun invocation (command line, " +
	"generated shell command, exit code, etc.). Explain in concise technical terms what " +
	"likely happened and why, and suggest what the user might try next. If information " +
	"is missing, state the limitations."

// Analyze explains the most recent history entry. With no history at all
// it prints a notice and returns exit code 2.
func (a *App) Analyze(ctx context.Context) (int, error) {
	entry, err := a.History.ReadLatest()
	if err != nil {
		return 1, err
	}
	if entry == nil {
		fmt.Fprintln(a.Stdout, "No history available to analyze yet.")
		return 2, nil
	}

	entryJSON, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return 1, fmt.Errorf("encode history entry: %w", err)
	}

	chat, err := a.provider()
	if err != nil {
		return 1, err
	}

	userPrompt := fmt.Sprintf(
		"Here is the last nlrun invocation as a JSON object:\n\n%s\n\nPlease explain what likely happened and why.",
		entryJSON)

	explanation, err := chat.Respond(ctx, analyzeSystemPrompt, userPrompt, 0)
	if err != nil {
		return 1, err
	}

	fmt.Fprintln(a.Stdout, explanation)
	return 0, nil
}
