package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nlrun/internal/catalog"
	"nlrun/internal/domain"
	"nlrun/internal/prompt"
	"nlrun/internal/safety"
)

const explainSystemPrompt = "You are a shell and tool usage explainer. " +
	"Given a shell command, explain in concise technical language what it will do, " +
	"describing each flag and argument, and the overall effect. " +
	"Do not invent behaviour not implied by the command."

// Run drives one invocation through the pipeline: build the system
// prompt, generate a command, validate it, resolve the effective mode,
// optionally explain, confirm when required, and execute.
func (a *App) Run(ctx context.Context, req RunRequest) (Summary, error) {
	summary := Summary{
		Relaxed: req.Relaxed,
		Confirm: req.Confirm || req.Relaxed || req.Explain,
		Explain: req.Explain,
	}

	toolCatalog, err := a.pickCatalog(req)
	if err != nil {
		return summary, err
	}

	systemPrompt, whitelist, err := prompt.BuildSystemPrompt(toolCatalog)
	if err != nil {
		return summary, err
	}

	peekContext, err := prompt.BuildPeekContext(req.PeekFiles)
	if err != nil {
		return summary, err
	}

	scopeHint, err := prompt.ExpandScope(req.Scope)
	if err != nil {
		return summary, err
	}

	gen, err := a.provider()
	if err != nil {
		return summary, err
	}

	cmdLine, err := gen.GenerateCommand(ctx, domain.GenerateRequest{
		SystemPrompt: systemPrompt,
		Prompt:       req.Prompt,
		ScopeHint:    scopeHint,
		PeekContext:  peekContext,
	})
	if err != nil {
		return summary, fmt.Errorf("obtain command from generation service: %w", err)
	}

	fmt.Fprintf(a.Stderr, ">> %s\n", cmdLine)
	summary.GeneratedCommand = &cmdLine
	a.audit(ctx, domain.AuditEntry{
		RunID: req.RunID, Action: "generated", Command: cmdLine, Result: "allowed",
	})

	mode := domain.ModeSafe
	if req.Relaxed {
		mode = domain.ModeRelaxed
	}

	tokens, err := safety.Validate(cmdLine, whitelist, mode)
	if err != nil {
		a.audit(ctx, a.blockedEntry(req.RunID, cmdLine, err))
		return summary, err
	}

	tool := toolCatalog.Lookup(tokens[0])
	var forceExplain *bool
	if tool != nil {
		forceExplain = tool.ForceExplain
	}
	resolution := safety.ResolveMode(req.Relaxed, req.Confirm, req.Explain, forceExplain)
	summary.Confirm = resolution.ConfirmationRequired
	summary.Explain = resolution.ExplanationRequired

	a.audit(ctx, domain.AuditEntry{
		RunID: req.RunID, Action: "allowed", Tool: tokens[0], Command: cmdLine, Result: "allowed",
		Details: string(resolution.Mode),
	})

	if resolution.ExplanationRequired {
		a.printExplanation(ctx, gen, cmdLine)
	}

	if resolution.ConfirmationRequired {
		ok, err := a.confirm(req, cmdLine, scopeHint)
		if err != nil {
			return summary, err
		}
		if !ok {
			fmt.Fprintln(a.Stderr, "Cancelled.")
			a.audit(ctx, domain.AuditEntry{
				RunID: req.RunID, Action: "confirm_no", Tool: tokens[0], Command: cmdLine, Result: "denied",
			})
			note := "cancelled"
			summary.ExitCode = 0
			summary.Note = &note
			return summary, nil
		}
		a.audit(ctx, domain.AuditEntry{
			RunID: req.RunID, Action: "confirm_yes", Tool: tokens[0], Command: cmdLine, Result: "confirmed",
		})
	}

	exitCode, err := a.Runner.Run(ctx, cmdLine, tokens, resolution.Mode)
	if err != nil {
		return summary, err
	}
	summary.ExitCode = exitCode
	return summary, nil
}

func (a *App) pickCatalog(req RunRequest) (domain.Catalog, error) {
	if req.PromptFile != "" {
		return catalog.LoadFile(req.PromptFile)
	}
	if a.Config.DefaultCatalog == nil {
		return domain.Catalog{}, errors.New("no defaultPrompt found in global config for simple mode")
	}
	return *a.Config.DefaultCatalog, nil
}

func (a *App) blockedEntry(runID, cmdLine string, verdict error) domain.AuditEntry {
	entry := domain.AuditEntry{
		RunID: runID, Command: cmdLine, Result: "blocked", Details: verdict.Error(),
	}
	var toolErr *safety.DisallowedToolError
	var opErr *safety.DisallowedOperatorError
	switch {
	case errors.As(verdict, &toolErr):
		entry.Action = "disallowed_tool"
		entry.Tool = toolErr.Tool
	case errors.As(verdict, &opErr):
		entry.Action = "disallowed_operator"
	default:
		entry.Action = "malformed"
	}
	return entry
}

func (a *App) printExplanation(ctx context.Context, chat domain.ChatClient, cmdLine string) {
	fmt.Fprintf(a.Stdout, "Generated command:\n  %s\n\n", cmdLine)
	userPrompt := fmt.Sprintf("Explain this command in detail, but concisely:\n\n%s", cmdLine)
	explanation, err := chat.Respond(ctx, explainSystemPrompt, userPrompt, 0)
	if err != nil {
		fmt.Fprintf(a.Stderr, "Failed to explain command: %v\n", err)
		return
	}
	fmt.Fprintf(a.Stdout, "Explanation:\n%s\n", explanation)
}

func (a *App) confirm(req RunRequest, cmdLine, scopeHint string) (bool, error) {
	fmt.Fprintf(a.Stderr, "Global config file: %s\n", a.ConfigPath)
	if req.PromptFile != "" {
		fmt.Fprintf(a.Stderr, "Prompt config file: %s\n", req.PromptFile)
	} else {
		fmt.Fprintln(a.Stderr, "Prompt config: defaultPrompt from global config")
	}
	fmt.Fprintf(a.Stderr, "\nNatural language prompt:\n  %s\n\n", req.Prompt)
	if scopeHint != "" {
		fmt.Fprintf(a.Stderr, "Scope hint:\n  %s\n\n", scopeHint)
	}
	fmt.Fprintf(a.Stderr, "Generated command:\n  %s\n\n", cmdLine)
	fmt.Fprint(a.Stderr, "Execute this command? [y/N] ")

	line, err := a.stdinReader().ReadString('\n')
	if err != nil && line == "" {
		// closed stdin means no
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
