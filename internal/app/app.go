// Package app wires the pipeline together: prompt building, command
// generation, safety validation, confirmation, execution and the
// invocation history.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"nlrun/internal/config"
	"nlrun/internal/domain"
	"nlrun/internal/history"
	"nlrun/internal/provider"
)

// App holds the collaborators of one nlrun process. Tests inject stub
// generators and runners; main wires the real ones.
type App struct {
	Config     *config.Config
	ConfigPath string

	// Provider overrides the config-resolved generation service when
	// non-nil.
	Provider domain.Provider
	Runner   domain.Runner
	History  *history.Store
	Audit    domain.AuditLogger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// RunRequest carries the flags and positional input of one invocation.
type RunRequest struct {
	RunID      string
	Prompt     string
	PromptFile string // optional per-call prompt catalog; empty means the global default
	Relaxed    bool
	Confirm    bool
	Explain    bool
	Scope      string
	PeekFiles  []string
}

// Summary is the recorded outcome of one invocation.
type Summary struct {
	ExitCode         int
	GeneratedCommand *string
	Relaxed          bool
	Confirm          bool
	Explain          bool
	Note             *string
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

func (a *App) provider() (domain.Provider, error) {
	if a.Provider != nil {
		return a.Provider, nil
	}
	effective, err := config.ResolveAI(a.Config.AI)
	if err != nil {
		return nil, err
	}
	return provider.New(effective, a.logger())
}

// RunAndLog executes one invocation and appends exactly one history
// entry, whatever the outcome. Errors are printed to stderr and folded
// into the entry note; a failing history write only warns.
func (a *App) RunAndLog(ctx context.Context, req RunRequest) int {
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	// Run seeds the summary's mode flags from the request and refines
	// them after mode resolution, so they are trustworthy even on error.
	summary, runErr := a.Run(ctx, req)
	if runErr != nil {
		fmt.Fprintf(a.Stderr, "Error: %v\n", runErr)
		note := runErr.Error()
		summary.ExitCode = 1
		summary.Note = &note
	}

	entry := history.Entry{
		Timestamp:        history.Now(),
		RunID:            req.RunID,
		WorkingDirectory: cwd,
		Argv:             os.Args,
		ExitCode:         summary.ExitCode,
		GeneratedCommand: summary.GeneratedCommand,
		Relaxed:          summary.Relaxed,
		Confirm:          summary.Confirm,
		Explain:          summary.Explain,
		PeekFiles:        req.PeekFiles,
		Note:             summary.Note,
	}
	if req.Scope != "" {
		scope := req.Scope
		entry.Scope = &scope
	}

	if a.History != nil {
		if err := a.History.Append(entry); err != nil {
			a.logger().Warn("failed to write history", "error", err)
			fmt.Fprintf(a.Stderr, "Warning: failed to write history: %v\n", err)
		}
	}

	return summary.ExitCode
}

func (a *App) audit(ctx context.Context, entry domain.AuditEntry) {
	if a.Audit == nil {
		return
	}
	if err := a.Audit.LogAudit(ctx, entry); err != nil {
		a.logger().Warn("failed to write audit entry", "action", entry.Action, "error", err)
	}
}

func (a *App) stdinReader() *bufio.Reader {
	in := a.Stdin
	if in == nil {
		in = os.Stdin
	}
	return bufio.NewReader(in)
}
