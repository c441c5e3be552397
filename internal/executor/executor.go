package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"nlrun/internal/domain"
)

// ErrExecutionFailed marks a command that never ran: the binary was not
// found, could not be started, or the spawn itself failed. A nonzero
// exit code of a process that did run is not an error.
var ErrExecutionFailed = errors.New("execution failed")

// ShellRunner launches validated commands. In safe mode the first token
// is spawned directly with literal (glob-expanded) arguments; in relaxed
// mode the raw command line is delegated to the platform shell.
type ShellRunner struct {
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
	logger *slog.Logger
}

type Config struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Logger *slog.Logger
}

func NewShellRunner(cfg Config) *ShellRunner {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &ShellRunner{
		stdout: cfg.Stdout,
		stderr: cfg.Stderr,
		stdin:  cfg.Stdin,
		logger: cfg.Logger,
	}
}

// Run spawns one child process and blocks until it exits. The exit code
// is always surfaced, never swallowed; spawn failures are reported as
// ErrExecutionFailed, distinct from a nonzero exit.
func (r *ShellRunner) Run(ctx context.Context, raw string, tokens []string, mode domain.Mode) (int, error) {
	var cmd *exec.Cmd
	if mode == domain.ModeRelaxed {
		cmd = shellCommand(ctx, raw)
	} else {
		if len(tokens) == 0 {
			return 1, fmt.Errorf("%w: no tokens to execute", ErrExecutionFailed)
		}
		args := ExpandArgs(tokens[1:])
		cmd = exec.CommandContext(ctx, tokens[0], args...)
	}

	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	cmd.Stdin = r.stdin

	r.logger.Debug("spawning command", "mode", string(mode), "path", cmd.Path, "args", cmd.Args)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// The process ran and failed on its own terms.
		return exitErr.ExitCode(), nil
	}

	return 1, fmt.Errorf("%w: %v", ErrExecutionFailed, err)
}

func shellCommand(ctx context.Context, raw string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", raw)
	}
	return exec.CommandContext(ctx, "sh", "-c", raw)
}

// ExpandArgs glob-expands each argument that carries a metacharacter.
// Matches replace the argument in enumeration order; an argument with no
// matches (or an invalid pattern) passes through unchanged so a literal
// non-matching pattern does not vanish.
func ExpandArgs(args []string) []string {
	expanded := make([]string, 0, len(args))
	for _, arg := range args {
		expanded = append(expanded, expandGlob(arg)...)
	}
	return expanded
}

func expandGlob(arg string) []string {
	if !strings.ContainsAny(arg, "*?[") {
		return []string{arg}
	}

	matches, err := filepath.Glob(arg)
	if err != nil || len(matches) == 0 {
		return []string{arg}
	}
	return matches
}
