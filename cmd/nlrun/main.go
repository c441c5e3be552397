package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"nlrun/internal/app"
	"nlrun/internal/audit"
	"nlrun/internal/config"
	"nlrun/internal/executor"
	"nlrun/internal/history"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag

	flagConfirm bool
	flagRelaxed bool
	flagExplain bool
	flagScope   string
	flagPeek    []string
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:   "nlrun [PROMPT_FILE] PROMPT",
		Short: "nlrun: natural language to safe shell commands",
		Long: "nlrun turns a natural language request into a single whitelisted tool\n" +
			"command, validates it against the tool whitelist and shell operator\n" +
			"blocklist, and executes it. With one argument the global default prompt\n" +
			"catalog is used; with two, the first is a per-call prompt YAML file.",
		Version:       version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default: ~/.nlrun/config.yaml)")

	root.Flags().BoolVarP(&flagConfirm, "confirm", "c", false, "ask for confirmation before executing")
	root.Flags().BoolVarP(&flagRelaxed, "relaxed", "u", false, "allow shell operators and delegate to the shell (always confirms)")
	root.Flags().BoolVarP(&flagExplain, "explain", "e", false, "explain the generated command before confirming")
	root.Flags().StringVarP(&flagScope, "scope", "s", "", "path or glob hint for the generated command ('.' lists the current directory)")
	root.Flags().StringArrayVarP(&flagPeek, "peek", "p", nil, "sample data file forwarded to the generation service (repeatable)")

	root.AddCommand(initCmd())
	root.AddCommand(createPromptCmd())
	root.AddCommand(addPromptCmd())
	root.AddCommand(listToolsCmd())
	root.AddCommand(analyzeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func runRoot(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req := app.RunRequest{
		Relaxed:   flagRelaxed,
		Confirm:   flagConfirm,
		Explain:   flagExplain,
		Scope:     flagScope,
		PeekFiles: flagPeek,
	}
	if len(args) >= 2 {
		req.PromptFile = args[0]
		req.Prompt = strings.Join(args[1:], " ")
	} else {
		req.Prompt = args[0]
	}

	a, cleanup, err := buildApp()
	if err != nil {
		return err
	}

	code := a.RunAndLog(ctx, req)
	cleanup()
	stop()
	os.Exit(code)
	return nil
}

// buildApp loads the config and wires the real collaborators. The
// returned cleanup closes the audit store.
func buildApp() (*app.App, func(), error) {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config (run 'nlrun init' first): %w", err)
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.General.LogLevel),
	}))

	cleanup := func() {}
	var auditStore *audit.SQLiteStore
	if cfg.Security.AuditLog {
		auditStore, err = audit.NewSQLiteStore(cfg.Security.AuditDBPath, logger)
		if err != nil {
			logger.Warn("audit store unavailable", "path", cfg.Security.AuditDBPath, "error", err)
		} else {
			cleanup = func() { auditStore.Close() }
		}
	}

	a := &app.App{
		Config:     cfg,
		ConfigPath: cfgPath,
		Runner: executor.NewShellRunner(executor.Config{
			Logger: logger,
		}),
		History: history.NewStore(history.Config{
			Path:     cfg.History.Path,
			MaxBytes: cfg.History.MaxBytes,
			Logger:   logger,
		}),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
	}
	if auditStore != nil {
		a.Audit = auditStore
	}
	return a, cleanup, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
