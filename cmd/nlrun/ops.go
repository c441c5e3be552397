package main

import (
	"fmt"
	"os"

	"nlrun/internal/app"
	"nlrun/internal/catalog"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.InitConfig(resolveConfigPath(), os.Stdout)
		},
	}
}

func createPromptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-prompt COMMAND [PATH]",
		Short: "Scaffold a prompt YAML file for a single command",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			customPath := ""
			if len(args) == 2 {
				customPath = args[1]
			}
			path, err := catalog.CreateTemplate(args[0], customPath)
			if err != nil {
				return err
			}
			fmt.Printf("Prompt config template for '%s' written to %s\n", args[0], path)
			return nil
		},
	}
}

func addPromptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-prompt PROMPT_FILE",
		Short: "Merge a prompt file into the global default catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.AddPrompt(resolveConfigPath(), args[0], catalog.NewStdioResolver(), os.Stdout)
		},
	}
}

func listToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-tools [PROMPT_FILE]",
		Short: "List configured tools and whether they are installed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			promptPath := ""
			if len(args) == 1 {
				promptPath = args[0]
			}
			return app.ListTools(resolveConfigPath(), promptPath, os.Stdout)
		},
	}
}
