package app

import (
	"fmt"
	"io"
	"os"

	"nlrun/internal/catalog"
	"nlrun/internal/config"
	"nlrun/internal/domain"
)

// InitConfig writes a starter config file with placeholder credentials.
// An existing file is never overwritten.
func InitConfig(path string, out io.Writer) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s, refusing to overwrite", path)
	}

	cfg := config.Defaults()
	cfg.AI.OpenAI.APIKey = "changeme"

	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("write default config file to %s: %w", path, err)
	}

	fmt.Fprintf(out, "Default configuration written to %s\n", path)
	fmt.Fprintln(out, "Update the placeholder API credentials and add tools (e.g. with 'nlrun add-prompt ...') before running nlrun.")
	return nil
}

// AddPrompt merges the tools of a prompt file into the global default
// catalog. Conflicting tool names are resolved through rio.
func AddPrompt(globalPath, promptPath string, rio catalog.ResolverIO, out io.Writer) error {
	imported, err := catalog.LoadFile(promptPath)
	if err != nil {
		return err
	}
	if len(imported.Tools) == 0 {
		return catalog.ErrNoToolsInPrompt
	}

	cfg, err := config.Load(globalPath)
	if err != nil {
		return err
	}
	if cfg.DefaultCatalog == nil {
		cfg.DefaultCatalog = &domain.Catalog{}
	}

	result, err := catalog.Merge(cfg.DefaultCatalog.Tools, imported.Tools, promptPath, rio)
	if err != nil {
		return err
	}
	if result.Cancelled {
		fmt.Fprintln(out, "Import cancelled; no changes applied.")
		return nil
	}

	if cfg.DefaultCatalog.MetaPrompt == "" {
		cfg.DefaultCatalog.MetaPrompt = imported.MetaPrompt
	}
	cfg.DefaultCatalog.Tools = result.Tools

	if err := config.Save(globalPath, cfg); err != nil {
		return fmt.Errorf("write merged config to %s: %w", globalPath, err)
	}

	fmt.Fprintf(out, "Merged prompt %s into %s\n", promptPath, globalPath)
	return nil
}

// ListTools prints the PATH availability of every configured tool, for
// the global catalog and optionally an extra prompt file.
func ListTools(globalPath, promptPath string, out io.Writer) error {
	cfg, err := config.Load(globalPath)
	if err != nil {
		return err
	}
	return catalog.ListTools(out, globalPath, cfg.DefaultCatalog, promptPath)
}
