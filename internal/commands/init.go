package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/walletbook/walletbook/internal/config"
	"github.com/walletbook/walletbook/internal/kv"
)

// dataDir is where the default config keeps its store, relative to the
// config file.
const dataDir = ".walletbook"

type initOptions struct {
	backend  string
	currency string
	timezone string
	force    bool
}

func newInitCommand() *cobra.Command {
	opts := initOptions{}

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a walletbook.yaml and data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.backend, "backend", kv.BackendSQLite, "store backend: sqlite, file or memory")
	cmd.Flags().StringVar(&opts.currency, "currency", "USD", "default ISO 4217 currency")
	cmd.Flags().StringVar(&opts.timezone, "timezone", "", "IANA timezone for cycle dates (default: system)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite an existing walletbook.yaml")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, opts initOptions) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !opts.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	}

	cfg := config.Default(dataDir)
	cfg.Store.Backend = opts.backend
	cfg.Currency = opts.currency
	cfg.Timezone = opts.timezone
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Create directory structure.
	dirs := []string{
		dataDir,
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Keep data and secrets out of version control.
	gitignore := dataDir + "/\n.env\nimport/processed/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized walletbook at %s (%s store)\n", dir, cfg.Store.Backend)
	return nil
}
