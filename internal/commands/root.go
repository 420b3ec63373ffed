package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/walletbook/walletbook/internal/app"
	"github.com/walletbook/walletbook/internal/buildinfo"
	"github.com/walletbook/walletbook/internal/config"
	"github.com/walletbook/walletbook/internal/logger"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	envFile    string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "walletbook",
		Short:   "Personal wallets, budgets and spending cycles",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.FileName, "path to walletbook.yaml")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "optional .env file overlaid on the config")

	rootCmd.AddCommand(
		newInitCommand(),
		newWalletCommand(opts),
		newTxCommand(opts),
		newBudgetCommand(opts),
		newCategoryCommand(opts),
		newReportCommand(opts),
	)

	return rootCmd
}

// loadConfig reads the config file and overlays the environment.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s not found, run `walletbook init` first: %w", o.configPath, err)
		}
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// withApp opens the application for the duration of fn. Pending writes are
// flushed before it returns.
func (o *rootOptions) withApp(cmd *cobra.Command, fn func(*app.App) error) (err error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	ctx := logger.WithContext(cmd.Context(), log)
	cmd.SetContext(ctx)

	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(a)
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (zerolog.Logger, error) {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return zerolog.Logger{}, err
	}
	return logger.New(cmd.ErrOrStderr(), level, logger.Format(cfg.Log.Format)), nil
}
