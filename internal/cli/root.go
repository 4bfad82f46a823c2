package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"plenapos/internal/config"
	"plenapos/internal/kv"
	"plenapos/internal/services"
)

// RootOptions holds global flags; empty values keep the environment configuration.
type RootOptions struct {
	Backend string
	DB      string
	Redis   string
	Format  string
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "plenapos",
		Short: "Plena Bebidas point of sale",
		Long:  "Point of sale and inventory for a beverage store: checkout, stock, reports and backups.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "store backend (sqlite|redis|memory)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "sqlite database path")
	cmd.PersistentFlags().StringVar(&opts.Redis, "redis", "", "redis address host:port")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// config resolves the environment configuration with flag overrides applied.
func (o *RootOptions) config() config.Config {
	cfg := config.Load()
	if o.Backend != "" {
		cfg.Backend = o.Backend
	}
	if o.DB != "" {
		cfg.DBDSN = o.DB
	}
	if o.Redis != "" {
		cfg.RedisAddr = o.Redis
	}
	return cfg
}

// open returns services over the configured store; the caller closes the store.
func (o *RootOptions) open(cfg config.Config) (*services.Services, error) {
	st, err := kv.Open(cfg)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "open store", err)
	}
	return services.New(st, cfg), nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}
