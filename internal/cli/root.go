// Package cli implements ledgerctl, the operator's command line for the
// payment ledger. It shares configuration, storage and services with the
// HTTP server.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/diewo77/go-ledger/internal/config"
	"github.com/diewo77/go-ledger/internal/db"
	"github.com/diewo77/go-ledger/internal/logging"
	"github.com/diewo77/go-ledger/internal/services"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Opener opens the record store for a command.
type Opener func(ctx context.Context, cfg *config.Config, log *slog.Logger) (*gorm.DB, error)

// Options lets tests swap the store and the output streams. A store
// returned by a custom Open is left open when the command ends.
type Options struct {
	Out    io.Writer
	Err    io.Writer
	Open   Opener
	Config func() (*config.Config, error)
}

type app struct {
	opts    Options
	envFile string

	cfg    *config.Config
	log    *slog.Logger
	db     *gorm.DB
	ownsDB bool
}

func defaultOpen(ctx context.Context, cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	return db.Connect(ctx, cfg.Database, log)
}

// NewRootCmd builds the ledgerctl command tree.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	ownsDB := opts.Open == nil
	if ownsDB {
		opts.Open = defaultOpen
	}
	if opts.Config == nil {
		opts.Config = config.Load
	}
	a := &app{opts: opts, ownsDB: ownsDB}

	root := &cobra.Command{
		Use:               "ledgerctl",
		Short:             "Administer the payment ledger store",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(a.migrateCmd())
	root.AddCommand(a.seedCmd())
	root.AddCommand(a.accountCmd())
	root.AddCommand(a.paymentsCmd())
	root.AddCommand(a.sheetCmd())
	return root
}

// Execute runs ledgerctl against the real environment.
func Execute(version string) error {
	root := NewRootCmd(Options{})
	root.Version = version
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.envFile != "" {
		_ = godotenv.Load(a.envFile)
	}
	cfg, err := a.opts.Config()
	if err != nil {
		return err
	}
	a.cfg = cfg
	// logs go to stderr so command output stays machine readable
	a.log = logging.NewWithWriter(a.opts.Err, cfg.Logging)

	a.db, err = a.opts.Open(cmd.Context(), cfg, a.log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	return nil
}

func (a *app) close() error {
	if a.db == nil || !a.ownsDB {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (a *app) policy() services.Policy {
	return services.PolicyFromConfig(a.cfg.Policy)
}
