package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/wealthcrm/backend/internal/infrastructure/config"
	"github.com/wealthcrm/backend/internal/infrastructure/logger"
	"github.com/wealthcrm/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

const defaultMigrationsRoot = "internal/infrastructure/migration/sql"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli carries state shared by every subcommand.
type cli struct {
	migrationsRoot string
	logLevel       string
	log            *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "migrate",
		Short: "Wealth CRM database migration tool",
		Long: `Applies the embedded schema migrations to the configured database.

The database is selected through the CRM_DATABASE_* environment variables
(DRIVER, PATH, HOST, PORT, USER, PASSWORD, DBNAME, SSLMODE) or config.toml.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(logger.Config{
				Level:  c.logLevel,
				Format: "console",
				Output: "stdout",
			})
			if err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			c.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.migrationsRoot, "path", defaultMigrationsRoot, "root directory holding the per-driver migration folders (used by create)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		c.newUpCmd(),
		c.newDownCmd(),
		c.newStepCmd(),
		c.newVersionCmd(),
		c.newForceCmd(),
		c.newCreateCmd(),
		c.newListCmd(),
	)
	return root
}

// withMigrator loads configuration, opens a migrator and closes it after fn.
func (c *cli) withMigrator(command string, fn func(m *migration.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	c.log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("driver", cfg.Database.Driver),
	)

	m, err := migration.NewFromURL(cfg.Database.MigrationURL(), c.log)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			c.log.Error("Error closing migrator", zap.Error(err))
		}
	}()
	return fn(m)
}

func (c *cli) newUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withMigrator("up", func(m *migration.Migrator) error {
				return m.Up()
			})
		},
	}
}

func (c *cli) newDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withMigrator("down", func(m *migration.Migrator) error {
				return m.Down()
			})
		},
	}
}

func (c *cli) newStepCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "step <n>",
		Short:   "Apply n migrations (positive=up, negative=down)",
		Example: "  migrate step -- -1",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			return c.withMigrator("step", func(m *migration.Migrator) error {
				return m.Steps(n)
			})
		},
	}
}

func (c *cli) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show current migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withMigrator("version", func(m *migration.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				if version == 0 {
					c.log.Info("No migrations applied")
					return nil
				}
				c.log.Info("Current migration version",
					zap.Uint("version", version),
					zap.Bool("dirty", dirty),
				)
				return nil
			})
		},
	}
}

func (c *cli) newForceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "force <version>",
		Short: "Force set migration version (use with caution)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version number %q", args[0])
			}
			return c.withMigrator("force", func(m *migration.Migrator) error {
				c.log.Warn("Forcing migration version - use with caution!")
				return m.Force(version)
			})
		},
	}
}

// create only writes files and needs no configuration
func (c *cli) newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "create <name>",
		Short:   "Create a new migration pair for every driver",
		Example: "  migrate create add_reminder_channel",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absRoot, err := filepath.Abs(c.migrationsRoot)
			if err != nil {
				return fmt.Errorf("resolving migration root: %w", err)
			}
			mf, err := migration.CreateMigration(absRoot, args[0])
			if err != nil {
				return err
			}
			c.log.Info("Migration created successfully",
				zap.Int("version", mf.Version),
				zap.String("name", mf.Name),
				zap.Strings("files", mf.Paths),
			)
			return nil
		},
	}
}

// list reads the embedded migrations and needs no connection
func (c *cli) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the migrations embedded for the configured driver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			names, err := migration.Embedded(cfg.Database.MigrationURL())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				c.log.Info("No migrations found")
				return nil
			}
			c.log.Info("Available migrations", zap.Int("count", len(names)))
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), "  -", name)
			}
			return nil
		},
	}
}
