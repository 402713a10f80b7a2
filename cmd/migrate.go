package cmd

import (
	"errors"
	"fmt"

	"esim-catalog/core/database"
	"esim-catalog/feature/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd is the parent command for schema management.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the catalog database schema",
	Long: `Applies the versioned SQL migrations on MySQL.
Other drivers (postgres, sqlite) are provisioned with AutoMigrate by "migrate up".`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		mg, err := database.NewMigrator(rt.cfg.Database)
		if errors.Is(err, database.ErrMigrationsUnsupported) {
			rt.logger.Info("Versioned migrations unavailable, running AutoMigrate", zap.String("driver", rt.cfg.Database.Driver))
			if err := catalog.AutoMigrate(rt.db); err != nil {
				return err
			}
			rt.logger.Info("Schema up to date")
			return nil
		}
		if err != nil {
			return err
		}
		defer mg.Close()

		if err := mg.Up(); err != nil {
			return err
		}
		version, _, err := mg.Version()
		if err != nil {
			return err
		}
		rt.logger.Info("Migrations applied", zap.Uint("version", version))
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the latest migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(mg *database.Migrator) error {
			if !confirmDestructiveAction() {
				fmt.Println("Aborted.")
				return nil
			}
			return mg.Down()
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied migration version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(mg *database.Migrator) error {
			version, dirty, err := mg.Version()
			if err != nil {
				return err
			}
			fmt.Printf("Version: %d\n", version)
			if dirty {
				fmt.Println("Dirty: true (a previous migration failed halfway)")
			}
			return nil
		})
	},
}

func withMigrator(fn func(mg *database.Migrator) error) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.close()

	mg, err := database.NewMigrator(rt.cfg.Database)
	if err != nil {
		return err
	}
	defer mg.Close()
	return fn(mg)
}

func init() {
	RootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	migrateDownCmd.Flags().BoolVarP(&yesConfirm, "yes", "y", false, "Skip the confirmation prompt")
}
