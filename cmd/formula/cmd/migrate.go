package cmd

import (
	"fmt"

	"github.com/soraformula/soraformula/internal/config"
	"github.com/soraformula/soraformula/internal/db"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the SQL record store schema (STORE_DRIVER=sqlite|pgx)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sqlConfig()
			if err != nil {
				return err
			}
			database, err := db.Open(cfg.StoreDriver, cfg.DBConnection)
			if err != nil {
				return err
			}
			defer database.Close()
			printf(cmd, "migrated %s\n", cfg.StoreDriver)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sqlConfig()
			if err != nil {
				return err
			}
			database, err := db.Init(cfg.StoreDriver, cfg.DBConnection)
			if err != nil {
				return err
			}
			defer database.Close()
			if err := db.MigrateDown(database.DB, cfg.StoreDriver); err != nil {
				return err
			}
			printf(cmd, "rolled back one migration\n")
			return nil
		},
	})

	return cmd
}

func sqlConfig() (*config.Config, error) {
	cfg := config.Load()
	if cfg.StoreDriver != "sqlite" && cfg.StoreDriver != "pgx" {
		return nil, fmt.Errorf("STORE_DRIVER=%s has no schema, want sqlite or pgx", cfg.StoreDriver)
	}
	return cfg, nil
}
