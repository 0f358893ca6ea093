package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/frontdesk-api/internal/infrastructure/postgres"
	"github.com/jhoicas/frontdesk-api/pkg/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones pendientes de PostgreSQL",
	Example: `  frontdesk migrate
  frontdesk migrate --status`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().Bool("status", false, "Solo mostrar el estado de las migraciones")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup("migrate")
	if err != nil {
		return err
	}
	if cfg.DB.Persistence != config.PersistencePostgres {
		return fmt.Errorf("migrate requiere PERSISTENCE=%s", config.PersistencePostgres)
	}
	statusOnly, _ := cmd.Flags().GetBool("status")

	ctx := cmd.Context()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if statusOnly {
		return postgres.MigrationStatus(ctx, pool, log)
	}
	return postgres.Migrate(ctx, pool, log)
}
