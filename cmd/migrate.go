package cmd

import (
	"errors"
	"fmt"

	"github.com/frahmantamala/employee-directory/pkg/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	RunE:  runMigration,
	Use:   "migrate",
	Short: "create or update the employees and users tables of the SQL store",
}

func runMigration(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger.Init(cfg.App.Env)
	lg := logger.LoggerWrapper()

	if cfg.Store.Driver == "memory" {
		return errors.New("migrate needs store.driver sqlite or postgres")
	}

	db, err := openDB(cfg.Store)
	if err != nil {
		return err
	}
	if err := autoMigrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	lg.Info("migration finished", "driver", cfg.Store.Driver)
	sqlDB, err := db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
