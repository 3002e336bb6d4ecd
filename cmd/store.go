package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/employee-directory/internal"
	employeeDatamodel "github.com/frahmantamala/employee-directory/internal/core/datamodel/employee"
	userDatamodel "github.com/frahmantamala/employee-directory/internal/core/datamodel/user"
	"github.com/frahmantamala/employee-directory/internal/employee"
	employeeMemory "github.com/frahmantamala/employee-directory/internal/employee/memory"
	employeePostgres "github.com/frahmantamala/employee-directory/internal/employee/postgres"
	"github.com/frahmantamala/employee-directory/internal/transport/rest"
	"github.com/frahmantamala/employee-directory/internal/user"
	userMemory "github.com/frahmantamala/employee-directory/internal/user/memory"
	userPostgres "github.com/frahmantamala/employee-directory/internal/user/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Store bundles the two record stores behind the selected backend.
type Store struct {
	Employees employee.RepositoryAPI
	Users     user.RepositoryAPI
	DB        *gorm.DB
}

func (s *Store) HealthChecks() map[string]rest.HealthCheck {
	if s.DB == nil {
		return nil
	}
	return map[string]rest.HealthCheck{
		s.DB.Dialector.Name(): func(ctx context.Context) error {
			sqlDB, err := s.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
}

func (s *Store) Close() error {
	if s.DB == nil {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func openStore(cfg internal.StoreConfig, logger *slog.Logger) (*Store, error) {
	if cfg.Driver == "memory" {
		logger.Info("using in-memory store; data is lost on restart")
		return &Store{
			Employees: employeeMemory.NewEmployeeRepository(),
			Users:     userMemory.NewUserRepository(),
		}, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("using SQL store", "driver", cfg.Driver)
	return &Store{
		Employees: employeePostgres.NewEmployeeRepository(db),
		Users:     userPostgres.NewUserRepository(db),
		DB:        db,
	}, nil
}

func openDB(cfg internal.StoreConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Source)
	case "sqlite":
		dialector = sqlite.Open(cfg.Source)
	default:
		return nil, fmt.Errorf("driver %q has no SQL backend", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// autoMigrate creates or updates the employees and users tables.
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&employeeDatamodel.Employee{}, &userDatamodel.User{})
}
