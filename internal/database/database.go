package database

import (
	"fmt"

	"github.com/taskforge/task-manager-api/internal/config"
	"github.com/taskforge/task-manager-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialector builds the gorm dialector for the configured driver.
func Dialector(cfg config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		// clientFoundRows makes RowsAffected count matched rows, so an update
		// that changes nothing is not mistaken for a missing row.
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Name,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.Name,
			cfg.SSLMode,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.Name), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Open connects to the configured database.
func Open(cfg config.DBConfig, level logger.LogLevel) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := OpenWith(dialector, level)
	if err != nil {
		return nil, err
	}

	if cfg.Driver == "sqlite" {
		// Every connection to an in-memory database is a separate database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// OpenWith opens gorm on an existing dialector.
func OpenWith(dialector gorm.Dialector, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Task{}, "Assignees", &models.TaskAssignment{}); err != nil {
		return fmt.Errorf("failed to set up task assignments: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.TaskComment{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return AddIndexes(db)
}

// OpenInMemory returns a migrated in-memory SQLite database.
func OpenInMemory() (*gorm.DB, error) {
	db, err := Open(config.DBConfig{Driver: "sqlite", Name: ":memory:"}, logger.Silent)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
