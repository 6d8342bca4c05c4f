package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-appointment-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

const defaultMaxRetries = 5

// GormConfig is shared by the server, the scripts and the tests.
// Appointments keep a plain user_id column: deleting a user must not cascade or fail.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	}
}

// Open opens a single connection pool without retrying
func Open(cfg DatabaseConfig) (*gorm.DB, error) {
	driver := strings.ToLower(cfg.Driver)
	switch driver {
	case "postgres", "postgresql":
		log.WithField("db_url", redactURL(cfg.URL)).Debug("Connecting to PostgreSQL")
		return gorm.Open(postgres.Open(cfg.DSN()), GormConfig())
	case "sqlite", "":
		log.WithField("db_path", cfg.Path).Debug("Connecting to SQLite")
		return gorm.Open(sqlite.Open(cfg.DSN()), GormConfig())
	default:
		return nil, fmt.Errorf("unsupported database driver: %s (supported: postgres, sqlite)", cfg.Driver)
	}
}

// InitDatabase initializes the database connection based on the provided configuration
// It supports both PostgreSQL and SQLite drivers with automatic retry logic and connection pooling
func InitDatabase(cfg DatabaseConfig) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	driver := strings.ToLower(cfg.Driver)

	log.WithFields(logrus.Fields{
		"db_driver": driver,
		"db_path":   cfg.Path,
	}).Info("Initializing database connection")

	// Retry logic with exponential backoff
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.WithFields(logrus.Fields{
			"attempt":     attempt,
			"max_retries": maxRetries,
		}).Info("Attempting database connection")

		db, err = Open(cfg)
		if err == nil {
			var sqlDB *sql.DB
			sqlDB, err = db.DB()
			if err == nil {
				err = sqlDB.Ping()
			}
			if err == nil {
				configureConnectionPool(sqlDB, driver)

				log.WithFields(logrus.Fields{
					"db_driver": driver,
					"attempt":   attempt,
				}).Info("Database initialized successfully")

				return db, nil
			}
			log.WithError(err).Error("Failed to ping database")
		}

		log.WithFields(logrus.Fields{
			"attempt": attempt,
			"error":   err.Error(),
		}).Warn("Database connection attempt failed")

		// Don't wait after the last attempt
		if attempt < maxRetries {
			delay := time.Duration(1<<(attempt-1)) * time.Second
			log.WithField("delay", delay).Info("Retrying database connection")
			time.Sleep(delay)
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// Migrate creates or updates the tables for every persisted model
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Appointment{},
		&models.Message{},
		&models.OAuthClient{},
		&models.OAuthToken{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// configureConnectionPool sets up connection pool parameters
func configureConnectionPool(sqlDB *sql.DB, driver string) {
	maxOpen, lifetime := 25, 5*time.Minute
	if driver == "sqlite" || driver == "" {
		// SQLite allows a single writer; an in-memory database lives as long as its connection.
		maxOpen, lifetime = 1, 0
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(min(5, maxOpen))
	sqlDB.SetConnMaxLifetime(lifetime)

	log.WithFields(logrus.Fields{
		"max_open_conns":    maxOpen,
		"conn_max_lifetime": lifetime.String(),
	}).Debug("Connection pool configured")
}
