package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/franciscosanchezn/gin-appointment-api/internal/auth"
	"github.com/franciscosanchezn/gin-appointment-api/internal/config"
	"github.com/franciscosanchezn/gin-appointment-api/internal/database"
	"github.com/franciscosanchezn/gin-appointment-api/internal/realtime"
	"github.com/franciscosanchezn/gin-appointment-api/internal/router"
	"github.com/franciscosanchezn/gin-appointment-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// @title Appointment API
// @version 1.0
// @description Appointment booking and chat API
// @host localhost:5000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token from /login.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration := loadConfig()
	log.SetLevel(configuration.Level())
	if configuration.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database connection
	db := setupDatabase(configuration)

	// Initialize services
	tokens := auth.NewTokenManager(configuration.SecretKey)
	userService := services.NewUserService(db)
	authService := services.NewAuthService(userService, tokens)
	messageService := services.NewMessageService(db)

	oauthService := auth.NewOAuthService(db, tokens, func(ctx context.Context, username, password string) (uint, error) {
		user, err := authService.VerifyCredentials(ctx, username, password)
		if err != nil {
			return 0, err
		}
		return user.ID, nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub()
	go hub.Run(ctx)

	// Initialize Gin router
	engine := router.New(router.Dependencies{
		AllowedOrigins: configuration.AllowedOrigins,
		Auth:           authService,
		Users:          userService,
		Appointments:   services.NewAppointmentService(db),
		Messages:       messageService,
		Clients:        services.NewClientService(db),
		OAuth:          oauthService,
		Hub:            hub,
	})

	srv := &http.Server{
		Addr:              configuration.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the server
	go func() {
		log.Infof("Starting server on %s", configuration.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
	closeDatabase(db)
	log.Info("Server stopped")
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(config.LevelForEnvironment(config.GetEnvWithDefault("APP_ENV", "development")))
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase connects, migrates the schema and clears expired API tokens
func setupDatabase(conf *config.Config) *gorm.DB {
	dbConfig, err := database.ParseDatabaseURL(conf.DatabaseURL)
	checkPanicErr(err)
	dbConfig.MaxRetries = config.GetEnvAsType("DB_CONNECT_RETRIES", 5)

	db, err := database.InitDatabase(dbConfig)
	checkPanicErr(err)
	checkPanicErr(database.Migrate(db))

	purged, err := auth.NewGormTokenStore(db).PurgeExpired(context.Background(), time.Now())
	if err != nil {
		log.WithError(err).Warn("Failed to purge expired OAuth2 tokens")
	} else if purged > 0 {
		log.WithField("purged", purged).Info("Removed expired OAuth2 tokens")
	}
	return db
}

func closeDatabase(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.WithError(err).Warn("Failed to close database")
	}
}
