package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/franciscosanchezn/gin-appointment-api/internal/config"
	"github.com/franciscosanchezn/gin-appointment-api/internal/database"
	"github.com/franciscosanchezn/gin-appointment-api/internal/services"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// make_admin promotes an existing user to the admin role:
//
//	go run ./scripts/make_admin <username>
func main() {
	_ = godotenv.Load()
	log.SetLevel(log.WarnLevel)

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("usage: make_admin <username>")
	}
	username := args[0]

	dbConfig, err := database.ParseDatabaseURL(config.GetEnvWithDefault("DATABASE_URL", config.DefaultDatabaseURL))
	if err != nil {
		return err
	}
	dbConfig.MaxRetries = 1

	db, err := database.InitDatabase(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	return promote(ctx, services.NewUserService(db), username, out)
}

func promote(ctx context.Context, users services.UserService, username string, out io.Writer) error {
	user, err := users.PromoteToAdmin(ctx, username)
	if errors.Is(err, services.ErrUserNotFound) {
		return fmt.Errorf("user not found: %s", username)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s is now an admin\n", user.Username)
	return nil
}
