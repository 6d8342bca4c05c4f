package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/franciscosanchezn/gin-appointment-api/internal/config"
	"github.com/franciscosanchezn/gin-appointment-api/internal/database"
	"github.com/franciscosanchezn/gin-appointment-api/internal/services"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// create_client registers an OAuth2 API client owned by an admin and prints its secret once:
//
//	go run ./scripts/create_client -name "Mobile app" -owner alice
func main() {
	_ = godotenv.Load()
	log.SetLevel(log.WarnLevel)

	name := flag.String("name", "", "Client name")
	owner := flag.String("owner", "", "Username of the admin owning the client")
	domain := flag.String("domain", "http://localhost", "Client domain")
	flag.Parse()

	if *name == "" || *owner == "" {
		flag.Usage()
		os.Exit(1)
	}

	dbConfig, err := database.ParseDatabaseURL(config.GetEnvWithDefault("DATABASE_URL", config.DefaultDatabaseURL))
	if err != nil {
		log.Fatal(err)
	}
	dbConfig.MaxRetries = 1

	db, err := database.InitDatabase(dbConfig)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	port := config.GetEnvAsType("PORT", config.DefaultPort)
	err = createClient(context.Background(), services.NewUserService(db), services.NewClientService(db), *name, *domain, *owner, port, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func createClient(ctx context.Context, users services.UserService, clients services.ClientService, name, domain, owner string, port int, out io.Writer) error {
	user, err := users.GetUserByUsername(ctx, owner)
	if errors.Is(err, services.ErrUserNotFound) {
		return fmt.Errorf("user not found: %s", owner)
	}
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return fmt.Errorf("user %s is not an admin", owner)
	}

	client, secret, err := clients.CreateClient(ctx, name, domain, user.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "OAuth client created for %s\n", user.Username)
	fmt.Fprintf(out, "Client ID: %s\n", client.ID)
	fmt.Fprintf(out, "Client Secret: %s\n", secret)
	fmt.Fprintln(out, "\nExchange user credentials for a token with:")
	fmt.Fprintf(out, "curl -X POST http://localhost:%d/oauth/token \\\n", port)
	fmt.Fprintln(out, "  -d 'grant_type=password' \\")
	fmt.Fprintf(out, "  -d 'client_id=%s' \\\n", client.ID)
	fmt.Fprintf(out, "  -d 'client_secret=%s' \\\n", secret)
	fmt.Fprintln(out, "  -d 'username=<username>' -d 'password=<password>'")
	return nil
}
