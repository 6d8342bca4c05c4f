package database

import (
	"strings"
	"testing"

	"github.com/franciscosanchezn/gin-appointment-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDatabaseURL(t *testing.T) {
	testCases := []struct {
		name   string
		raw    string
		driver string
		dsn    string
	}{
		{name: "relative sqlite file", raw: "sqlite:///database.db", driver: "sqlite", dsn: "database.db"},
		{name: "absolute sqlite file", raw: "sqlite:////var/lib/app.db", driver: "sqlite", dsn: "/var/lib/app.db"},
		{name: "sqlite memory shorthand", raw: "sqlite://", driver: "sqlite", dsn: ":memory:"},
		{name: "sqlite explicit memory", raw: "sqlite:///:memory:", driver: "sqlite", dsn: ":memory:"},
		{name: "bare path", raw: "app.db", driver: "sqlite", dsn: "app.db"},
		{name: "postgres", raw: "postgres://app:pw@db:5432/appointments?sslmode=disable", driver: "postgres", dsn: "postgres://app:pw@db:5432/appointments?sslmode=disable"},
		{name: "postgresql alias", raw: "postgresql://db/appointments", driver: "postgres", dsn: "postgresql://db/appointments"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseDatabaseURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.driver, cfg.Driver)
			assert.Equal(t, tt.dsn, cfg.DSN())
		})
	}
}

func TestParseDatabaseURLRejectsUnknownScheme(t *testing.T) {
	_, err := ParseDatabaseURL("mysql://root@localhost/app")
	assert.Error(t, err)

	_, err = ParseDatabaseURL("   ")
	assert.Error(t, err)
}

func TestDatabaseConfigStringMasksPassword(t *testing.T) {
	cfg, err := ParseDatabaseURL("postgres://app:hunter2@db:5432/appointments")
	require.NoError(t, err)

	assert.False(t, strings.Contains(cfg.String(), "hunter2"))
}

func TestInitDatabaseAndMigrateInMemory(t *testing.T) {
	db, err := InitDatabase(DatabaseConfig{Driver: "sqlite", Path: ":memory:", MaxRetries: 1})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.Appointment{}))
	assert.True(t, db.Migrator().HasTable(&models.Message{}))
	assert.True(t, db.Migrator().HasTable(&models.OAuthClient{}))
	assert.True(t, db.Migrator().HasTable(&models.OAuthToken{}))
}

func TestInitDatabaseUnsupportedDriver(t *testing.T) {
	_, err := InitDatabase(DatabaseConfig{Driver: "oracle", MaxRetries: 1})
	assert.Error(t, err)
}
