package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/franciscosanchezn/gin-appointment-api/internal/models"
	"github.com/franciscosanchezn/gin-appointment-api/internal/services"
	"github.com/franciscosanchezn/gin-appointment-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClient(t *testing.T) {
	db := testutil.OpenTestDB(t)
	users := services.NewUserService(db)
	clients := services.NewClientService(db)
	ctx := context.Background()

	require.NoError(t, users.CreateUser(ctx, &models.User{Username: "root", PasswordHash: "x", Role: models.RoleAdmin}))
	require.NoError(t, users.CreateUser(ctx, &models.User{Username: "alice", PasswordHash: "x"}))

	t.Run("admin owner", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, createClient(ctx, users, clients, "Mobile", "http://localhost", "root", 5000, &out))
		assert.Contains(t, out.String(), "Client Secret:")
		assert.Contains(t, out.String(), "http://localhost:5000/oauth/token")

		list, err := clients.ListClients(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Mobile", list[0].Name)
	})

	t.Run("non-admin owner", func(t *testing.T) {
		var out bytes.Buffer
		err := createClient(ctx, users, clients, "Other", "", "alice", 5000, &out)
		assert.EqualError(t, err, "user alice is not an admin")
	})

	t.Run("unknown owner", func(t *testing.T) {
		var out bytes.Buffer
		err := createClient(ctx, users, clients, "Other", "", "ghost", 5000, &out)
		assert.EqualError(t, err, "user not found: ghost")
	})
}
