package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-appointment-api/internal/auth"
	"github.com/franciscosanchezn/gin-appointment-api/internal/models"
	"github.com/franciscosanchezn/gin-appointment-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	bcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type fixture struct {
	db           *gorm.DB
	users        UserService
	auth         AuthService
	appointments AppointmentService
	messages     *messageService
	clients      ClientService
	tokens       *auth.TokenManager
}

func newFixture(t *testing.T, opts ...auth.Option) *fixture {
	t.Helper()
	db := testutil.OpenTestDB(t)
	users := NewUserService(db)
	tokens := auth.NewTokenManager(testSecret, opts...)
	return &fixture{
		db:           db,
		users:        users,
		auth:         NewAuthService(users, tokens),
		appointments: NewAppointmentService(db),
		messages:     NewMessageService(db).(*messageService),
		clients:      NewClientService(db),
		tokens:       tokens,
	}
}

func (f *fixture) register(t *testing.T, username, password string) *models.User {
	t.Helper()
	user, err := f.auth.Register(context.Background(), username, password)
	require.NoError(t, err)
	return user
}

func (f *fixture) admin(t *testing.T, username string) *models.User {
	t.Helper()
	f.register(t, username, "secret")
	user, err := f.users.PromoteToAdmin(context.Background(), username)
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.register(t, "alice", "pw1")
	assert.NotZero(t, user.ID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "pw1", user.PasswordHash)
	assert.True(t, CheckPasswordHash("pw1", user.PasswordHash))

	t.Run("duplicate username is rejected", func(t *testing.T) {
		_, err := f.auth.Register(ctx, "alice", "other")
		assert.ErrorIs(t, err, ErrUserAlreadyExists)

		var count int64
		require.NoError(t, f.db.Model(&models.User{}).Where("username = ?", "alice").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("empty fields are rejected", func(t *testing.T) {
		_, err := f.auth.Register(ctx, "", "pw")
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = f.auth.Register(ctx, "bob", "")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "pw1")

	_, wrongPassword := f.auth.Login(ctx, "alice", "nope")
	_, unknownUser := f.auth.Login(ctx, "mallory", "nope")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLoginWithEmptyFieldsFailsAsCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "pw1")

	for _, c := range []struct{ username, password string }{
		{"alice", ""},
		{"", "pw1"},
		{"   ", "pw1"},
	} {
		_, err := f.auth.Login(ctx, c.username, c.password)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "%q/%q", c.username, c.password)
	}
}

func TestLoginIssuesTokenForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "pw1")

	token, err := f.auth.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	claims, err := f.tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, claims.UserID)
	assert.Equal(t, 2*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))

	user, err := f.auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestAuthenticateTokenLifetime(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, auth.WithClock(func() time.Time { return now }))
	ctx := context.Background()
	f.register(t, "alice", "pw1")

	token, err := f.auth.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	now = now.Add(119 * time.Minute)
	_, err = f.auth.Authenticate(ctx, token)
	assert.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = f.auth.Authenticate(ctx, token)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestAuthenticateDeletedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "pw1")

	token, err := f.auth.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.NoError(t, f.users.DeleteUser(ctx, alice.ID))

	_, err = f.auth.Authenticate(ctx, token)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Authenticate(ctx, "")
	assert.ErrorIs(t, err, auth.ErrTokenMissing)

	_, err = f.auth.Authenticate(ctx, "not.a.token")
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestListAppointmentsIsScopedToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "pw1")
	bob := f.register(t, "bob", "pw2")
	root := f.admin(t, "root")

	_, err := f.appointments.CreateAppointment(ctx, alice, "2024-01-01", "10:00", "checkup")
	require.NoError(t, err)
	_, err = f.appointments.CreateAppointment(ctx, bob, "2024-01-02", "11:00", "")
	require.NoError(t, err)
	_, err = f.appointments.CreateAppointment(ctx, alice, "2024-01-03", "12:00", "")
	require.NoError(t, err)

	mine, err := f.appointments.ListAppointments(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, a := range mine {
		assert.Equal(t, alice.ID, a.UserID)
		assert.Equal(t, "alice", a.ToResponse().Username)
	}
	assert.Equal(t, "2024-01-01", mine[0].Date)

	all, err := f.appointments.ListAppointments(ctx, root)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCreateAppointmentStoresOpaqueValues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "pw1")

	appt, err := f.appointments.CreateAppointment(ctx, alice, "", "next tuesday-ish", "")
	require.NoError(t, err)

	stored, err := f.appointments.GetAppointmentByID(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, "", stored.Date)
	assert.Equal(t, "next tuesday-ish", stored.Time)
}

func TestDeleteAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "pw1")
	bob := f.register(t, "bob", "pw2")
	root := f.admin(t, "root")

	appt, err := f.appointments.CreateAppointment(ctx, alice, "2024-01-01", "10:00", "")
	require.NoError(t, err)

	t.Run("other user is forbidden and record survives", func(t *testing.T) {
		err := f.appointments.DeleteAppointment(ctx, bob, appt.ID)
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = f.appointments.GetAppointmentByID(ctx, appt.ID)
		assert.NoError(t, err)
	})

	t.Run("missing appointment", func(t *testing.T) {
		err := f.appointments.DeleteAppointment(ctx, alice, 9999)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})

	t.Run("owner can delete", func(t *testing.T) {
		require.NoError(t, f.appointments.DeleteAppointment(ctx, alice, appt.ID))
		_, err := f.appointments.GetAppointmentByID(ctx, appt.ID)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})

	t.Run("admin can delete any", func(t *testing.T) {
		other, err := f.appointments.CreateAppointment(ctx, bob, "2024-02-01", "09:00", "")
		require.NoError(t, err)
		assert.NoError(t, f.appointments.DeleteAppointment(ctx, root, other.ID))
	})
}

func TestDeleteUserKeepsAppointments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "pw1")
	root := f.admin(t, "root")

	_, err := f.appointments.CreateAppointment(ctx, alice, "2024-01-01", "10:00", "")
	require.NoError(t, err)
	require.NoError(t, f.users.DeleteUser(ctx, alice.ID))

	all, err := f.appointments.ListAppointments(ctx, root)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, alice.ID, all[0].UserID)
	assert.Empty(t, all[0].ToResponse().Username)

	assert.ErrorIs(t, f.users.DeleteUser(ctx, alice.ID), ErrUserNotFound)
}

func TestSetRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "pw1")

	t.Run("invalid role leaves role unchanged", func(t *testing.T) {
		for _, role := range []string{"superuser", "Admin", ""} {
			_, err := f.users.SetRole(ctx, alice.ID, role)
			assert.ErrorIs(t, err, ErrInvalidRole, role)
		}
		user, err := f.users.GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, user.Role)
	})

	t.Run("missing user wins over invalid role", func(t *testing.T) {
		_, err := f.users.SetRole(ctx, 9999, "superuser")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("valid role is stored", func(t *testing.T) {
		user, err := f.users.SetRole(ctx, alice.ID, models.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, user.Role)

		stored, err := f.users.GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsAdmin())
	})
}

func TestPromoteToAdminUnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.PromoteToAdmin(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "pw1")
	f.register(t, "bob", "pw2")

	strPtr := func(s string) *string { return &s }

	t.Run("taken username is rejected", func(t *testing.T) {
		_, err := f.users.UpdateProfile(ctx, alice.ID, ProfileUpdate{Username: strPtr("bob")})
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})

	t.Run("empty username is ignored", func(t *testing.T) {
		user, err := f.users.UpdateProfile(ctx, alice.ID, ProfileUpdate{Username: strPtr("")})
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("whitespace-only username is ignored", func(t *testing.T) {
		user, err := f.users.UpdateProfile(ctx, alice.ID, ProfileUpdate{Username: strPtr("   ")})
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("padded username is stored trimmed", func(t *testing.T) {
		user, err := f.users.UpdateProfile(ctx, alice.ID, ProfileUpdate{Username: strPtr("  ally  ")})
		require.NoError(t, err)
		assert.Equal(t, "ally", user.Username)

		stored, err := f.users.GetUserByUsername(ctx, "ally")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, stored.ID)
		_, err = f.auth.Login(ctx, "ally", "pw1")
		assert.NoError(t, err)
	})

	t.Run("padded taken username is rejected", func(t *testing.T) {
		_, err := f.users.UpdateProfile(ctx, alice.ID, ProfileUpdate{Username: strPtr(" bob ")})
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})

	t.Run("rename and new password", func(t *testing.T) {
		user, err := f.users.UpdateProfile(ctx, alice.ID, ProfileUpdate{Username: strPtr("alicia"), Password: strPtr("pw9")})
		require.NoError(t, err)
		assert.Equal(t, "alicia", user.Username)

		_, err = f.auth.Login(ctx, "alicia", "pw9")
		assert.NoError(t, err)
		_, err = f.auth.Login(ctx, "alicia", "pw1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestListUsers(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "pw1")
	f.register(t, "bob", "pw2")

	users, err := f.users.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
}

func TestRecentMessagesCapAndOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	f.messages.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	for i := 1; i <= 150; i++ {
		_, err := f.messages.CreateMessage(ctx, "alice", "msg")
		require.NoError(t, err)
	}

	messages, err := f.messages.RecentMessages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, RecentMessagesLimit)

	// the 100 newest, oldest first
	assert.Equal(t, base.Add(51*time.Second), messages[0].Timestamp.UTC())
	assert.Equal(t, base.Add(150*time.Second), messages[len(messages)-1].Timestamp.UTC())
	for i := 1; i < len(messages); i++ {
		assert.False(t, messages[i].Timestamp.Before(messages[i-1].Timestamp))
	}
}

func TestCreateMessageStampsUTC(t *testing.T) {
	f := newFixture(t)
	local := time.FixedZone("UTC+3", 3*60*60)
	f.messages.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, local) }

	msg, err := f.messages.CreateMessage(context.Background(), "bob", "hi")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, msg.Timestamp.Location())
	assert.Equal(t, 9, msg.Timestamp.Hour())
}

func TestClientLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	root := f.admin(t, "root")

	client, secret, err := f.clients.CreateClient(ctx, "Mobile", "http://localhost", root.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, client.ID)
	assert.NotEqual(t, secret, client.Secret)
	assert.True(t, client.VerifyPassword(secret))

	list, err := f.clients.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, client.ID, list[0].ID)

	_, _, err = f.clients.CreateClient(ctx, " ", "", root.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, f.clients.DeleteClient(ctx, client.ID))
	assert.ErrorIs(t, f.clients.DeleteClient(ctx, client.ID), ErrClientNotFound)
	_, err = f.clients.GetClientByID(ctx, client.ID)
	assert.ErrorIs(t, err, ErrClientNotFound)
}
