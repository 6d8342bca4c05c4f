package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-appointment-api/internal/models"
	"github.com/franciscosanchezn/gin-appointment-api/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// staticVerifier accepts alice/pw1 as user 7
func staticVerifier(ctx context.Context, username, password string) (uint, error) {
	if username == "alice" && password == "pw1" {
		return 7, nil
	}
	return 0, errors.New("invalid credentials")
}

func createTestClient(t *testing.T, db *gorm.DB, id, secret string) {
	t.Helper()
	hashedSecret, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	require.NoError(t, err)
	client := &models.OAuthClient{
		ID:     id,
		Secret: string(hashedSecret),
		Name:   "Test client",
		Domain: "http://localhost:5000",
		UserID: 1,
	}
	require.NoError(t, db.Create(client).Error)
}

func setupTokenRouter(oauthService *OAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/oauth/token", oauthService.HandleToken)
	return router
}

func postTokenRequest(router *gin.Engine, form string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/oauth/token", bytes.NewBufferString(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestOAuthServerInitialization(t *testing.T) {
	db := testutil.OpenTestDB(t)

	oauthService := NewOAuthService(db, NewTokenManager(testSecret), staticVerifier)
	assert.NotNil(t, oauthService)
	assert.NotNil(t, oauthService.GetServer())
}

func TestPasswordGrantIssuesSessionToken(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tokens := NewTokenManager(testSecret)
	oauthService := NewOAuthService(db, tokens, staticVerifier)
	createTestClient(t, db, "test_client_id", "test_secret")

	router := setupTokenRouter(oauthService)
	w := postTokenRequest(router, "grant_type=password&client_id=test_client_id&client_secret=test_secret&username=alice&password=pw1")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Bearer", response["token_type"])
	assert.EqualValues(t, DefaultTokenTTL/time.Second, response["expires_in"])

	// The access token is accepted by the same parser used for /login tokens
	accessToken, ok := response["access_token"].(string)
	require.True(t, ok)
	claims, err := tokens.Parse(accessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)

	// And the issued token is recorded
	var count int64
	db.Model(&models.OAuthToken{}).Where("access_token = ?", accessToken).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPasswordGrantInvalidClientSecret(t *testing.T) {
	db := testutil.OpenTestDB(t)
	oauthService := NewOAuthService(db, NewTokenManager(testSecret), staticVerifier)
	createTestClient(t, db, "test_client_id", "correct_secret")

	router := setupTokenRouter(oauthService)
	w := postTokenRequest(router, "grant_type=password&client_id=test_client_id&client_secret=wrong_secret&username=alice&password=pw1")

	assert.True(t, w.Code >= 400)
	assert.NotContains(t, w.Body.String(), "access_token")
}

func TestPasswordGrantInvalidUserCredentials(t *testing.T) {
	db := testutil.OpenTestDB(t)
	oauthService := NewOAuthService(db, NewTokenManager(testSecret), staticVerifier)
	createTestClient(t, db, "test_client_id", "test_secret")

	router := setupTokenRouter(oauthService)
	w := postTokenRequest(router, "grant_type=password&client_id=test_client_id&client_secret=test_secret&username=alice&password=nope")

	assert.True(t, w.Code >= 400)
	assert.NotContains(t, w.Body.String(), "access_token")
}

func TestClientCredentialsGrantIsNotAllowed(t *testing.T) {
	db := testutil.OpenTestDB(t)
	oauthService := NewOAuthService(db, NewTokenManager(testSecret), staticVerifier)
	createTestClient(t, db, "test_client_id", "test_secret")

	router := setupTokenRouter(oauthService)
	w := postTokenRequest(router, "grant_type=client_credentials&client_id=test_client_id&client_secret=test_secret")

	assert.True(t, w.Code >= 400)
}

func TestClientStoreIntegration(t *testing.T) {
	db := testutil.OpenTestDB(t)
	createTestClient(t, db, "integration_test_client", "integration_test_secret")

	clientStore := NewGormClientStore(db)
	retrievedClient, err := clientStore.GetByID(context.Background(), "integration_test_client")
	require.NoError(t, err)
	assert.Equal(t, "integration_test_client", retrievedClient.GetID())
	assert.Equal(t, "1", retrievedClient.GetUserID())

	_, err = clientStore.GetByID(context.Background(), "missing")
	assert.Error(t, err)
}

func TestTokenStorePurgeExpired(t *testing.T) {
	db := testutil.OpenTestDB(t)
	store := NewGormTokenStore(db)
	now := time.Now()

	require.NoError(t, db.Create(&models.OAuthToken{ClientID: "c", AccessToken: "old", ExpiresAt: now.Add(-time.Minute)}).Error)
	require.NoError(t, db.Create(&models.OAuthToken{ClientID: "c", AccessToken: "fresh", ExpiresAt: now.Add(time.Hour)}).Error)

	purged, err := store.PurgeExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = store.GetByAccess(context.Background(), "old")
	assert.Error(t, err)
	info, err := store.GetByAccess(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, "c", info.GetClientID())
}
