package auth

import (
	"context"
	"strconv"

	"github.com/go-oauth2/oauth2/v4"
	"github.com/go-oauth2/oauth2/v4/errors"
	"github.com/go-oauth2/oauth2/v4/manage"
	"github.com/go-oauth2/oauth2/v4/server"
	"gorm.io/gorm"
)

// PasswordVerifier checks a username/password pair and returns the user's id
type PasswordVerifier func(ctx context.Context, username, password string) (uint, error)

// OAuthService exposes an OAuth2 token endpoint (resource owner password grant)
// for registered API clients. Issued tokens are ordinary bearer tokens.
type OAuthService struct {
	server *server.Server
	db     *gorm.DB
}

func NewOAuthService(db *gorm.DB, tokens *TokenManager, verify PasswordVerifier) *OAuthService {
	manager := manage.NewDefaultManager()
	manager.SetPasswordTokenCfg(&manage.Config{
		AccessTokenExp:    tokens.TTL(),
		IsGenerateRefresh: false,
	})

	manager.MapAccessGenerate(NewSessionAccessGenerate(tokens))

	// Configure token store
	manager.MustTokenStorage(NewGormTokenStore(db), nil)

	// Configure client store
	manager.MapClientStorage(NewGormClientStore(db))

	srv := server.NewDefaultServer(manager)
	srv.SetAllowGetAccessRequest(false)
	srv.SetAllowedGrantType(oauth2.PasswordCredentials)
	srv.SetClientInfoHandler(server.ClientFormHandler)
	srv.SetPasswordAuthorizationHandler(func(ctx context.Context, clientID, username, password string) (string, error) {
		userID, err := verify(ctx, username, password)
		if err != nil {
			return "", errors.ErrInvalidGrant
		}
		return strconv.FormatUint(uint64(userID), 10), nil
	})

	return &OAuthService{
		server: srv,
		db:     db,
	}
}

func (o *OAuthService) GetServer() *server.Server {
	return o.server
}
