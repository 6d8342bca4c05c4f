package auth

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-oauth2/oauth2/v4"
)

// SessionAccessGenerate makes the OAuth2 token endpoint hand out the same bearer
// tokens as /login, so a single middleware accepts both.
type SessionAccessGenerate struct {
	tokens *TokenManager
}

// NewSessionAccessGenerate creates an access generator signing with tokens
func NewSessionAccessGenerate(tokens *TokenManager) *SessionAccessGenerate {
	return &SessionAccessGenerate{tokens: tokens}
}

// Token generates a JWT access token for the resource owner of the grant.
// This method is called by the OAuth2 library; refresh tokens are not issued.
func (g *SessionAccessGenerate) Token(ctx context.Context, data *oauth2.GenerateBasic, isGenRefresh bool) (string, string, error) {
	// For password grants GenerateBasic.UserID comes from the password handler,
	// otherwise fall back to the admin who owns the client
	userID := data.UserID
	if userID == "" && data.Client != nil {
		userID = data.Client.GetUserID()
	}
	if userID == "" {
		return "", "", fmt.Errorf("cannot generate token: no user ID available")
	}

	id, err := strconv.ParseUint(userID, 10, 32)
	if err != nil {
		return "", "", fmt.Errorf("invalid user ID format: %w", err)
	}

	createdAt := data.TokenInfo.GetAccessCreateAt()
	expiresIn := data.TokenInfo.GetAccessExpiresIn()
	if expiresIn <= 0 {
		expiresIn = g.tokens.TTL()
	}

	clientID := ""
	if data.Client != nil {
		clientID = data.Client.GetID()
	}

	access, err := g.tokens.sign(uint(id), createdAt, createdAt.Add(expiresIn), clientID)
	if err != nil {
		return "", "", err
	}
	return access, "", nil
}
