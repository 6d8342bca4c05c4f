package models

import (
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// OAuthClient is an API consumer allowed to exchange user credentials for a bearer token
// at /oauth/token. Secret holds a bcrypt hash; the plain secret is shown once at creation.
type OAuthClient struct {
	ID        string         `gorm:"primaryKey;size:64" json:"client_id"`
	Secret    string         `gorm:"not null" json:"-"`
	Name      string         `gorm:"not null" json:"name"`
	Domain    string         `json:"domain"`
	UserID    uint           `gorm:"index" json:"user_id"` // admin who registered the client
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (OAuthClient) TableName() string {
	return "oauth_clients"
}

// GetID, GetSecret, GetDomain, IsPublic and GetUserID satisfy oauth2.ClientInfo.

func (c *OAuthClient) GetID() string     { return c.ID }
func (c *OAuthClient) GetSecret() string { return c.Secret }
func (c *OAuthClient) GetDomain() string { return c.Domain }
func (c *OAuthClient) IsPublic() bool    { return false }

func (c *OAuthClient) GetUserID() string {
	if c.UserID == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(c.UserID), 10)
}

// VerifyPassword satisfies oauth2.ClientPasswordVerifier against the hashed secret
func (c *OAuthClient) VerifyPassword(secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.Secret), []byte(secret)) == nil
}
