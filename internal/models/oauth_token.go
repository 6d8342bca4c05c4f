package models

import (
	"time"
)

// OAuthToken records a bearer token issued through the OAuth2 token endpoint
type OAuthToken struct {
	ID           uint    `gorm:"primaryKey"`
	ClientID     string  `gorm:"index;not null"`
	UserID       *string // Nullable for client-only grants
	AccessToken  string  `gorm:"uniqueIndex;not null"`
	RefreshToken *string `gorm:"index"`
	Scopes       string
	ExpiresAt    time.Time `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (OAuthToken) TableName() string {
	return "oauth_tokens"
}
