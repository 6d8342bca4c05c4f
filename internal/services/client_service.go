package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/franciscosanchezn/gin-appointment-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientService manages the OAuth2 clients allowed to use /oauth/token
type ClientService interface {
	// CreateClient registers a client and returns it with its plain secret, which is not stored
	CreateClient(ctx context.Context, name, domain string, ownerID uint) (*models.OAuthClient, string, error)
	ListClients(ctx context.Context) ([]models.OAuthClient, error)
	GetClientByID(ctx context.Context, id string) (*models.OAuthClient, error)
	DeleteClient(ctx context.Context, id string) error
}

type clientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) ClientService {
	return &clientService{db: db}
}

func (s *clientService) CreateClient(ctx context.Context, name, domain string, ownerID uint) (*models.OAuthClient, string, error) {
	if strings.TrimSpace(name) == "" {
		return nil, "", fmt.Errorf("%w: client name is required", ErrInvalidInput)
	}

	secret := uuid.NewString()
	hashedSecret, err := HashPassword(secret)
	if err != nil {
		return nil, "", fmt.Errorf("hash client secret: %w", err)
	}

	client := &models.OAuthClient{
		ID:     uuid.NewString(),
		Secret: hashedSecret,
		Name:   name,
		Domain: domain,
		UserID: ownerID,
	}
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, "", fmt.Errorf("create client: %w", err)
	}
	return client, secret, nil
}

func (s *clientService) ListClients(ctx context.Context) ([]models.OAuthClient, error) {
	var clients []models.OAuthClient
	if err := s.db.WithContext(ctx).Order("created_at").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *clientService) GetClientByID(ctx context.Context, id string) (*models.OAuthClient, error) {
	var client models.OAuthClient
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&client).Error; err != nil {
		return nil, notFound(err, ErrClientNotFound)
	}
	return &client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.OAuthClient{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrClientNotFound
	}
	return nil
}
