package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/franciscosanchezn/gin-appointment-api/internal/models"
	"gorm.io/gorm"
)

// ProfileUpdate carries the optional fields of PUT /profile
type ProfileUpdate struct {
	Username *string
	Password *string
}

// UserService is the credential store plus the admin operations on users
type UserService interface {
	// CreateUser inserts a user whose PasswordHash is already set
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id uint) error
	// SetRole changes the role of user id, which must exist, to "admin" or "user"
	SetRole(ctx context.Context, id uint, role string) (*models.User, error)
	// PromoteToAdmin grants the admin role by username
	PromoteToAdmin(ctx context.Context, username string) (*models.User, error)
	// UpdateProfile changes the caller's own username and/or password
	UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*models.User, error)
}

type userService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

func (s *userService) CreateUser(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	taken, err := s.usernameTaken(ctx, user.Username, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrUserAlreadyExists
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		// A concurrent registration can still hit the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteUser removes the user only; their appointments stay in place
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *userService) SetRole(ctx context.Context, id uint, role string) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	if err := s.db.WithContext(ctx).Model(user).Update("role", role).Error; err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

func (s *userService) PromoteToAdmin(ctx context.Context, username string) (*models.User, error) {
	user, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.SetRole(ctx, user.ID, models.RoleAdmin)
}

func (s *userService) UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if update.Username != nil {
		// trimmed the same way Register and login do; blank means unchanged
		name := strings.TrimSpace(*update.Username)
		if name != "" && name != user.Username {
			taken, err := s.usernameTaken(ctx, name, user.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrUserAlreadyExists
			}
			changes["username"] = name
		}
	}
	if update.Password != nil && *update.Password != "" {
		hash, err := HashPassword(*update.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		changes["password_hash"] = hash
	}
	if len(changes) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(changes).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	if name, ok := changes["username"].(string); ok {
		user.Username = name
	}
	return user, nil
}

func (s *userService) usernameTaken(ctx context.Context, username string, exceptID uint) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// notFound maps gorm's record-not-found onto the service's sentinel error
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
