package services

import (
	"errors"
	"strings"

	"ambidream/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AuthUserStore interface {
	FindByNormalizedEmail(email string) (models.User, error)
	ExistsByNormalizedEmail(email string) (bool, error)
	Create(user *models.User) error
}

type AuthService struct {
	users AuthUserStore
}

func NewAuthService(users AuthUserStore) *AuthService {
	return &AuthService{users: users}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (service *AuthService) Register(email string, password string, name string) (models.User, error) {
	normalized := NormalizeEmail(email)

	taken, err := service.users.ExistsByNormalizedEmail(normalized)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, ErrEmailTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:        normalized,
		PasswordHash: string(passwordHash),
		Name:         strings.TrimSpace(name),
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (service *AuthService) Authenticate(email string, password string) (models.User, error) {
	user, err := service.users.FindByNormalizedEmail(NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}
