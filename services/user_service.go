package services

import (
	"errors"
	"fmt"
	"time"

	"fleetops/models"
	"fleetops/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type UserService struct {
	repo       *repositories.UserRepository
	secret     []byte
	expiration time.Duration
}

func NewUserService(repo *repositories.UserRepository, secret string, expiration time.Duration) *UserService {
	return &UserService{repo: repo, secret: []byte(secret), expiration: expiration}
}

// CreateUser stores a new dispatcher with a bcrypt hash of password.
func (s *UserService) CreateUser(username, name, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{Username: username, Name: name, Password: string(hash), Active: true}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and returns a signed access token.
func (s *UserService) Login(username, password string) (string, *models.User, error) {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.Active {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.expiration).Unix(),
		"jti":      uuid.NewString(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, user, nil
}
