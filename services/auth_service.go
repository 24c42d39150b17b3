package services

import (
	"errors"
	"time"

	"testline/models"
	"testline/storage"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues bearer tokens so the HTTP layer can identify callers.
// Account management beyond login lives outside this system.
type AuthService struct {
	store     storage.Store
	jwtSecret string
}

func NewAuthService(store storage.Store, jwtSecret string) *AuthService {
	return &AuthService{store: store, jwtSecret: jwtSecret}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *AuthService) Login(req *LoginRequest) (string, *models.User, error) {
	user, err := s.store.UserByUsername(req.Username)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})

	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, err
	}

	return signed, user, nil
}

func (s *AuthService) GetUser(id uint) (*models.User, error) {
	return s.store.UserByID(id)
}
