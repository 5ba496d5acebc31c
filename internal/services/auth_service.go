package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"repairshop_backend/internal/models"
	"repairshop_backend/pkg/utils"
)

// Account is an operator login configured at startup.
type Account struct {
	Username string
	Password string
	Role     string
}

// --- AuthService Interface ---
type AuthService interface {
	Login(req models.Credentials) (*models.LoginResponse, error)
	GetUserProfile(username string) (*models.User, error)
}

// --- authService Implementation ---
type authService struct {
	users  map[string]models.User
	tokens *utils.TokenManager
}

// NewAuthService hashes the configured accounts. Accounts with an empty username or
// password are skipped.
func NewAuthService(accounts []Account, tokens *utils.TokenManager) (AuthService, error) {
	users := make(map[string]models.User, len(accounts))
	for _, acc := range accounts {
		username := strings.TrimSpace(acc.Username)
		if username == "" || acc.Password == "" {
			continue
		}
		if acc.Role != models.RoleAdmin && acc.Role != models.RoleStaff {
			return nil, fmt.Errorf("account %s: unknown role %q", username, acc.Role)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %s: %w", username, err)
		}
		users[strings.ToLower(username)] = models.User{Username: username, PasswordHash: string(hash), Role: acc.Role}
	}
	return &authService{users: users, tokens: tokens}, nil
}

// Login handles user login and token generation.
func (s *authService) Login(req models.Credentials) (*models.LoginResponse, error) {
	user, ok := s.users[strings.ToLower(strings.TrimSpace(req.Username))]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	user.PasswordHash = ""
	return &models.LoginResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		User:        user,
	}, nil
}

// GetUserProfile returns the account without its password hash.
func (s *authService) GetUserProfile(username string) (*models.User, error) {
	user, ok := s.users[strings.ToLower(username)]
	if !ok {
		return nil, ErrUserNotFound
	}
	user.PasswordHash = ""
	return &user, nil
}
