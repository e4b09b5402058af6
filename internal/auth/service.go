package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/spellbook/spellbook/internal/config"
	"github.com/spellbook/spellbook/internal/entities"
)

// Validation patterns
var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("username or email already taken")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrAuthRequired     = errors.New("authentication required")
	ErrUsernameRequired = errors.New("username is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrUsernameInvalid  = errors.New("username must be 3-50 characters, alphanumeric and underscore/hyphen only")
	ErrEmailInvalid     = errors.New("invalid email format")
)

// Service handles registration, login and token verification.
type Service struct {
	db     *gorm.DB
	config config.Auth
}

// NewService creates a new authentication service. When no JWT secret is
// configured a random one is generated, which invalidates tokens across
// restarts; set AUTH_JWT_SECRET in production.
func NewService(db *gorm.DB, cfg config.Auth) *Service {
	if cfg.JWTSecret == "" {
		bytes := make([]byte, 32)
		if _, err := rand.Read(bytes); err == nil {
			cfg.JWTSecret = hex.EncodeToString(bytes)
		}
	}
	return &Service{
		db:     db,
		config: cfg,
	}
}

// Register creates a user and returns it with a fresh bearer token.
func (s *Service) Register(username, email, password string) (*entities.User, string, error) {
	if username == "" {
		return nil, "", ErrUsernameRequired
	}
	if email == "" {
		return nil, "", ErrEmailRequired
	}
	if password == "" {
		return nil, "", ErrPasswordRequired
	}
	if !usernamePattern.MatchString(username) {
		return nil, "", ErrUsernameInvalid
	}
	// RFC 5321 caps addresses at 254 bytes
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, "", ErrEmailInvalid
	}

	var existing entities.User
	err := s.db.Where("username = ? OR email = ?", username, email).First(&existing).Error
	if err == nil {
		return nil, "", ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate validates credentials and returns the user with a fresh
// bearer token. The username field may also hold the email address.
func (s *Service) Authenticate(username, password string) (*entities.User, string, error) {
	if username == "" || password == "" {
		return nil, "", ErrInvalidPassword
	}

	var user entities.User
	err := s.db.Where("username = ? OR email = ?", username, username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Burn a hash comparison so missing users cost the same as bad passwords.
		CheckPassword(password, "$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinv")
		return nil, "", ErrInvalidPassword
	}
	if err != nil {
		return nil, "", err
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, "", ErrInvalidPassword
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := s.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ValidateToken checks a bearer token and returns the associated user.
func (s *Service) ValidateToken(token string) (*entities.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims, err := ParseToken(s.config.JWTSecret, token)
	if err != nil {
		return nil, err
	}
	return s.GetUserByID(claims.UserID)
}

func (s *Service) issueToken(user *entities.User) (string, error) {
	token, err := IssueToken(s.config.JWTSecret, user.ID, user.Username, s.config.TokenExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}
