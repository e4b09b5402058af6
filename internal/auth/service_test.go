package auth

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/spellbook/spellbook/internal/config"
	"github.com/spellbook/spellbook/internal/database"
)

func setupService(t *testing.T) (*Service, func()) {
	t.Helper()
	dbPath := "./test_auth_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	service := NewService(db, config.Auth{
		JWTSecret:   "test-secret",
		TokenExpiry: time.Hour,
		BcryptCost:  bcrypt.MinCost,
	})

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}
	return service, cleanup
}

func TestService_Register(t *testing.T) {
	service, cleanup := setupService(t)
	defer cleanup()

	user, token, err := service.Register("alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NotEmpty(t, token)

	got, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestService_Register_Validation(t *testing.T) {
	service, cleanup := setupService(t)
	defer cleanup()

	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{"empty username", "", "a@example.com", "secret123", ErrUsernameRequired},
		{"empty email", "alice", "", "secret123", ErrEmailRequired},
		{"empty password", "alice", "a@example.com", "", ErrPasswordRequired},
		{"username too short", "ab", "a@example.com", "secret123", ErrUsernameInvalid},
		{"username with spaces", "a b c", "a@example.com", "secret123", ErrUsernameInvalid},
		{"malformed email", "alice", "not-an-email", "secret123", ErrEmailInvalid},
		{"short password", "alice", "a@example.com", "abc", ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := service.Register(tt.username, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Register_Duplicate(t *testing.T) {
	service, cleanup := setupService(t)
	defer cleanup()

	_, _, err := service.Register("alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	t.Run("same username", func(t *testing.T) {
		_, _, err := service.Register("alice", "other@example.com", "secret123")
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("same email", func(t *testing.T) {
		_, _, err := service.Register("bob", "alice@example.com", "secret123")
		assert.ErrorIs(t, err, ErrUserExists)
	})
}

func TestService_Authenticate(t *testing.T) {
	service, cleanup := setupService(t)
	defer cleanup()

	registered, _, err := service.Register("alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	t.Run("by username", func(t *testing.T) {
		user, token, err := service.Authenticate("alice", "secret123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("by email", func(t *testing.T) {
		user, _, err := service.Authenticate("alice@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := service.Authenticate("alice", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := service.Authenticate("nobody", "secret123")
		assert.ErrorIs(t, err, ErrInvalidPassword, "missing users look like bad passwords")
	})
}

func TestService_ValidateToken(t *testing.T) {
	service, cleanup := setupService(t)
	defer cleanup()

	t.Run("empty token", func(t *testing.T) {
		_, err := service.ValidateToken("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token for deleted user", func(t *testing.T) {
		user, token, err := service.Register("alice", "alice@example.com", "secret123")
		require.NoError(t, err)
		require.NoError(t, service.db.Delete(user).Error)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
