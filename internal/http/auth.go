package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spellbook/spellbook/internal/auth"
)

// AuthController handles registration, login and the current-user endpoint.
type AuthController struct {
	service *auth.Service
	limiter *auth.LoginLimiter
}

// NewAuthController creates the controller. A nil limiter disables login
// throttling.
func NewAuthController(service *auth.Service, limiter *auth.LoginLimiter) *AuthController {
	return &AuthController{service: service, limiter: limiter}
}

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for login. Username may hold the email.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries a fresh bearer token and its user.
type TokenResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// Register creates a user account.
// POST /api/auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, token, err := ac.service.Register(req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameRequired),
			errors.Is(err, auth.ErrEmailRequired),
			errors.Is(err, auth.ErrPasswordRequired),
			errors.Is(err, auth.ErrUsernameInvalid),
			errors.Is(err, auth.ErrEmailInvalid),
			errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, auth.ErrPasswordTooLong),
			errors.Is(err, auth.ErrUserExists):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "register user")
		}
		return
	}

	respondCreated(c, TokenResponse{Token: token, User: user})
}

// Login authenticates a user by username or email.
// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if ac.limiter != nil {
		if allowed, retryAfter := ac.limiter.Allow(c.ClientIP(), req.Username); !allowed {
			c.Header("Retry-After", retryAfter.String())
			respondError(c, http.StatusTooManyRequests, "too many login attempts")
			return
		}
	}

	user, token, err := ac.service.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			if ac.limiter != nil {
				ac.limiter.RecordFailure(c.ClientIP(), req.Username)
			}
			respondError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondInternalError(c, err, "login")
		return
	}

	if ac.limiter != nil {
		ac.limiter.RecordSuccess(c.ClientIP(), req.Username)
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token, User: user})
}

// Me returns the authenticated user.
// GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.service.GetUserByID(GetUserID(c))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "get current user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
