// Package auth provides user registration, login and JWT bearer-token
// verification.
//
// Passwords are stored as bcrypt hashes; tokens are HS256-signed JWTs
// carrying the user id and username. Login attempts are throttled per
// IP+username pair by LoginLimiter.
//
// # Configuration
//
//	AUTH_JWT_SECRET=<secret>    # Auto-generated at startup if empty
//	AUTH_TOKEN_EXPIRY=168h      # Token lifetime (7 days default)
//	AUTH_BCRYPT_COST=10         # bcrypt cost factor
//
// # Usage
//
// Initialize in entrypoint:
//
//	authService := auth.NewService(db, cfg.Auth)
//	authMiddleware := auth.NewMiddleware(authService)
//	api.Use(authMiddleware.Handler())
//
// Extract the authenticated user in handlers:
//
//	userID, ok := auth.UserID(c)
package auth
