package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/ledgerbook/backend/internal/infrastructure/auth"
	"github.com/ledgerbook/backend/internal/infrastructure/logger"
	"github.com/ledgerbook/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTCallerKey  = "jwt_caller"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenValidator verifies a bearer token and returns its claims
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// Validator is required for token validation
	Validator TokenValidator
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultJWTConfig returns default JWT middleware configuration
func DefaultJWTConfig(validator TokenValidator) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		Validator: validator,
		SkipPaths: []string{
			"/health",
			"/health/ready",
			"/api/v1/health",
			"/api/v1/health/ready",
		},
	}
}

// JWTAuthMiddleware creates JWT authentication middleware
func JWTAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(validator))
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware with custom config.
// On success the gin context carries the claims and the shared.Caller built from them.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
		if tokenString == "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing token")
			return
		}

		claims, err := cfg.Validator.ValidateToken(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}
		caller, err := claims.Caller()
		if err != nil {
			handleAuthError(c, cfg, err, "Token does not identify a user")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTCallerKey, caller)
		c.Set(logger.GinUserIDKey, caller.UserID.String())

		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), caller.UserID.String()))

		c.Next()
	}
}

// handleAuthError aborts with a 401 in the standard error envelope
func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	errorCode := dto.ErrCodeUnauthorized
	errorMessage := "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		errorCode = dto.ErrCodeTokenExpired
		errorMessage = "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		errorCode = dto.ErrCodeTokenInvalid
		errorMessage = "Token is not yet valid"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrMissingUserID):
		errorCode = dto.ErrCodeTokenInvalid
		errorMessage = "Invalid token"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(errorCode, errorMessage, getRequestIDFromContext(c)))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetCaller returns the authenticated caller set by the JWT middleware
func GetCaller(c *gin.Context) (shared.Caller, bool) {
	if v, exists := c.Get(JWTCallerKey); exists {
		if caller, ok := v.(shared.Caller); ok {
			return caller, true
		}
	}
	return shared.Caller{}, false
}

// SetCaller stores a caller on the context, used by tests and internal tooling
func SetCaller(c *gin.Context, caller shared.Caller) {
	c.Set(JWTCallerKey, caller)
	c.Set(logger.GinUserIDKey, caller.UserID.String())
}
