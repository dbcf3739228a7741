// internal/auth/middleware.go
// Bearer token authentication: resolves the acting user and session for each request

package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/imadgeboyega/roommate-backend/internal/common/utils"
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	sessionIDKey contextKey = "sessionID"
	expiresAtKey contextKey = "expiresAt"
)

// TokenValidator turns a raw bearer token into claims
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)
}

// JWTValidator validates HS256 access tokens signed with a shared secret
type JWTValidator struct {
	Secret string
}

// ValidateToken implements TokenValidator
func (v JWTValidator) ValidateToken(_ context.Context, token string) (*utils.JWTClaims, error) {
	return utils.ValidateJWT(token, v.Secret)
}

// Middleware provides authentication middleware
type Middleware struct {
	validator TokenValidator
	log       *zap.Logger
}

// NewMiddleware creates a new auth middleware
func NewMiddleware(validator TokenValidator, log *zap.Logger) *Middleware {
	return &Middleware{
		validator: validator,
		log:       log.Named("auth"),
	}
}

// Authenticate verifies the access token and adds the user and session to the request context
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid authorization header")
			return
		}

		claims, err := m.validator.ValidateToken(r.Context(), token)
		if err != nil {
			m.log.Debug("token rejected", zap.Error(err))
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		if claims.Type != "access" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token type")
			return
		}

		// Tokens minted without a session id share one session per user
		sessionID := claims.SessionID
		if sessionID == "" {
			sessionID = claims.UserID
		}

		ctx := WithIdentity(r.Context(), claims.UserID, sessionID)
		ctx = context.WithValue(ctx, expiresAtKey, claims.ExpiresAt)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken reads the token from an "Authorization: Bearer <token>" header
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}

// WithIdentity stores the acting user and session on ctx
func WithIdentity(ctx context.Context, userID, sessionID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// GetUserIDFromContext extracts user ID from request context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetSessionIDFromContext extracts the session ID from request context
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionIDKey).(string)
	return sessionID, ok && sessionID != ""
}

// GetExpiresAtFromContext returns the access token expiry as unix seconds
func GetExpiresAtFromContext(ctx context.Context) (int64, bool) {
	exp, ok := ctx.Value(expiresAtKey).(int64)
	return exp, ok
}
