package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campustrace-backend-go/internal/models"
)

// Context keys set by VerifyToken.
const (
	ContextUserID    = "userID"
	ContextPrincipal = "principal"
)

// ErrorResponse is the error body written by the middleware.
// It mirrors api.ErrorResponse so the two packages stay independent.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// TokenVerifier verifies Firebase ID tokens. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthMiddleware provides Gin middleware for Firebase token authentication.
type AuthMiddleware struct {
	verifier TokenVerifier
	log      *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware. A nil verifier is allowed:
// every protected route then answers 503.
func NewAuthMiddleware(verifier TokenVerifier, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, log: log}
}

// VerifyToken checks the bearer token and stores the caller in the Gin context.
// Revoked tokens are rejected, so a sign-out takes effect immediately.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.verifier == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{Error: "authentication unavailable"})
			return
		}

		idToken, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		token, err := m.verifier.VerifyIDTokenAndCheckRevoked(c.Request.Context(), idToken)
		if err != nil {
			m.log.Info("Rejected ID token", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}

		principal := PrincipalFromToken(token)
		c.Set(ContextUserID, principal.UID)
		c.Set(ContextPrincipal, principal)
		c.Next()
	}
}

// bearerToken extracts the token from the Authorization header. Browsers
// cannot set headers on EventSource requests, so an access_token query
// parameter is accepted as well.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if t := c.Query("access_token"); t != "" {
			return t, true
		}
		return "", false
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// PrincipalFromToken reads the standard claims from a verified token.
func PrincipalFromToken(token *auth.Token) models.Principal {
	p := models.Principal{
		UID:       token.UID,
		Anonymous: token.Firebase.SignInProvider == "anonymous",
	}
	if email, ok := token.Claims["email"].(string); ok {
		p.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		p.Name = name
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		p.Picture = picture
	}
	return p
}

// GetPrincipal returns the caller stored by VerifyToken.
func GetPrincipal(c *gin.Context) (models.Principal, bool) {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}
