package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/coursexam/internal/dto"
	"github.com/rs/zerolog/log"
)

const (
	userIDKey   = "userID"
	userNameKey = "userName"
	userRoleKey = "userRole"
)

// Claims identify the caller. The subject is the user id.
type Claims struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Auth verifies an HS256 bearer token and stores the caller's identity in the
// gin context.
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		claims, err := parseBearer(c.GetHeader("Authorization"), key)
		if err != nil {
			log.Warn().Err(err).Str("path", c.FullPath()).Msg("Rejected unauthenticated request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Unauthorized", Details: []string{err.Error()}})
			return
		}
		c.Set(userIDKey, claims.Subject)
		c.Set(userNameKey, claims.Name)
		c.Set(userRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole must run after Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(userRoleKey) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Forbidden"})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, or "" outside Auth.
func UserID(c *gin.Context) string { return c.GetString(userIDKey) }

func UserName(c *gin.Context) string { return c.GetString(userNameKey) }

func parseBearer(header string, key []byte) (*Claims, error) {
	if len(key) == 0 {
		return nil, errors.New("token verification is not configured")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return nil, errors.New("authorization header must be in the format: Bearer {token}")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid or expired token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// NewToken signs an access token for the user.
func NewToken(secret, userID, name, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString([]byte(secret))
}
