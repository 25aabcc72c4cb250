package middleware

import (
	"strings"

	"conduit-cms/helper"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
)

type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(secret []byte, h *helper.HTTPHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			h.SendUnauthorizedError(c, "Authorization header required", h.EmptyJsonMap())
			c.Abort()
			return
		}

		claims, err := parseToken(authHeader, secret)
		if err != nil {
			h.SendUnauthorizedError(c, err.Error(), h.EmptyJsonMap())
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware identifies the caller when a valid token is present
// and lets anonymous requests through.
func OptionalAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			if claims, err := parseToken(authHeader, secret); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

func RequireRole(h *helper.HTTPHelper, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(ContextRole)
		if !exists {
			h.SendUnauthorizedError(c, "User role not found", h.EmptyJsonMap())
			c.Abort()
			return
		}

		roleStr, _ := userRole.(string)
		for _, role := range roles {
			if roleStr == role {
				c.Next()
				return
			}
		}

		h.SendForbiddenError(c, "Insufficient permissions", h.EmptyJsonMap())
		c.Abort()
	}
}

// CurrentUserID returns the authenticated user's id, or 0 for anonymous callers.
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func parseToken(authHeader string, secret []byte) (*Claims, error) {
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		tokenString = strings.TrimPrefix(authHeader, "Token ")
	}
	if tokenString == authHeader {
		return nil, errBearerRequired
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, errTokenInvalid
	}
	return claims, nil
}

func setClaims(c *gin.Context, claims *Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextRole, claims.Role)
}

type tokenError string

func (e tokenError) Error() string { return string(e) }

const (
	errBearerRequired tokenError = "Bearer token required"
	errTokenInvalid   tokenError = "Token is not valid"
)
