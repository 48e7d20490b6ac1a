package middleware

import (
	"net/http"
	"slices"
	"strings"

	"shopledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Role names carried in the "role" claim of tokens issued by the identity provider
const (
	RoleOwner = "owner"
	RoleStaff = "staff"
)

// Context keys set for authenticated requests
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// Auth verifies bearer tokens signed with a shared HMAC secret.
type Auth struct {
	secret  []byte
	enabled bool
}

func NewAuth(secret string, enabled bool) *Auth {
	return &Auth{secret: []byte(secret), enabled: enabled}
}

func (a *Auth) Secret() []byte {
	return a.secret
}

// RequireRole validates the JWT token and checks if the user's role exists in the allowedRoles list.
// With auth disabled every request passes as the owner.
func (a *Auth) RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.enabled {
			c.Set(ContextUserRole, RoleOwner)
			c.Next()
			return
		}

		// Try cookie first, fallback to Authorization header
		tokenString, cookieErr := c.Cookie("access_token")
		if cookieErr != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'"))
				return
			}
			tokenString = parts[1]
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token claims"))
			return
		}

		userRole, ok := claims["role"].(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Role not found in token"))
			return
		}

		if !slices.Contains(allowedRoles, userRole) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}

		c.Set(ContextUserID, claims["sub"])
		c.Set(ContextUserRole, userRole)

		c.Next()
	}
}
