// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/agrihedge/agrihedge-backend/internal/i18n"
	"github.com/agrihedge/agrihedge-backend/internal/models"
	"github.com/agrihedge/agrihedge-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthRequired is the identity provider boundary: it resolves the bearer
// token into a stable (user_id, user_type) pair in the gin context. The
// core never sees raw credentials.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.GetHeader("Accept-Language")
		if lang == "" {
			lang = "en"
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthRequired),
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthInvalidToken),
			})
			c.Abort()
			return
		}

		token := parts[1]
		claims, err := utils.ValidateJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthTokenExpired),
			})
			c.Abort()
			return
		}

		// Set user info in context
		c.Set("user_id", claims.UserID)
		c.Set("name", claims.Name)
		c.Set("user_type", claims.UserType)
		c.Next()
	}
}

// FarmerRequired gates farmer-only routes (listing produce, accepting
// trader proposals).
func FarmerRequired() gin.HandlerFunc {
	return roleRequired(models.UserTypeFarmer)
}

// TraderRequired gates trader-only routes.
func TraderRequired() gin.HandlerFunc {
	return roleRequired(models.UserTypeTrader)
}

func roleRequired(role models.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.GetHeader("Accept-Language")
		if lang == "" {
			lang = "en"
		}

		userType, exists := c.Get("user_type")
		if !exists || userType != string(role) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": i18n.T(lang, i18n.KeyForbidden),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
