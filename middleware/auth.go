package middleware

import (
	"context"
	"net/http"
	"strings"

	"nutrilog/utils"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminClaim is the custom claim that marks a dietitian account.
const AdminClaim = "admin"

// TokenVerifier is satisfied by *auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthMiddleware verifies the bearer ID token and stores the caller's
// uid under "userID" and the admin claim under "isAdmin".
func FirebaseAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing or invalid Authorization header",
				"code":  0,
			})
			return
		}
		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil || token.UID == "" {
			utils.GetLogger().Debug("rejected id token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		isAdmin, _ := token.Claims[AdminClaim].(bool)
		c.Set("userID", token.UID)
		c.Set("isAdmin", isAdmin)
		c.Next()
	}
}
