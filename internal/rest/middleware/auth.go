package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/qalamhq/qalam/domain"
	"github.com/qalamhq/qalam/internal/token"
)

const (
	// CtxUserID is the gin context key carrying the authenticated user id.
	CtxUserID = "user_id"
	// CtxClaims is the gin context key carrying the parsed token claims.
	CtxClaims = "claims"
)

// Auth verifies the bearer token and rejects revoked ones. On success the
// user id and claims are stored on the gin context.
func Auth(secret []byte, tokens domain.TokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": domain.ErrUnauthorized.Error()})
			return
		}

		claims, err := token.Parse(secret, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": domain.ErrUnauthorized.Error()})
			return
		}

		revoked, err := tokens.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			logrus.Errorf("failed to check token revocation: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": domain.ErrInternalServerError.Error()})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": domain.ErrUnauthorized.Error()})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxClaims, claims)
		c.Next()
	}
}
