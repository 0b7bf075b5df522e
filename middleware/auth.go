package middleware

import (
	"net/http"
	"strings"

	"color-engine/utils"

	"github.com/gin-gonic/gin"
)

const ClaimsKey = "claims"

// AuthMiddleware requires a valid "Bearer <token>" header and stores the claims in
// the context under ClaimsKey.
func AuthMiddleware(tokens *utils.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status_code": http.StatusUnauthorized,
				"msg":         "unauthorized",
			})
			return
		}
		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status_code": http.StatusUnauthorized,
				"msg":         "invalid token",
			})
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// GetClaims returns the claims stored by AuthMiddleware.
func GetClaims(c *gin.Context) (*utils.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok
}
