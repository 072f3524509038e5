package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// StudentIDKey is the gin context key holding the authenticated student id.
const StudentIDKey = "studentID"

type TokenParser interface {
	ParseToken(token string) (int64, error)
}

// JWTAuthMiddleware requires "Authorization: Bearer <token>" and stores the
// token's student id under StudentIDKey.
func JWTAuthMiddleware(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "INVALID_CREDENTIALS", "message": "missing bearer token"})
			return
		}
		studentID, err := parser.ParseToken(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "INVALID_CREDENTIALS", "message": "invalid token"})
			return
		}
		c.Set(StudentIDKey, studentID)
		c.Next()
	}
}

// StudentID returns the id stored by JWTAuthMiddleware.
func StudentID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(StudentIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
