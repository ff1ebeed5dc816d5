package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"pdfinsight/internal/pkg/jwtutil"
	"pdfinsight/internal/transport/http/response"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
)

func AuthJWT(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, msg := bearerToken(c.GetHeader("Authorization"))
		if msg != "" {
			response.Error(c, 401, response.CodeUnauthorized, msg)
			c.Abort()
			return
		}

		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.Error(c, 401, response.CodeUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUsernameKey, claims.Username)
		c.Next()
	}
}

// bearerToken pulls the token out of an Authorization header. A non-empty
// msg describes why the header is unusable.
func bearerToken(header string) (token, msg string) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", "missing authorization header"
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", "invalid authorization scheme"
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix)), ""
}
