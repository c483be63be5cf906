package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/charlesng35/reviewerdesk/internal/auth"
	"github.com/charlesng35/reviewerdesk/pkg/errors"
	"github.com/charlesng35/reviewerdesk/pkg/response"
)

const (
	CtxClaimsKey   = "authClaims"
	CtxEditorIDKey = "editorID"
)

// Auth enforces bearer JWT authentication and exposes the editor id to handlers.
func Auth(jwt *iauth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := jwt.ValidateAccessToken(strings.TrimSpace(authz[7:]))
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Set(CtxEditorIDKey, claims.EditorID)
		c.Next()
	}
}
