package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/reviewerdesk/internal/middleware"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// editorID returns the authenticated editor, or "" on public routes.
func editorID(c *gin.Context) string {
	return c.GetString(middleware.CtxEditorIDKey)
}
