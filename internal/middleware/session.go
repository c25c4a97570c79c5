package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/backend"
)

// BackendSession forwards the caller's cookies and request id to every
// backend call made with the request context. It must run after RequestID.
func BackendSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := backend.WithSession(c.Request.Context(), backend.Session{
			Cookies:   c.Request.Cookies(),
			RequestID: GetRequestID(c),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
