package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	resp "club-cms-api/internal/transport/http/response"
)

// Timeout puts a deadline on the request context. Handlers that pass the
// deadline error to resp.Fail answer 504 themselves; this covers the ones that
// return without writing.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusGatewayTimeout,
				resp.Error(resp.CodeTimeout, "TIMEOUT", "request timed out"))
		}
	}
}
