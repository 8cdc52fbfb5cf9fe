package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "club-cms-api/internal/transport/http/response"
)

// ConcurrencyLimit caps requests in flight to protect the database.
// A request that gives up while waiting gets a 503.
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				resp.Error(resp.CodeUnavailable, "SERVER_BUSY", "server busy"))
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
