package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"club-cms-api/internal/domain"
)

// StatusOf maps an error kind to its HTTP status.
func StatusOf(k domain.ErrorKind) int {
	switch k {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Fail aborts the request with the envelope for err. Errors that are not a
// *domain.Error are reported as INTERNAL_ERROR; their text only reaches the
// client in debug mode. An internal error caused by the request deadline is
// a 504 TIMEOUT. Internal failures are attached to c.Errors for the access log.
func Fail(c *gin.Context, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		de = domain.Internal("", err)
	}
	if de.Kind == domain.KindInternal && errors.Is(err, context.DeadlineExceeded) {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusGatewayTimeout, Error(CodeTimeout, "TIMEOUT", "request timed out"))
		return
	}
	status := StatusOf(de.Kind)

	msg := de.Msg
	if de.Kind == domain.KindInternal {
		_ = c.Error(err)
		msg = ""
		if gin.Mode() == gin.DebugMode {
			msg = err.Error()
		}
	}
	c.AbortWithStatusJSON(status, Error(status, de.Code, msg))
}
