package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"club-cms-api/internal/core/auth"
	"club-cms-api/internal/domain"
	resp "club-cms-api/internal/transport/http/response"
)

// Context keys set by Authenticate.
const (
	KeyIdentity = "identity"
	KeyUserID   = "userId"
	KeyRole     = "role"
)

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Authenticate requires a valid bearer token and stores the caller's identity
// in the context.
func Authenticate(v TokenVerifier, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			reject(c, domain.ErrMissingToken)
			return
		}
		claims, err := v.Verify(tok)
		if err != nil {
			l.Debug("token rejected", zap.String("path", c.FullPath()), zap.Error(err))
			e := domain.ErrInvalidOrExpiredToken.With(err)
			if errors.Is(err, auth.ErrTokenExpired) {
				e = e.WithMsg("token expired")
			}
			reject(c, e)
			return
		}

		id := claims.Identity()
		c.Set(KeyIdentity, id)
		c.Set(KeyUserID, id.ID)
		c.Set(KeyRole, id.Role)
		c.Next()
	}
}

// RequireRole must run after Authenticate on the same route.
func RequireRole(role domain.Role, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			l.Error("role check without authentication", zap.String("path", c.FullPath()))
			reject(c, domain.ErrMissingToken)
			return
		}
		if domain.Role(id.Role) != role {
			reject(c, domain.ErrForbidden)
			return
		}
		c.Next()
	}
}

func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(KeyIdentity)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok && id.ID != ""
}

func reject(c *gin.Context, e *domain.Error) {
	authFailures.WithLabelValues(e.Code).Inc()
	resp.Fail(c, e)
}

func bearerToken(h string) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}
