package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"club-cms-api/internal/domain"
	httpez "club-cms-api/internal/transport/http/ez"
	mdw "club-cms-api/internal/transport/http/middleware"
	resp "club-cms-api/internal/transport/http/response"
)

type Options struct {
	BasePath       string
	CORSOrigins    []string
	MaxInFlight    int64
	MaxBodyBytes   int64
	RequestTimeout time.Duration
	// Ready backs /health; nil means always healthy.
	Ready func() error
}

func (o Options) withDefaults() Options {
	if o.MaxInFlight <= 0 {
		o.MaxInFlight = 300
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 1 << 20
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
	return o
}

// NewAPIEngine builds the gin engine. Public routes, authenticated routes and
// /admin share one middleware chain; /admin adds the ADMIN role check.
func NewAPIEngine(l *zap.Logger, verifier mdw.TokenVerifier, reg *Registry, o Options) *gin.Engine {
	o = o.withDefaults()
	r := gin.New()

	r.Use(
		mdw.Recovery(l),
		mdw.CORS(o.CORSOrigins),
		mdw.RequestID(),
		mdw.ConcurrencyLimit(o.MaxInFlight),
		mdw.MaxBodyBytes(o.MaxBodyBytes),
		mdw.Timeout(o.RequestTimeout),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) {
		if o.Ready != nil {
			if err := o.Ready(); err != nil {
				l.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, resp.Error(resp.CodeUnavailable, "UNHEALTHY", ""))
				return
			}
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"ok": 1}))
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, resp.Error(resp.CodeNotFound, "NOT_FOUND", "route not found"))
	})

	base := r.Group(o.BasePath)
	authed := base.Group("", mdw.Authenticate(verifier, l))
	admin := base.Group("/admin", mdw.Authenticate(verifier, l), mdw.RequireRole(domain.RoleAdmin, l))

	reg.MountAll(httpez.New(base), httpez.New(authed), httpez.New(admin))
	return r
}
