package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"club-cms-api/internal/core/auth"
	"club-cms-api/internal/core/cache"
	"club-cms-api/internal/core/config"
	"club-cms-api/internal/core/database"
	"club-cms-api/internal/core/logger"
	"club-cms-api/internal/core/server"
	"club-cms-api/internal/repo"
	"club-cms-api/internal/service"
	"club-cms-api/internal/transport/http/handler"
	"club-cms-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))

	log, cleanup := newLogger(cfg)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	if cfg.App.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := mustOpenDB(cfg, log)
	defer func() { _ = database.Close(db) }()
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(ctx, db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	jwter, err := auth.NewJWTer(cfg.TokenConfig())
	if err != nil {
		log.Fatal("jwt config", zap.Error(err))
	}
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	rc := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer func() { _ = rc.Close() }()
	if rc.Enabled() {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rc.Ping(pctx); err != nil {
			log.Warn("redis unreachable, reads fall through to the database", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		cancel()
	}

	users := repo.NewUserRepo(db)
	authSvc, err := service.NewAuthService(users, hasher, jwter, log, service.AuthOptions{
		AllowSelfAdmin: cfg.Auth.AllowSelfAdmin,
	})
	if err != nil {
		log.Fatal("auth service", zap.Error(err))
	}
	if cfg.Auth.AllowSelfAdmin {
		log.Warn("auth.allow_self_admin is on: anyone can register as ADMIN")
	}

	reg := router.NewRegistry(
		handler.NewAuthHandler(authSvc),
		handler.NewUserAdminHandler(service.NewUserService(users, log)),
		handler.NewNewsHandler(service.NewNewsService(repo.NewNewsRepo(db), rc, cfg.CacheTTL(), log)),
		handler.NewMatchHandler(service.NewMatchService(repo.NewMatchRepo(db), rc, cfg.CacheTTL(), log)),
	)

	h := cfg.App.HTTP
	r := router.NewAPIEngine(log, jwter, reg, router.Options{
		BasePath:       h.BasePath,
		CORSOrigins:    cfg.CORS.AllowOrigins,
		MaxInFlight:    h.MaxInFlight,
		MaxBodyBytes:   h.MaxBodyBytes,
		RequestTimeout: time.Duration(h.RequestTimeoutSec) * time.Second,
		Ready:          func() error { return pingDB(db) },
	})

	addr := server.Addr(h.Host, h.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)

	host4human := h.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(h.Port)
	log.Info("club api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+h.BasePath),
	)

	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("club api stopped with error", zap.Error(err))
		return
	}
	log.Info("club api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.File != "" {
		return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File,
			cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays, cfg.Log.Compress)
	}
	return logger.New(cfg.Log.Level, cfg.Log.JSON)
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	w, err := logger.ToStdLogger(l.Named("gorm"), zapcore.InfoLevel)
	if err != nil {
		l.Fatal("gorm logger", zap.Error(err))
	}
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Writer:             w,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}

func pingDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
