package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	postgresRepo "github.com/veloxcart/ecommerce-api/internal/adapters/db/postgres"
	redisRepo "github.com/veloxcart/ecommerce-api/internal/adapters/db/redis"
	"github.com/veloxcart/ecommerce-api/internal/adapters/geo"
	"github.com/veloxcart/ecommerce-api/internal/adapters/mail"
	"github.com/veloxcart/ecommerce-api/internal/adapters/queue"
	transport "github.com/veloxcart/ecommerce-api/internal/adapters/transport/http"
	authsvc "github.com/veloxcart/ecommerce-api/internal/app/auth/service"
	"github.com/veloxcart/ecommerce-api/internal/app/auth/token"
	cataloguesvc "github.com/veloxcart/ecommerce-api/internal/app/catalogue/service"
	"github.com/veloxcart/ecommerce-api/internal/infra/config"
	lg "github.com/veloxcart/ecommerce-api/internal/infra/log"
	"github.com/veloxcart/ecommerce-api/internal/infra/migrate"
	"github.com/veloxcart/ecommerce-api/internal/infra/ratelimit"
	"github.com/veloxcart/ecommerce-api/internal/infra/validation"
)

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	redisCli := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisCli.Close()

	validate := validation.New()

	issuer, err := token.NewIssuer(cfg)
	if err != nil {
		zapLog.Fatal("failed to init token issuer", zap.Error(err))
	}

	mailer, err := mail.NewPostmarkMailer(cfg.PostmarkServerToken, cfg.EmailFrom)
	if err != nil {
		zapLog.Fatal("failed to init mailer", zap.Error(err))
	}
	mailQueue := queue.NewMailQueue(redisCli, cfg.MailQueueKey, mailer, zapLog,
		cfg.MailMaxAttempts, cfg.MailRetryDelay)

	userRepo := postgresRepo.NewUserRepo(db)
	oneTimeStore := redisRepo.NewOneTimeTokenStore(redisCli)
	sessionStore := redisRepo.NewSessionStore(redisCli)

	// One resend per minute per email address, small burst.
	resendLimiter := ratelimit.NewKeyed(rate.Every(time.Minute), 2, 10_000, time.Hour)

	auth := authsvc.New(userRepo, oneTimeStore, sessionStore, issuer, mailQueue,
		resendLimiter, cfg, validate, zapLog)
	catalogue := cataloguesvc.New(
		postgresRepo.NewCategoryRepo(db),
		postgresRepo.NewProductRepo(db),
		postgresRepo.NewProductImageRepo(db),
		postgresRepo.NewReviewRepo(db),
		cfg, validate, zapLog,
	)

	router := transport.NewRouter(transport.Deps{
		Auth:      auth,
		Catalogue: catalogue,
		Blocked:   postgresRepo.NewBlockedIPRepo(db),
		Logs:      postgresRepo.NewRequestLogRepo(db),
		Geo:       geo.NewClient(cfg.IPGeolocationAPIKey, cfg.GeoCacheTTL, redisCli),
		Cfg:       cfg,
		Log:       zapLog,
	})

	srv := &http.Server{Addr: cfg.HTTPAddress, Handler: router}
	rootCtx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		return mailQueue.Run(ctx)
	})

	g.Go(func() error {
		zapLog.Info("http server listening", zap.String("addr", cfg.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("shutdown signal received")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}
	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
