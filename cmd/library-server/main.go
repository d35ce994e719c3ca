// Command library-server runs the library management HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ViniLF/library-api/internal/api"
	"github.com/ViniLF/library-api/internal/cache"
	"github.com/ViniLF/library-api/internal/config"
	"github.com/ViniLF/library-api/internal/database"
	"github.com/ViniLF/library-api/internal/limiter"
	"github.com/ViniLF/library-api/internal/logger"
	"github.com/ViniLF/library-api/internal/middleware"
	"github.com/ViniLF/library-api/internal/repo"
	"github.com/ViniLF/library-api/internal/resp"
	"github.com/ViniLF/library-api/internal/router"
	"github.com/ViniLF/library-api/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.App.Env, cfg.Log.Level, cfg.Log.Encoding, cfg.App.Name, cfg.App.Version)
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := database.New(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.Migrations.Dir); err != nil {
		return err
	}

	ctx := context.Background()

	// Cache and limiter backends. Redis is shared between the two when both
	// are configured to use it.
	var redisCache *cache.RedisCache
	var bookCache cache.Cache = cache.NullCache{}
	if cfg.Cache.Enabled || cfg.RateLimit.Backend == "redis" {
		redisCache, err = cache.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer redisCache.Close()
		log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	}
	if cfg.Cache.Enabled {
		if redisCache != nil {
			bookCache = redisCache
		} else {
			bookCache = cache.NewMemory()
		}
	}

	newLimiter := func(rate int64, window time.Duration, prefix string) limiter.Limiter {
		cfgClass := limiter.Config{Rate: rate, Window: window, KeyPrefix: prefix}
		if cfg.RateLimit.Backend == "redis" && redisCache != nil {
			return limiter.NewRedis(redisCache.Client(), cfgClass)
		}
		return limiter.NewMemory(cfgClass)
	}
	lims := router.Limiters{
		General: newLimiter(cfg.RateLimit.GeneralRate, cfg.RateLimit.GeneralWindow, "general:"),
		Auth:    newLimiter(cfg.RateLimit.AuthRate, cfg.RateLimit.AuthWindow, "auth:"),
		Create:  newLimiter(cfg.RateLimit.CreateRate, cfg.RateLimit.CreateWindow, "create:"),
		Search:  newLimiter(cfg.RateLimit.SearchRate, cfg.RateLimit.SearchWindow, "search:"),
	}

	// Repositories.
	users := repo.NewUserRepo(db.DB)
	authors := repo.NewAuthorRepo(db.DB)
	categories := repo.NewCategoryRepo(db.DB)
	var books repo.BookRepo = repo.NewBookRepo(db.DB)
	loans := repo.NewLoanRepo(db.DB)
	reservations := repo.NewReservationRepo(db.DB)
	if cfg.Cache.Enabled {
		// Loan and reservation writes change the copy counts and reservation
		// list embedded in a book's cached detail, so they invalidate it too.
		books = repo.NewCachedBookRepo(books, bookCache, cfg.Cache.TTL, log)
		loans = repo.NewCachedLoanRepo(loans, bookCache, log)
		reservations = repo.NewCachedReservationRepo(reservations, bookCache, log)
	}

	// Services.
	jwtSvc, err := service.NewJWTService(cfg.JWT.Secret, cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return err
	}
	authSvc := service.NewAuthService(users, jwtSvc)
	bookSvc := service.NewBookService(books, authors, categories, loans, reservations)
	authorSvc := service.NewAuthorService(authors)
	categorySvc := service.NewCategoryService(categories)
	loanSvc := service.NewLoanService(loans, books, cfg.Loan.PeriodDays)
	reservationSvc := service.NewReservationService(reservations, books)

	// HTTP layer.
	rs := resp.New(cfg.App.Env, log)
	authMW := middleware.NewAuth(jwtSvc, authSvc, rs)
	handlers := router.Handlers{
		Health:       api.NewHealthHandler(cfg.App.Env, cfg.App.Version, rs),
		Auth:         api.NewAuthHandler(authSvc, rs),
		Books:        api.NewBookHandler(bookSvc, rs),
		Authors:      api.NewAuthorHandler(authorSvc, rs),
		Categories:   api.NewCategoryHandler(categorySvc, rs),
		Loans:        api.NewLoanHandler(loanSvc, rs),
		Reservations: api.NewReservationHandler(reservationSvc, rs),
	}
	handler := router.New(cfg, log, rs, authMW, lims, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.Int("port", cfg.App.Port),
			zap.String("env", cfg.App.Env),
			zap.String("base_path", cfg.BasePath()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
