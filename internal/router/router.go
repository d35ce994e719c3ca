// Package router assembles the chi route tree and the middleware pipeline.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ViniLF/library-api/internal/api"
	"github.com/ViniLF/library-api/internal/config"
	"github.com/ViniLF/library-api/internal/domain"
	"github.com/ViniLF/library-api/internal/limiter"
	"github.com/ViniLF/library-api/internal/middleware"
	"github.com/ViniLF/library-api/internal/resp"
)

// Limiters carries one limiter per rate class.
type Limiters struct {
	General limiter.Limiter
	Auth    limiter.Limiter
	Create  limiter.Limiter
	Search  limiter.Limiter
}

// Handlers carries every handler the router mounts.
type Handlers struct {
	Health       *api.HealthHandler
	Auth         *api.AuthHandler
	Books        *api.BookHandler
	Authors      *api.AuthorHandler
	Categories   *api.CategoryHandler
	Loans        *api.LoanHandler
	Reservations *api.ReservationHandler
}

// adminSkip exempts authenticated admins from a rate class. It relies on
// OptionalAuth having run first.
func adminSkip(r *http.Request) bool {
	user := middleware.UserFrom(r.Context())
	return user != nil && user.IsAdmin()
}

// New builds the full route tree. Pipeline order, outermost first: security
// headers, CORS, request id, access log, recovery, then per-group rate
// limiting and auth.
func New(cfg *config.Config, logger *zap.Logger, rs *resp.Responder, auth *middleware.Auth, lims Limiters, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(logger))
	r.Use(middleware.Recovery(logger, rs))

	// Liveness probe, outside the rate-limited tree.
	r.Get("/health", h.Health.Check)

	generalLimit := middleware.RateLimit(lims.General, rs, logger, nil)
	authLimit := middleware.RateLimit(lims.Auth, rs, logger, nil)
	createLimit := middleware.RateLimit(lims.Create, rs, logger, nil)
	searchLimit := middleware.RateLimit(lims.Search, rs, logger, adminSkip)

	staffOnly := auth.Authorize(domain.RoleAdmin, domain.RoleLibrarian)
	adminOnly := auth.Authorize(domain.RoleAdmin)

	r.Route(cfg.BasePath(), func(r chi.Router) {
		r.Use(generalLimit)

		r.Route("/auth", func(r chi.Router) {
			r.With(authLimit).Post("/register", h.Auth.Register)
			r.With(authLimit).Post("/login", h.Auth.Login)
			r.With(authLimit).Post("/refresh-token", h.Auth.Refresh)
			r.With(auth.Authenticate).Get("/me", h.Auth.Me)
		})

		r.Route("/books", func(r chi.Router) {
			r.With(auth.OptionalAuth).Get("/", h.Books.List)
			r.With(auth.OptionalAuth, searchLimit).Get("/search", h.Books.Search)
			r.With(auth.OptionalAuth).Get("/{id}", h.Books.Get)
			r.With(auth.Authenticate, staffOnly, createLimit).Post("/", h.Books.Create)
			r.With(auth.Authenticate, staffOnly).Put("/{id}", h.Books.Update)
			r.With(auth.Authenticate, adminOnly).Delete("/{id}", h.Books.Delete)
		})

		r.Route("/authors", func(r chi.Router) {
			r.With(auth.OptionalAuth).Get("/", h.Authors.List)
			r.With(auth.OptionalAuth).Get("/{id}", h.Authors.Get)
			r.With(auth.Authenticate, staffOnly, createLimit).Post("/", h.Authors.Create)
			r.With(auth.Authenticate, staffOnly).Put("/{id}", h.Authors.Update)
			r.With(auth.Authenticate, adminOnly).Delete("/{id}", h.Authors.Delete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.With(auth.OptionalAuth).Get("/", h.Categories.List)
			r.With(auth.OptionalAuth).Get("/{id}", h.Categories.Get)
			r.With(auth.Authenticate, staffOnly, createLimit).Post("/", h.Categories.Create)
			r.With(auth.Authenticate, staffOnly).Put("/{id}", h.Categories.Update)
			r.With(auth.Authenticate, adminOnly).Delete("/{id}", h.Categories.Delete)
		})

		r.Route("/loans", func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Get("/", h.Loans.ListMine)
			r.With(createLimit).Post("/", h.Loans.Borrow)
			r.Post("/{id}/return", h.Loans.Return)
		})

		r.Route("/reservations", func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Get("/", h.Reservations.ListMine)
			r.With(createLimit).Post("/", h.Reservations.Reserve)
			r.Post("/{id}/cancel", h.Reservations.Cancel)
		})

		r.Route("/users/{userId}", func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.RequireOwnership("userId"))
			r.Get("/loans", h.Loans.ListByUser)
			r.Get("/reservations", h.Reservations.ListByUser)
		})
	})

	return r
}
