package middleware

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ViniLF/library-api/internal/apperr"
	"github.com/ViniLF/library-api/internal/limiter"
	"github.com/ViniLF/library-api/internal/resp"
)

// RateLimit admits requests through lim, keyed by client IP. A non-nil skip
// exempts matching requests (used to lift the search ceiling for admins).
// Backend failures fail open: an unavailable limiter should not take the API
// down with it.
func RateLimit(lim limiter.Limiter, rs *resp.Responder, logger *zap.Logger, skip func(*http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip != nil && skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			res, err := lim.Allow(r.Context(), ClientIP(r))
			if err != nil {
				logger.Warn("rate limiter unavailable, failing open",
					zap.String("request_id", RequestIDFrom(r.Context())),
					zap.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if !res.Allowed {
				retryAfter := int(res.RetryAfter.Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				rs.Error(w, RequestIDFrom(r.Context()),
					apperr.RateLimit("too many requests, please try again later").
						WithDetails(map[string]int{"retryAfter": retryAfter}))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
