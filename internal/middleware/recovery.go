package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/ViniLF/library-api/internal/apperr"
	"github.com/ViniLF/library-api/internal/resp"
)

// Recovery converts panics into 500 responses so one broken handler cannot
// take the process down.
func Recovery(logger *zap.Logger, rs *resp.Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						zap.String("request_id", RequestIDFrom(r.Context())),
						zap.Any("panic", rec),
						zap.ByteString("stack", debug.Stack()),
					)
					rs.Error(w, RequestIDFrom(r.Context()),
						apperr.Internal(fmt.Sprintf("panic: %v", rec)))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
