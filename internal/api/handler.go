// Package api contains the HTTP handlers. Handlers decode and validate the
// request, call a service and hand the outcome to the responder; they never
// write error payloads themselves.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ViniLF/library-api/internal/validate"
)

// decode reads the JSON body into dst and validates it. Malformed JSON comes
// back as a json syntax error the response normalizer turns into a 400.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// pageParams parses page/limit query parameters with sane fallbacks.
func pageParams(r *http.Request) (page, limit int) {
	page = queryInt(r, "page", 1)
	limit = queryInt(r, "limit", 10)
	return page, limit
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
