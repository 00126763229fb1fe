package timeout

import (
	"context"
	"net/http"
	"time"
)

// Timeout bounds the request context. Handlers pass it down to the database
// and mail calls, which give up once it expires.
func Timeout(seconds int) func(next http.Handler) http.Handler {
	if seconds <= 0 {
		seconds = 30
	}
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), time.Duration(seconds)*time.Second)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}
