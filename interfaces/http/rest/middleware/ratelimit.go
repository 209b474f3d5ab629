package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"

	pkgerrors "processflow/pkg/errors"
	"processflow/pkg/ratelimit"
)

// RateLimit rejects clients that exceed limiter with 429 and a Retry-After
// header. Clients are keyed by remote IP; chi's RealIP runs first.
func RateLimit(limiter *ratelimit.Limiter, errorHandler *pkgerrors.ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiter.Allow(ip) {
				wait := limiter.RetryAfter(ip)
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				errorHandler.Handle(w, r, pkgerrors.NewRateLimitError("too many report requests").WithCode("RATE_LIMITED"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
