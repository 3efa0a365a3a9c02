package middleware

import (
	"net"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/infra/ratelimit"
	"github.com/RoyceAzure/rj/api"
	er "github.com/RoyceAzure/rj/util/rj_error"
	"github.com/rs/zerolog"
)

// ClientIP 需放在 chi middleware.RealIP 之後，RemoteAddr 才會是真實來源
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// NewRateLimitMiddleware 以 client ip 限流，超過回 429
func NewRateLimitMiddleware(limiter ratelimit.Limiter, logger *zerolog.Logger) func(http.Handler) http.Handler {
	if limiter == nil {
		panic("limiter cannot be nil")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			if !limiter.Allow(r.Context(), ip) {
				logger.Warn().
					Str("request_id", GetRequestID(r.Context())).
					Str("client_ip", ip).
					Str("url", r.URL.Path).
					Msg("rate limited")
				api.ErrorJSON(w, int(er.TooManyRequestsCode), nil, er.ErrStrMap[er.TooManyRequestsCode])
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
