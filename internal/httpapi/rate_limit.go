package httpapi

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimit allows limit requests per client IP in each fixed window.
func RateLimit(rdb redis.Cmdable, limit int64, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := "rate_limit:" + clientIP(r)

			// ExpireNX runs on every hit so a key that lost its TTL is re-armed
			var incr *redis.IntCmd
			_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				incr = pipe.Incr(ctx, key)
				pipe.ExpireNX(ctx, key, window)
				return nil
			})
			if err != nil {
				slog.Error("rate limit pipeline", "method", "RateLimit", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			current := incr.Val()

			if current > limit {
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
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
