package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/shopquill/shopquill-backend/api/responses"
	pkgerrors "github.com/shopquill/shopquill-backend/pkg/errors"
	"github.com/shopquill/shopquill-backend/pkg/logger"
	"github.com/shopquill/shopquill-backend/pkg/redis"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// GenerationRateLimitPolicy defines the throttling parameters for the
// generation surface: one counter per shop and one per client IP.
type GenerationRateLimitPolicy struct {
	window    time.Duration
	shopLimit int
	ipLimit   int
}

// NewGenerationRateLimitPolicy builds a policy with the supplied window and limits.
func NewGenerationRateLimitPolicy(window time.Duration, shopLimit, ipLimit int) GenerationRateLimitPolicy {
	return GenerationRateLimitPolicy{window: window, shopLimit: shopLimit, ipLimit: ipLimit}
}

func (p GenerationRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.shopLimit > 0 || p.ipLimit > 0)
}

func (p GenerationRateLimitPolicy) shopKey(domain string) string {
	if domain == "" {
		return ""
	}
	return redis.RateLimitKey("generate:shop:" + domain)
}

func (p GenerationRateLimitPolicy) ipKey(ip string) string {
	if ip == "" {
		return ""
	}
	return redis.RateLimitKey("generate:ip:" + ip)
}

// GenerationRateLimit throttles generation requests before they reach the
// provider. It runs after session auth so the shop domain is on the context.
func GenerationRateLimit(policy GenerationRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.ipLimit > 0 {
				if key := policy.ipKey(clientIP(r)); key != "" {
					allowed, count, err := allow(ctx, store, key, policy.window, int64(policy.ipLimit))
					if err != nil {
						responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if !allowed {
						respondRateLimited(ctx, logg, w, policy, "ip", count, policy.ipLimit)
						return
					}
				}
			}

			if policy.shopLimit > 0 {
				if key := policy.shopKey(ShopDomainFromContext(ctx)); key != "" {
					allowed, count, err := allow(ctx, store, key, policy.window, int64(policy.shopLimit))
					if err != nil {
						responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if !allowed {
						respondRateLimited(ctx, logg, w, policy, "shop", count, policy.shopLimit)
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func allow(ctx context.Context, store rateLimiterStore, key string, window time.Duration, limit int64) (bool, int64, error) {
	count, err := store.IncrWithTTL(ctx, key, window)
	if err != nil {
		return false, 0, err
	}
	return count <= limit, count, nil
}

func respondRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy GenerationRateLimitPolicy, scope string, count int64, limit int) {
	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"scope":          scope,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(policy.window.Seconds()),
		})
		logg.Warn(logCtx, "generation.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
