package interceptor

import (
	"context"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"matchcore.io/pkg/metrics"
)

// RateLimitUnary rejects requests above qps with a burst allowance.
// qps <= 0 disables the limiter.
func RateLimitUnary(qps float64, burst int) grpc.UnaryServerInterceptor {
	var lim *rate.Limiter
	if qps > 0 {
		if burst <= 0 {
			burst = int(qps)
		}
		lim = rate.NewLimiter(rate.Limit(qps), burst)
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if lim != nil && !lim.Allow() {
			metrics.RateLimitBlockTotal.WithLabelValues(info.FullMethod).Inc()
			return nil, status.Error(codes.ResourceExhausted, "rate limit exceeded")
		}
		return handler(ctx, req)
	}
}
