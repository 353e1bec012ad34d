package grpcserver

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defaultRateLimit = 1000 // calls per second
	defaultBurst     = 100  // calls at the same time
)

// RateLimiterInterceptor rate limits the unary calls per method.
type RateLimiterInterceptor struct {
	log zerolog.Logger

	// default rate limiter for methods whose rate limit is not explicitly defined
	defaultLimiter *rate.Limiter

	// a map of lower case method name and its limiter
	methodLimiterMap map[string]*rate.Limiter
}

// NewRateLimiterInterceptor returns a new rate limiter interceptor. Method names
// are matched case insensitively, as configuration keys are lower cased on load.
func NewRateLimiterInterceptor(log zerolog.Logger, apiRateLimits map[string]int, apiBurstLimits map[string]int) *RateLimiterInterceptor {
	defaultLimiter := rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst)
	methodLimiterMap := make(map[string]*rate.Limiter, len(apiRateLimits))

	bursts := make(map[string]int, len(apiBurstLimits))
	for method, burst := range apiBurstLimits {
		bursts[strings.ToLower(method)] = burst
	}
	for method, limit := range apiRateLimits {
		method = strings.ToLower(method)
		burst := defaultBurst
		if b, ok := bursts[method]; ok {
			burst = b
		}
		methodLimiterMap[method] = rate.NewLimiter(rate.Limit(limit), burst)
	}

	return &RateLimiterInterceptor{
		defaultLimiter:   defaultLimiter,
		methodLimiterMap: methodLimiterMap,
		log:              log,
	}
}

// UnaryServerInterceptor rejects calls above the limit with codes.ResourceExhausted.
func (interceptor *RateLimiterInterceptor) UnaryServerInterceptor(ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (resp interface{}, err error) {
	// remove the service name (e.g. "/primary.WorkerToPrimary/ReportOwnBatch" to "ReportOwnBatch")
	methodName := filepath.Base(info.FullMethod)

	limiter := interceptor.methodLimiterMap[strings.ToLower(methodName)]
	if limiter == nil {
		limiter = interceptor.defaultLimiter
	}

	if !limiter.Allow() {
		interceptor.log.Info().
			Str("method", methodName).
			Float64("limit", float64(limiter.Limit())).
			Msg("rate limit exceeded")

		return nil, status.Errorf(codes.ResourceExhausted, "%s rate limit reached, please retry later.",
			info.FullMethod)
	}

	return handler(ctx, req)
}
