package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// ErrRateLimited is returned by procedures wrapped with RateLimitMiddleware when the limit is hit
var ErrRateLimited = errors.New("rate limit exceeded")

// Chain combines several middlewares into one, the first one is the outermost
func Chain(middlewares ...Middleware) Middleware {
	return func(name string, next ProcedureFunc) ProcedureFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](name, next)
		}
		return next
	}
}

// LoggingMiddleware logs every invocation with its duration at debug level, failures at warning level
func LoggingMiddleware() Middleware {
	return func(name string, next ProcedureFunc) ProcedureFunc {
		return func(ctx context.Context, args []any) (any, error) {
			start := time.Now()
			result, err := next(ctx, args)
			duration := time.Since(start)

			if err != nil {
				Logger.Warningf("Procedure %s%v failed after %s: %v", name, args, duration, err)
			} else {
				Logger.Debugf("Procedure %s%v => %v took %s", name, args, result, duration)
			}
			return result, err
		}
	}
}

// RateLimitMiddleware rejects invocations beyond r per second (token bucket with the given burst).
// All procedures bound through the same middleware share one bucket.
func RateLimitMiddleware(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(name string, next ProcedureFunc) ProcedureFunc {
		return func(ctx context.Context, args []any) (any, error) {
			if !limiter.Allow() {
				return nil, ErrRateLimited
			}
			return next(ctx, args)
		}
	}
}

// TimeoutMiddleware bounds the run time of a procedure. The procedure keeps running in the
// background after the deadline but its result is dropped and an error is returned instead.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	type result struct {
		value any
		err   error
	}

	return func(name string, next ProcedureFunc) ProcedureFunc {
		return func(ctx context.Context, args []any) (any, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			done := make(chan result, 1)
			go func() {
				defer func() {
					if r := recover(); r != nil {
						done <- result{err: fmt.Errorf("procedure %s panicked: %v", name, r)}
					}
				}()
				v, err := next(ctx, args)
				done <- result{v, err}
			}()

			select {
			case res := <-done:
				return res.value, res.err
			case <-ctx.Done():
				return nil, fmt.Errorf("procedure %s: %w", name, ctx.Err())
			}
		}
	}
}
