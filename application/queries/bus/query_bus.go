package bus

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"

	"onboardhq-backend/pkg/observability"
)

// Query represents a read-only query
type Query interface {
	Validate() error
}

// QueryHandler handles a specific query type
type QueryHandler interface {
	Handle(ctx context.Context, query Query) (interface{}, error)
}

// QueryBus dispatches queries to their handlers
type QueryBus struct {
	handlers    map[reflect.Type]QueryHandler
	middlewares []Middleware
	mu          sync.RWMutex
}

// NewQueryBus creates a new query bus
func NewQueryBus(middlewares ...Middleware) *QueryBus {
	return &QueryBus{
		handlers:    make(map[reflect.Type]QueryHandler),
		middlewares: middlewares,
	}
}

// Register registers a handler for a query type
func (b *QueryBus) Register(queryType Query, handler QueryHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(queryType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for query type %s", t.Name())
	}

	for i := len(b.middlewares) - 1; i >= 0; i-- {
		handler = b.middlewares[i](handler)
	}

	b.handlers[t] = handler
	return nil
}

// Ask dispatches a query to its handler and returns the result
func (b *QueryBus) Ask(ctx context.Context, query Query) (interface{}, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("query validation failed: %w", err)
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(query)]
	b.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %T", ErrHandlerNotFound, query)
	}

	result, err := handler.Handle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query handler failed: %w", err)
	}

	return result, nil
}

// Middleware defines query middleware
type Middleware func(next QueryHandler) QueryHandler

// QueryHandlerFunc is an adapter to allow functions to be used as handlers
type QueryHandlerFunc func(ctx context.Context, query Query) (interface{}, error)

// Handle implements QueryHandler
func (f QueryHandlerFunc) Handle(ctx context.Context, query Query) (interface{}, error) {
	return f(ctx, query)
}

// Cache interface for caching query results
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl int) error
}

// CachingMiddleware caches query results by query type and value
func CachingMiddleware(cache Cache, ttlSeconds int) Middleware {
	return func(next QueryHandler) QueryHandler {
		return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
			cacheKey := fmt.Sprintf("%T:%+v", query, query)

			if cached, found := cache.Get(ctx, cacheKey); found {
				return cached, nil
			}

			result, err := next.Handle(ctx, query)
			if err != nil {
				return nil, err
			}

			cache.Set(ctx, cacheKey, result, ttlSeconds)

			return result, nil
		})
	}
}

// LoggingMiddleware logs query execution
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next QueryHandler) QueryHandler {
		return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
			queryType := reflect.TypeOf(query).Name()

			result, err := next.Handle(ctx, query)
			if err != nil {
				logger.Error("query failed", zap.String("type", queryType), zap.Error(err))
			}

			return result, err
		})
	}
}

// MetricsMiddleware records query throughput and latency
func MetricsMiddleware(metrics *observability.Metrics) Middleware {
	return func(next QueryHandler) QueryHandler {
		return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
			queryType := reflect.TypeOf(query).Name()
			start := time.Now()

			result, err := next.Handle(ctx, query)

			metrics.Duration(ctx, "QueryLatency", time.Since(start), map[string]string{"query": queryType})
			if err != nil {
				metrics.Count(ctx, "QueryErrors", 1, map[string]string{"query": queryType})
			}

			return result, err
		})
	}
}

// TracingMiddleware wraps query execution in a trace subsegment
func TracingMiddleware(tracer *observability.Tracer) Middleware {
	return func(next QueryHandler) QueryHandler {
		return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
			queryType := reflect.TypeOf(query).Name()
			var result interface{}
			err := tracer.Trace(ctx, "query."+queryType, func(ctx context.Context) error {
				var innerErr error
				result, innerErr = next.Handle(ctx, query)
				return innerErr
			})
			return result, err
		})
	}
}

// Errors
var (
	ErrHandlerNotFound = errors.New("query handler not found")
)
