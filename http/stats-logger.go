package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/programme-lv/resolver/logger"
)

type endpointStats struct {
	count     int
	totalTime time.Duration
}

// statsLogger aggregates request counts and latency per route pattern and
// logs them every flushInterval until ctx is done.
type statsLogger struct {
	stats         map[string]*endpointStats
	mu            sync.Mutex
	flushInterval time.Duration
}

func newStatsLogger(ctx context.Context, flushInterval time.Duration) *statsLogger {
	sl := &statsLogger{
		stats:         make(map[string]*endpointStats),
		flushInterval: flushInterval,
	}
	go sl.periodicFlush(ctx)
	return sl
}

func (sl *statsLogger) periodicFlush(ctx context.Context) {
	ticker := time.NewTicker(sl.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			sl.flushStats(ctx)
			return
		case <-ticker.C:
			sl.flushStats(ctx)
		}
	}
}

func (sl *statsLogger) flushStats(ctx context.Context) {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	for endpoint, stats := range sl.stats {
		if stats.count == 0 {
			continue
		}
		avgTimeMs := float64(stats.totalTime.Microseconds()) / float64(stats.count) / 1000.0
		logger.FromContext(ctx).Info("endpoint stats",
			"endpoint", endpoint,
			"count", stats.count,
			"avg_time_ms", fmt.Sprintf("%.2f", avgTimeMs),
			"period", sl.flushInterval,
		)
		stats.count = 0
		stats.totalTime = 0
	}
}

func (sl *statsLogger) record(endpoint string, d time.Duration) {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if _, exists := sl.stats[endpoint]; !exists {
		sl.stats[endpoint] = &endpointStats{}
	}
	sl.stats[endpoint].count++
	sl.stats[endpoint].totalTime += d
}

func (sl *statsLogger) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		// the pattern is only known once routing is done
		pattern := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			pattern = rctx.RoutePattern()
		}
		sl.record(fmt.Sprintf("%s %s", r.Method, pattern), time.Since(start))
	})
}
